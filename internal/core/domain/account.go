package domain

import "time"

// AccountType classifies where the money of an account is held.
type AccountType string

const (
	AccountTypeCash   AccountType = "CASH"
	AccountTypeBank   AccountType = "BANK"
	AccountTypeCard   AccountType = "CARD"
	AccountTypeWallet AccountType = "WALLET"
	AccountTypeOther  AccountType = "OTHER"
)

// Account is a balance-bearing ledger target belonging to exactly one cashbook.
// Its balance is never stored; it is always derived from entries.
type Account struct {
	AccountID      string      `json:"accountID"`
	OrganizationID string      `json:"organizationID"` // denormalized from the cashbook
	CashbookID     string      `json:"cashbookID"`
	Name           string      `json:"name"`
	AccountType    AccountType `json:"accountType"`
	Currency       string      `json:"currency"`
	Description    string      `json:"description"`
	IsArchived     bool        `json:"isArchived"` // forward-only
	ArchivedAt     *time.Time  `json:"archivedAt,omitempty"`
	AuditFields
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	CashbookID      *string
	Scope           CashbookScope
	IncludeArchived bool
}
