package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the direction of a ledger entry. Amounts are always positive;
// the sign is applied only when balances are folded.
type EntryType string

const (
	EntryTypeInflow     EntryType = "INFLOW"
	EntryTypeOutflow    EntryType = "OUTFLOW"
	EntryTypeAdjustment EntryType = "ADJUSTMENT"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypeInflow, EntryTypeOutflow, EntryTypeAdjustment:
		return true
	}
	return false
}

// Sign returns +1 for types that add to a balance and -1 for types that subtract.
func (t EntryType) Sign() decimal.Decimal {
	switch t {
	case EntryTypeInflow, EntryTypeAdjustment:
		return decimal.NewFromInt(1)
	case EntryTypeOutflow:
		return decimal.NewFromInt(-1)
	}
	panic(fmt.Sprintf("unknown entry type %q", string(t)))
}

// Opposite returns the type a reversal of t is booked as.
// ADJUSTMENT always adds, so OUTFLOW is its exact inverse.
func (t EntryType) Opposite() EntryType {
	switch t {
	case EntryTypeInflow:
		return EntryTypeOutflow
	case EntryTypeOutflow:
		return EntryTypeInflow
	case EntryTypeAdjustment:
		return EntryTypeOutflow
	}
	panic(fmt.Sprintf("unknown entry type %q", string(t)))
}

// EntryCategory records whether an entry was booked on time.
type EntryCategory string

const (
	EntryCategoryNormal    EntryCategory = "NORMAL"
	EntryCategoryBackdated EntryCategory = "BACKDATED"
	EntryCategoryOmitted   EntryCategory = "OMITTED"
)

// Valid reports whether c is a known category.
func (c EntryCategory) Valid() bool {
	switch c {
	case EntryCategoryNormal, EntryCategoryBackdated, EntryCategoryOmitted:
		return true
	}
	return false
}

// EntryStatus is the lifecycle state of a ledger entry.
type EntryStatus string

const (
	EntryStatusActive                EntryStatus = "ACTIVE"
	EntryStatusReversed              EntryStatus = "REVERSED"
	EntryStatusPendingDeleteApproval EntryStatus = "PENDING_DELETE_APPROVAL"
	EntryStatusDeleted               EntryStatus = "DELETED"
)

// Valid reports whether s is a known status.
func (s EntryStatus) Valid() bool {
	switch s {
	case EntryStatusActive, EntryStatusReversed, EntryStatusPendingDeleteApproval, EntryStatusDeleted:
		return true
	}
	return false
}

// CountsTowardBalance reports whether entries in this status are folded into balances.
// An entry awaiting a delete decision still counts until the delete is approved.
func (s EntryStatus) CountsTowardBalance() bool {
	switch s {
	case EntryStatusActive, EntryStatusPendingDeleteApproval:
		return true
	case EntryStatusReversed, EntryStatusDeleted:
		return false
	}
	return false
}

// MaxAttachments is the number of files an entry may carry.
const MaxAttachments = 4

// Attachment is a reference to a stored file; the bytes live in object storage.
type Attachment struct {
	AttachmentID string    `json:"attachmentID"`
	EntryID      string    `json:"entryID"`
	FileKey      string    `json:"fileKey"`
	FileName     string    `json:"fileName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LedgerEntry is a single signed financial fact against an account.
type LedgerEntry struct {
	EntryID         string           `json:"entryID"`
	OrganizationID  string           `json:"organizationID"`
	CashbookID      string           `json:"cashbookID"` // denormalized from the account
	AccountID       string           `json:"accountID"`
	CreatedByID     string           `json:"createdByID"`
	ContactID       *string          `json:"contactID,omitempty"`
	Type            EntryType        `json:"type"`
	Category        EntryCategory    `json:"entryCategory"`
	Amount          decimal.Decimal  `json:"amount"` // always > 0
	Currency        string           `json:"currency"`
	Description     string           `json:"description"`
	Reference       string           `json:"reference"`
	Reason          *string          `json:"reason,omitempty"`
	TransactionDate time.Time        `json:"transactionDate"`
	Status          EntryStatus      `json:"status"`
	VoucherNumber   string           `json:"voucherNumber"`
	IdempotencyKey  *string          `json:"idempotencyKey,omitempty"`
	TransferGroupID *string          `json:"transferGroupID,omitempty"`
	ExchangeRate    *decimal.Decimal `json:"exchangeRate,omitempty"` // transfer legs only
	ReversalOfID    *string          `json:"reversalOfID,omitempty"`
	ReversedByID    *string          `json:"reversedByID,omitempty"`

	IsReconciled bool       `json:"isReconciled"`
	ReconciledAt *time.Time `json:"reconciledAt,omitempty"`

	IsEdited       bool       `json:"isEdited"`
	EditReason     *string    `json:"editReason,omitempty"`
	LastEditedByID *string    `json:"lastEditedByID,omitempty"`
	LastEditedAt   *time.Time `json:"lastEditedAt,omitempty"`

	DeleteRequestedByID *string    `json:"deleteRequestedByID,omitempty"`
	DeletedReason       *string    `json:"deletedReason,omitempty"`
	ApprovedByID        *string    `json:"approvedByID,omitempty"`
	ApprovedAt          *time.Time `json:"approvedAt,omitempty"`

	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// SignedAmount is the entry's contribution to its account balance, or zero when
// its status is excluded from balances.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if !e.Status.CountsTowardBalance() {
		return decimal.Zero
	}
	return e.Amount.Mul(e.Type.Sign())
}

// IsReversible reports whether the entry can still be reversed.
func (e *LedgerEntry) IsReversible() bool {
	return e.Status == EntryStatusActive && e.ReversedByID == nil
}

// EntryFilter narrows entry listings. Page is 1-based.
type EntryFilter struct {
	Scope           CashbookScope
	CashbookID      *string
	AccountID       *string
	ContactID       *string
	Type            *EntryType
	Category        *EntryCategory
	Statuses        []EntryStatus // empty means every status except DELETED
	TransferGroupID *string
	StartDate       *time.Time // inclusive
	EndDate         *time.Time // inclusive
	Search          string
	IsReconciled    *bool
	Page            int
	Limit           int
}

// Offset converts the 1-based page into a row offset.
func (f EntryFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// EffectiveStatuses returns the statuses a listing should match.
func (f EntryFilter) EffectiveStatuses() []EntryStatus {
	if len(f.Statuses) > 0 {
		return f.Statuses
	}
	return []EntryStatus{EntryStatusActive, EntryStatusReversed, EntryStatusPendingDeleteApproval}
}

// LedgerContext carries the balances that frame an account-scoped listing.
type LedgerContext struct {
	AccountID      string           `json:"accountID"`
	Currency       string           `json:"currency"`
	OpeningBalance *decimal.Decimal `json:"openingBalance,omitempty"`
	ClosingBalance *decimal.Decimal `json:"closingBalance,omitempty"`
	CurrentBalance decimal.Decimal  `json:"currentBalance"`
	// PageMovement is the signed sum of the counted entries on this page.
	PageMovement decimal.Decimal `json:"pageMovement"`
}

// EntryPage is one page of a filtered entry listing.
type EntryPage struct {
	Data          []LedgerEntry  `json:"data"`
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
	LedgerContext *LedgerContext `json:"ledgerContext,omitempty"`
}

// TransferResult holds the two legs of a transfer.
type TransferResult struct {
	TransferGroupID string      `json:"transferGroupID"`
	Debit           LedgerEntry `json:"debit"`
	Credit          LedgerEntry `json:"credit"`
}
