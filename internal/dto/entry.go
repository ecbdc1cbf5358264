package dto

import (
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AttachmentInput references a file already uploaded to object storage.
type AttachmentInput struct {
	FileKey     string `json:"fileKey" binding:"required,max=512"`
	FileName    string `json:"fileName" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"max=120"`
	Size        int64  `json:"size" binding:"gte=0"`
}

// CreateEntryRequest defines the data needed to record a ledger entry.
// The entry currency is taken from the account.
type CreateEntryRequest struct {
	AccountID       string               `json:"accountID" binding:"required"`
	ContactID       *string              `json:"contactID"`
	Type            domain.EntryType     `json:"type" binding:"required,oneof=INFLOW OUTFLOW ADJUSTMENT"`
	Category        domain.EntryCategory `json:"entryCategory" binding:"omitempty,oneof=NORMAL BACKDATED OMITTED"` // defaults to NORMAL
	Amount          decimal.Decimal      `json:"amount" binding:"required,gt=0"`
	Description     string               `json:"description" binding:"max=500"`
	Reference       string               `json:"reference" binding:"max=120"`
	Reason          *string              `json:"reason" binding:"omitempty,max=500"`
	TransactionDate time.Time            `json:"transactionDate" binding:"required"`
	Attachments     []AttachmentInput    `json:"attachments" binding:"max=4,dive"`
}

// UpdateEntryRequest carries the only fields of an entry that may be edited.
type UpdateEntryRequest struct {
	Description     *string          `json:"description" binding:"omitempty,max=500"`
	Reference       *string          `json:"reference" binding:"omitempty,max=120"`
	Amount          *decimal.Decimal `json:"amount" binding:"omitempty,gt=0"`
	TransactionDate *time.Time       `json:"transactionDate"`
	EditReason      *string          `json:"editReason" binding:"omitempty,max=500"`
}

// ReverseEntryRequest defines the data needed to reverse an entry.
type ReverseEntryRequest struct {
	Reason    string  `json:"reason" binding:"required,max=500"`
	Reference *string `json:"reference" binding:"omitempty,max=120"`
}

// ListEntriesParams defines the query parameters for listing entries.
type ListEntriesParams struct {
	CashbookID      *string               `form:"cashbookId"`
	AccountID       *string               `form:"accountId"`
	ContactID       *string               `form:"contactId"`
	Type            *domain.EntryType     `form:"type" binding:"omitempty,oneof=INFLOW OUTFLOW ADJUSTMENT"`
	Category        *domain.EntryCategory `form:"entryCategory" binding:"omitempty,oneof=NORMAL BACKDATED OMITTED"`
	Statuses        []domain.EntryStatus  `form:"status" binding:"omitempty,dive,oneof=ACTIVE REVERSED PENDING_DELETE_APPROVAL DELETED"`
	TransferGroupID *string               `form:"transferGroupId"`
	StartDate       *time.Time            `form:"startDate" time_format:"2006-01-02"`
	EndDate         *time.Time            `form:"endDate" time_format:"2006-01-02"`
	Search          string                `form:"search" binding:"max=120"`
	IsReconciled    *bool                 `form:"isReconciled"`
	Page            int                   `form:"page"`
	Limit           int                   `form:"limit"`
}

// CreateTransferRequest moves money between two accounts of the organization.
// For cross-currency transfers exactly one of ToAmount and ExchangeRate is required.
type CreateTransferRequest struct {
	FromAccountID   string           `json:"fromAccountID" binding:"required"`
	ToAccountID     string           `json:"toAccountID" binding:"required"`
	Amount          decimal.Decimal  `json:"amount" binding:"required,gt=0"`
	ToAmount        *decimal.Decimal `json:"toAmount" binding:"omitempty,gt=0"`
	ExchangeRate    *decimal.Decimal `json:"exchangeRate" binding:"omitempty,gt=0"`
	Description     string           `json:"description" binding:"max=500"`
	Reference       string           `json:"reference" binding:"max=120"`
	TransactionDate *time.Time       `json:"transactionDate"` // defaults to now
}
