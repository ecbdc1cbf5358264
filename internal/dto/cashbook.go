package dto

import (
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
)

// CreateCashbookRequest defines the data needed to create a cashbook.
type CreateCashbookRequest struct {
	Name           string     `json:"name" binding:"required,max=120"`
	Description    string     `json:"description" binding:"max=500"`
	Currency       string     `json:"currency" binding:"required,len=3,uppercase"`
	AllowBackdated bool       `json:"allowBackdated"`
	AllowOmitted   bool       `json:"allowOmitted"`
	LockDate       *time.Time `json:"lockDate"`
}

// UpdateCashbookRequest defines the fields an owner or admin may change.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateCashbookRequest struct {
	Name           *string    `json:"name" binding:"omitempty,min=1,max=120"`
	Description    *string    `json:"description" binding:"omitempty,max=500"`
	AllowBackdated *bool      `json:"allowBackdated"`
	AllowOmitted   *bool      `json:"allowOmitted"`
	LockDate       *time.Time `json:"lockDate"`
	ClearLockDate  bool       `json:"clearLockDate"` // removes the lock date; LockDate is ignored
}

// AddCashbookMemberRequest grants or changes a user's role on a cashbook.
type AddCashbookMemberRequest struct {
	UserID string              `json:"userID" binding:"required"`
	Role   domain.CashbookRole `json:"role" binding:"required,oneof=VIEWER EDITOR APPROVER"`
}

// CashbookResponse defines the data returned for a cashbook.
type CashbookResponse struct {
	CashbookID     string     `json:"cashbookID"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Currency       string     `json:"currency"`
	AllowBackdated bool       `json:"allowBackdated"`
	AllowOmitted   bool       `json:"allowOmitted"`
	LockDate       *time.Time `json:"lockDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	CreatedBy      string     `json:"createdBy"`
}

// ToCashbookResponse converts a domain.Cashbook to CashbookResponse DTO.
func ToCashbookResponse(c *domain.Cashbook) CashbookResponse {
	return CashbookResponse{
		CashbookID:     c.CashbookID,
		Name:           c.Name,
		Description:    c.Description,
		Currency:       c.Currency,
		AllowBackdated: c.AllowBackdated,
		AllowOmitted:   c.AllowOmitted,
		LockDate:       c.LockDate,
		CreatedAt:      c.CreatedAt,
		CreatedBy:      c.CreatedBy,
	}
}

// ToCashbookResponses converts a slice of cashbooks.
func ToCashbookResponses(cashbooks []domain.Cashbook) []CashbookResponse {
	out := make([]CashbookResponse, len(cashbooks))
	for i := range cashbooks {
		out[i] = ToCashbookResponse(&cashbooks[i])
	}
	return out
}
