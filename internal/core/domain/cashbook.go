package domain

import "time"

// Cashbook is a named financial container scoped to one organization.
// It owns accounts and members and carries the entry policy.
type Cashbook struct {
	CashbookID     string     `json:"cashbookID"`
	OrganizationID string     `json:"organizationID"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Currency       string     `json:"currency"`
	AllowBackdated bool       `json:"allowBackdated"`
	AllowOmitted   bool       `json:"allowOmitted"`
	LockDate       *time.Time `json:"lockDate,omitempty"` // entries dated before this are rejected
	AuditFields
}

// IsLocked reports whether a transaction date falls before the cashbook lock date.
func (c *Cashbook) IsLocked(transactionDate time.Time) bool {
	return c.LockDate != nil && transactionDate.Before(*c.LockDate)
}

// AllowsCategory reports whether the cashbook policy permits entries of the category.
func (c *Cashbook) AllowsCategory(category EntryCategory) bool {
	switch category {
	case EntryCategoryNormal:
		return true
	case EntryCategoryBackdated:
		return c.AllowBackdated
	case EntryCategoryOmitted:
		return c.AllowOmitted
	}
	return false
}

// CashbookRole is a member's role on a single cashbook.
type CashbookRole string

const (
	CashbookRoleViewer   CashbookRole = "VIEWER"
	CashbookRoleEditor   CashbookRole = "EDITOR"
	CashbookRoleApprover CashbookRole = "APPROVER"
)

// Valid reports whether the role is one of the known roles.
func (r CashbookRole) Valid() bool {
	switch r {
	case CashbookRoleViewer, CashbookRoleEditor, CashbookRoleApprover:
		return true
	}
	return false
}

// CanWrite reports whether the role may create or modify entries.
func (r CashbookRole) CanWrite() bool {
	switch r {
	case CashbookRoleEditor, CashbookRoleApprover:
		return true
	case CashbookRoleViewer:
		return false
	}
	return false
}

// CanApprove reports whether the role may resolve delete requests.
func (r CashbookRole) CanApprove() bool {
	switch r {
	case CashbookRoleApprover:
		return true
	case CashbookRoleViewer, CashbookRoleEditor:
		return false
	}
	return false
}

// CashbookMember grants a user a role on a cashbook. Unique per (cashbook, user).
type CashbookMember struct {
	CashbookID string       `json:"cashbookID"`
	UserID     string       `json:"userID"`
	Role       CashbookRole `json:"role"`
	AddedBy    string       `json:"addedBy"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}
