package dto

import "github.com/SscSPs/cashbook_ledger/internal/core/domain"

// CreateContactRequest defines the data needed to create a contact.
type CreateContactRequest struct {
	Name        string             `json:"name" binding:"required,max=120"`
	ContactType domain.ContactType `json:"contactType" binding:"required,oneof=CUSTOMER VENDOR EMPLOYEE OTHER"`
	Email       string             `json:"email" binding:"omitempty,email"`
	Phone       string             `json:"phone" binding:"max=40"`
	Notes       string             `json:"notes" binding:"max=1000"`
}

// UpdateContactRequest defines the fields of a contact that may change.
type UpdateContactRequest struct {
	Name        *string             `json:"name" binding:"omitempty,min=1,max=120"`
	ContactType *domain.ContactType `json:"contactType" binding:"omitempty,oneof=CUSTOMER VENDOR EMPLOYEE OTHER"`
	Email       *string             `json:"email" binding:"omitempty,email"`
	Phone       *string             `json:"phone" binding:"omitempty,max=40"`
	Notes       *string             `json:"notes" binding:"omitempty,max=1000"`
}
