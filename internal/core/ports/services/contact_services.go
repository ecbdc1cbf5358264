package services

import (
	"context"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
)

// ContactSvcFacade manages organization contacts.
type ContactSvcFacade interface {
	CreateContact(ctx context.Context, orgID string, req dto.CreateContactRequest, userID string) (*domain.Contact, error)
	GetContact(ctx context.Context, orgID string, contactID string, userID string) (*domain.Contact, error)
	ListContacts(ctx context.Context, orgID string, search string, userID string) ([]domain.Contact, error)
	UpdateContact(ctx context.Context, orgID string, contactID string, req dto.UpdateContactRequest, userID string) (*domain.Contact, error)
	DeleteContact(ctx context.Context, orgID string, contactID string, userID string) error
}
