package repositories

import (
	"context"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
)

// ContactRepositoryFacade persists organization contacts.
type ContactRepositoryFacade interface {
	SaveContact(ctx context.Context, contact domain.Contact) error
	FindContactByID(ctx context.Context, orgID, contactID string) (*domain.Contact, error)
	ListContacts(ctx context.Context, orgID string, search string) ([]domain.Contact, error)
	UpdateContact(ctx context.Context, contact domain.Contact) error

	// DeleteContact removes the contact and clears it from entries that referenced it.
	DeleteContact(ctx context.Context, orgID, contactID string) error
}
