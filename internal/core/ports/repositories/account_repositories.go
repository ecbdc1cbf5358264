package repositories

import (
	"context"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves an account of the organization.
	FindAccountByID(ctx context.Context, orgID, accountID string) (*domain.Account, error)

	// LockAccountShared reads the account and holds a shared row lock until the
	// surrounding transaction ends, so it cannot be archived concurrently.
	LockAccountShared(ctx context.Context, orgID, accountID string) (*domain.Account, error)

	// ListAccounts lists accounts matching the filter, ordered by name.
	ListAccounts(ctx context.Context, orgID string, filter domain.AccountFilter) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
