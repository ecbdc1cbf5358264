package services

import (
	"context"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for accounts.
type AccountReaderSvc interface {
	GetAccount(ctx context.Context, orgID string, accountID string, userID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, orgID string, params dto.ListAccountsParams, userID string) ([]domain.Account, error)
	GetAccountBalance(ctx context.Context, orgID string, accountID string, userID string) (decimal.Decimal, error)
	GetOpeningBalance(ctx context.Context, orgID string, accountID string, asOf time.Time, userID string) (decimal.Decimal, error)
}

// AccountWriterSvc defines write operations for accounts.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, orgID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, orgID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// ArchiveAccount marks the account archived. Archiving is forward-only.
	ArchiveAccount(ctx context.Context, orgID string, accountID string, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
