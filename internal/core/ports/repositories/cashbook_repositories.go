package repositories

import (
	"context"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
)

// CashbookReader defines read operations for cashbooks and their members.
type CashbookReader interface {
	FindCashbookByID(ctx context.Context, orgID, cashbookID string) (*domain.Cashbook, error)

	// LockCashbookShared reads the cashbook and holds a shared row lock until the
	// surrounding transaction ends, so its policy cannot change concurrently.
	LockCashbookShared(ctx context.Context, orgID, cashbookID string) (*domain.Cashbook, error)
	ListCashbooks(ctx context.Context, orgID string) ([]domain.Cashbook, error)

	// FindCashbookMember returns apperrors.ErrNotFound when the user holds no role on the cashbook.
	FindCashbookMember(ctx context.Context, cashbookID, userID string) (*domain.CashbookMember, error)
	ListCashbookMembers(ctx context.Context, cashbookID string) ([]domain.CashbookMember, error)

	// ListCashbookIDsForMember returns the cashbooks of the organization the user is a member of.
	ListCashbookIDsForMember(ctx context.Context, orgID, userID string) ([]string, error)
}

// CashbookWriter defines write operations for cashbooks and their members.
type CashbookWriter interface {
	SaveCashbook(ctx context.Context, cashbook domain.Cashbook) error
	UpdateCashbook(ctx context.Context, cashbook domain.Cashbook) error

	// DeleteCashbook removes the cashbook with its members, accounts, entries and
	// delete requests. Audit logs are kept.
	DeleteCashbook(ctx context.Context, orgID, cashbookID string) error

	// UpsertCashbookMember inserts the member or replaces its role.
	UpsertCashbookMember(ctx context.Context, member domain.CashbookMember) error
	DeleteCashbookMember(ctx context.Context, cashbookID, userID string) error
}

// CashbookRepositoryFacade combines all cashbook repository interfaces.
type CashbookRepositoryFacade interface {
	CashbookReader
	CashbookWriter
}
