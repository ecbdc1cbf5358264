package repositories

import (
	"context"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
)

// DeleteRequestRepositoryFacade persists delete requests.
type DeleteRequestRepositoryFacade interface {
	// SaveDeleteRequest inserts a request. A second PENDING request for the same
	// entry returns apperrors.ErrDuplicate.
	SaveDeleteRequest(ctx context.Context, req domain.DeleteRequest) error
	FindDeleteRequestByID(ctx context.Context, orgID, requestID string) (*domain.DeleteRequest, error)

	// LockDeleteRequest reads the request and holds a row lock until the transaction ends.
	LockDeleteRequest(ctx context.Context, orgID, requestID string) (*domain.DeleteRequest, error)
	UpdateDeleteRequest(ctx context.Context, req domain.DeleteRequest) error
	ListDeleteRequests(ctx context.Context, orgID string, filter domain.DeleteRequestFilter) ([]domain.DeleteRequest, error)
	CountPendingDeleteRequests(ctx context.Context, orgID string, scope domain.CashbookScope) (int, error)
}
