package repositories

import (
	"context"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
)

// AuditRepositoryFacade is the append-only audit store. There is deliberately
// no update or delete.
type AuditRepositoryFacade interface {
	SaveAuditLog(ctx context.Context, log domain.AuditLog) error

	// ListAuditLogs returns logs newest first and a token for the next page, if any.
	ListAuditLogs(ctx context.Context, orgID string, filter domain.AuditFilter) ([]domain.AuditLog, *string, error)
}
