package services

import (
	"context"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
)

// AuditRecord is one mutation to append to the audit log.
type AuditRecord struct {
	OrganizationID string
	UserID         string
	EntryID        *string
	EntityType     domain.AuditEntityType
	EntityID       string
	Action         domain.AuditAction
	PreviousData   any
	NewData        any
}

// AuditSvc appends and reads the audit log.
type AuditSvc interface {
	// Record appends one audit log. It must be called with the ctx of the
	// transaction carrying the primary effect.
	Record(ctx context.Context, rec AuditRecord) error

	ListAuditLogs(ctx context.Context, orgID string, params dto.ListAuditLogsParams, userID string) (*dto.ListAuditLogsResponse, error)
}
