package dto

import "github.com/SscSPs/cashbook_ledger/internal/core/domain"

// ListAuditLogsParams defines the query parameters for listing audit logs.
type ListAuditLogsParams struct {
	EntityType *domain.AuditEntityType `form:"entityType"`
	EntityID   *string                 `form:"entityId"`
	EntryID    *string                 `form:"entryId"`
	UserID     *string                 `form:"userId"`
	Action     *domain.AuditAction     `form:"action"`
	Limit      int                     `form:"limit"`
	NextToken  *string                 `form:"nextToken"`
}

// ListAuditLogsResponse is one page of audit logs.
type ListAuditLogsResponse struct {
	Data      []domain.AuditLog `json:"data"`
	NextToken *string           `json:"nextToken,omitempty"`
}
