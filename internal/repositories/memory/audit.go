package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cashbook_ledger/internal/utils/pagination"
)

var _ portsrepo.AuditRepositoryFacade = (*Store)(nil)

func (s *Store) SaveAuditLog(ctx context.Context, l domain.AuditLog) error {
	return s.write(ctx, func(d *state) error {
		d.auditLogs = append(d.auditLogs, l)
		return nil
	})
}

func (s *Store) ListAuditLogs(ctx context.Context, orgID string, f domain.AuditFilter) ([]domain.AuditLog, *string, error) {
	var cursor *pagination.Cursor
	if f.NextToken != nil && *f.NextToken != "" {
		c, err := pagination.DecodeCursor(*f.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken: %v", err)
		}
		cursor = &c
	}

	var matched []domain.AuditLog
	s.read(ctx, func(d *state) {
		for _, l := range d.auditLogs {
			switch {
			case l.OrganizationID != orgID,
				f.EntityType != nil && l.EntityType != *f.EntityType,
				f.EntityID != nil && l.EntityID != *f.EntityID,
				f.EntryID != nil && (l.EntryID == nil || *l.EntryID != *f.EntryID),
				f.UserID != nil && l.UserID != *f.UserID,
				f.Action != nil && l.Action != *f.Action,
				cursor != nil && !cursor.Before(l.Timestamp, l.AuditLogID):
				continue
			}
			matched = append(matched, l)
		}
	})
	slices.SortFunc(matched, func(a, b domain.AuditLog) int {
		return cmp.Or(b.Timestamp.Compare(a.Timestamp), cmp.Compare(b.AuditLogID, a.AuditLogID))
	})

	var nextToken *string
	if len(matched) > f.Limit {
		matched = matched[:f.Limit]
		last := matched[len(matched)-1]
		token := pagination.EncodeCursor(last.Timestamp, last.AuditLogID)
		nextToken = &token
	}
	if matched == nil {
		matched = []domain.AuditLog{}
	}
	return matched, nextToken, nil
}
