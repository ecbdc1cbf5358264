package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cashbook_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAuditRepository is the append-only audit store.
type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

func (r *PgxAuditRepository) SaveAuditLog(ctx context.Context, l domain.AuditLog) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO audit_logs (audit_log_id, organization_id, user_id, entry_id, entity_type, entity_id,
			action, previous_data, new_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		l.AuditLogID, l.OrganizationID, l.UserID, l.EntryID, l.EntityType, l.EntityID,
		l.Action, nullJSON(l.PreviousData), nullJSON(l.NewData), l.Timestamp)
	if err != nil {
		return fmt.Errorf("save audit log: %w", err)
	}
	return nil
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// ListAuditLogs pages newest first using a keyset cursor on (created_at, audit_log_id).
func (r *PgxAuditRepository) ListAuditLogs(ctx context.Context, orgID string, f domain.AuditFilter) ([]domain.AuditLog, *string, error) {
	conds := []string{"organization_id = $1"}
	args := []any{orgID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.EntityType != nil {
		add("entity_type = $%d", string(*f.EntityType))
	}
	if f.EntityID != nil {
		add("entity_id = $%d", *f.EntityID)
	}
	if f.EntryID != nil {
		add("entry_id = $%d", *f.EntryID)
	}
	if f.UserID != nil {
		add("user_id = $%d", *f.UserID)
	}
	if f.Action != nil {
		add("action = $%d", string(*f.Action))
	}
	if f.NextToken != nil && *f.NextToken != "" {
		cursor, err := pagination.DecodeCursor(*f.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken: %v", err)
		}
		args = append(args, cursor.Timestamp, cursor.ID)
		conds = append(conds, fmt.Sprintf("(created_at, audit_log_id) < ($%d, $%d)", len(args)-1, len(args)))
	}
	args = append(args, f.Limit+1)

	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(`
		SELECT audit_log_id, organization_id, user_id, entry_id, entity_type, entity_id, action,
			previous_data, new_data, created_at
		FROM audit_logs WHERE %s
		ORDER BY created_at DESC, audit_log_id DESC LIMIT $%d`, strings.Join(conds, " AND "), len(args)),
		args...)
	if err != nil {
		return nil, nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.AuditLog{}
	for rows.Next() {
		var l domain.AuditLog
		var prev, next []byte
		if err := rows.Scan(&l.AuditLogID, &l.OrganizationID, &l.UserID, &l.EntryID, &l.EntityType, &l.EntityID,
			&l.Action, &prev, &next, &l.Timestamp); err != nil {
			return nil, nil, fmt.Errorf("scan audit log: %w", err)
		}
		l.PreviousData, l.NewData = prev, next
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate audit logs: %w", err)
	}

	var nextToken *string
	if len(logs) > f.Limit {
		logs = logs[:f.Limit]
		last := logs[len(logs)-1]
		token := pagination.EncodeCursor(last.Timestamp, last.AuditLogID)
		nextToken = &token
	}
	return logs, nextToken, nil
}
