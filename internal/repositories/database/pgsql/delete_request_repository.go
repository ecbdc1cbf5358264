package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pendingDeleteIndex = "uq_delete_requests_pending"

// PgxDeleteRequestRepository persists delete requests.
type PgxDeleteRequestRepository struct {
	BaseRepository
}

func newPgxDeleteRequestRepository(pool *pgxpool.Pool) *PgxDeleteRequestRepository {
	return &PgxDeleteRequestRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.DeleteRequestRepositoryFacade = (*PgxDeleteRequestRepository)(nil)

const deleteRequestColumns = `request_id, organization_id, cashbook_id, entry_id, requested_by_id, reason,
	status, approved_by_id, rejected_by_id, rejection_reason, resolved_at, created_at`

func scanDeleteRequest(row pgx.Row) (*domain.DeleteRequest, error) {
	var d domain.DeleteRequest
	err := row.Scan(&d.RequestID, &d.OrganizationID, &d.CashbookID, &d.EntryID, &d.RequestedByID, &d.Reason,
		&d.Status, &d.ApprovedByID, &d.RejectedByID, &d.RejectionReason, &d.ResolvedAt, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxDeleteRequestRepository) SaveDeleteRequest(ctx context.Context, d domain.DeleteRequest) error {
	_, err := r.conn(ctx).Exec(ctx, `INSERT INTO delete_requests (`+deleteRequestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		d.RequestID, d.OrganizationID, d.CashbookID, d.EntryID, d.RequestedByID, d.Reason,
		d.Status, d.ApprovedByID, d.RejectedByID, d.RejectionReason, d.ResolvedAt, d.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, pendingDeleteIndex) {
			return fmt.Errorf("%w: entry %s already has a pending delete request", apperrors.ErrDuplicate, d.EntryID)
		}
		return fmt.Errorf("save delete request %s: %w", d.RequestID, err)
	}
	return nil
}

func (r *PgxDeleteRequestRepository) FindDeleteRequestByID(ctx context.Context, orgID, requestID string) (*domain.DeleteRequest, error) {
	d, err := scanDeleteRequest(r.conn(ctx).QueryRow(ctx,
		`SELECT `+deleteRequestColumns+` FROM delete_requests WHERE organization_id = $1 AND request_id = $2`,
		orgID, requestID))
	if err != nil {
		return nil, notFoundOr(err, "delete request %s", requestID)
	}
	return d, nil
}

func (r *PgxDeleteRequestRepository) LockDeleteRequest(ctx context.Context, orgID, requestID string) (*domain.DeleteRequest, error) {
	d, err := scanDeleteRequest(r.conn(ctx).QueryRow(ctx,
		`SELECT `+deleteRequestColumns+` FROM delete_requests WHERE organization_id = $1 AND request_id = $2 FOR UPDATE`,
		orgID, requestID))
	if err != nil {
		return nil, notFoundOr(err, "delete request %s", requestID)
	}
	return d, nil
}

func (r *PgxDeleteRequestRepository) UpdateDeleteRequest(ctx context.Context, d domain.DeleteRequest) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE delete_requests SET status = $3, approved_by_id = $4, rejected_by_id = $5,
			rejection_reason = $6, resolved_at = $7
		WHERE organization_id = $1 AND request_id = $2`,
		d.OrganizationID, d.RequestID, d.Status, d.ApprovedByID, d.RejectedByID, d.RejectionReason, d.ResolvedAt)
	if err != nil {
		return fmt.Errorf("update delete request %s: %w", d.RequestID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("delete request " + d.RequestID)
	}
	return nil
}

func deleteRequestWhere(orgID string, scope domain.CashbookScope, status *domain.DeleteRequestStatus) (string, []any) {
	conds := []string{"organization_id = $1"}
	args := []any{orgID}
	if !scope.All {
		args = append(args, scope.IDs)
		conds = append(conds, fmt.Sprintf("cashbook_id = ANY($%d)", len(args)))
	}
	if status != nil {
		args = append(args, string(*status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

func (r *PgxDeleteRequestRepository) ListDeleteRequests(ctx context.Context, orgID string, filter domain.DeleteRequestFilter) ([]domain.DeleteRequest, error) {
	if filter.Scope.Empty() {
		return []domain.DeleteRequest{}, nil
	}
	where, args := deleteRequestWhere(orgID, filter.Scope, filter.Status)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+deleteRequestColumns+` FROM delete_requests WHERE `+where+` ORDER BY created_at DESC, request_id DESC`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("list delete requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.DeleteRequest{}
	for rows.Next() {
		d, err := scanDeleteRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delete request: %w", err)
		}
		requests = append(requests, *d)
	}
	return requests, rows.Err()
}

func (r *PgxDeleteRequestRepository) CountPendingDeleteRequests(ctx context.Context, orgID string, scope domain.CashbookScope) (int, error) {
	if scope.Empty() {
		return 0, nil
	}
	pending := domain.DeleteRequestPending
	where, args := deleteRequestWhere(orgID, scope, &pending)
	var n int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM delete_requests WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending delete requests: %w", err)
	}
	return n, nil
}
