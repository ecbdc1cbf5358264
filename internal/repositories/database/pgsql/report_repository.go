package pgsql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReportRepository persists report job descriptors.
type PgxReportRepository struct {
	BaseRepository
}

func newPgxReportRepository(pool *pgxpool.Pool) *PgxReportRepository {
	return &PgxReportRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportRepositoryFacade = (*PgxReportRepository)(nil)

const reportColumns = `report_id, organization_id, requested_by_id, report_type, report_format, parameters,
	status, file_url, file_key, expires_at, error_message, created_at, updated_at, completed_at`

func scanReport(row pgx.Row) (*domain.Report, error) {
	var rep domain.Report
	var params []byte
	err := row.Scan(&rep.ReportID, &rep.OrganizationID, &rep.RequestedByID, &rep.Type, &rep.Format, &params,
		&rep.Status, &rep.FileURL, &rep.FileKey, &rep.ExpiresAt, &rep.ErrorMessage, &rep.CreatedAt, &rep.UpdatedAt,
		&rep.CompletedAt)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &rep.Parameters); err != nil {
			return nil, fmt.Errorf("decode report parameters: %w", err)
		}
	}
	return &rep, nil
}

func (r *PgxReportRepository) SaveReport(ctx context.Context, rep domain.Report) error {
	params, err := json.Marshal(rep.Parameters)
	if err != nil {
		return fmt.Errorf("encode report parameters: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `INSERT INTO reports (`+reportColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		rep.ReportID, rep.OrganizationID, rep.RequestedByID, rep.Type, rep.Format, string(params),
		rep.Status, rep.FileURL, rep.FileKey, rep.ExpiresAt, rep.ErrorMessage, rep.CreatedAt, rep.UpdatedAt,
		rep.CompletedAt)
	if err != nil {
		return fmt.Errorf("save report %s: %w", rep.ReportID, err)
	}
	return nil
}

func (r *PgxReportRepository) FindReportByID(ctx context.Context, orgID, reportID string) (*domain.Report, error) {
	rep, err := scanReport(r.conn(ctx).QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE organization_id = $1 AND report_id = $2`, orgID, reportID))
	if err != nil {
		return nil, notFoundOr(err, "report %s", reportID)
	}
	return rep, nil
}

func (r *PgxReportRepository) ListReports(ctx context.Context, orgID string, limit, offset int) ([]domain.Report, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE organization_id = $1`, orgID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}
	reports, err := r.queryReports(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE organization_id = $1
		ORDER BY created_at DESC, report_id DESC LIMIT $2 OFFSET $3`, orgID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *PgxReportRepository) ListStaleReports(ctx context.Context, updatedBefore time.Time) ([]domain.Report, error) {
	return r.queryReports(ctx, `SELECT `+reportColumns+` FROM reports
		WHERE status IN ('PENDING', 'PROCESSING') AND updated_at < $1 ORDER BY updated_at`, updatedBefore)
}

func (r *PgxReportRepository) queryReports(ctx context.Context, sql string, args ...any) ([]domain.Report, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, *rep)
	}
	return reports, rows.Err()
}

func (r *PgxReportRepository) UpdateReport(ctx context.Context, rep domain.Report) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE reports SET status = $3, file_url = $4, file_key = $5, expires_at = $6, error_message = $7,
			updated_at = $8, completed_at = $9
		WHERE organization_id = $1 AND report_id = $2`,
		rep.OrganizationID, rep.ReportID, rep.Status, rep.FileURL, rep.FileKey, rep.ExpiresAt, rep.ErrorMessage,
		rep.UpdatedAt, rep.CompletedAt)
	if err != nil {
		return fmt.Errorf("update report %s: %w", rep.ReportID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("report " + rep.ReportID)
	}
	return nil
}
