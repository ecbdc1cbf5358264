package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/core/ports/capabilities"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportOutbox enqueues report jobs into the report_jobs table, where an
// external worker claims them. Enqueueing inside the caller's transaction
// means a job exists exactly when its report row does.
type ReportOutbox struct {
	BaseRepository
}

// NewReportOutbox creates a ReportOutbox on the pool.
func NewReportOutbox(pool *pgxpool.Pool) *ReportOutbox {
	return &ReportOutbox{BaseRepository{Pool: pool}}
}

var _ capabilities.ReportQueue = (*ReportOutbox)(nil)

func (o *ReportOutbox) EnqueueReportJob(ctx context.Context, job domain.ReportJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode report job: %w", err)
	}
	_, err = o.conn(ctx).Exec(ctx, `
		INSERT INTO report_jobs (report_id, organization_id, payload) VALUES ($1, $2, $3)
		ON CONFLICT (report_id) DO NOTHING`,
		job.ReportID, job.OrganizationID, string(payload))
	if err != nil {
		return fmt.Errorf("enqueue report job %s: %w", job.ReportID, err)
	}
	return nil
}
