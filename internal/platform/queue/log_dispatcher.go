package queue

import (
	"context"
	"log/slog"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
)

// LogDispatcher returns a JobHandler that only records the hand-off. It backs
// the memory storage driver, where no external report worker is attached.
func LogDispatcher(logger *slog.Logger) JobHandler {
	return func(_ context.Context, job domain.ReportJob) error {
		logger.Info("Report job ready for worker",
			slog.String("report_id", job.ReportID),
			slog.String("organization_id", job.OrganizationID),
			slog.String("type", string(job.Type)),
			slog.String("format", string(job.Format)),
		)
		return nil
	}
}
