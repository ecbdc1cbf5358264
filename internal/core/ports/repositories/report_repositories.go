package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
)

// ReportRepositoryFacade persists report job descriptors.
type ReportRepositoryFacade interface {
	SaveReport(ctx context.Context, report domain.Report) error
	FindReportByID(ctx context.Context, orgID, reportID string) (*domain.Report, error)
	ListReports(ctx context.Context, orgID string, limit, offset int) ([]domain.Report, int, error)
	UpdateReport(ctx context.Context, report domain.Report) error

	// ListStaleReports returns non-terminal reports last updated before the cutoff.
	ListStaleReports(ctx context.Context, updatedBefore time.Time) ([]domain.Report, error)
}

// NotificationRepository stores in-app notifications.
type NotificationRepository interface {
	SaveNotification(ctx context.Context, n domain.Notification) error
}
