package services

import (
	"context"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
)

// ReportSvc tracks report jobs produced by the external worker.
type ReportSvc interface {
	CreateReport(ctx context.Context, orgID string, req dto.CreateReportRequest, userID string) (*domain.Report, error)
	ListReports(ctx context.Context, orgID string, params dto.ListReportsParams, userID string) (*dto.ListReportsResponse, error)
	GetReportDownloadURL(ctx context.Context, orgID string, reportID string, userID string) (*domain.ReportDownload, error)

	// UpdateReportStatus is the worker callback.
	UpdateReportStatus(ctx context.Context, orgID string, reportID string, req dto.UpdateReportStatusRequest) (*domain.Report, error)

	// FailStaleReports fails reports stuck in a non-terminal status since before the cutoff.
	FailStaleReports(ctx context.Context, updatedBefore time.Time) (int, error)
}
