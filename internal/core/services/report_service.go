package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/core/ports/capabilities"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/google/uuid"
)

const staleReportMessage = "report generation timed out"

// ReportDeps are the external collaborators of the report service.
type ReportDeps struct {
	Queue       capabilities.ReportQueue
	Signer      capabilities.FileURLSigner // optional; FileURL is returned as is without it
	Notifier    capabilities.Notifier
	DownloadTTL time.Duration
}

type reportService struct {
	BaseService
	tx          portsrepo.TransactionManager
	reportRepo  portsrepo.ReportRepositoryFacade
	queue       capabilities.ReportQueue
	signer      capabilities.FileURLSigner
	downloadTTL time.Duration
	notify      dispatcher
}

// NewReportService creates the report job service.
func NewReportService(repos portsrepo.RepositoryProvider, deps ReportDeps) portssvc.ReportSvc {
	base := newBaseService(repos.OrganizationRepo, repos.CashbookRepo)
	ttl := deps.DownloadTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &reportService{
		BaseService: base,
		tx:          repos.TxManager,
		reportRepo:  repos.ReportRepo,
		queue:       deps.Queue,
		signer:      deps.Signer,
		downloadTTL: ttl,
		notify:      dispatcher{BaseService: base, notifier: deps.Notifier},
	}
}

var _ portssvc.ReportSvc = (*reportService)(nil)

func (s *reportService) CreateReport(ctx context.Context, orgID string, req dto.CreateReportRequest, userID string) (*domain.Report, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.orgRole(ctx, orgID, userID); err != nil {
		return nil, err
	}
	params := req.Parameters
	if params == nil {
		params = map[string]any{}
	}
	now := s.now()
	report := domain.Report{
		ReportID:       uuid.NewString(),
		OrganizationID: orgID,
		RequestedByID:  userID,
		Type:           req.Type,
		Format:         req.Format,
		Parameters:     params,
		Status:         domain.ReportStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.reportRepo.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	err := s.queue.EnqueueReportJob(ctx, domain.ReportJob{
		ReportID:       report.ReportID,
		OrganizationID: orgID,
		Type:           report.Type,
		Format:         report.Format,
		Parameters:     report.Parameters,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to enqueue report job", slog.String("report_id", report.ReportID))
		report.Status = domain.ReportStatusFailed
		report.ErrorMessage = ptr("could not queue report: " + err.Error())
		report.UpdatedAt = s.now()
		if err := s.reportRepo.UpdateReport(ctx, report); err != nil {
			return nil, fmt.Errorf("mark report failed: %w", err)
		}
		return &report, nil
	}
	s.LogInfo(ctx, "Report queued", slog.String("report_id", report.ReportID), slog.String("type", string(report.Type)))
	return &report, nil
}

func (s *reportService) ListReports(ctx context.Context, orgID string, params dto.ListReportsParams, userID string) (*dto.ListReportsResponse, error) {
	if _, err := s.orgRole(ctx, orgID, userID); err != nil {
		return nil, err
	}
	page, limit := dto.NormalizePage(params.Page, params.Limit)
	reports, total, err := s.reportRepo.ListReports(ctx, orgID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return &dto.ListReportsResponse{Data: reports, Total: total, Page: page, Limit: limit}, nil
}

func (s *reportService) GetReportDownloadURL(ctx context.Context, orgID, reportID, userID string) (*domain.ReportDownload, error) {
	if _, err := s.orgRole(ctx, orgID, userID); err != nil {
		return nil, err
	}
	report, err := s.reportRepo.FindReportByID(ctx, orgID, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if report.Status != domain.ReportStatusCompleted {
		return nil, apperrors.NewValidationError("report is %s and has no file yet", report.Status)
	}
	now := s.now()
	if report.ExpiresAt != nil && !now.Before(*report.ExpiresAt) {
		return nil, apperrors.NewValidationError("report file expired at %s", report.ExpiresAt.Format(time.RFC3339))
	}

	if report.FileKey != nil && s.signer != nil {
		ttl := s.downloadTTL
		if report.ExpiresAt != nil {
			ttl = min(ttl, report.ExpiresAt.Sub(now))
		}
		link, expiresAt, err := s.signer.SignDownloadURL(ctx, *report.FileKey, ttl)
		if err != nil {
			return nil, fmt.Errorf("sign report download: %w", err)
		}
		return &domain.ReportDownload{URL: link, ExpiresAt: expiresAt}, nil
	}
	if report.FileURL != nil {
		expiresAt := now.Add(s.downloadTTL)
		if report.ExpiresAt != nil {
			expiresAt = *report.ExpiresAt
		}
		return &domain.ReportDownload{URL: *report.FileURL, ExpiresAt: expiresAt}, nil
	}
	return nil, apperrors.NewNotFoundError("report file")
}

func (s *reportService) UpdateReportStatus(ctx context.Context, orgID, reportID string, req dto.UpdateReportStatusRequest) (*domain.Report, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if req.Status == domain.ReportStatusCompleted && req.FileURL == nil && req.FileKey == nil {
		return nil, apperrors.NewValidationError("a completed report needs fileURL or fileKey")
	}

	var updated domain.Report
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		report, err := s.reportRepo.FindReportByID(ctx, orgID, reportID)
		if err != nil {
			return err
		}
		if !report.Status.CanTransitionTo(req.Status) {
			return apperrors.NewConflictError("report cannot move from %s to %s", report.Status, req.Status)
		}
		now := s.now()
		report.Status = req.Status
		report.UpdatedAt = now
		switch req.Status {
		case domain.ReportStatusCompleted:
			report.FileURL = req.FileURL
			report.FileKey = req.FileKey
			report.ExpiresAt = req.ExpiresAt
			report.CompletedAt = &now
		case domain.ReportStatusFailed:
			report.ErrorMessage = req.ErrorMessage
		case domain.ReportStatusPending, domain.ReportStatusProcessing:
		}
		if err := s.reportRepo.UpdateReport(ctx, *report); err != nil {
			return err
		}
		updated = *report
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update report status: %w", err)
	}

	if updated.Status.IsTerminal() {
		s.notifyFinished(ctx, &updated)
	}
	return &updated, nil
}

func (s *reportService) notifyFinished(ctx context.Context, report *domain.Report) {
	message := fmt.Sprintf("Your %s report is ready", report.Type)
	if report.Status == domain.ReportStatusFailed {
		message = fmt.Sprintf("Your %s report failed", report.Type)
	}
	s.notify.send(ctx, []string{report.RequestedByID}, domain.Notification{
		OrganizationID: report.OrganizationID,
		Type:           domain.NotificationReportReady,
		Title:          fmt.Sprintf("Report %s", report.Status),
		Message:        message,
		Data:           map[string]any{"reportID": report.ReportID, "status": report.Status},
	})
}

func (s *reportService) FailStaleReports(ctx context.Context, updatedBefore time.Time) (int, error) {
	stale, err := s.reportRepo.ListStaleReports(ctx, updatedBefore)
	if err != nil {
		return 0, fmt.Errorf("list stale reports: %w", err)
	}
	failed := 0
	for i := range stale {
		report := stale[i]
		report.Status = domain.ReportStatusFailed
		report.ErrorMessage = ptr(staleReportMessage)
		report.UpdatedAt = s.now()
		if err := s.reportRepo.UpdateReport(ctx, report); err != nil {
			s.LogError(ctx, err, "Failed to fail stale report", slog.String("report_id", report.ReportID))
			continue
		}
		failed++
		s.notifyFinished(ctx, &report)
	}
	return failed, nil
}
