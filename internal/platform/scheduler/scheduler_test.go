package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock ReportSvc ---
type MockReportSvc struct {
	mock.Mock
}

func (m *MockReportSvc) CreateReport(ctx context.Context, orgID string, req dto.CreateReportRequest, userID string) (*domain.Report, error) {
	args := m.Called(ctx, orgID, req, userID)
	return nil, args.Error(1)
}

func (m *MockReportSvc) ListReports(ctx context.Context, orgID string, params dto.ListReportsParams, userID string) (*dto.ListReportsResponse, error) {
	args := m.Called(ctx, orgID, params, userID)
	return nil, args.Error(1)
}

func (m *MockReportSvc) GetReportDownloadURL(ctx context.Context, orgID string, reportID string, userID string) (*domain.ReportDownload, error) {
	args := m.Called(ctx, orgID, reportID, userID)
	return nil, args.Error(1)
}

func (m *MockReportSvc) UpdateReportStatus(ctx context.Context, orgID string, reportID string, req dto.UpdateReportStatusRequest) (*domain.Report, error) {
	args := m.Called(ctx, orgID, reportID, req)
	return nil, args.Error(1)
}

func (m *MockReportSvc) FailStaleReports(ctx context.Context, updatedBefore time.Time) (int, error) {
	args := m.Called(ctx, updatedBefore)
	return args.Int(0), args.Error(1)
}

func newTestScheduler(t *testing.T, reports *MockReportSvc) *Scheduler {
	s, err := NewScheduler(reports, Config{
		ReportSweepSchedule: "0 */5 * * * *",
		ReportStaleAfter:    time.Hour,
	}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return s
}

func TestFailStaleReports_UsesCutoff(t *testing.T) {
	reports := new(MockReportSvc)
	s := newTestScheduler(t, reports)
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	reports.On("FailStaleReports", mock.Anything, now.Add(-time.Hour)).Return(2, nil).Once()

	s.FailStaleReports()
	reports.AssertExpectations(t)
}

func TestFailStaleReports_SurvivesErrorsAndPanics(t *testing.T) {
	reports := new(MockReportSvc)
	s := newTestScheduler(t, reports)

	reports.On("FailStaleReports", mock.Anything, mock.Anything).Return(0, errors.New("db down")).Once()
	assert.NotPanics(t, s.FailStaleReports)

	reports.On("FailStaleReports", mock.Anything, mock.Anything).Panic("boom").Once()
	assert.NotPanics(t, s.FailStaleReports)
	reports.AssertExpectations(t)
}

func TestNewScheduler_RejectsBadSchedule(t *testing.T) {
	_, err := NewScheduler(new(MockReportSvc), Config{ReportSweepSchedule: "not a cron"}, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(t, new(MockReportSvc))
	assert.Len(t, s.cron.Entries(), 1)
	s.Start()
	s.Stop()
}
