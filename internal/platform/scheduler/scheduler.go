// Package scheduler runs periodic ledger maintenance jobs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/robfig/cron/v3"
)

// Config controls the maintenance jobs.
type Config struct {
	ReportSweepSchedule string        // cron spec with a seconds field
	ReportStaleAfter    time.Duration // reports untouched this long are failed
}

// Scheduler manages cron job scheduling.
type Scheduler struct {
	cron    *cron.Cron
	reports portssvc.ReportSvc
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

// NewScheduler creates a scheduler and registers its jobs.
func NewScheduler(reports portssvc.ReportSvc, cfg Config, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		reports: reports,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
	if _, err := s.cron.AddFunc(cfg.ReportSweepSchedule, s.FailStaleReports); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("Starting cron scheduler", slog.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler stopped")
}

// FailStaleReports fails report jobs the external worker never finished.
func (s *Scheduler) FailStaleReports() {
	s.runWithRecovery("FailStaleReports", func() {
		cutoff := s.now().Add(-s.cfg.ReportStaleAfter)
		n, err := s.reports.FailStaleReports(context.Background(), cutoff)
		if err != nil {
			s.logger.Error("Failed to sweep stale reports", slog.String("error", err.Error()))
			return
		}
		if n > 0 {
			s.logger.Info("Stale reports failed", slog.Int("count", n))
		}
	})
}

func (s *Scheduler) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Job panicked", slog.String("job", jobName), slog.Any("panic", r))
		}
	}()
	s.logger.Debug("Starting job", slog.String("job", jobName))
	jobFunc()
}
