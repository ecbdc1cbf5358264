package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
)

var (
	_ portsrepo.ReportRepositoryFacade = (*Store)(nil)
	_ portsrepo.NotificationRepository = (*Store)(nil)
)

func (s *Store) SaveReport(ctx context.Context, r domain.Report) error {
	return s.write(ctx, func(d *state) error {
		if _, ok := d.reports[r.ReportID]; ok {
			return fmt.Errorf("%w: report %s", apperrors.ErrDuplicate, r.ReportID)
		}
		d.reports[r.ReportID] = r
		return nil
	})
}

func (s *Store) FindReportByID(ctx context.Context, orgID, reportID string) (*domain.Report, error) {
	var (
		r  domain.Report
		ok bool
	)
	s.read(ctx, func(d *state) { r, ok = d.reports[reportID] })
	if !ok || r.OrganizationID != orgID {
		return nil, fmt.Errorf("%w: report %s", apperrors.ErrNotFound, reportID)
	}
	return &r, nil
}

func (s *Store) ListReports(ctx context.Context, orgID string, limit, offset int) ([]domain.Report, int, error) {
	var all []domain.Report
	s.read(ctx, func(d *state) {
		for _, r := range d.reports {
			if r.OrganizationID == orgID {
				all = append(all, r)
			}
		}
	})
	slices.SortFunc(all, func(a, b domain.Report) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ReportID, a.ReportID))
	})
	start := min(offset, len(all))
	end := min(start+limit, len(all))
	page := append([]domain.Report{}, all[start:end]...)
	return page, len(all), nil
}

func (s *Store) UpdateReport(ctx context.Context, r domain.Report) error {
	return s.write(ctx, func(d *state) error {
		cur, ok := d.reports[r.ReportID]
		if !ok || cur.OrganizationID != r.OrganizationID {
			return apperrors.NewNotFoundError("report " + r.ReportID)
		}
		d.reports[r.ReportID] = r
		return nil
	})
}

func (s *Store) ListStaleReports(ctx context.Context, updatedBefore time.Time) ([]domain.Report, error) {
	out := []domain.Report{}
	s.read(ctx, func(d *state) {
		for _, r := range d.reports {
			if !r.Status.IsTerminal() && r.UpdatedAt.Before(updatedBefore) {
				out = append(out, r)
			}
		}
	})
	slices.SortFunc(out, func(a, b domain.Report) int { return a.UpdatedAt.Compare(b.UpdatedAt) })
	return out, nil
}

func (s *Store) SaveNotification(ctx context.Context, n domain.Notification) error {
	return s.write(ctx, func(d *state) error {
		d.notifications = append(d.notifications, n)
		return nil
	})
}
