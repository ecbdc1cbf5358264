package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
)

var _ portsrepo.DeleteRequestRepositoryFacade = (*Store)(nil)

func (s *Store) SaveDeleteRequest(ctx context.Context, r domain.DeleteRequest) error {
	return s.write(ctx, func(d *state) error {
		if r.Status == domain.DeleteRequestPending {
			for _, other := range d.deleteRequests {
				if other.EntryID == r.EntryID && other.Status == domain.DeleteRequestPending {
					return fmt.Errorf("%w: entry %s already has a pending delete request", apperrors.ErrDuplicate, r.EntryID)
				}
			}
		}
		d.deleteRequests[r.RequestID] = r
		return nil
	})
}

func (s *Store) FindDeleteRequestByID(ctx context.Context, orgID, requestID string) (*domain.DeleteRequest, error) {
	var (
		r  domain.DeleteRequest
		ok bool
	)
	s.read(ctx, func(d *state) { r, ok = d.deleteRequests[requestID] })
	if !ok || r.OrganizationID != orgID {
		return nil, fmt.Errorf("%w: delete request %s", apperrors.ErrNotFound, requestID)
	}
	return &r, nil
}

func (s *Store) LockDeleteRequest(ctx context.Context, orgID, requestID string) (*domain.DeleteRequest, error) {
	return s.FindDeleteRequestByID(ctx, orgID, requestID)
}

func (s *Store) UpdateDeleteRequest(ctx context.Context, r domain.DeleteRequest) error {
	return s.write(ctx, func(d *state) error {
		cur, ok := d.deleteRequests[r.RequestID]
		if !ok || cur.OrganizationID != r.OrganizationID {
			return apperrors.NewNotFoundError("delete request " + r.RequestID)
		}
		d.deleteRequests[r.RequestID] = r
		return nil
	})
}

func (s *Store) ListDeleteRequests(ctx context.Context, orgID string, f domain.DeleteRequestFilter) ([]domain.DeleteRequest, error) {
	out := []domain.DeleteRequest{}
	s.read(ctx, func(d *state) {
		for _, r := range d.deleteRequests {
			if r.OrganizationID != orgID || !scopeAllows(f.Scope, r.CashbookID) {
				continue
			}
			if f.Status != nil && r.Status != *f.Status {
				continue
			}
			out = append(out, r)
		}
	})
	slices.SortFunc(out, func(a, b domain.DeleteRequest) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.RequestID, a.RequestID))
	})
	return out, nil
}

func (s *Store) CountPendingDeleteRequests(ctx context.Context, orgID string, scope domain.CashbookScope) (int, error) {
	pending := domain.DeleteRequestPending
	reqs, err := s.ListDeleteRequests(ctx, orgID, domain.DeleteRequestFilter{Scope: scope, Status: &pending})
	return len(reqs), err
}
