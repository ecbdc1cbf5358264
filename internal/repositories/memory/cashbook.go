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

var _ portsrepo.CashbookRepositoryFacade = (*Store)(nil)

func (s *Store) SaveCashbook(ctx context.Context, c domain.Cashbook) error {
	return s.write(ctx, func(d *state) error {
		if _, ok := d.cashbooks[c.CashbookID]; ok {
			return fmt.Errorf("%w: cashbook %s", apperrors.ErrDuplicate, c.CashbookID)
		}
		d.cashbooks[c.CashbookID] = c
		return nil
	})
}

func (s *Store) FindCashbookByID(ctx context.Context, orgID, cashbookID string) (*domain.Cashbook, error) {
	var (
		c  domain.Cashbook
		ok bool
	)
	s.read(ctx, func(d *state) { c, ok = d.cashbooks[cashbookID] })
	if !ok || c.OrganizationID != orgID {
		return nil, fmt.Errorf("%w: cashbook %s", apperrors.ErrNotFound, cashbookID)
	}
	return &c, nil
}

// LockCashbookShared is a plain read; units of work are already serialized.
func (s *Store) LockCashbookShared(ctx context.Context, orgID, cashbookID string) (*domain.Cashbook, error) {
	return s.FindCashbookByID(ctx, orgID, cashbookID)
}

func (s *Store) ListCashbooks(ctx context.Context, orgID string) ([]domain.Cashbook, error) {
	out := []domain.Cashbook{}
	s.read(ctx, func(d *state) {
		for _, c := range d.cashbooks {
			if c.OrganizationID == orgID {
				out = append(out, c)
			}
		}
	})
	slices.SortFunc(out, func(a, b domain.Cashbook) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.CashbookID, b.CashbookID))
	})
	return out, nil
}

func (s *Store) UpdateCashbook(ctx context.Context, c domain.Cashbook) error {
	return s.write(ctx, func(d *state) error {
		cur, ok := d.cashbooks[c.CashbookID]
		if !ok || cur.OrganizationID != c.OrganizationID {
			return apperrors.NewNotFoundError("cashbook " + c.CashbookID)
		}
		d.cashbooks[c.CashbookID] = c
		return nil
	})
}

// DeleteCashbook cascades like the Postgres foreign keys; audit logs survive.
func (s *Store) DeleteCashbook(ctx context.Context, orgID, cashbookID string) error {
	return s.write(ctx, func(d *state) error {
		c, ok := d.cashbooks[cashbookID]
		if !ok || c.OrganizationID != orgID {
			return apperrors.NewNotFoundError("cashbook " + cashbookID)
		}
		delete(d.cashbooks, cashbookID)
		delete(d.cashbookMembers, cashbookID)
		for id, a := range d.accounts {
			if a.CashbookID == cashbookID {
				delete(d.accounts, id)
			}
		}
		for id, e := range d.entries {
			if e.CashbookID != cashbookID {
				continue
			}
			delete(d.entries, id)
			delete(d.voucherNumbers, e.OrganizationID+"|"+e.VoucherNumber)
			if e.IdempotencyKey != nil {
				delete(d.idempotency, e.OrganizationID+"|"+*e.IdempotencyKey)
			}
		}
		for id, r := range d.deleteRequests {
			if r.CashbookID == cashbookID {
				delete(d.deleteRequests, id)
			}
		}
		return nil
	})
}

func (s *Store) UpsertCashbookMember(ctx context.Context, m domain.CashbookMember) error {
	return s.write(ctx, func(d *state) error {
		if d.cashbookMembers[m.CashbookID] == nil {
			d.cashbookMembers[m.CashbookID] = map[string]domain.CashbookMember{}
		}
		if cur, ok := d.cashbookMembers[m.CashbookID][m.UserID]; ok {
			m.CreatedAt = cur.CreatedAt
		}
		d.cashbookMembers[m.CashbookID][m.UserID] = m
		return nil
	})
}

func (s *Store) DeleteCashbookMember(ctx context.Context, cashbookID, userID string) error {
	return s.write(ctx, func(d *state) error {
		if _, ok := d.cashbookMembers[cashbookID][userID]; !ok {
			return apperrors.NewNotFoundError("cashbook member " + userID)
		}
		delete(d.cashbookMembers[cashbookID], userID)
		return nil
	})
}

func (s *Store) FindCashbookMember(ctx context.Context, cashbookID, userID string) (*domain.CashbookMember, error) {
	var (
		m  domain.CashbookMember
		ok bool
	)
	s.read(ctx, func(d *state) { m, ok = d.cashbookMembers[cashbookID][userID] })
	if !ok {
		return nil, fmt.Errorf("%w: cashbook member %s", apperrors.ErrNotFound, userID)
	}
	return &m, nil
}

func (s *Store) ListCashbookMembers(ctx context.Context, cashbookID string) ([]domain.CashbookMember, error) {
	out := []domain.CashbookMember{}
	s.read(ctx, func(d *state) {
		for _, m := range d.cashbookMembers[cashbookID] {
			out = append(out, m)
		}
	})
	slices.SortFunc(out, func(a, b domain.CashbookMember) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.UserID, b.UserID))
	})
	return out, nil
}

func (s *Store) ListCashbookIDsForMember(ctx context.Context, orgID, userID string) ([]string, error) {
	ids := []string{}
	s.read(ctx, func(d *state) {
		for cashbookID, members := range d.cashbookMembers {
			if _, ok := members[userID]; !ok {
				continue
			}
			if c, ok := d.cashbooks[cashbookID]; ok && c.OrganizationID == orgID {
				ids = append(ids, cashbookID)
			}
		}
	})
	slices.Sort(ids)
	return ids, nil
}
