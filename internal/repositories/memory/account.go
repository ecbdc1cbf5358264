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

var _ portsrepo.AccountRepositoryFacade = (*Store)(nil)

func (s *Store) SaveAccount(ctx context.Context, a domain.Account) error {
	return s.write(ctx, func(d *state) error {
		if _, ok := d.accounts[a.AccountID]; ok {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, a.AccountID)
		}
		d.accounts[a.AccountID] = a
		return nil
	})
}

func (s *Store) FindAccountByID(ctx context.Context, orgID, accountID string) (*domain.Account, error) {
	var (
		a  domain.Account
		ok bool
	)
	s.read(ctx, func(d *state) { a, ok = d.accounts[accountID] })
	if !ok || a.OrganizationID != orgID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &a, nil
}

// LockAccountShared is a plain read; units of work are already serialized.
func (s *Store) LockAccountShared(ctx context.Context, orgID, accountID string) (*domain.Account, error) {
	return s.FindAccountByID(ctx, orgID, accountID)
}

func (s *Store) ListAccounts(ctx context.Context, orgID string, f domain.AccountFilter) ([]domain.Account, error) {
	out := []domain.Account{}
	s.read(ctx, func(d *state) {
		for _, a := range d.accounts {
			switch {
			case a.OrganizationID != orgID,
				!scopeAllows(f.Scope, a.CashbookID),
				f.CashbookID != nil && a.CashbookID != *f.CashbookID,
				a.IsArchived && !f.IncludeArchived:
				continue
			}
			out = append(out, a)
		}
	})
	slices.SortFunc(out, func(a, b domain.Account) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.AccountID, b.AccountID))
	})
	return out, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a domain.Account) error {
	return s.write(ctx, func(d *state) error {
		cur, ok := d.accounts[a.AccountID]
		if !ok || cur.OrganizationID != a.OrganizationID {
			return apperrors.NewNotFoundError("account " + a.AccountID)
		}
		d.accounts[a.AccountID] = a
		return nil
	})
}
