package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
)

var _ portsrepo.ContactRepositoryFacade = (*Store)(nil)

func (s *Store) SaveContact(ctx context.Context, c domain.Contact) error {
	return s.write(ctx, func(d *state) error {
		if _, ok := d.contacts[c.ContactID]; ok {
			return fmt.Errorf("%w: contact %s", apperrors.ErrDuplicate, c.ContactID)
		}
		d.contacts[c.ContactID] = c
		return nil
	})
}

func (s *Store) FindContactByID(ctx context.Context, orgID, contactID string) (*domain.Contact, error) {
	var (
		c  domain.Contact
		ok bool
	)
	s.read(ctx, func(d *state) { c, ok = d.contacts[contactID] })
	if !ok || c.OrganizationID != orgID {
		return nil, fmt.Errorf("%w: contact %s", apperrors.ErrNotFound, contactID)
	}
	return &c, nil
}

func (s *Store) ListContacts(ctx context.Context, orgID string, search string) ([]domain.Contact, error) {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := []domain.Contact{}
	s.read(ctx, func(d *state) {
		for _, c := range d.contacts {
			if c.OrganizationID != orgID {
				continue
			}
			if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) &&
				!strings.Contains(strings.ToLower(c.Email), needle) {
				continue
			}
			out = append(out, c)
		}
	})
	slices.SortFunc(out, func(a, b domain.Contact) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ContactID, b.ContactID))
	})
	return out, nil
}

func (s *Store) UpdateContact(ctx context.Context, c domain.Contact) error {
	return s.write(ctx, func(d *state) error {
		cur, ok := d.contacts[c.ContactID]
		if !ok || cur.OrganizationID != c.OrganizationID {
			return apperrors.NewNotFoundError("contact " + c.ContactID)
		}
		d.contacts[c.ContactID] = c
		return nil
	})
}

func (s *Store) DeleteContact(ctx context.Context, orgID, contactID string) error {
	return s.write(ctx, func(d *state) error {
		cur, ok := d.contacts[contactID]
		if !ok || cur.OrganizationID != orgID {
			return apperrors.NewNotFoundError("contact " + contactID)
		}
		delete(d.contacts, contactID)
		for id, e := range d.entries {
			if e.ContactID != nil && *e.ContactID == contactID {
				e.ContactID = nil
				d.entries[id] = e
			}
		}
		return nil
	})
}
