package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
)

var _ portsrepo.OrganizationRepositoryFacade = (*Store)(nil)

func (s *Store) FindOrgRole(ctx context.Context, orgID, userID string) (domain.OrgRole, error) {
	var (
		m  domain.OrganizationMember
		ok bool
	)
	s.read(ctx, func(d *state) { m, ok = d.orgMembers[orgID][userID] })
	if !ok {
		return "", fmt.Errorf("%w: organization member %s", apperrors.ErrNotFound, userID)
	}
	return m.Role, nil
}

func (s *Store) ListOrgUserIDsByRole(ctx context.Context, orgID string, roles []domain.OrgRole) ([]string, error) {
	var ids []string
	s.read(ctx, func(d *state) {
		for userID, m := range d.orgMembers[orgID] {
			if slices.Contains(roles, m.Role) {
				ids = append(ids, userID)
			}
		}
	})
	slices.Sort(ids)
	return ids, nil
}

func (s *Store) UpsertOrgMember(ctx context.Context, m domain.OrganizationMember) error {
	return s.write(ctx, func(d *state) error {
		if d.orgMembers[m.OrganizationID] == nil {
			d.orgMembers[m.OrganizationID] = map[string]domain.OrganizationMember{}
		}
		d.orgMembers[m.OrganizationID][m.UserID] = m
		return nil
	})
}
