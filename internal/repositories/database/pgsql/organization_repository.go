package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxOrganizationRepository reads organization membership.
type PgxOrganizationRepository struct {
	BaseRepository
}

func newPgxOrganizationRepository(pool *pgxpool.Pool) *PgxOrganizationRepository {
	return &PgxOrganizationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

func (r *PgxOrganizationRepository) FindOrgRole(ctx context.Context, orgID, userID string) (domain.OrgRole, error) {
	var role domain.OrgRole
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT role FROM organization_members WHERE organization_id = $1 AND user_id = $2`,
		orgID, userID,
	).Scan(&role)
	if err != nil {
		return "", notFoundOr(err, "organization member %s", userID)
	}
	return role, nil
}

func (r *PgxOrganizationRepository) ListOrgUserIDsByRole(ctx context.Context, orgID string, roles []domain.OrgRole) ([]string, error) {
	roleStrs := make([]string, len(roles))
	for i, role := range roles {
		roleStrs[i] = string(role)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT user_id FROM organization_members WHERE organization_id = $1 AND role = ANY($2) ORDER BY user_id`,
		orgID, roleStrs,
	)
	if err != nil {
		return nil, fmt.Errorf("list organization members: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan organization member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgxOrganizationRepository) UpsertOrgMember(ctx context.Context, m domain.OrganizationMember) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO organization_members (organization_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (organization_id, user_id) DO UPDATE SET role = EXCLUDED.role`,
		m.OrganizationID, m.UserID, m.Role, m.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert organization member %s: %w", m.UserID, err)
	}
	return nil
}
