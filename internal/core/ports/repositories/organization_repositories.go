package repositories

import (
	"context"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
)

// OrganizationReader resolves organization roles.
type OrganizationReader interface {
	// FindOrgRole returns the user's role, or apperrors.ErrNotFound when the user is not a member.
	FindOrgRole(ctx context.Context, orgID, userID string) (domain.OrgRole, error)

	// ListOrgUserIDsByRole returns the members holding any of the roles.
	ListOrgUserIDsByRole(ctx context.Context, orgID string, roles []domain.OrgRole) ([]string, error)
}

// OrganizationWriter maintains organization membership as synced from the identity layer.
type OrganizationWriter interface {
	UpsertOrgMember(ctx context.Context, member domain.OrganizationMember) error
}

// OrganizationRepositoryFacade combines organization reads and writes.
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
}
