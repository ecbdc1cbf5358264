package domain

import "time"

// OrgRole is a user's role within an organization.
type OrgRole string

const (
	OrgRoleOwner  OrgRole = "OWNER"
	OrgRoleAdmin  OrgRole = "ADMIN"
	OrgRoleMember OrgRole = "MEMBER"
)

// BypassesCashbookMembership reports whether the role may act on every cashbook
// of the organization without being a cashbook member.
func (r OrgRole) BypassesCashbookMembership() bool {
	switch r {
	case OrgRoleOwner, OrgRoleAdmin:
		return true
	case OrgRoleMember:
		return false
	}
	return false
}

// OrganizationMember links a user to an organization. Identity itself is
// resolved upstream; the ledger only needs the role.
type OrganizationMember struct {
	OrganizationID string    `json:"organizationID"`
	UserID         string    `json:"userID"`
	Role           OrgRole   `json:"role"`
	JoinedAt       time.Time `json:"joinedAt"`
}
