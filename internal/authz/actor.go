package authz

import "github.com/yukikurage/devtrack/internal/models"

// Actor is the authenticated identity an authorization decision is made for.
type Actor struct {
	UserID uint64
	Role   models.Role
	// OrganisationID scopes an admin. Nil means unscoped; it is always nil
	// for super admins.
	OrganisationID *uint64
}

// NewActor derives the effective actor for a user. An admin without an
// organisation anchor is a super admin.
func NewActor(user *models.User) Actor {
	actor := Actor{UserID: user.ID, Role: user.Role}

	if user.Role == models.RoleAdmin {
		if user.OrganisationID == nil {
			actor.Role = models.RoleSuperAdmin
		} else {
			org := *user.OrganisationID
			actor.OrganisationID = &org
		}
	}

	return actor
}

// IsSuperAdmin reports whether the actor is unscoped: a super admin, or an
// admin without an organisation.
func (a Actor) IsSuperAdmin() bool {
	return a.Role == models.RoleSuperAdmin ||
		(a.Role == models.RoleAdmin && a.OrganisationID == nil)
}

// InOrganisation reports whether the actor is scoped to orgID.
func (a Actor) InOrganisation(orgID *uint64) bool {
	return a.OrganisationID != nil && orgID != nil && *a.OrganisationID == *orgID
}
