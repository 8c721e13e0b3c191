package authz

import "github.com/yukikurage/devtrack/internal/models"

type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetUser
	TargetTeam
	TargetOrganisation
)

// Target is the resource an action is applied to.
type Target struct {
	Kind TargetKind
	User *models.User
	Team *models.Team
	// OrganisationID is the organisation for TargetOrganisation. Nil stands
	// for a new organisation that does not exist yet.
	OrganisationID *uint64
	// Subject is the user a team action is about, such as the member being
	// added or looked up.
	Subject *models.User
}

func NoTarget() Target {
	return Target{Kind: TargetNone}
}

func UserTarget(user *models.User) Target {
	return Target{Kind: TargetUser, User: user}
}

func TeamTarget(team *models.Team, subject *models.User) Target {
	return Target{Kind: TargetTeam, Team: team, Subject: subject}
}

func OrganisationTarget(organisationID *uint64) Target {
	return Target{Kind: TargetOrganisation, OrganisationID: organisationID}
}
