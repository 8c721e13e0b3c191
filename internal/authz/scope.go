package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/repository"
)

// Facts are the structural relations between an actor and a target that the
// rules need. They are computed by Resolver and never by the rules.
type Facts struct {
	// TargetOrganisationID is the organisation the target belongs to, nil if
	// it belongs to none.
	TargetOrganisationID *uint64
	// SubjectOrganisationID is the organisation of Target.Subject.
	SubjectOrganisationID *uint64
	// ManagesTarget is set when the actor manages the target team, or a team
	// the target user belongs to.
	ManagesTarget bool
	// PartnersTarget is set when the actor is a partner of the target team.
	PartnersTarget bool
}

// Resolver answers containment questions against the directory. Missing rows
// resolve to empty results; only store faults are returned as errors.
type Resolver struct {
	dir repository.DirectoryReader
}

func NewResolver(dir repository.DirectoryReader) *Resolver {
	return &Resolver{dir: dir}
}

// OrganisationOf returns the organisation a user belongs to: the admin
// anchor when set, otherwise the organisation of the user's department.
func (r *Resolver) OrganisationOf(ctx context.Context, user *models.User) (*uint64, error) {
	if user == nil {
		return nil, nil
	}
	if user.OrganisationID != nil {
		org := *user.OrganisationID
		return &org, nil
	}
	return r.departmentOrganisation(ctx, user.DepartmentID)
}

// TeamOrganisation returns the organisation of a team's department, nil for
// teams outside any department.
func (r *Resolver) TeamOrganisation(ctx context.Context, team *models.Team) (*uint64, error) {
	if team == nil {
		return nil, nil
	}
	return r.departmentOrganisation(ctx, team.DepartmentID)
}

func (r *Resolver) departmentOrganisation(ctx context.Context, departmentID *uint64) (*uint64, error) {
	if departmentID == nil {
		return nil, nil
	}
	dept, err := r.dir.FindDepartment(ctx, *departmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find department: %w", err)
	}
	org := dept.OrganisationID
	return &org, nil
}

// TeamsManagedBy returns the set of teams a manager is assigned to.
func (r *Resolver) TeamsManagedBy(ctx context.Context, userID uint64) (map[uint64]struct{}, error) {
	ids, err := r.dir.TeamIDsManagedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list managed teams: %w", err)
	}
	return toSet(ids), nil
}

// TeamsPartneredBy returns the set of teams a partner is assigned to.
func (r *Resolver) TeamsPartneredBy(ctx context.Context, userID uint64) (map[uint64]struct{}, error) {
	ids, err := r.dir.TeamIDsPartneredBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partnered teams: %w", err)
	}
	return toSet(ids), nil
}

// IsMemberOfTeam reports whether the user belongs to the team.
func (r *Resolver) IsMemberOfTeam(ctx context.Context, userID, teamID uint64) (bool, error) {
	ids, err := r.dir.TeamIDsOf(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to list team memberships: %w", err)
	}
	_, ok := toSet(ids)[teamID]
	return ok, nil
}

// Resolve computes the facts for one decision. It only queries what the
// actor's role can make use of.
func (r *Resolver) Resolve(ctx context.Context, actor Actor, target Target) (Facts, error) {
	var (
		facts Facts
		err   error
	)

	switch target.Kind {
	case TargetUser:
		facts.TargetOrganisationID, err = r.OrganisationOf(ctx, target.User)
	case TargetTeam:
		facts.TargetOrganisationID, err = r.TeamOrganisation(ctx, target.Team)
	case TargetOrganisation:
		facts.TargetOrganisationID = target.OrganisationID
	}
	if err != nil {
		return Facts{}, err
	}

	if target.Subject != nil {
		if facts.SubjectOrganisationID, err = r.OrganisationOf(ctx, target.Subject); err != nil {
			return Facts{}, err
		}
	}

	switch actor.Role {
	case models.RoleManager:
		facts.ManagesTarget, err = r.managesTarget(ctx, actor.UserID, target)
	case models.RolePartner:
		if target.Kind == TargetTeam && target.Team != nil {
			var teams map[uint64]struct{}
			teams, err = r.TeamsPartneredBy(ctx, actor.UserID)
			_, facts.PartnersTarget = teams[target.Team.ID]
		}
	}
	if err != nil {
		return Facts{}, err
	}

	return facts, nil
}

func (r *Resolver) managesTarget(ctx context.Context, managerID uint64, target Target) (bool, error) {
	managed, err := r.TeamsManagedBy(ctx, managerID)
	if err != nil || len(managed) == 0 {
		return false, err
	}

	switch target.Kind {
	case TargetTeam:
		if target.Team == nil {
			return false, nil
		}
		_, ok := managed[target.Team.ID]
		return ok, nil
	case TargetUser:
		if target.User == nil {
			return false, nil
		}
		teams, err := r.dir.TeamIDsOf(ctx, target.User.ID)
		if err != nil {
			return false, fmt.Errorf("failed to list team memberships: %w", err)
		}
		// Any one managed team containing the user is enough.
		for _, id := range teams {
			if _, ok := managed[id]; ok {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, nil
	}
}

func toSet(ids []uint64) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
