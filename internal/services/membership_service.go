package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/devtrack/internal/authz"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/repository"
)

var (
	ErrRoleMismatch   = errors.New("user does not hold the role required for this assignment")
	ErrMemberArchived = errors.New("archived users cannot join a team")
)

// MembershipService adds and removes team members, managers and partners.
type MembershipService struct {
	guard
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(dir repository.Directory, engine *authz.Engine, log *logrus.Logger) *MembershipService {
	return &MembershipService{guard: newGuard(dir, engine, log)}
}

// prepare loads team and user and authorizes action on the pair.
func (s *MembershipService) prepare(ctx context.Context, actor authz.Actor, action authz.Action, userID, teamID uint64) (*models.User, *models.Team, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authorize(ctx, actor, action, authz.TeamTarget(team, user)); err != nil {
		return nil, nil, err
	}
	return user, team, nil
}

// relationError maps directory relation errors onto domain failures.
func (s *MembershipService) relationError(op, relation string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return apierrors.Duplicate(relation)
	case errors.Is(err, repository.ErrNotFound):
		return apierrors.Missing(relation)
	default:
		return s.failure(op, err)
	}
}

func (s *MembershipService) logChange(actor authz.Actor, msg string, userID, teamID uint64) {
	s.log.WithFields(logrus.Fields{
		"actor_id": actor.UserID,
		"user_id":  userID,
		"team_id":  teamID,
	}).Info(msg)
}

// AddMember adds a user to a team.
func (s *MembershipService) AddMember(ctx context.Context, actor authz.Actor, userID, teamID uint64) (*models.TeamMembership, error) {
	user, team, err := s.prepare(ctx, actor, authz.ActionAddTeamMember, userID, teamID)
	if err != nil {
		return nil, err
	}
	if !user.Lifecycle.IsActive() {
		return nil, ErrMemberArchived
	}

	membership := &models.TeamMembership{UserID: user.ID, TeamID: team.ID, JoinedAt: s.now()}
	if err := s.dir.InsertMembership(ctx, membership); err != nil {
		return nil, s.relationError("insert membership", "team membership", err)
	}

	s.logChange(actor, "team member added", user.ID, team.ID)
	return membership, nil
}

// RemoveMember removes a user from a team.
func (s *MembershipService) RemoveMember(ctx context.Context, actor authz.Actor, userID, teamID uint64) error {
	if _, _, err := s.prepare(ctx, actor, authz.ActionRemoveTeamMember, userID, teamID); err != nil {
		return err
	}
	if err := s.dir.DeleteMembership(ctx, userID, teamID); err != nil {
		return s.relationError("delete membership", "team membership", err)
	}

	s.logChange(actor, "team member removed", userID, teamID)
	return nil
}

// AssignManager makes a manager responsible for a team.
func (s *MembershipService) AssignManager(ctx context.Context, actor authz.Actor, userID, teamID uint64) (*models.TeamManagerAssignment, error) {
	user, team, err := s.prepare(ctx, actor, authz.ActionAssignTeamManager, userID, teamID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleManager {
		return nil, ErrRoleMismatch
	}

	assignment := &models.TeamManagerAssignment{UserID: user.ID, TeamID: team.ID, AssignedAt: s.now()}
	if err := s.dir.InsertManagerAssignment(ctx, assignment); err != nil {
		return nil, s.relationError("insert manager assignment", "manager assignment", err)
	}

	s.logChange(actor, "team manager assigned", user.ID, team.ID)
	return assignment, nil
}

// UnassignManager removes a manager from a team.
func (s *MembershipService) UnassignManager(ctx context.Context, actor authz.Actor, userID, teamID uint64) error {
	if _, _, err := s.prepare(ctx, actor, authz.ActionUnassignTeamManager, userID, teamID); err != nil {
		return err
	}
	if err := s.dir.DeleteManagerAssignment(ctx, userID, teamID); err != nil {
		return s.relationError("delete manager assignment", "manager assignment", err)
	}

	s.logChange(actor, "team manager unassigned", userID, teamID)
	return nil
}

// AssignPartner gives a partner read access to a team.
func (s *MembershipService) AssignPartner(ctx context.Context, actor authz.Actor, userID, teamID uint64) (*models.TeamPartnerAssignment, error) {
	user, team, err := s.prepare(ctx, actor, authz.ActionAssignTeamPartner, userID, teamID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RolePartner {
		return nil, ErrRoleMismatch
	}

	assignment := &models.TeamPartnerAssignment{UserID: user.ID, TeamID: team.ID, AssignedAt: s.now()}
	if err := s.dir.InsertPartnerAssignment(ctx, assignment); err != nil {
		return nil, s.relationError("insert partner assignment", "partner assignment", err)
	}

	s.logChange(actor, "team partner assigned", user.ID, team.ID)
	return assignment, nil
}

// UnassignPartner removes a partner from a team.
func (s *MembershipService) UnassignPartner(ctx context.Context, actor authz.Actor, userID, teamID uint64) error {
	if _, _, err := s.prepare(ctx, actor, authz.ActionUnassignTeamPartner, userID, teamID); err != nil {
		return err
	}
	if err := s.dir.DeletePartnerAssignment(ctx, userID, teamID); err != nil {
		return s.relationError("delete partner assignment", "partner assignment", err)
	}

	s.logChange(actor, "team partner unassigned", userID, teamID)
	return nil
}
