package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/devtrack/internal/authz"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/repository"
)

var ErrTeamNameRequired = errors.New("team name is required")

// TeamService handles team creation, overview and removal.
type TeamService struct {
	guard
	teamRepo repository.TeamRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(dir repository.Directory, teamRepo repository.TeamRepository, engine *authz.Engine, log *logrus.Logger) *TeamService {
	return &TeamService{guard: newGuard(dir, engine, log), teamRepo: teamRepo}
}

// TeamInput holds the editable fields of a team.
type TeamInput struct {
	Name         string
	Description  string
	DepartmentID *uint64
}

// TeamOverview is a team with everyone attached to it.
type TeamOverview struct {
	Team     *models.Team
	Members  []models.User
	Managers []models.User
	Partners []models.User
}

// CreateTeam creates a team, optionally inside a department. Scoped admins
// can only use departments of their own organisation.
func (s *TeamService) CreateTeam(ctx context.Context, actor authz.Actor, input TeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	// Role gate before the department lookup so a missing department is
	// only reported to callers allowed to create teams.
	if err := s.authorize(ctx, actor, authz.ActionCreateTeam, authz.NoTarget()); err != nil {
		return nil, err
	}
	if input.DepartmentID != nil {
		if _, err := s.findDepartment(ctx, *input.DepartmentID); err != nil {
			return nil, err
		}
	}

	creator := actor.UserID
	team := &models.Team{
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		DepartmentID: input.DepartmentID,
		CreatedByID:  &creator,
	}
	if err := s.authorize(ctx, actor, authz.ActionCreateTeam, authz.TeamTarget(team, nil)); err != nil {
		return nil, err
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, s.failure("create team", err)
	}

	s.log.WithFields(logrus.Fields{"actor_id": actor.UserID, "team_id": team.ID}).Info("team created")
	return team, nil
}

// UpdateTeam changes a team's name and description.
func (s *TeamService) UpdateTeam(ctx context.Context, actor authz.Actor, teamID uint64, input TeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionUpdateTeam, authz.TeamTarget(team, nil)); err != nil {
		return nil, err
	}

	team.Name = name
	team.Description = strings.TrimSpace(input.Description)
	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.Missing("team")
		}
		return nil, s.failure("update team", err)
	}
	return team, nil
}

// GetOverview lists a team's members, managers and partners.
func (s *TeamService) GetOverview(ctx context.Context, actor authz.Actor, teamID uint64) (*TeamOverview, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionViewTeam, authz.TeamTarget(team, nil)); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionListTeamMembers, authz.TeamTarget(team, nil)); err != nil {
		return nil, err
	}

	overview := &TeamOverview{Team: team}
	if overview.Members, err = s.dir.ListTeamMembers(ctx, team.ID); err != nil {
		return nil, s.failure("list team members", err)
	}
	if overview.Managers, err = s.dir.ListManagersOf(ctx, team.ID); err != nil {
		return nil, s.failure("list team managers", err)
	}
	if overview.Partners, err = s.dir.ListPartnersOf(ctx, team.ID); err != nil {
		return nil, s.failure("list team partners", err)
	}
	return overview, nil
}

// GetMemberDetail returns one member of a team. Users outside the team are
// reported as a missing membership.
func (s *TeamService) GetMemberDetail(ctx context.Context, actor authz.Actor, teamID, userID uint64) (*models.User, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionViewMemberDetail, authz.TeamTarget(team, user)); err != nil {
		return nil, err
	}

	member, err := s.engine.Resolver().IsMemberOfTeam(ctx, user.ID, team.ID)
	if err != nil {
		return nil, s.failure("check team membership", err)
	}
	if !member {
		return nil, apierrors.Missing("team membership")
	}
	return user, nil
}

// DeleteTeam removes a team together with its memberships and assignments.
func (s *TeamService) DeleteTeam(ctx context.Context, actor authz.Actor, teamID uint64) error {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, authz.ActionDeleteTeam, authz.TeamTarget(team, nil)); err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, team.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierrors.Missing("team")
		}
		return s.failure("delete team", err)
	}

	s.log.WithFields(logrus.Fields{"actor_id": actor.UserID, "team_id": team.ID}).Info("team deleted")
	return nil
}
