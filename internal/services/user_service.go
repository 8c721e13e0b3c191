package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/devtrack/internal/authz"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/repository"
	"github.com/yukikurage/devtrack/internal/utils"
)

const (
	reasonGrantAboveOwn = "cannot grant a role above your own"
	reasonOwnRole       = "cannot change your own role"
)

var ErrInvalidRole = errors.New("invalid role")

// UserService lists users and changes their roles.
type UserService struct {
	guard
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(dir repository.Directory, userRepo repository.UserRepository, engine *authz.Engine, log *logrus.Logger) *UserService {
	return &UserService{guard: newGuard(dir, engine, log), userRepo: userRepo}
}

// ListInput holds the optional filters of a user listing.
type ListInput struct {
	State      *models.LifecycleState
	Role       *models.Role
	Pagination utils.PaginationParams
}

// List returns users visible to the actor. Scoped admins only see their own
// organisation.
func (s *UserService) List(ctx context.Context, actor authz.Actor, input ListInput) ([]models.User, int64, error) {
	if err := s.authorize(ctx, actor, authz.ActionListUsers, authz.NoTarget()); err != nil {
		return nil, 0, err
	}

	filter := repository.UserFilter{
		OrganisationID: actor.OrganisationID,
		State:          input.State,
		Role:           input.Role,
		Pagination:     input.Pagination,
	}
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, s.failure("list users", err)
	}
	return users, total, nil
}

// Get returns a single user to an admin allowed to see them.
func (s *UserService) Get(ctx context.Context, actor authz.Actor, userID uint64) (*models.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionListUsers, authz.UserTarget(user)); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateRoleInput is the role to grant and, for admins, the organisation
// anchoring it.
type UpdateRoleInput struct {
	Role           models.Role
	OrganisationID *uint64
}

// UpdateRole changes a user's role. Nobody can grant an effective role above
// their own, and scoped admins can only anchor admins to their organisation.
func (s *UserService) UpdateRole(ctx context.Context, actor authz.Actor, userID uint64, input UpdateRoleInput) (*models.User, error) {
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	target, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionUpdateUserRole, authz.UserTarget(target)); err != nil {
		return nil, err
	}
	if target.ID == actor.UserID {
		return nil, apierrors.Denied(reasonOwnRole)
	}

	// Only admins carry an organisation anchor.
	var anchor *uint64
	if input.Role == models.RoleAdmin {
		anchor = input.OrganisationID
	}
	if anchor != nil {
		if _, err := s.findOrganisation(ctx, *anchor); err != nil {
			return nil, err
		}
	}

	granted := authz.NewActor(&models.User{ID: target.ID, Role: input.Role, OrganisationID: anchor})
	if granted.Role.Rank() > actor.Role.Rank() {
		return nil, apierrors.Denied(reasonGrantAboveOwn)
	}
	if !actor.IsSuperAdmin() && granted.OrganisationID != nil && !actor.InOrganisation(granted.OrganisationID) {
		return nil, apierrors.Denied(authz.ReasonCrossOrganisation)
	}

	if err := s.userRepo.UpdateRole(ctx, target.ID, input.Role, anchor); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.Missing("user")
		}
		return nil, s.failure("update user role", err)
	}

	s.log.WithFields(logrus.Fields{
		"actor_id":  actor.UserID,
		"target_id": target.ID,
		"from":      target.Role.String(),
		"to":        input.Role.String(),
	}).Info("user role changed")

	target.Role = input.Role
	target.OrganisationID = anchor
	return target, nil
}
