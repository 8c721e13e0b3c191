package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/devtrack/internal/authz"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/repository"
)

// guard bundles what every authorized operation needs: the engine, the
// directory to load targets from, a logger and a clock.
type guard struct {
	dir    repository.Directory
	engine *authz.Engine
	log    *logrus.Logger
	now    func() time.Time
}

func newGuard(dir repository.Directory, engine *authz.Engine, log *logrus.Logger) guard {
	return guard{dir: dir, engine: engine, log: log, now: time.Now}
}

// failure logs a storage fault server-side and returns the generic
// DirectoryFailure the caller sees.
func (g guard) failure(op string, err error) error {
	failure := apierrors.Directory(op, err)
	g.log.WithField("detail", failure.Detail()).Error("directory failure")
	return failure
}

// authorize returns nil when the engine allows the action.
func (g guard) authorize(ctx context.Context, actor authz.Actor, action authz.Action, target authz.Target) error {
	decision, err := g.engine.Check(ctx, actor, action, target)
	if err != nil {
		return g.failure("authorize "+string(action), err)
	}
	if !decision.Allowed {
		g.log.WithFields(logrus.Fields{
			"actor_id": actor.UserID,
			"role":     actor.Role.String(),
			"action":   string(action),
			"reason":   decision.Reason,
		}).Info("authorization denied")
	}
	return decision.Err()
}

func (g guard) findUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := g.dir.FindUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.Missing("user")
		}
		return nil, g.failure("find user", err)
	}
	return user, nil
}

func (g guard) findTeam(ctx context.Context, id uint64) (*models.Team, error) {
	team, err := g.dir.FindTeam(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.Missing("team")
		}
		return nil, g.failure("find team", err)
	}
	return team, nil
}

func (g guard) findOrganisation(ctx context.Context, id uint64) (*models.Organisation, error) {
	org, err := g.dir.FindOrganisation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.Missing("organisation")
		}
		return nil, g.failure("find organisation", err)
	}
	return org, nil
}

func (g guard) findDepartment(ctx context.Context, id uint64) (*models.Department, error) {
	dept, err := g.dir.FindDepartment(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.Missing("department")
		}
		return nil, g.failure("find department", err)
	}
	return dept, nil
}
