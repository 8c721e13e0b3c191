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

const (
	reasonArchiveSelf = "cannot archive your own account"
	reasonDeleteSelf  = "cannot delete your own account"
)

// LifecycleService moves user accounts between active, archived and deleted.
type LifecycleService struct {
	guard
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(dir repository.Directory, engine *authz.Engine, log *logrus.Logger) *LifecycleService {
	return &LifecycleService{guard: newGuard(dir, engine, log)}
}

// Archive archives an active user. Archiving an archived user fails with
// InvalidTransition and leaves the stored archive record untouched.
func (s *LifecycleService) Archive(ctx context.Context, actor authz.Actor, targetID uint64) (*models.User, error) {
	target, err := s.findUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionArchiveUser, authz.UserTarget(target)); err != nil {
		return nil, err
	}
	if target.ID == actor.UserID {
		return nil, apierrors.Transition(reasonArchiveSelf)
	}

	next, err := target.Lifecycle.Archive(actor.UserID, s.now())
	if err != nil {
		return nil, apierrors.Transition(err.Error())
	}

	return s.apply(ctx, actor, target, next, func(l models.Lifecycle) error {
		_, err := l.Archive(actor.UserID, s.now())
		return err
	})
}

// Unarchive restores an archived user. Whoever may archive a user may
// unarchive them.
func (s *LifecycleService) Unarchive(ctx context.Context, actor authz.Actor, targetID uint64) (*models.User, error) {
	target, err := s.findUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionUnarchiveUser, authz.UserTarget(target)); err != nil {
		return nil, err
	}

	next, err := target.Lifecycle.Unarchive()
	if err != nil {
		return nil, apierrors.Transition(err.Error())
	}

	return s.apply(ctx, actor, target, next, func(l models.Lifecycle) error {
		_, err := l.Unarchive()
		return err
	})
}

// apply writes next if the stored state still matches what target was read
// with. When another request got there first, the reason is recomputed from
// the fresh row.
func (s *LifecycleService) apply(ctx context.Context, actor authz.Actor, target *models.User, next models.Lifecycle, retry func(models.Lifecycle) error) (*models.User, error) {
	err := s.dir.SetUserLifecycle(ctx, target.ID, target.Lifecycle.State, next)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrStateConflict):
		current, findErr := s.findUser(ctx, target.ID)
		if findErr != nil {
			return nil, findErr
		}
		if retryErr := retry(current.Lifecycle); retryErr != nil {
			return nil, apierrors.Transition(retryErr.Error())
		}
		return nil, apierrors.Transition("account changed concurrently, try again")
	default:
		return nil, s.failure("set user lifecycle", err)
	}

	s.log.WithFields(logrus.Fields{
		"actor_id":  actor.UserID,
		"target_id": target.ID,
		"from":      target.Lifecycle.State,
		"to":        next.State,
	}).Info("user lifecycle changed")

	updated := *target
	updated.Lifecycle = next
	return &updated, nil
}

// Delete permanently removes a user and everything that depends on them.
// There is no way back.
func (s *LifecycleService) Delete(ctx context.Context, actor authz.Actor, targetID uint64) error {
	target, err := s.findUser(ctx, targetID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, authz.ActionDeleteUser, authz.UserTarget(target)); err != nil {
		return err
	}
	if target.ID == actor.UserID {
		return apierrors.Transition(reasonDeleteSelf)
	}
	if _, err := target.Lifecycle.Delete(); err != nil {
		return apierrors.Transition(err.Error())
	}

	if err := s.dir.CascadeDeleteUser(ctx, target.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierrors.Missing("user")
		}
		return s.failure("cascade delete user", err)
	}

	s.log.WithFields(logrus.Fields{
		"actor_id":  actor.UserID,
		"target_id": target.ID,
		"username":  target.Username,
	}).Warn("user permanently deleted")

	return nil
}
