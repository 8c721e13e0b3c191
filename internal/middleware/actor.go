package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/devtrack/internal/authz"
	"github.com/yukikurage/devtrack/internal/constants"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/services"
)

// LoadActor reloads the session's user on every request and stores the
// derived actor in the context. Sessions of accounts archived or deleted
// since login are cleared. Must run after RequireAuth.
func LoadActor(authService *services.AuthService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		actor, _, err := authService.ResolveActor(c.Request.Context(), userID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrAccountArchived):
				_ = EndSession(c)
				apierrors.AccountArchived(c)
			case errors.Is(err, services.ErrUserNotFound):
				_ = EndSession(c)
				apierrors.Unauthorized(c, "")
			default:
				log.WithError(err).WithField("user_id", userID).Error("failed to load actor")
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyActor, actor)
		c.Next()
	}
}

// GetActor retrieves the actor stored by LoadActor
func GetActor(c *gin.Context) (authz.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return authz.Actor{}, false
	}
	actor, ok := value.(authz.Actor)
	return actor, ok
}

// RequireRole rejects actors below min before the handler runs. Handlers
// still ask the permission engine; this only keeps whole route groups closed
// to lower roles.
func RequireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !actor.Role.IsAtLeast(min) {
			apierrors.Respond(c, apierrors.Denied(authz.ReasonInsufficientRole))
			c.Abort()
			return
		}
		c.Next()
	}
}
