package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/devtrack/internal/authz"
	"github.com/yukikurage/devtrack/internal/constants"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/middleware"
	"github.com/yukikurage/devtrack/internal/services"
)

// respondError maps service input errors to 400 and everything else through
// the domain failure taxonomy.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrUsernameRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidHours),
		errors.Is(err, services.ErrFilenameRequired),
		errors.Is(err, services.ErrInvalidSize),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrRoleMismatch),
		errors.Is(err, services.ErrMemberArchived):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrAccountArchived):
		apierrors.AccountArchived(c)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.Respond(c, err)
	}
}

// currentActor returns the actor loaded by middleware.LoadActor, writing a
// 401 when it is missing.
func currentActor(c *gin.Context) (authz.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return actor, ok
}
