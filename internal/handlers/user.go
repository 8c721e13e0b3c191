package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/devtrack/internal/dto"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/middleware"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/services"
	"github.com/yukikurage/devtrack/internal/utils"
)

// UserHandler serves user administration and lifecycle endpoints.
type UserHandler struct {
	userService      *services.UserService
	lifecycleService *services.LifecycleService
}

func NewUserHandler(userService *services.UserService, lifecycleService *services.LifecycleService) *UserHandler {
	return &UserHandler{
		userService:      userService,
		lifecycleService: lifecycleService,
	}
}

// ListUsers returns users visible to the caller, filtered by ?state= and ?role=
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	input := services.ListInput{Pagination: utils.GetPaginationParams(c)}

	if state := c.Query("state"); state != "" {
		s := models.LifecycleState(state)
		if s != models.LifecycleActive && s != models.LifecycleArchived {
			apierrors.BadRequest(c, "Invalid state filter")
			return
		}
		input.State = &s
	}
	if name := c.Query("role"); name != "" {
		role, err := models.ParseRole(name)
		if err != nil {
			apierrors.BadRequest(c, "Invalid role filter")
			return
		}
		input.Role = &role
	}

	users, total, err := h.userService.List(c.Request.Context(), actor, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, input.Pagination, total))
}

// GetUser returns one user
func (h *UserHandler) GetUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), actor, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(*user))
}

// ArchiveUser archives an active user
func (h *UserHandler) ArchiveUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	user, err := h.lifecycleService.Archive(c.Request.Context(), actor, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(*user))
}

// UnarchiveUser restores an archived user
func (h *UserHandler) UnarchiveUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	user, err := h.lifecycleService.Unarchive(c.Request.Context(), actor, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(*user))
}

// DeleteUser permanently deletes a user
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.lifecycleService.Delete(c.Request.Context(), actor, middleware.GetIDParam(c, "id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateUserRole changes a user's role
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type UpdateRoleRequest struct {
		Role           string  `json:"role" binding:"required"`
		OrganisationID *uint64 `json:"organisation_id"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		apierrors.BadRequest(c, "Invalid role")
		return
	}

	user, err := h.userService.UpdateRole(c.Request.Context(), actor, middleware.GetIDParam(c, "id"), services.UpdateRoleInput{
		Role:           role,
		OrganisationID: req.OrganisationID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(*user))
}
