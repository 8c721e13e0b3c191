package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/devtrack/internal/dto"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/middleware"
	"github.com/yukikurage/devtrack/internal/services"
)

// TeamHandler serves team, membership and assignment endpoints.
type TeamHandler struct {
	teamService       *services.TeamService
	membershipService *services.MembershipService
}

func NewTeamHandler(teamService *services.TeamService, membershipService *services.MembershipService) *TeamHandler {
	return &TeamHandler{
		teamService:       teamService,
		membershipService: membershipService,
	}
}

type teamRequest struct {
	Name         string  `json:"name" binding:"required,max=255"`
	Description  string  `json:"description"`
	DepartmentID *uint64 `json:"department_id"`
}

type userRefRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

// CreateTeam creates a team
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), actor, services.TeamInput{
		Name:         req.Name,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// GetTeam returns the team overview
func (h *TeamHandler) GetTeam(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	overview, err := h.teamService.GetOverview(c.Request.Context(), actor, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamOverviewDTO(*overview.Team, overview.Members, overview.Managers, overview.Partners))
}

// UpdateTeam renames a team or changes its description
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.UpdateTeam(c.Request.Context(), actor, middleware.GetIDParam(c, "id"), services.TeamInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// DeleteTeam deletes a team
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(c.Request.Context(), actor, middleware.GetIDParam(c, "id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMember returns one member of a team
func (h *TeamHandler) GetMember(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	user, err := h.teamService.GetMemberDetail(c.Request.Context(), actor, middleware.GetIDParam(c, "id"), middleware.GetIDParam(c, "user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// AddMember adds a user to a team
func (h *TeamHandler) AddMember(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req userRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	membership, err := h.membershipService.AddMember(c.Request.Context(), actor, req.UserID, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MembershipDTO{UserID: membership.UserID, TeamID: membership.TeamID, Since: membership.JoinedAt})
}

// RemoveMember removes a user from a team
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.membershipService.RemoveMember(c.Request.Context(), actor, middleware.GetIDParam(c, "user_id"), middleware.GetIDParam(c, "id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignManager assigns a manager to a team
func (h *TeamHandler) AssignManager(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req userRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.membershipService.AssignManager(c.Request.Context(), actor, req.UserID, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MembershipDTO{UserID: assignment.UserID, TeamID: assignment.TeamID, Since: assignment.AssignedAt})
}

// UnassignManager removes a manager from a team
func (h *TeamHandler) UnassignManager(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.membershipService.UnassignManager(c.Request.Context(), actor, middleware.GetIDParam(c, "user_id"), middleware.GetIDParam(c, "id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignPartner assigns a partner to a team
func (h *TeamHandler) AssignPartner(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req userRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.membershipService.AssignPartner(c.Request.Context(), actor, req.UserID, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MembershipDTO{UserID: assignment.UserID, TeamID: assignment.TeamID, Since: assignment.AssignedAt})
}

// UnassignPartner removes a partner from a team
func (h *TeamHandler) UnassignPartner(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.membershipService.UnassignPartner(c.Request.Context(), actor, middleware.GetIDParam(c, "user_id"), middleware.GetIDParam(c, "id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
