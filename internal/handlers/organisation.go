package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/devtrack/internal/dto"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/middleware"
	"github.com/yukikurage/devtrack/internal/services"
)

type OrganisationHandler struct {
	orgService *services.OrganisationService
}

func NewOrganisationHandler(orgService *services.OrganisationService) *OrganisationHandler {
	return &OrganisationHandler{orgService: orgService}
}

type nameRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// CreateOrganisation creates a new organisation
func (h *OrganisationHandler) CreateOrganisation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganisation(c.Request.Context(), actor, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganisationDTO(*org))
}

// CreateDepartment adds a department to an organisation
func (h *OrganisationHandler) CreateDepartment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dept, err := h.orgService.CreateDepartment(c.Request.Context(), actor, middleware.GetIDParam(c, "id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDepartmentDTO(*dept))
}

// ListDepartments lists an organisation's departments
func (h *OrganisationHandler) ListDepartments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	departments, err := h.orgService.ListDepartments(c.Request.Context(), actor, middleware.GetIDParam(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"departments": dto.ToDepartmentDTOs(departments),
	})
}
