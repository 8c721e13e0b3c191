package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/devtrack/internal/dto"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/middleware"
	"github.com/yukikurage/devtrack/internal/services"
	"github.com/yukikurage/devtrack/internal/utils"
)

type EntryHandler struct {
	entryService *services.EntryService
}

func NewEntryHandler(entryService *services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// ListEntries returns the caller's entries
func (h *EntryHandler) ListEntries(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	entries, total, err := h.entryService.List(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryListResponse(entries, params, total))
}

// CreateEntry records an entry for the caller
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type CreateEntryRequest struct {
		Title       string     `json:"title" binding:"required,max=255"`
		Description string     `json:"description"`
		Hours       float64    `json:"hours"`
		CompletedOn *time.Time `json:"completed_on"`
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := h.entryService.Create(c.Request.Context(), actor, services.EntryInput{
		Title:       req.Title,
		Description: req.Description,
		Hours:       req.Hours,
		CompletedOn: req.CompletedOn,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryDTO(*entry))
}

// AttachDocument stores document metadata on one of the caller's entries
func (h *EntryHandler) AttachDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type AttachDocumentRequest struct {
		Filename    string `json:"filename" binding:"required,max=255"`
		ContentType string `json:"content_type"`
		SizeBytes   int64  `json:"size_bytes"`
	}

	var req AttachDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	doc, err := h.entryService.AttachDocument(c.Request.Context(), actor, middleware.GetIDParam(c, "id"), services.DocumentInput{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentDTO(*doc))
}
