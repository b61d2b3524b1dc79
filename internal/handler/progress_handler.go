package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edtech-progress-api/internal/models"
	"github.com/noah-isme/edtech-progress-api/internal/service"
	appErrors "github.com/noah-isme/edtech-progress-api/pkg/errors"
	"github.com/noah-isme/edtech-progress-api/pkg/response"
)

// ProgressHandler wires HTTP endpoints to the progress service.
type ProgressHandler struct {
	service *service.ProgressService
}

// NewProgressHandler creates a new handler.
func NewProgressHandler(svc *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{service: svc}
}

// GetStatus godoc
// @Summary Read the status of one triple
// @Tags Progress
// @Produce json
// @Param subject query string true "Subject name"
// @Param chapter query string true "Chapter name"
// @Param component query string true "Cours, TD or TP"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /progress/status [get]
func (h *ProgressHandler) GetStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	key := models.TripleKey{
		Subject:   c.Query("subject"),
		Chapter:   c.Query("chapter"),
		Component: models.Component(c.Query("component")),
	}

	status, err := h.service.GetStatus(c.Request.Context(), claims.UserID, key)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"subject":   key.Subject,
		"chapter":   key.Chapter,
		"component": key.Component,
		"status":    status,
	})
}

// SetStatus godoc
// @Summary Update the status of one triple
// @Tags Progress
// @Accept json
// @Produce json
// @Param payload body models.SetStatusRequest true "Status payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /progress/status [put]
func (h *ProgressHandler) SetStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	if err := h.service.SetStatus(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Grouped godoc
// @Summary Per-subject, per-status counts for the caller
// @Tags Progress
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /progress [get]
func (h *ProgressHandler) Grouped(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	rows, err := h.service.GroupedBySubjectAndStatus(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rows)
}

// Catalog godoc
// @Summary The configured subject/chapter catalog
// @Tags Progress
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /catalog [get]
func (h *ProgressHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"subjects":   h.service.Catalog().Subjects(),
		"components": models.Components,
	})
}
