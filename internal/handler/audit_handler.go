package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edtech-progress-api/internal/service"
	appErrors "github.com/noah-isme/edtech-progress-api/pkg/errors"
	"github.com/noah-isme/edtech-progress-api/pkg/response"
)

// AuditHandler serves the audit trail and its exports.
type AuditHandler struct {
	audit   *service.AuditService
	exports *service.ExportService
}

// NewAuditHandler creates a new handler. exports may be nil when the export
// endpoints are disabled.
func NewAuditHandler(audit *service.AuditService, exports *service.ExportService) *AuditHandler {
	return &AuditHandler{audit: audit, exports: exports}
}

// RecentActivity godoc
// @Summary Recent audit entries for the caller
// @Tags Activity
// @Produce json
// @Param limit query int false "Maximum entries (default 5)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /activity [get]
func (h *AuditHandler) RecentActivity(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	entries, err := h.audit.RecentForUser(c.Request.Context(), claims.UserID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries)
}

// All godoc
// @Summary Full audit trail with usernames
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/audit [get]
func (h *AuditHandler) All(c *gin.Context) {
	entries, err := h.audit.AllWithUsernames(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries)
}

// ExportAudit godoc
// @Summary Download the audit trail as CSV or PDF
// @Tags Admin
// @Produce octet-stream
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /admin/audit/export [get]
func (h *AuditHandler) ExportAudit(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.exports.AuditTrail(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

// ExportUserProgress godoc
// @Summary Download one user's progress rows as CSV
// @Tags Admin
// @Produce octet-stream
// @Param id path int true "User ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /admin/users/{id}/progress/export [get]
func (h *AuditHandler) ExportUserProgress(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid user id"))
		return
	}

	result, err := h.exports.UserProgress(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
