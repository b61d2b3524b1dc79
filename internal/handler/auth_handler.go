package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edtech-progress-api/internal/models"
	"github.com/noah-isme/edtech-progress-api/internal/service"
	appErrors "github.com/noah-isme/edtech-progress-api/pkg/errors"
	"github.com/noah-isme/edtech-progress-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	auth  *service.AuthService
	audit *service.AuditService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(auth *service.AuthService, audit *service.AuditService) *AuthHandler {
	return &AuthHandler{auth: auth, audit: audit}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by username and password, returns a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, expiresAt, err := h.auth.IssueToken(user)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.audit.Record(c.Request.Context(), user.ID, models.AuditActionLogin, "Logged in"); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		IssuedAt:    time.Now().UTC(),
		User: models.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
	})
}
