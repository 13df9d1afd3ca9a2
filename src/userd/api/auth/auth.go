// Package auth serves the admin token endpoints.
package auth

import (
	"net/http"

	"github.com/bitswalk/userd/src/common/errors"
	"github.com/bitswalk/userd/src/common/logs"
	"github.com/bitswalk/userd/src/userd/api/common"
	"github.com/bitswalk/userd/src/userd/auth"
	"github.com/gin-gonic/gin"
)

var log = logs.NewDiscard()

// SetLogger sets the logger for the auth API package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// NewHandler creates a new auth handler
func NewHandler(cfg Config) *Handler {
	return &Handler{
		authenticator: cfg.Authenticator,
		jwtService:    cfg.JWTService,
	}
}

// HandleToken exchanges admin credentials for a token
// @Summary      Issue an admin token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.Credentials  true  "Admin credentials"
// @Success      200      {object}  auth.TokenResponse
// @Failure      400      {object}  errors.Response
// @Failure      401      {object}  errors.Response
// @Failure      429      {object}  errors.Response
// @Failure      503      {object}  errors.Response
// @Router       /auth/token [post]
func (h *Handler) HandleToken(c *gin.Context) {
	if h.authenticator == nil || h.jwtService == nil {
		common.RespondError(c, errors.ErrAuthNotConfigured)
		return
	}

	var creds auth.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		common.RespondError(c, errors.ErrInvalidJSON.WithMessage("Username and password are required").WithCause(err))
		return
	}

	if err := h.authenticator.Authenticate(creds.Username, creds.Password); err != nil {
		common.AuditLog(c, common.AuditEvent{Action: "auth.token", Principal: creds.Username, Detail: "authentication failed"})
		common.RespondError(c, err)
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken(creds.Username)
	if err != nil {
		common.RespondError(c, errors.ErrInternal.WithCause(err))
		return
	}

	common.AuditLog(c, common.AuditEvent{Action: "auth.token", Principal: creds.Username, Success: true})
	log.Debug("Token issued", "username", creds.Username, "expires_at", expiresAt)

	c.Header("X-Subject-Token", token)
	c.JSON(http.StatusOK, auth.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  creds.Username,
	})
}

// HandleValidate reports whether the presented token is valid
// @Summary      Validate a token
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  ValidateResponse
// @Failure      401  {object}  errors.Response
// @Failure      503  {object}  errors.Response
// @Security     BearerAuth
// @Router       /auth/validate [get]
func (h *Handler) HandleValidate(c *gin.Context) {
	if h.jwtService == nil {
		common.RespondError(c, errors.ErrAuthNotConfigured)
		return
	}

	token := common.TokenFromRequest(c)
	if token == "" {
		common.RespondError(c, errors.ErrNoToken)
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ValidateResponse{
		Valid:     true,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt,
	})
}
