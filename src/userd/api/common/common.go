// Package common holds helpers shared by the userd API handler packages.
package common

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bitswalk/userd/src/common/errors"
	"github.com/bitswalk/userd/src/common/logs"
	"github.com/bitswalk/userd/src/userd/auth"
	"github.com/gin-gonic/gin"
)

var log = logs.NewDiscard()

// SetLogger sets the logger for the common package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// ClaimsKey is the gin context key the auth middleware stores claims under
const ClaimsKey = "claims"

// GetClaimsFromContext retrieves the token claims stored by auth middleware
func GetClaimsFromContext(c *gin.Context) *auth.TokenClaims {
	if claims, exists := c.Get(ClaimsKey); exists {
		if tokenClaims, ok := claims.(*auth.TokenClaims); ok {
			return tokenClaims
		}
	}
	return nil
}

// TokenFromRequest extracts a bearer token from X-Subject-Token or Authorization
func TokenFromRequest(c *gin.Context) string {
	if token := c.GetHeader("X-Subject-Token"); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

// ParseID parses the :id path parameter. Anything that is not a base-10
// int64 is answered with 400 and ok=false.
func ParseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		RespondError(c, errors.ErrInvalidFieldValue.
			WithMessagef("Invalid user id: %q", raw).
			WithDetail("id", raw))
		return 0, false
	}
	return id, true
}

// RespondError writes err with the status and body derived from its kind.
// Server-side failures are logged with their cause.
func RespondError(c *gin.Context, err error) {
	status := errors.GetHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, errors.NewResponse(err))
}

// AbortWithError is RespondError for middleware
func AbortWithError(c *gin.Context, err error) {
	RespondError(c, err)
	c.Abort()
}
