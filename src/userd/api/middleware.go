package api

import (
	"net/http"

	"github.com/bitswalk/userd/src/common/errors"
	"github.com/bitswalk/userd/src/userd/api/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// requestID echoes the caller's X-Request-ID or assigns a fresh one
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// rateLimitAuth returns middleware that rate-limits the token endpoints.
func (a *API) rateLimitAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.rateLimiter == nil {
			c.Next()
			return
		}
		key := "ip:" + c.ClientIP()
		if !a.rateLimiter.Allow(key, a.rateLimiter.config.AuthRequestsPerMin) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errors.ErrRateLimited.ToResponse())
			return
		}
		c.Next()
	}
}

// rateLimitAPI returns middleware that rate-limits general API endpoints.
func (a *API) rateLimitAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.rateLimiter == nil {
			c.Next()
			return
		}
		key := "ip:" + c.ClientIP()
		if !a.rateLimiter.Allow(key, a.rateLimiter.config.APIRequestsPerMin) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errors.ErrRateLimited.ToResponse())
			return
		}
		c.Next()
	}
}

// authRequired is a middleware that requires a valid admin token.
// It lets every request through when auth is disabled.
func (a *API) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.authEnabled {
			c.Next()
			return
		}

		if a.jwtService == nil {
			common.AbortWithError(c, errors.ErrAuthNotConfigured)
			return
		}

		token := common.TokenFromRequest(c)
		if token == "" {
			common.AbortWithError(c, errors.ErrNoToken)
			return
		}

		claims, err := a.jwtService.ValidateToken(token)
		if err != nil {
			common.AbortWithError(c, err)
			return
		}

		c.Set(common.ClaimsKey, claims)
		c.Next()
	}
}
