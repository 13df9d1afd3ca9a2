package api

import (
	apiauth "github.com/bitswalk/userd/src/userd/api/auth"
	"github.com/bitswalk/userd/src/userd/api/base"
	"github.com/bitswalk/userd/src/userd/api/exports"
	apiusers "github.com/bitswalk/userd/src/userd/api/users"
	"github.com/bitswalk/userd/src/userd/auth"
)

// API holds all handler instances and dependencies
type API struct {
	// Subpackage handlers
	Base    *base.Handler
	Auth    *apiauth.Handler
	Users   *apiusers.Handler
	Exports *exports.Handler

	// Direct dependencies for middleware
	jwtService  *auth.JWTService
	authEnabled bool
	rateLimiter *RateLimiter
}

// Config contains API configuration options
type Config struct {
	// Manager serves every /v1/users route
	Manager apiusers.Manager
	// Exporter enables the /v1/exports routes when set
	Exporter exports.Exporter

	Authenticator *auth.Authenticator
	JWTService    *auth.JWTService
	// AuthEnabled guards user writes and exports with a bearer token
	AuthEnabled bool

	// RateLimiter is optional; nil disables rate limiting
	RateLimiter *RateLimiter
}
