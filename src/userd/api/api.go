// Package api wires the userd HTTP handlers, middleware and routes.
package api

import (
	"github.com/bitswalk/userd/src/common/logs"
	"github.com/bitswalk/userd/src/common/version"
	apiauth "github.com/bitswalk/userd/src/userd/api/auth"
	"github.com/bitswalk/userd/src/userd/api/base"
	"github.com/bitswalk/userd/src/userd/api/common"
	"github.com/bitswalk/userd/src/userd/api/exports"
	apiusers "github.com/bitswalk/userd/src/userd/api/users"
)

// SetLogger sets the logger for the api package and subpackages
func SetLogger(l *logs.Logger) {
	common.SetLogger(l)
	apiusers.SetLogger(l)
	apiauth.SetLogger(l)
}

// SetVersionInfo sets the version info for the api package and subpackages
func SetVersionInfo(v *version.Info) {
	base.SetVersionInfo(v)
}

// New creates a new API instance with all subpackage handlers
func New(cfg Config) *API {
	a := &API{
		Base: base.NewHandler(),

		Auth: apiauth.NewHandler(apiauth.Config{
			Authenticator: cfg.Authenticator,
			JWTService:    cfg.JWTService,
		}),

		Users: apiusers.NewHandler(apiusers.Config{
			Manager: cfg.Manager,
		}),

		jwtService:  cfg.JWTService,
		authEnabled: cfg.AuthEnabled,
		rateLimiter: cfg.RateLimiter,
	}

	if cfg.Exporter != nil {
		a.Exports = exports.NewHandler(exports.Config{Exporter: cfg.Exporter})
	}

	return a
}

// HasExporter returns true if the export routes are served
func (a *API) HasExporter() bool {
	return a.Exports != nil
}

// AuthEnabled reports whether write routes require a token
func (a *API) AuthEnabled() bool {
	return a.authEnabled
}

// Stop releases background resources held by middleware
func (a *API) Stop() {
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}
}
