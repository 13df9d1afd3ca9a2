// Package base serves the discovery, health and version endpoints.
package base

import (
	"net/http"
	"time"

	"github.com/bitswalk/userd/src/common/version"
	"github.com/gin-gonic/gin"
)

// VersionInfo is reported by the root and version endpoints
var VersionInfo = version.New()

// SetVersionInfo sets the version info for the base package
func SetVersionInfo(v *version.Info) {
	if v != nil {
		VersionInfo = v
	}
}

// NewHandler creates a new base handler
func NewHandler() *Handler {
	return &Handler{}
}

// HandleRoot returns API discovery information
// @Summary      API discovery
// @Tags         Base
// @Produce      json
// @Success      200  {object}  APIInfo
// @Router       / [get]
func (h *Handler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, APIInfo{
		Name:        "userd",
		Description: "User Management API Server",
		Version:     VersionInfo.Version,
		APIVersions: []string{"v1"},
		Endpoints: APIInfoEndpoints{
			Health:  "/v1/health",
			Version: "/v1/version",
			Users:   "/v1/users",
			Exports: "/v1/exports",
			Docs:    "/swagger/index.html",
			Auth: AuthEndpoints{
				Token:    "/auth/token",
				Validate: "/auth/validate",
			},
		},
	})
}

// HandleHealth returns the current health status of the server
// @Summary      Health check
// @Tags         Base
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /v1/health [get]
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleVersion returns version and build information for the server
// @Summary      Server version
// @Tags         Base
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /v1/version [get]
func (h *Handler) HandleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Version:        VersionInfo.Version,
		ReleaseVersion: VersionInfo.ReleaseVersion,
		BuildDate:      VersionInfo.BuildDate,
		GitCommit:      VersionInfo.GitCommit,
		GoVersion:      version.GoVersion(),
	})
}
