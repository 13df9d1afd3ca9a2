// Package exports serves the /v1/exports endpoints.
package exports

import (
	"net/http"
	"strings"

	"github.com/bitswalk/userd/src/userd/api/common"
	"github.com/gin-gonic/gin"
)

// NewHandler creates a new exports handler
func NewHandler(cfg Config) *Handler {
	return &Handler{exporter: cfg.Exporter}
}

// HandleCreate writes a snapshot of all users to storage
// @Summary      Export users
// @Tags         Exports
// @Produce      json
// @Success      201  {object}  export.Result
// @Failure      401  {object}  errors.Response
// @Failure      500  {object}  errors.Response
// @Failure      503  {object}  errors.Response
// @Security     BearerAuth
// @Router       /v1/exports [post]
func (h *Handler) HandleCreate(c *gin.Context) {
	result, err := h.exporter.Snapshot(c.Request.Context())
	if err != nil {
		common.AuditLog(c, common.AuditEvent{Action: "export.create", Detail: err.Error()})
		common.RespondError(c, err)
		return
	}

	common.AuditLog(c, common.AuditEvent{Action: "export.create", Resource: result.Key, Success: true})
	c.JSON(http.StatusCreated, result)
}

// HandleList lists stored snapshots
// @Summary      List exports
// @Tags         Exports
// @Produce      json
// @Success      200  {object}  ExportListResponse
// @Failure      401  {object}  errors.Response
// @Failure      503  {object}  errors.Response
// @Security     BearerAuth
// @Router       /v1/exports [get]
func (h *Handler) HandleList(c *gin.Context) {
	objects, err := h.exporter.List(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExportListResponse{Count: len(objects), Exports: objects})
}

// HandleGet returns the decoded content of a snapshot
// @Summary      Read an export
// @Tags         Exports
// @Produce      json
// @Param        key  path      string  true  "Export key, e.g. exports/users-1735689600000.json.xz"
// @Success      200  {object}  export.Snapshot
// @Failure      400  {object}  errors.Response
// @Failure      401  {object}  errors.Response
// @Failure      404  {object}  errors.Response
// @Security     BearerAuth
// @Router       /v1/exports/{key} [get]
func (h *Handler) HandleGet(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	snap, err := h.exporter.Open(c.Request.Context(), key)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
