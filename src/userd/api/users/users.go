// Package users serves the /v1/users endpoints.
package users

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bitswalk/userd/src/common/errors"
	"github.com/bitswalk/userd/src/common/logs"
	"github.com/bitswalk/userd/src/userd/api/common"
	"github.com/bitswalk/userd/src/userd/users"
	"github.com/gin-gonic/gin"
)

var log = logs.NewDiscard()

// SetLogger sets the logger for the users API package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// NewHandler creates a new users handler
func NewHandler(cfg Config) *Handler {
	return &Handler{manager: cfg.Manager}
}

// HandleList returns every user, or only active ones with ?active=true
// @Summary      List users
// @Description  Returns all users ordered by id. active=true restricts to active users, active=false to inactive ones.
// @Tags         Users
// @Produce      json
// @Param        active  query     bool  false  "Filter by active flag"
// @Success      200     {object}  UserListResponse
// @Failure      400     {object}  errors.Response
// @Failure      500     {object}  errors.Response
// @Router       /v1/users [get]
func (h *Handler) HandleList(c *gin.Context) {
	raw, filtered := c.GetQuery("active")
	if !filtered {
		h.respondList(c, h.manager.GetAllUsers)
		return
	}

	active, err := strconv.ParseBool(raw)
	if err != nil {
		common.RespondError(c, errors.ErrInvalidFieldValue.
			WithMessagef("Invalid active filter: %q", raw).
			WithDetail("active", raw))
		return
	}

	if active {
		h.respondList(c, h.manager.GetActiveUsers)
		return
	}
	h.respondList(c, h.manager.GetInactiveUsers)
}

// HandleListActive returns the active users
// @Summary      List active users
// @Tags         Users
// @Produce      json
// @Success      200  {object}  UserListResponse
// @Failure      500  {object}  errors.Response
// @Router       /v1/users/active [get]
func (h *Handler) HandleListActive(c *gin.Context) {
	h.respondList(c, h.manager.GetActiveUsers)
}

func (h *Handler) respondList(c *gin.Context, list func(ctx context.Context) ([]users.UserDTO, error)) {
	result, err := list(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserListResponse{Count: len(result), Users: result})
}

// HandleGet returns a single user
// @Summary      Get a user
// @Tags         Users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  users.UserDTO
// @Failure      400  {object}  errors.Response
// @Failure      404  {object}  errors.Response
// @Failure      500  {object}  errors.Response
// @Router       /v1/users/{id} [get]
func (h *Handler) HandleGet(c *gin.Context) {
	id, ok := common.ParseID(c)
	if !ok {
		return
	}

	user, err := h.manager.GetUserByID(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// HandleCreate creates a new active user
// @Summary      Create a user
// @Description  Creates a user. The email must not be held by any other user.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request  body      CreateUserRequest  true  "User to create"
// @Success      201      {object}  users.UserDTO
// @Failure      400      {object}  errors.ValidationResponse
// @Failure      401      {object}  errors.Response
// @Failure      409      {object}  errors.Response
// @Failure      500      {object}  errors.Response
// @Security     BearerAuth
// @Router       /v1/users [post]
func (h *Handler) HandleCreate(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, errors.ErrInvalidJSON.WithCause(err))
		return
	}

	in, fields := validateCreate(req)
	if fields != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationResponse(fields))
		return
	}

	user, err := h.manager.CreateUser(c.Request.Context(), in)
	if err != nil {
		common.AuditLog(c, common.AuditEvent{Action: "user.create", Detail: err.Error()})
		common.RespondError(c, err)
		return
	}

	common.AuditLog(c, common.AuditEvent{
		Action:   "user.create",
		Resource: fmt.Sprintf("user:%d", user.ID),
		Success:  true,
	})
	c.Header("Location", fmt.Sprintf("/v1/users/%d", user.ID))
	c.JSON(http.StatusCreated, user)
}

// HandleUpdate applies a partial update to a user
// @Summary      Update a user
// @Description  Only the fields present in the body are changed. PUT and PATCH behave the same.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id       path      int                true  "User ID"
// @Param        request  body      UpdateUserRequest  true  "Fields to change"
// @Success      200      {object}  users.UserDTO
// @Failure      400      {object}  errors.ValidationResponse
// @Failure      401      {object}  errors.Response
// @Failure      404      {object}  errors.Response
// @Failure      409      {object}  errors.Response
// @Failure      500      {object}  errors.Response
// @Security     BearerAuth
// @Router       /v1/users/{id} [put]
// @Router       /v1/users/{id} [patch]
func (h *Handler) HandleUpdate(c *gin.Context) {
	id, ok := common.ParseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, errors.ErrInvalidJSON.WithCause(err))
		return
	}

	in, fields := validateUpdate(req)
	if fields != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationResponse(fields))
		return
	}

	resource := fmt.Sprintf("user:%d", id)
	user, err := h.manager.UpdateUser(c.Request.Context(), id, in)
	if err != nil {
		common.AuditLog(c, common.AuditEvent{Action: "user.update", Resource: resource, Detail: err.Error()})
		common.RespondError(c, err)
		return
	}

	common.AuditLog(c, common.AuditEvent{Action: "user.update", Resource: resource, Success: true})
	c.JSON(http.StatusOK, user)
}

// HandleDelete removes a user
// @Summary      Delete a user
// @Tags         Users
// @Param        id   path  int  true  "User ID"
// @Success      204
// @Failure      400  {object}  errors.Response
// @Failure      401  {object}  errors.Response
// @Failure      404  {object}  errors.Response
// @Failure      500  {object}  errors.Response
// @Security     BearerAuth
// @Router       /v1/users/{id} [delete]
func (h *Handler) HandleDelete(c *gin.Context) {
	id, ok := common.ParseID(c)
	if !ok {
		return
	}

	resource := fmt.Sprintf("user:%d", id)
	if err := h.manager.DeleteUser(c.Request.Context(), id); err != nil {
		common.AuditLog(c, common.AuditEvent{Action: "user.delete", Resource: resource, Detail: err.Error()})
		common.RespondError(c, err)
		return
	}

	common.AuditLog(c, common.AuditEvent{Action: "user.delete", Resource: resource, Success: true})
	log.Debug("User deleted via API", "id", id)
	c.Status(http.StatusNoContent)
}
