package users

import (
	"context"

	"github.com/bitswalk/userd/src/userd/users"
)

// Manager is the part of users.Manager the handlers call
type Manager interface {
	CreateUser(ctx context.Context, in users.CreateInput) (*users.UserDTO, error)
	GetUserByID(ctx context.Context, id int64) (*users.UserDTO, error)
	GetAllUsers(ctx context.Context) ([]users.UserDTO, error)
	GetActiveUsers(ctx context.Context) ([]users.UserDTO, error)
	GetInactiveUsers(ctx context.Context) ([]users.UserDTO, error)
	UpdateUser(ctx context.Context, id int64, in users.UpdateInput) (*users.UserDTO, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Handler handles user HTTP requests
type Handler struct {
	manager Manager
}

// Config contains configuration options for the Handler
type Config struct {
	Manager Manager
}

// CreateUserRequest represents the request to create a user
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,notblank" example:"John Doe"`
	Email string `json:"email" validate:"required,email" example:"john@example.com"`
	Phone string `json:"phone" validate:"required,notblank" example:"1234567890"`
}

// UpdateUserRequest represents a partial update. Omitted or null fields are
// left unchanged.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty" example:"John Doe"`
	Email  *string `json:"email,omitempty" example:"john@example.com"`
	Phone  *string `json:"phone,omitempty" example:"0987654321"`
	Active *bool   `json:"active,omitempty" example:"false"`
}

// UserListResponse represents a list of users
type UserListResponse struct {
	Count int             `json:"count" example:"1"`
	Users []users.UserDTO `json:"users"`
}
