package client

import (
	"context"
	"fmt"
)

// User represents a user record
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Active    bool   `json:"active"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// UserListResponse represents a list of users
type UserListResponse struct {
	Count int    `json:"count"`
	Users []User `json:"users"`
}

// CreateUserRequest represents the request to create a user
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UpdateUserRequest represents a partial update; nil fields are not sent
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// IsEmpty reports whether the update carries no fields
func (r *UpdateUserRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil && r.Active == nil
}

// ListUsers returns all users, or only the active ones
func (c *Client) ListUsers(ctx context.Context, activeOnly bool) (*UserListResponse, error) {
	path := "/v1/users"
	if activeOnly {
		path = "/v1/users/active"
	}

	var resp UserListResponse
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetUser returns a user by ID
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var resp User
	if err := c.Get(ctx, fmt.Sprintf("/v1/users/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateUser creates a new user
func (c *Client) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	var resp User
	if err := c.Post(ctx, "/v1/users", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateUser applies a partial update to a user
func (c *Client) UpdateUser(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	var resp User
	if err := c.Patch(ctx, fmt.Sprintf("/v1/users/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteUser deletes a user
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/v1/users/%d", id), nil)
}
