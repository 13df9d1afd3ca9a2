package client

import (
	"context"
	"time"
)

// TokenResponse represents the token API response
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

// ValidateResponse represents the validate API response
type ValidateResponse struct {
	Valid     bool      `json:"valid"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges admin credentials for a token
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	var resp TokenResponse
	if err := c.Post(ctx, "/auth/token", credentials{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Validate checks the current token
func (c *Client) Validate(ctx context.Context) (*ValidateResponse, error) {
	var resp ValidateResponse
	if err := c.Get(ctx, "/auth/validate", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
