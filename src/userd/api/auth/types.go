package auth

import (
	"time"

	"github.com/bitswalk/userd/src/userd/auth"
)

// Handler handles admin authentication requests
type Handler struct {
	authenticator *auth.Authenticator
	jwtService    *auth.JWTService
}

// Config contains configuration options for the Handler
type Config struct {
	Authenticator *auth.Authenticator
	JWTService    *auth.JWTService
}

// ValidateResponse reports the principal behind a valid token
type ValidateResponse struct {
	Valid     bool      `json:"valid" example:"true"`
	Username  string    `json:"username" example:"admin"`
	ExpiresAt time.Time `json:"expires_at" example:"2025-01-02T10:30:00Z"`
}
