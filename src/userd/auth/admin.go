package auth

import (
	"crypto/subtle"

	"github.com/bitswalk/userd/src/common/errors"
	"golang.org/x/crypto/bcrypt"
)

// AdminConfig holds the single administrative principal
type AdminConfig struct {
	Username string
	// PasswordHash is a bcrypt hash, see `userd hash-password`
	PasswordHash string
}

// Authenticator verifies admin credentials
type Authenticator struct {
	username string
	hash     []byte
}

// NewAuthenticator creates an Authenticator for the configured admin
func NewAuthenticator(cfg AdminConfig) *Authenticator {
	return &Authenticator{
		username: cfg.Username,
		hash:     []byte(cfg.PasswordHash),
	}
}

// Configured reports whether an admin principal is set up
func (a *Authenticator) Configured() bool {
	return a.username != "" && len(a.hash) > 0
}

// Authenticate checks the credentials against the configured admin
func (a *Authenticator) Authenticate(username, password string) error {
	if !a.Configured() {
		return errors.ErrAuthNotConfigured
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	// always run bcrypt so a wrong username costs the same as a wrong password
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !userOK || passErr != nil {
		return errors.ErrInvalidCredentials
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for security.admin.password_hash
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
