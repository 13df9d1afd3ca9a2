// Package config stores the userctl login state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitswalk/userd/src/common/paths"
)

const tokenFileName = "token.json"

// tokenDir holds the token file; tests point it elsewhere
var tokenDir = "~/.userctl"

// TokenData holds the stored admin token
type TokenData struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	ServerURL string `json:"server_url"`
	Username  string `json:"username"`
}

// TokenFilePath returns the path of the token file
func TokenFilePath() string {
	return filepath.Join(paths.Expand(tokenDir), tokenFileName)
}

// SaveToken writes the token data to disk
func SaveToken(data *TokenData) error {
	path := TokenFilePath()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// LoadToken reads the token data from disk
func LoadToken() (*TokenData, error) {
	data, err := os.ReadFile(TokenFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tokenData TokenData
	if err := json.Unmarshal(data, &tokenData); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &tokenData, nil
}

// ClearToken removes the token file from disk
func ClearToken() error {
	if err := os.Remove(TokenFilePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
