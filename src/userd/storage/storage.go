// Package storage provides the backends user export snapshots are written to.
package storage

import (
	"context"
	"io"
	"time"
)

// Backend defines the interface for storage backends
type Backend interface {
	// Upload stores the content of reader under key. A size of -1 means unknown.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download opens an object. Missing keys return errors.ErrStorageNotFound.
	Download(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// List returns objects whose key starts with prefix, ordered by key
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Ping checks if the storage is accessible
	Ping(ctx context.Context) error

	// Type returns the storage backend type
	Type() string

	// Location returns a human-readable location description
	Location() string
}

// ObjectInfo holds metadata about a storage object
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Backend types
const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// Config holds the storage configuration
type Config struct {
	// Type is the storage backend type: "s3" or "local"
	Type string

	Local LocalConfig

	S3 S3Config
}

// DefaultConfig returns a default storage configuration (local filesystem)
func DefaultConfig() Config {
	return Config{
		Type: TypeLocal,
		Local: LocalConfig{
			BasePath: "~/.userd/exports",
		},
	}
}

// New creates a new storage backend based on configuration
func New(cfg Config) (Backend, error) {
	switch cfg.Type {
	case TypeS3:
		return NewS3(cfg.S3)
	default:
		return NewLocal(cfg.Local)
	}
}
