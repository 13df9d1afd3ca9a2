package exports

import (
	"context"

	"github.com/bitswalk/userd/src/userd/export"
	"github.com/bitswalk/userd/src/userd/storage"
)

// Exporter is the part of export.Exporter the handlers call
type Exporter interface {
	Snapshot(ctx context.Context) (*export.Result, error)
	List(ctx context.Context) ([]storage.ObjectInfo, error)
	Open(ctx context.Context, key string) (*export.Snapshot, error)
}

// Handler handles export HTTP requests
type Handler struct {
	exporter Exporter
}

// Config contains configuration options for the Handler
type Config struct {
	Exporter Exporter
}

// ExportListResponse lists stored snapshots
type ExportListResponse struct {
	Count   int                  `json:"count" example:"1"`
	Exports []storage.ObjectInfo `json:"exports"`
}
