package client

import (
	"context"
	"strings"
	"time"
)

// ExportResult describes a snapshot the server wrote
type ExportResult struct {
	Key        string `json:"key"`
	Count      int    `json:"count"`
	Size       int64  `json:"size"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportInfo describes a stored snapshot
type ExportInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ExportListResponse lists stored snapshots
type ExportListResponse struct {
	Count   int          `json:"count"`
	Exports []ExportInfo `json:"exports"`
}

// Snapshot is the decoded content of an export
type Snapshot struct {
	ExportedAt int64  `json:"exported_at"`
	Count      int    `json:"count"`
	Users      []User `json:"users"`
}

// CreateExport asks the server to snapshot all users
func (c *Client) CreateExport(ctx context.Context) (*ExportResult, error) {
	var resp ExportResult
	if err := c.Post(ctx, "/v1/exports", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListExports returns the stored snapshots
func (c *Client) ListExports(ctx context.Context) (*ExportListResponse, error) {
	var resp ExportListResponse
	if err := c.Get(ctx, "/v1/exports", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetExport downloads and decodes a snapshot
func (c *Client) GetExport(ctx context.Context, key string) (*Snapshot, error) {
	var resp Snapshot
	if err := c.Get(ctx, "/v1/exports/"+strings.TrimPrefix(key, "/"), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
