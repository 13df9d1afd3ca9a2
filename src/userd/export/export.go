// Package export writes point-in-time snapshots of the user collection to a
// storage backend as xz-compressed JSON.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/bitswalk/userd/src/common/errors"
	"github.com/bitswalk/userd/src/common/logs"
	"github.com/bitswalk/userd/src/userd/storage"
	"github.com/bitswalk/userd/src/userd/users"
	"github.com/ulikunitz/xz"
)

// package-level logger, can be set via SetLogger
var log = logs.NewDiscard()

// SetLogger sets the logger for the export package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

const (
	// Prefix is the storage key prefix of every snapshot
	Prefix = "exports/"
	// Suffix is the storage key suffix of every snapshot
	Suffix = ".json.xz"

	contentType = "application/x-xz"
)

// UserLister is the part of users.Manager an export needs
type UserLister interface {
	GetAllUsers(ctx context.Context) ([]users.UserDTO, error)
}

// Snapshot is the decoded content of an export
type Snapshot struct {
	ExportedAt int64           `json:"exported_at"`
	Count      int             `json:"count"`
	Users      []users.UserDTO `json:"users"`
}

// Result describes a snapshot that was written
type Result struct {
	Key        string `json:"key"`
	Count      int    `json:"count"`
	Size       int64  `json:"size"`
	ExportedAt int64  `json:"exported_at"`
}

// Exporter writes and reads user snapshots
type Exporter struct {
	users   UserLister
	backend storage.Backend
	now     func() time.Time
}

// NewExporter creates an Exporter
func NewExporter(lister UserLister, backend storage.Backend) *Exporter {
	return &Exporter{
		users:   lister,
		backend: backend,
		now:     time.Now,
	}
}

// Key returns the storage key for a snapshot taken at the given time
func Key(at time.Time) string {
	return fmt.Sprintf("%susers-%d%s", Prefix, at.UnixMilli(), Suffix)
}

// Snapshot reads every user and uploads them as one compressed document
func (e *Exporter) Snapshot(ctx context.Context) (*Result, error) {
	all, err := e.users.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}

	at := e.now()
	snap := Snapshot{
		ExportedAt: at.UnixMilli(),
		Count:      len(all),
		Users:      all,
	}

	var buf bytes.Buffer
	xzWriter, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, errors.ErrInternal.WithCause(err).WithMessage("Failed to create xz writer")
	}
	if err := json.NewEncoder(xzWriter).Encode(snap); err != nil {
		xzWriter.Close()
		return nil, errors.ErrInternal.WithCause(err).WithMessage("Failed to encode snapshot")
	}
	if err := xzWriter.Close(); err != nil {
		return nil, errors.ErrInternal.WithCause(err).WithMessage("Failed to compress snapshot")
	}

	key := Key(at)
	size := int64(buf.Len())
	if err := e.backend.Upload(ctx, key, &buf, size, contentType); err != nil {
		return nil, err
	}

	log.Info("User export written", "key", key, "users", snap.Count, "bytes", size, "storage", e.backend.Type())

	return &Result{
		Key:        key,
		Count:      snap.Count,
		Size:       size,
		ExportedAt: snap.ExportedAt,
	}, nil
}

// List returns the stored snapshots ordered by key, oldest first
func (e *Exporter) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	objects, err := e.backend.List(ctx, Prefix)
	if err != nil {
		return nil, err
	}

	out := make([]storage.ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		if ValidKey(obj.Key) {
			out = append(out, obj)
		}
	}
	return out, nil
}

// Open downloads and decodes a snapshot
func (e *Exporter) Open(ctx context.Context, key string) (*Snapshot, error) {
	if !ValidKey(key) {
		return nil, errors.ErrInvalidFieldValue.WithMessagef("Invalid export key: %s", key).WithDetail("key", key)
	}

	rc, _, err := e.backend.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return Decode(rc)
}

var keyPattern = regexp.MustCompile(`^` + regexp.QuoteMeta(Prefix) + `users-[0-9]+` + regexp.QuoteMeta(Suffix) + `$`)

// ValidKey reports whether key names a snapshot written by Key
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Decode reads an xz-compressed snapshot
func Decode(r io.Reader) (*Snapshot, error) {
	xzReader, err := xz.NewReader(r)
	if err != nil {
		return nil, errors.ErrStorageDownloadFailed.WithCause(err).WithMessage("Failed to create xz reader")
	}

	var snap Snapshot
	if err := json.NewDecoder(xzReader).Decode(&snap); err != nil {
		return nil, errors.ErrStorageDownloadFailed.WithCause(err).WithMessage("Failed to decode snapshot")
	}
	return &snap, nil
}
