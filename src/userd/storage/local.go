package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bitswalk/userd/src/common/errors"
	"github.com/bitswalk/userd/src/common/paths"
)

// LocalConfig holds the local filesystem storage configuration
type LocalConfig struct {
	// BasePath is the root directory objects are stored under
	BasePath string
}

// LocalBackend implements storage on the local filesystem
type LocalBackend struct {
	basePath string
}

// NewLocal creates a new local filesystem storage backend
func NewLocal(cfg LocalConfig) (*LocalBackend, error) {
	basePath := paths.Expand(cfg.BasePath)

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.ErrStorageUnavailable.WithCause(err).
			WithMessagef("Failed to create storage directory %s", basePath)
	}

	abs, err := filepath.Abs(basePath)
	if err == nil {
		basePath = abs
	}

	return &LocalBackend{basePath: basePath}, nil
}

// fullPath maps a key to a path that cannot escape basePath
func (b *LocalBackend) fullPath(key string) string {
	// Rooting the key first makes Clean drop every leading ".."
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	return filepath.Join(b.basePath, clean)
}

// Upload writes to a temporary file and renames it into place
func (b *LocalBackend) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	fullPath := b.fullPath(key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return errors.ErrStorageUploadFailed.WithCause(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return errors.ErrStorageUploadFailed.WithCause(err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, reader)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return errors.ErrStorageUploadFailed.WithCause(err)
	}

	if size >= 0 && written != size {
		os.Remove(tmpPath)
		return errors.ErrStorageUploadFailed.
			WithMessagef("Size mismatch for %s: expected %d bytes, wrote %d", key, size, written)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return errors.ErrStorageUploadFailed.WithCause(err)
	}

	return nil
}

// Download opens a file from the local filesystem
func (b *LocalBackend) Download(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	fullPath := b.fullPath(key)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.ErrStorageNotFound.WithMessagef("Object not found: %s", key).WithDetail("key", key)
		}
		return nil, nil, errors.ErrStorageDownloadFailed.WithCause(err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, errors.ErrStorageDownloadFailed.WithCause(err)
	}

	return file, b.objectInfo(key, stat), nil
}

// Delete removes a file and any parent directories left empty.
// Deleting a missing key is not an error.
func (b *LocalBackend) Delete(ctx context.Context, key string) error {
	fullPath := b.fullPath(key)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.ErrStorageUnavailable.WithCause(err)
	}

	b.cleanEmptyDirs(filepath.Dir(fullPath))
	return nil
}

func (b *LocalBackend) cleanEmptyDirs(dir string) {
	for dir != b.basePath && strings.HasPrefix(dir, b.basePath) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			break
		}
		os.Remove(dir)
		dir = filepath.Dir(dir)
	}
}

// Exists checks if a file exists
func (b *LocalBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(b.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.ErrStorageUnavailable.WithCause(err)
	}
	return true, nil
}

// List walks basePath for files whose slash-separated key starts with prefix
func (b *LocalBackend) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	prefix = strings.TrimPrefix(prefix, "/")
	objects := []ObjectInfo{}

	err := filepath.Walk(b.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".upload-") {
			return nil
		}

		rel, err := filepath.Rel(b.basePath, path)
		if err != nil {
			return nil
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		objects = append(objects, *b.objectInfo(key, info))
		return ctx.Err()
	})
	if err != nil {
		return nil, errors.ErrStorageUnavailable.WithCause(err)
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

func (b *LocalBackend) objectInfo(key string, stat os.FileInfo) *ObjectInfo {
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &ObjectInfo{
		Key:          key,
		Size:         stat.Size(),
		ContentType:  contentType,
		ETag:         generateETag(stat),
		LastModified: stat.ModTime(),
	}
}

// generateETag derives an ETag from name, size and modification time
func generateETag(stat os.FileInfo) string {
	data := fmt.Sprintf("%s-%d-%d", stat.Name(), stat.Size(), stat.ModTime().UnixNano())
	hash := md5.Sum([]byte(data))
	return fmt.Sprintf("\"%s\"", hex.EncodeToString(hash[:]))
}

// Ping checks if the storage directory is accessible
func (b *LocalBackend) Ping(ctx context.Context) error {
	if _, err := os.Stat(b.basePath); err != nil {
		return errors.ErrStorageUnavailable.WithCause(err)
	}
	return nil
}

// Type returns the storage backend type
func (b *LocalBackend) Type() string {
	return TypeLocal
}

// Location returns the base path
func (b *LocalBackend) Location() string {
	return b.basePath
}
