package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitswalk/userd/src/common/errors"
)

// =============================================================================
// Factory
// =============================================================================

func TestNew_DefaultsToLocal(t *testing.T) {
	backend, err := New(Config{Local: LocalConfig{BasePath: t.TempDir()}})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	if backend.Type() != TypeLocal {
		t.Fatalf("expected type 'local', got '%s'", backend.Type())
	}
}

func TestNew_S3(t *testing.T) {
	backend, err := New(Config{Type: TypeS3, S3: S3Config{
		Endpoint:     "http://localhost:9000",
		Bucket:       "exports",
		UsePathStyle: true,
	}})
	if err != nil {
		t.Fatalf("failed to create s3 storage: %v", err)
	}
	if backend.Type() != TypeS3 {
		t.Errorf("expected type 's3', got '%s'", backend.Type())
	}
	if backend.Location() != "http://localhost:9000/exports" {
		t.Errorf("unexpected location %s", backend.Location())
	}
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(S3Config{Endpoint: "http://localhost:9000"})
	if !errors.Is(err, errors.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Type != TypeLocal {
		t.Fatalf("expected default type 'local', got '%s'", cfg.Type)
	}
	if cfg.Local.BasePath == "" {
		t.Fatal("expected default base path to be set")
	}
}

// =============================================================================
// Local backend
// =============================================================================

func setupLocalBackend(t *testing.T) (*LocalBackend, string) {
	t.Helper()

	dir := t.TempDir()
	backend, err := NewLocal(LocalConfig{BasePath: dir})
	if err != nil {
		t.Fatalf("failed to create local backend: %v", err)
	}
	return backend, dir
}

func TestLocal_UploadDownload(t *testing.T) {
	backend, _ := setupLocalBackend(t)
	ctx := context.Background()
	data := []byte("hello exports")

	if err := backend.Upload(ctx, "exports/a.json", bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	rc, info, err := backend.Download(ctx, "exports/a.json")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	defer rc.Close()

	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, data) {
		t.Errorf("content mismatch: %q", got)
	}
	if info.Size != int64(len(data)) {
		t.Errorf("expected size %d, got %d", len(data), info.Size)
	}
	if info.ETag == "" {
		t.Error("expected etag")
	}
}

func TestLocal_UploadUnknownSize(t *testing.T) {
	backend, _ := setupLocalBackend(t)

	if err := backend.Upload(context.Background(), "x.bin", strings.NewReader("abc"), -1, ""); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
}

func TestLocal_UploadSizeMismatch(t *testing.T) {
	backend, _ := setupLocalBackend(t)
	ctx := context.Background()

	err := backend.Upload(ctx, "x.bin", strings.NewReader("abc"), 10, "")
	if !errors.Is(err, errors.ErrStorageUploadFailed) {
		t.Fatalf("expected ErrStorageUploadFailed, got %v", err)
	}

	exists, _ := backend.Exists(ctx, "x.bin")
	if exists {
		t.Error("partial upload must not be visible")
	}
}

func TestLocal_DownloadMissing(t *testing.T) {
	backend, _ := setupLocalBackend(t)

	_, _, err := backend.Download(context.Background(), "nope")
	if !errors.Is(err, errors.ErrStorageNotFound) {
		t.Fatalf("expected ErrStorageNotFound, got %v", err)
	}
}

func TestLocal_PathTraversal(t *testing.T) {
	backend, dir := setupLocalBackend(t)
	ctx := context.Background()

	if err := backend.Upload(ctx, "../../escape.txt", strings.NewReader("x"), 1, ""); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); err != nil {
		t.Errorf("expected file confined to base path: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(filepath.Dir(dir)), "escape.txt")); err == nil {
		t.Error("file escaped base path")
	}
}

func TestLocal_ListDeleteExists(t *testing.T) {
	backend, dir := setupLocalBackend(t)
	ctx := context.Background()

	for _, key := range []string{"exports/b.xz", "exports/a.xz", "other/c.xz"} {
		if err := backend.Upload(ctx, key, strings.NewReader("x"), 1, ""); err != nil {
			t.Fatalf("upload %s failed: %v", key, err)
		}
	}

	objects, err := backend.List(ctx, "exports/")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(objects) != 2 || objects[0].Key != "exports/a.xz" || objects[1].Key != "exports/b.xz" {
		t.Errorf("unexpected listing: %+v", objects)
	}

	if err := backend.Delete(ctx, "other/c.xz"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := backend.Delete(ctx, "other/c.xz"); err != nil {
		t.Errorf("deleting a missing key should succeed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "other")); !os.IsNotExist(err) {
		t.Error("expected empty parent directory to be removed")
	}

	exists, _ := backend.Exists(ctx, "exports/a.xz")
	if !exists {
		t.Error("expected exports/a.xz to exist")
	}
	if err := backend.Ping(ctx); err != nil {
		t.Errorf("ping failed: %v", err)
	}
}
