package export

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/bitswalk/userd/src/common/errors"
	"github.com/bitswalk/userd/src/userd/storage"
	"github.com/bitswalk/userd/src/userd/users"
)

type staticLister struct {
	users []users.UserDTO
	err   error
}

func (s *staticLister) GetAllUsers(ctx context.Context) ([]users.UserDTO, error) {
	return s.users, s.err
}

func setupExporter(t *testing.T, lister UserLister) (*Exporter, storage.Backend) {
	t.Helper()

	backend, err := storage.NewLocal(storage.LocalConfig{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	return NewExporter(lister, backend), backend
}

func TestSnapshot_RoundTrip(t *testing.T) {
	lister := &staticLister{users: []users.UserDTO{
		{ID: 1, Name: "John Doe", Email: "john@example.com", Phone: "1234567890", Active: true},
		{ID: 2, Name: "Jane", Email: "jane@example.com", Phone: "555", Active: false},
	}}
	exp, _ := setupExporter(t, lister)
	exp.now = func() time.Time { return time.UnixMilli(1735689600000) }
	ctx := context.Background()

	res, err := exp.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if res.Key != "exports/users-1735689600000.json.xz" {
		t.Errorf("unexpected key %s", res.Key)
	}
	if res.Count != 2 || res.Size <= 0 {
		t.Errorf("unexpected result %+v", res)
	}

	snap, err := exp.Open(ctx, res.Key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if snap.Count != 2 || len(snap.Users) != 2 || snap.ExportedAt != 1735689600000 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.Users[0] != lister.users[0] || snap.Users[1] != lister.users[1] {
		t.Errorf("users mismatch: %+v", snap.Users)
	}
}

func TestSnapshot_Empty(t *testing.T) {
	exp, _ := setupExporter(t, &staticLister{users: []users.UserDTO{}})

	res, err := exp.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	snap, err := exp.Open(context.Background(), res.Key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if snap.Count != 0 || snap.Users == nil {
		t.Errorf("expected empty user list, got %+v", snap)
	}
}

func TestSnapshot_ListerError(t *testing.T) {
	boom := stderrors.New("db down")
	exp, backend := setupExporter(t, &staticLister{err: boom})

	if _, err := exp.Snapshot(context.Background()); !stderrors.Is(err, boom) {
		t.Fatalf("expected lister error, got %v", err)
	}
	objects, _ := backend.List(context.Background(), Prefix)
	if len(objects) != 0 {
		t.Errorf("expected nothing uploaded, got %d objects", len(objects))
	}
}

func TestList_FiltersForeignObjects(t *testing.T) {
	exp, backend := setupExporter(t, &staticLister{users: []users.UserDTO{}})
	ctx := context.Background()

	tick := time.UnixMilli(1000)
	exp.now = func() time.Time { tick = tick.Add(time.Second); return tick }

	exp.Snapshot(ctx)
	exp.Snapshot(ctx)
	backend.Upload(ctx, Prefix+"notes.txt", strings.NewReader("x"), 1, "")
	backend.Upload(ctx, Prefix+"manual/backup.json.xz", strings.NewReader("x"), 1, "")

	objects, err := exp.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(objects))
	}
	if objects[0].Key >= objects[1].Key {
		t.Errorf("expected ascending keys, got %s, %s", objects[0].Key, objects[1].Key)
	}
}

func TestOpen_InvalidAndMissing(t *testing.T) {
	exp, _ := setupExporter(t, &staticLister{})
	ctx := context.Background()

	if _, err := exp.Open(ctx, "../etc/passwd"); !errors.Is(err, errors.ErrInvalidFieldValue) {
		t.Errorf("expected ErrInvalidFieldValue, got %v", err)
	}
	if _, err := exp.Open(ctx, Key(time.UnixMilli(1))); !errors.Is(err, errors.ErrStorageNotFound) {
		t.Errorf("expected ErrStorageNotFound, got %v", err)
	}
}

func TestValidKey(t *testing.T) {
	if !ValidKey(Key(time.UnixMilli(1700000000000))) {
		t.Error("expected generated key to be valid")
	}

	for _, key := range []string{
		"",
		"exports/a/b.json.xz",
		"exports/users-.json.xz",
		"exports/users-12x.json.xz",
		"exports/users-1.json.xz.bak",
		"exports/../users-1.json.xz",
		"other/users-1.json.xz",
		"exports/users-1.json",
	} {
		if ValidKey(key) {
			t.Errorf("expected %q to be rejected", key)
		}
	}
}
