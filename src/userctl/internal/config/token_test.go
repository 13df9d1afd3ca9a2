package config

import (
	"os"
	"path/filepath"
	"testing"
)

func useTempTokenDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".userctl")
	prev := tokenDir
	tokenDir = dir
	t.Cleanup(func() { tokenDir = prev })
	return dir
}

// =============================================================================
// File I/O Tests
// =============================================================================

func TestSaveAndLoadToken(t *testing.T) {
	dir := useTempTokenDir(t)

	original := &TokenData{
		Token:     "tok-123",
		ExpiresAt: "2025-12-31T23:59:59Z",
		ServerURL: "http://test:8080",
		Username:  "admin",
	}
	if err := SaveToken(original); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "token.json"))
	if err != nil {
		t.Fatalf("failed to stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected permissions 0600, got %o", perm)
	}

	loaded, err := LoadToken()
	if err != nil {
		t.Fatalf("LoadToken failed: %v", err)
	}
	if *loaded != *original {
		t.Errorf("expected %+v, got %+v", original, loaded)
	}
}

func TestLoadToken_NonExistent(t *testing.T) {
	useTempTokenDir(t)

	if _, err := LoadToken(); err == nil {
		t.Fatal("expected error for missing token file")
	}
}

func TestLoadToken_Corrupt(t *testing.T) {
	dir := useTempTokenDir(t)
	os.MkdirAll(dir, 0700)
	os.WriteFile(filepath.Join(dir, "token.json"), []byte("{"), 0600)

	if _, err := LoadToken(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestClearToken(t *testing.T) {
	useTempTokenDir(t)

	// missing file is fine
	if err := ClearToken(); err != nil {
		t.Fatalf("ClearToken on missing file: %v", err)
	}

	if err := SaveToken(&TokenData{Token: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := ClearToken(); err != nil {
		t.Fatalf("ClearToken failed: %v", err)
	}
	if _, err := LoadToken(); err == nil {
		t.Fatal("token should be gone")
	}
}
