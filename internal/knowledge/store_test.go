package knowledge

import (
	"os"
	"path/filepath"
	"testing"
)

// newTestStore creates a temporary Store for testing.
// The caller should call cleanup() when done.
func newTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "knowledge-store-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	store, err := NewStore(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create store: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func TestNewStore_CreatesDir(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "knowledge-store-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "nested", "dir", "test.db")
	store, err := NewStore(dbPath)
	if err != nil {
		t.Fatalf("NewStore() error = %v, want nil", err)
	}
	defer store.Close()

	if store.Path() != dbPath {
		t.Errorf("Path() = %v, want %v", store.Path(), dbPath)
	}
}

func TestStoreSeedsBuiltinNotes(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	practices, err := store.BestPractices("nodejs")
	if err != nil {
		t.Fatalf("BestPractices() error = %v", err)
	}
	if len(practices) == 0 {
		t.Error("expected seeded best practices for nodejs")
	}

	tools, err := store.Tools("postgresql")
	if err != nil {
		t.Fatalf("Tools() error = %v", err)
	}
	if len(tools) == 0 {
		t.Error("expected seeded tools for postgresql")
	}
}

func TestStoreUnknownTechnologyIsEmpty(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	practices, err := store.BestPractices("cobol")
	if err != nil {
		t.Fatalf("BestPractices() error = %v", err)
	}
	if len(practices) != 0 {
		t.Errorf("BestPractices() = %v, want empty", practices)
	}
}

func TestStoreAddAndQuery(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.Add("zig", KindBestPractice, "Prefer explicit allocators"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	// Duplicates are ignored, not errors.
	if err := store.Add("zig", KindBestPractice, "Prefer explicit allocators"); err != nil {
		t.Fatalf("Add() duplicate error = %v", err)
	}

	practices, err := store.BestPractices("zig")
	if err != nil {
		t.Fatalf("BestPractices() error = %v", err)
	}
	if len(practices) != 1 || practices[0] != "Prefer explicit allocators" {
		t.Errorf("BestPractices() = %v", practices)
	}
}

func TestStoreTechnologies(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	techs, err := store.Technologies()
	if err != nil {
		t.Fatalf("Technologies() error = %v", err)
	}
	if len(techs) != len(seedNotes) {
		t.Errorf("Technologies() = %d entries, want %d", len(techs), len(seedNotes))
	}
}
