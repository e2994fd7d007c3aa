// Package testutil provides common test utilities for the literalura project.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/lepinkainen/literalura/internal/catalog"
)

// OpenStore opens a throwaway catalog store backed by a file in a temp
// directory that is removed when the test completes.
func OpenStore(t *testing.T) *catalog.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	store, err := catalog.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// TempDBPath returns a database path inside a per-test temp directory.
func TempDBPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}
