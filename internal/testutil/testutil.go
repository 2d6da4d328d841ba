// Package testutil provides shared test helpers for setting up post
// directories and build caches.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/ansuz/internal/buildcache"
	"github.com/starford/ansuz/internal/storage"
)

// TestCache creates a temporary SQLite build cache that is automatically
// cleaned up.
func TestCache(t *testing.T) *buildcache.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "ansuz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := buildcache.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDirs creates temporary input and output directories with storage
// providers for each.
func TestDirs(t *testing.T) (string, *storage.FS, string, *storage.FS) {
	t.Helper()
	inDir := t.TempDir()
	in, err := storage.NewFS(inDir, ".md")
	if err != nil {
		t.Fatal(err)
	}
	outDir := t.TempDir()
	out, err := storage.NewFS(outDir, ".md")
	if err != nil {
		t.Fatal(err)
	}
	return inDir, in, outDir, out
}
