// Package testutil provides shared test helpers for catalogs and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/almanac/internal/index"
	"github.com/starford/almanac/internal/storage"
)

// DateFields is the frontmatter key set used by tests.
var DateFields = []string{"date", "born", "died"}

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "almanac-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestCatalog creates a temporary catalog directory with a storage.Provider.
func TestCatalog(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// TestIndexer returns an indexer over a fresh database using DateFields.
func TestIndexer(t *testing.T) *index.Indexer {
	t.Helper()
	return index.NewIndexer(TestDB(t), nil, DateFields)
}

// WriteRecord writes content under root, creating directories as needed.
func WriteRecord(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
