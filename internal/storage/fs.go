package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/almanac/internal/apperr"
	"github.com/starford/almanac/internal/checksum"
	"github.com/starford/almanac/internal/models"
)

const (
	recordExt   = ".md"
	tempPattern = ".almanac-tmp-*"
)

// IsRecord reports whether name is a catalog record: a visible Markdown file.
func IsRecord(name string) bool {
	base := filepath.Base(name)
	return filepath.Ext(base) == recordExt && !Hidden(base)
}

// Hidden reports whether a file or directory name is dot-prefixed. Hidden
// directories (.git, .obsidian, ...) are never part of the catalog.
func Hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// FS keeps records as Markdown files below a root directory.
type FS struct {
	root string
}

// NewFS returns an FS rooted at dir, which must already exist.
func NewFS(dir string) (*FS, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(root)
	switch {
	case err != nil:
		return nil, fmt.Errorf("storage: stat root: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("storage: root is not a directory: %s", root)
	}
	return &FS{root: root}, nil
}

// resolve maps a catalog-relative path to an absolute path inside root.
func (f *FS) resolve(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs := filepath.Join(f.root, filepath.Clean(rel))
	inside, err := filepath.Rel(f.root, abs)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("storage: path escapes catalog root: %s", rel)
	}
	return abs, nil
}

// resolveRecord is resolve restricted to record file names.
func (f *FS) resolveRecord(rel string) (string, error) {
	if !IsRecord(rel) {
		return "", fmt.Errorf("storage: %w: %s is not a markdown record", apperr.ErrInvalidInput, rel)
	}
	return f.resolve(rel)
}

// List returns metadata for every record under dir, skipping hidden
// directories.
func (f *FS) List(dir string) ([]models.RecordMetadata, error) {
	base, err := f.resolve(dir)
	if err != nil {
		return nil, err
	}
	var records []models.RecordMetadata
	walk := func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != base && Hidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsRecord(d.Name()) {
			return nil
		}
		meta, err := f.stat(p, d)
		if err != nil {
			return err
		}
		records = append(records, meta)
		return nil
	}
	if err := filepath.WalkDir(base, walk); err != nil {
		return nil, fmt.Errorf("storage: list %q: %w", dir, err)
	}
	return records, nil
}

func (f *FS) stat(abs string, d fs.DirEntry) (models.RecordMetadata, error) {
	info, err := d.Info()
	if err != nil {
		return models.RecordMetadata{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return models.RecordMetadata{}, err
	}
	rel, err := filepath.Rel(f.root, abs)
	if err != nil {
		return models.RecordMetadata{}, err
	}
	return models.RecordMetadata{Path: rel, Checksum: checksum.Sum(data), UpdatedAt: info.ModTime()}, nil
}

// Read returns the raw content of a record.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Write replaces a record atomically: the content goes to a hidden temp file
// in the target directory which is synced and then renamed over path.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.resolveRecord(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}
	tmp, err := writeTemp(filepath.Dir(abs), content)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, abs); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("storage: rename: %w", err)
	}
	return nil
}

func writeTemp(dir string, content []byte) (name string, err error) {
	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", fmt.Errorf("storage: create temp: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(content); err != nil {
		return "", fmt.Errorf("storage: write temp: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return "", fmt.Errorf("storage: fsync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("storage: close temp: %w", err)
	}
	return tmp.Name(), nil
}

// Delete removes a record.
func (f *FS) Delete(path string) error {
	abs, err := f.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("storage: delete %s: %w", path, err)
	}
	return nil
}

// Move renames a record. The destination must be a record name that does
// not exist yet.
func (f *FS) Move(oldPath, newPath string) error {
	from, err := f.resolve(oldPath)
	if err != nil {
		return err
	}
	to, err := f.resolveRecord(newPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(to); err == nil {
		return fmt.Errorf("storage: move to %s: %w", newPath, apperr.ErrAlreadyExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: stat %s: %w", newPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir for move: %w", err)
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("storage: move: %w", err)
	}
	return nil
}
