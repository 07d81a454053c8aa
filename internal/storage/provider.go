// Package storage defines the catalog file-system abstraction.
package storage

import "github.com/starford/almanac/internal/models"

// Provider is the interface for catalog file operations. Paths are relative
// to the catalog root.
type Provider interface {
	// List returns metadata for every .md record under dir.
	List(dir string) ([]models.RecordMetadata, error)
	// Read returns the raw bytes of the record at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the record at path.
	Delete(path string) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
}

var _ Provider = (*FS)(nil)
