// Package storage defines the plan directory file-system abstraction.
package storage

import "time"

// Entry describes one stored file.
type Entry struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Provider is the interface for plan file operations. All paths are relative
// to the provider root.
type Provider interface {
	// List returns metadata for every file with extension ext under dir.
	List(dir, ext string) ([]Entry, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
}
