// Package storage defines the post directory file-system abstraction.
package storage

import "github.com/starford/ansuz/internal/models"

// Provider is the interface for post file operations.
type Provider interface {
	// List returns metadata for every .md file directly under the root.
	// Subdirectories are not descended into.
	List() ([]models.SourceInfo, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
	// Matches reports whether a file name carries the post extension.
	Matches(name string) bool
}
