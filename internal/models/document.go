// Package models defines the domain types for Ansuz.
package models

import "time"

// Document is one raw Markdown post read from the input directory.
// Content is never mutated; the pipeline produces a new byte slice.
type Document struct {
	// Name is the file name without the .md extension. It doubles as the
	// output slug and as the last-resort title source.
	Name    string
	Path    string
	Content []byte
}

// Metadata is the synthesized frontmatter for one post.
type Metadata struct {
	Title string
	Date  string
	Tags  []string
	Draft bool
}

// SourceInfo is a lightweight representation returned by list operations.
type SourceInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
