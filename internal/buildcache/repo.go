package buildcache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Entry records the state of one processed post.
type Entry struct {
	Path           string
	SourceChecksum string
	OutputChecksum string
	BuiltAt        time.Time
}

// Cache defines the interface for build-cache operations. Consumers should
// depend on this interface rather than the concrete *DB type to facilitate
// testing with mocks.
type Cache interface {
	Get(path string) (*Entry, error)
	Put(e Entry) error
	Close() error
}

// Verify *DB satisfies Cache at compile time.
var _ Cache = (*DB)(nil)

// Get returns the entry for a post path, or nil when the post has never
// been built.
func (db *DB) Get(path string) (*Entry, error) {
	var e Entry
	err := db.conn.QueryRow(`
		SELECT path, source_checksum, output_checksum, built_at
		FROM posts WHERE path = ?
	`, path).Scan(&e.Path, &e.SourceChecksum, &e.OutputChecksum, &e.BuiltAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("buildcache: get %s: %w", path, err)
	}
	return &e, nil
}

// Put inserts or replaces the entry for a post path.
func (db *DB) Put(e Entry) error {
	if e.BuiltAt.IsZero() {
		e.BuiltAt = time.Now()
	}
	_, err := db.conn.Exec(`
		INSERT INTO posts (path, source_checksum, output_checksum, built_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			source_checksum = excluded.source_checksum,
			output_checksum = excluded.output_checksum,
			built_at        = excluded.built_at
	`, e.Path, e.SourceChecksum, e.OutputChecksum, e.BuiltAt)
	if err != nil {
		return fmt.Errorf("buildcache: put %s: %w", e.Path, err)
	}
	return nil
}
