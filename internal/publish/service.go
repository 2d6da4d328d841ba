// Package publish orchestrates the frontmatter transform across a batch of
// posts: read, synthesize or pass through, write, record in the cache.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/buildcache"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/frontmatter"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// defaultWorkers bounds how many posts are transformed concurrently.
// Posts are independent, so the limit is purely about file descriptors.
const defaultWorkers = 4

// DateSource supplies a last-modification date (YYYY-MM-DD) for a post
// when the raw text carries no **Date:** line.
type DateSource interface {
	LastModified(ctx context.Context, path string) (string, error)
}

// Service coordinates input storage, output storage, and the build cache.
type Service struct {
	in      storage.Provider
	out     storage.Provider
	cache   buildcache.Cache
	dates   DateSource // nil when version-control lookup is disabled
	logger  *slog.Logger
	now     func() time.Time
	workers int
}

// NewService creates a new publish service.
func NewService(in, out storage.Provider, cache buildcache.Cache, dates DateSource, logger *slog.Logger) *Service {
	return &Service{
		in:      in,
		out:     out,
		cache:   cache,
		dates:   dates,
		logger:  logger,
		now:     time.Now,
		workers: defaultWorkers,
	}
}

// BuildAll transforms every matching post in the input directory and
// returns how many were handled. An empty input directory is not an error.
//
// Posts are processed in parallel; a write failure aborts the batch while
// outputs already written stay on disk. Unreadable posts are logged and
// skipped so one bad file never blocks the rest.
func (s *Service) BuildAll(ctx context.Context) (int, error) {
	infos, err := s.in.List()
	if err != nil {
		return 0, fmt.Errorf("publish: list input: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	var handled atomic.Int64
	for _, info := range infos {
		path := info.Path
		g.Go(func() error {
			if err := s.process(gCtx, path); err != nil {
				return err
			}
			handled.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(handled.Load()), err
	}
	return int(handled.Load()), nil
}

// process handles one post end to end. Only output write failures are
// returned; they are fatal for the batch and carry apperr.ErrWriteFailed.
func (s *Service) process(ctx context.Context, path string) error {
	raw, err := s.in.Read(path)
	if err != nil {
		s.logger.Warn("skipping unreadable post",
			slog.String("path", path), slog.String("error", err.Error()))
		return nil
	}

	srcSum := checksum.Sum(raw)
	if s.unchanged(path, srcSum) {
		s.logger.Debug("post unchanged, skipping", slog.String("path", path))
		return nil
	}

	var output []byte
	if frontmatter.HasHeader(raw) {
		// Already published once; copy byte-for-byte.
		output = raw
	} else {
		doc := models.Document{
			Name:    strings.TrimSuffix(path, filepath.Ext(path)),
			Path:    path,
			Content: raw,
		}
		output = frontmatter.Synthesize(doc, func() string {
			return s.resolveDate(ctx, path)
		})
	}

	if err := s.out.Write(path, output); err != nil {
		return fmt.Errorf("publish: write %s: %w: %w", path, apperr.ErrWriteFailed, err)
	}

	if err := s.cache.Put(buildcache.Entry{
		Path:           path,
		SourceChecksum: srcSum,
		OutputChecksum: checksum.Sum(output),
	}); err != nil {
		// A stale cache only costs a redundant rebuild next run.
		s.logger.Warn("cache update failed",
			slog.String("path", path), slog.String("error", err.Error()))
	}

	s.logger.Info("post published", slog.String("path", path))
	return nil
}

// unchanged reports whether the cache and the existing output both match
// the current source, meaning the post can be skipped. A hand-edited or
// missing output forces a rebuild even when the source is unchanged.
func (s *Service) unchanged(path, srcSum string) bool {
	entry, err := s.cache.Get(path)
	if err != nil || entry == nil || entry.SourceChecksum != srcSum {
		return false
	}
	existing, err := s.out.Read(path)
	if err != nil {
		return false
	}
	return checksum.Sum(existing) == entry.OutputChecksum
}

// resolveDate walks the date fallback tiers: version-control history first,
// then the current local date. Lookup failures are never surfaced.
func (s *Service) resolveDate(ctx context.Context, path string) string {
	if s.dates != nil {
		date, err := s.dates.LastModified(ctx, path)
		if err == nil && date != "" {
			return date
		}
		if err != nil {
			s.logger.Debug("history date unavailable",
				slog.String("path", path), slog.String("error", err.Error()))
		}
	}
	return s.now().Format("2006-01-02")
}
