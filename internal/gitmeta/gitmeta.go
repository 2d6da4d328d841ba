// Package gitmeta resolves post dates from version-control history.
package gitmeta

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Source reads the last-commit date of files under a git working tree.
type Source struct {
	dir     string
	timeout time.Duration
	run     func(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// NewSource creates a Source for files under dir. Each lookup is bounded by
// timeout so a stuck git invocation can never stall a build.
func NewSource(dir string, timeout time.Duration) *Source {
	return &Source{dir: dir, timeout: timeout, run: runGit}
}

// LastModified returns the committer date (YYYY-MM-DD) of the last commit
// touching path, relative to the source directory. Every failure mode —
// git missing, not a repository, an untracked file, a timeout — surfaces
// as an error the caller treats as an absent value.
func (s *Source) LastModified(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.run(ctx, s.dir, "log", "-1", "--format=%cs", "--", path)
	if err != nil {
		return "", fmt.Errorf("gitmeta: log %s: %w", path, err)
	}
	date := strings.TrimSpace(string(out))
	if !dateRe.MatchString(date) {
		return "", fmt.Errorf("gitmeta: no commit date for %s", path)
	}
	return date, nil
}

func runGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.WaitDelay = 2 * time.Second
	return cmd.Output()
}
