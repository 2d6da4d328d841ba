package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatch_NewPostPublished(t *testing.T) {
	inDir, in, _, out := testutil.TestDirs(t)
	svc := NewService(in, out, testutil.TestCache(t), fixedDates{date: "2026-02-21"}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go svc.Watch(ctx, inDir)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(inDir, "new.md"), []byte("# New Post\nBody.\n"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		got, err := out.Read("new.md")
		return err == nil && strings.Contains(string(got), "title: \"New Post\"")
	}, "new post not published by watcher")
}

func TestWatch_RewritePublishedAgain(t *testing.T) {
	inDir, in, _, out := testutil.TestDirs(t)
	svc := NewService(in, out, testutil.TestCache(t), fixedDates{err: errors.New("no repo")}, testLogger())

	_ = in.Write("post.md", []byte("# First\n"))
	if _, err := svc.BuildAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go svc.Watch(ctx, inDir)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(inDir, "post.md"), []byte("# Second\n"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		got, err := out.Read("post.md")
		return err == nil && strings.Contains(string(got), "title: \"Second\"")
	}, "changed post not republished by watcher")
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	inDir, in, _, out := testutil.TestDirs(t)
	svc := NewService(in, out, testutil.TestCache(t), fixedDates{date: "2026-02-21"}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go svc.Watch(ctx, inDir)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(inDir, "notes.txt"), []byte("scratch"), 0o644)
	_ = os.WriteFile(filepath.Join(inDir, ".draft.md.swp"), []byte("tmp"), 0o644)
	_ = os.WriteFile(filepath.Join(inDir, "real.md"), []byte("# Real\n"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := out.Read("real.md")
		return err == nil
	}, "matching post not published")

	if _, err := out.Read("notes.txt"); err == nil {
		t.Error("non-matching file should not be published")
	}
	if _, err := out.Read(".draft.md.swp"); err == nil {
		t.Error("editor temp file should not be published")
	}
}

func TestWatch_StopsOnCancel(t *testing.T) {
	inDir, in, _, out := testutil.TestDirs(t)
	svc := NewService(in, out, testutil.TestCache(t), fixedDates{date: "2026-02-21"}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Watch(ctx, inDir) }()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned error on cancel: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Watch did not stop after cancellation")
	}
}
