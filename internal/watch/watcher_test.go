package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
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

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWatch_MatchingFilesDebounced(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	calls := make(map[string]int)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, "*.grd", 200*time.Millisecond, testLogger(), func(_ context.Context, path string) error {
			mu.Lock()
			calls[filepath.Base(path)]++
			mu.Unlock()
			return errors.New("handler errors are only logged")
		})
	}()

	time.Sleep(100 * time.Millisecond)

	target := filepath.Join(dir, "run.grd")
	for i := 0; i < 3; i++ {
		_ = os.WriteFile(target, []byte("#AXIS_DESCRIPTION_START\n"), 0o644)
	}
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls["run.grd"] > 0
	}, "handler not called for run.grd")

	time.Sleep(400 * time.Millisecond)
	mu.Lock()
	if calls["run.grd"] != 1 {
		t.Errorf("run.grd handled %d times, want 1", calls["run.grd"])
	}
	if calls["notes.txt"] != 0 {
		t.Error("non-matching file was handled")
	}
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Watch did not stop after cancel")
	}
}

func TestWatch_Errors(t *testing.T) {
	ctx := context.Background()
	noop := func(context.Context, string) error { return nil }

	if err := Watch(ctx, t.TempDir(), "[", time.Millisecond, testLogger(), noop); err == nil {
		t.Error("expected error for a malformed pattern")
	}
	if err := Watch(ctx, filepath.Join(t.TempDir(), "missing"), "*", time.Millisecond, testLogger(), noop); err == nil {
		t.Error("expected error for a missing directory")
	}
}
