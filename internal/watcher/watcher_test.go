package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/joshsymonds/rasa/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeLog(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func startWatcher(t *testing.T, w *Watcher, handle Handler) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, handle)
	}()
	return cancel, done
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
		return ""
	}
}

func TestNewRejectsBadPaths(t *testing.T) {
	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "absent.log"))
	require.Error(t, err)

	_, err = New(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a regular file")
}

func TestRunInitialAndOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wlc.log")
	writeLog(t, path, "first\n")

	w, err := New(path,
		WithInitialRun(),
		WithDebounce(20*time.Millisecond),
		WithLogger(logger.NewMockLogger()))
	require.NoError(t, err)

	seen := make(chan string, 8)
	cancel, done := startWatcher(t, w, func(_ context.Context, content string) error {
		seen <- content
		return nil
	})

	assert.Equal(t, "first\n", waitFor(t, seen))

	writeLog(t, path, "first\nsecond\n")
	assert.Equal(t, "first\nsecond\n", waitFor(t, seen))

	cancel()
	require.NoError(t, <-done)
}

func TestRunIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wlc.log")
	writeLog(t, path, "x\n")

	w, err := New(path, WithDebounce(20*time.Millisecond), WithLogger(logger.NewMockLogger()))
	require.NoError(t, err)

	seen := make(chan string, 8)
	cancel, done := startWatcher(t, w, func(_ context.Context, content string) error {
		seen <- content
		return nil
	})

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	writeLog(t, filepath.Join(dir, "other.log"), "noise\n")

	select {
	case s := <-seen:
		t.Fatalf("handler called for sibling write: %q", s)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestRunStopsOnHandlerError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wlc.log")
	writeLog(t, path, "x\n")

	w, err := New(path, WithInitialRun(), WithLogger(logger.NewMockLogger()))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = w.Run(context.Background(), func(context.Context, string) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestRunCancelledBeforeChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wlc.log")
	writeLog(t, path, "x\n")

	w, err := New(path, WithLogger(logger.NewMockLogger()))
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, w.Run(ctx, func(context.Context, string) error {
		t.Error("handler should not run")
		return nil
	}))
}
