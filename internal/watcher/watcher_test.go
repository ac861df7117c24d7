package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string, names []string) *atomic.Int32 {
	t.Helper()
	var calls atomic.Int32
	w, err := New(dir, names, func() { calls.Add(1) }, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx, nil)
	t.Cleanup(func() {
		cancel()
		_ = w.Close()
	})
	return &calls
}

func TestWatcherCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	calls := startWatcher(t, dir, []string{"config.yml"})

	path := filepath.Join(dir, "config.yml")
	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0o600))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	calls := startWatcher(t, dir, []string{"config.yml"})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "activity.jsonl"), []byte("{}\n"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil, func() {})
	assert.Error(t, err)
}
