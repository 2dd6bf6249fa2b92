package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "lib.rs")
	other := filepath.Join(dir, "other.rs")
	require.NoError(t, os.WriteFile(watched, []byte("struct A;"), 0o644))

	w, err := New([]string{watched}, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 8)
	done := make(chan error, 1)

	go func() {
		done <- w.Run(ctx, func(path string) error {
			changed <- path
			return nil
		})
	}()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("struct B;"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("struct C;"), 0o644))

	select {
	case path := <-changed:
		abs, err := filepath.Abs(watched)
		require.NoError(t, err)
		assert.Equal(t, abs, path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing", "lib.rs")}, 0, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching")
}
