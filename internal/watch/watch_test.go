package watch

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

func TestShouldIgnore(t *testing.T) {
	for _, p := range []string{"/d/.hidden", "/d/page.md~", "/d/.page.md.swp", "/d/x.swx", "/d/#page.md#", "/d/Thumbs.db"} {
		assert.True(t, shouldIgnore(p), p)
	}
	for _, p := range []string{"/d/page.md", "/d/style.css", "/d/index.html"} {
		assert.False(t, shouldIgnore(p), p)
	}
}

func TestExcluded(t *testing.T) {
	root := t.TempDir()
	w := New([]string{root}, WithExclude(filepath.Join(root, "dist")))
	assert.True(t, w.excluded(filepath.Join(root, "dist")))
	assert.True(t, w.excluded(filepath.Join(root, "dist", "a", "index.html")))
	assert.False(t, w.excluded(filepath.Join(root, "distant.md")))
	assert.False(t, w.excluded(filepath.Join(root, "docs")))
}

type runner struct {
	calls atomic.Int32
	done  chan error
}

func start(t *testing.T, w *Watcher) *runner {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	r := &runner{done: make(chan error, 1)}
	go func() {
		r.done <- w.Run(ctx, func(context.Context) { r.calls.Add(1) })
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-r.done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	select {
	case <-w.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never became ready")
	}
	return r
}

func write(t *testing.T, p string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte("# x\n"), 0o600))
}

func TestRun_CoalescesBurst(t *testing.T) {
	root := t.TempDir()
	r := start(t, New([]string{root}, WithQuietWindow(200*time.Millisecond)))

	for _, name := range []string{"a.md", "b.md", "c.md"} {
		write(t, filepath.Join(root, name))
	}

	require.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestRun_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	r := start(t, New([]string{root}, WithQuietWindow(50*time.Millisecond)))

	require.NoError(t, os.Mkdir(filepath.Join(root, "topics"), 0o750))
	require.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	before := r.calls.Load()
	require.Eventually(t, func() bool {
		write(t, filepath.Join(root, "topics", "setup.md"))
		return r.calls.Load() > before
	}, 5*time.Second, 100*time.Millisecond)
}

func TestRun_IgnoresExcludedAndHidden(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "dist")
	require.NoError(t, os.Mkdir(out, 0o750))
	r := start(t, New([]string{root}, WithQuietWindow(50*time.Millisecond), WithExclude(out)))

	write(t, filepath.Join(out, "index.html"))
	write(t, filepath.Join(root, ".draft.md"))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), r.calls.Load())
}

func TestRun_MissingRootIsSkipped(t *testing.T) {
	root := t.TempDir()
	w := New([]string{filepath.Join(root, "missing"), root}, WithQuietWindow(50*time.Millisecond))
	r := start(t, w)

	write(t, filepath.Join(root, "page.md"))
	require.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
}
