package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/phpnomad/documentation/internal/errors"
)

func TestOutputPath(t *testing.T) {
	out := filepath.FromSlash("/srv/dist")
	tests := map[string]string{
		"/":              "/srv/dist/index.html",
		"/guide":         "/srv/dist/guide/index.html",
		"/topics":        "/srv/dist/topics/index.html",
		"/a/b/c":         "/srv/dist/a/b/c/index.html",
		"/feed.xml":      "/srv/dist/feed.xml",
		"/api/v1.2/spec": "/srv/dist/api/v1.2/spec/index.html",
		"/topics/v1.2":   "/srv/dist/topics/v1.2",
	}
	for endpoint, want := range tests {
		assert.Equal(t, filepath.FromSlash(want), OutputPath(out, endpoint), endpoint)
	}
}

func TestCleanDir(t *testing.T) {
	t.Run("removes stale contents and keeps the directory", func(t *testing.T) {
		dist := filepath.Join(t.TempDir(), "dist")
		require.NoError(t, os.MkdirAll(filepath.Join(dist, "nested", "deep"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dist, "old.html"), []byte("stale"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dist, "nested", "deep", "x.html"), []byte("stale"), 0o644))
		before, err := os.Stat(dist)
		require.NoError(t, err)

		require.NoError(t, CleanDir(dist))

		after, err := os.Stat(dist)
		require.NoError(t, err)
		assert.True(t, after.IsDir())
		assert.True(t, os.SameFile(before, after))
		entries, err := os.ReadDir(dist)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("idempotent", func(t *testing.T) {
		dist := filepath.Join(t.TempDir(), "dist")
		require.NoError(t, CleanDir(dist))
		require.NoError(t, CleanDir(dist))
		entries, err := os.ReadDir(dist)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("replaces a file", func(t *testing.T) {
		dist := filepath.Join(t.TempDir(), "dist")
		require.NoError(t, os.WriteFile(dist, []byte("not a dir"), 0o644))
		require.NoError(t, CleanDir(dist))
		assert.True(t, IsDir(dist))
	})

	t.Run("missing parent is created", func(t *testing.T) {
		dist := filepath.Join(t.TempDir(), "a", "b", "dist")
		require.NoError(t, CleanDir(dist))
		assert.True(t, IsDir(dist))
	})
}

func TestWriteFile(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "guide", "deep", "index.html")
	require.NoError(t, WriteFile(target, []byte("<p>hi</p>")))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(data))

	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	err = WriteFile(filepath.Join(blocker, "index.html"), []byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, derrors.ErrFileSystem)
}

func TestCopyDir(t *testing.T) {
	src := filepath.Join(t.TempDir(), "assets")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "logo.svg"), []byte("<svg/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "css", "style.css"), []byte("body{}"), 0o600))

	dst := filepath.Join(t.TempDir(), "public", "assets")
	n, err := CopyDir(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(dst, "css", "style.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))
	info, err := os.Stat(filepath.Join(dst, "css", "style.css"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCopyDir_MissingSource(t *testing.T) {
	_, err := CopyDir(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, derrors.ErrFileSystem)
}
