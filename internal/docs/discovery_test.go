package docs

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/phpnomad/documentation/internal/errors"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func relPaths(files []DocFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.RelativePath())
	}
	sort.Strings(out)
	return out
}

func TestProvider_Files(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.md":                  "# Documentation Index",
		"api/overview.md":           "# API Overview",
		"api/reference.MD":          "# API Reference",
		"guides/getting-started.md": "# Getting Started",
		"guides/deep/index.md":      "# Deep",
		"non-markdown.txt":          "ignored",
		".hidden/secret.md":         "ignored",
		"api/.draft.md":             "ignored",
	})

	files, err := NewProvider(root).Collect()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"api/overview.md",
		"api/reference.MD",
		"guides/deep/index.md",
		"guides/getting-started.md",
		"index.md",
	}, relPaths(files))

	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.Path()), f.Path())
		switch f.RelativePath() {
		case "guides/deep/index.md":
			assert.Equal(t, []string{"guides", "deep"}, f.RelativeDir())
			assert.Equal(t, "index", f.Name())
			assert.True(t, f.IsIndex())
		case "index.md":
			assert.Nil(t, f.RelativeDir())
			assert.Empty(t, f.RelativeDirPath())
		case "api/reference.MD":
			assert.Equal(t, "reference", f.Name())
			assert.Equal(t, ".MD", f.Extension())
		}
	}
}

func TestProvider_Restartable(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": "a", "b/c.md": "c"})
	p := NewProvider(root)

	// Abandon the first traversal early; a second traversal must still see everything.
	for range p.Files() {
		break
	}
	first, err := p.Collect()
	require.NoError(t, err)
	second, err := p.Collect()
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Equal(t, relPaths(first), relPaths(second))
}

func TestProvider_EmptyRoot(t *testing.T) {
	files, err := NewProvider(t.TempDir()).Collect()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestProvider_RootNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	p := NewProvider(missing)

	_, err := p.Collect()
	require.Error(t, err)
	assert.True(t, errors.Is(err, derrors.ErrRootNotFound))
	assert.True(t, errors.Is(p.Check(), derrors.ErrRootNotFound))

	// A regular file in place of the root is also reported as missing.
	file := filepath.Join(t.TempDir(), "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.True(t, errors.Is(NewProvider(file).Check(), derrors.ErrRootNotFound))
}

func TestProvider_WithExtensions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": "a", "b.txt": "b"})

	files, err := NewProvider(root, WithExtensions("txt")).Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt"}, relPaths(files))
}

func TestDocFile_Immutable(t *testing.T) {
	dir := []string{"a", "b"}
	df := NewDocFile("/x/a/b/c.md", dir, "c", ".md")
	dir[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, df.RelativeDir())

	got := df.RelativeDir()
	got[1] = "mutated"
	assert.Equal(t, "a/b/c.md", df.RelativePath())
}

func TestDocFile_ReadSource(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"page.md": "hello"})

	df := NewDocFile(filepath.Join(root, "page.md"), nil, "page", ".md")
	content, err := df.ReadSource()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	_, err = NewDocFile(filepath.Join(root, "gone.md"), nil, "gone", ".md").ReadSource()
	assert.True(t, errors.Is(err, derrors.ErrFileSystem))
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{
		NewDocFile("/a.md", nil, "a", ".md"),
		NewDocFile("/b.md", nil, "b", ".md"),
	}
	files, err := Collect(src)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
