package testing

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// FileAssertions provides utilities for asserting file system state in tests
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

// AssertFileExists validates that a regular file exists
func (fa *FileAssertions) AssertFileExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, filepath.FromSlash(relativePath))
	stat, err := os.Stat(fullPath)
	switch {
	case err != nil:
		fa.t.Errorf("Expected file to exist: %s", fullPath)
	case stat.IsDir():
		fa.t.Errorf("Expected %s to be a file, but it's a directory", fullPath)
	}
	return fa
}

// AssertFileNotExists validates that nothing exists at the path
func (fa *FileAssertions) AssertFileNotExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, filepath.FromSlash(relativePath))
	if _, err := os.Stat(fullPath); err == nil {
		fa.t.Errorf("Expected file to not exist: %s", fullPath)
	}
	return fa
}

// AssertDirExists validates that a directory exists
func (fa *FileAssertions) AssertDirExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, filepath.FromSlash(relativePath))
	if stat, err := os.Stat(fullPath); err != nil {
		fa.t.Errorf("Expected directory to exist: %s", fullPath)
	} else if !stat.IsDir() {
		fa.t.Errorf("Expected %s to be a directory, but it's a file", fullPath)
	}
	return fa
}

// AssertFileContains validates that a file contains expected content
func (fa *FileAssertions) AssertFileContains(relativePath, expectedContent string) *FileAssertions {
	fa.t.Helper()
	content := fa.GetFileContent(relativePath)
	if !strings.Contains(content, expectedContent) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s",
			relativePath, expectedContent, content)
	}
	return fa
}

// AssertFiles validates that the tree holds exactly the given files (slash
// separated, relative to the base directory, any order).
func (fa *FileAssertions) AssertFiles(expected ...string) *FileAssertions {
	fa.t.Helper()
	got := fa.ListFilesRecursive()
	want := slices.Clone(expected)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		fa.t.Errorf("Unexpected files in %s\nwant: %v\ngot:  %v", fa.baseDir, want, got)
	}
	return fa
}

// ListFilesRecursive returns every regular file below the base directory,
// slash separated and sorted. A missing base directory holds no files.
func (fa *FileAssertions) ListFilesRecursive() []string {
	fa.t.Helper()
	if _, err := os.Stat(fa.baseDir); os.IsNotExist(err) {
		return nil
	}
	var files []string
	err := filepath.WalkDir(fa.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(fa.baseDir, p)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		fa.t.Errorf("Failed to walk %s: %v", fa.baseDir, err)
	}
	slices.Sort(files)
	return files
}

// GetFileContent reads and returns the content of a file
func (fa *FileAssertions) GetFileContent(relativePath string) string {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, filepath.FromSlash(relativePath))
	content, err := os.ReadFile(fullPath)
	if err != nil {
		fa.t.Fatalf("Failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}
