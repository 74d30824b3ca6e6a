// Package fsutil holds the raw file system routines used by a compile pass:
// output directory cleanup, on-demand writes and recursive asset copies.
// Every failure is reported as a FileSystem error.
package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	derrors "github.com/phpnomad/documentation/internal/errors"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// IndexFile is written for endpoints that name a directory.
const IndexFile = "index.html"

// OutputPath maps a normalized endpoint onto a file below outputDir:
//
//	/          -> <out>/index.html
//	/a/b.json  -> <out>/a/b.json
//	/a/b       -> <out>/a/b/index.html
func OutputPath(outputDir, endpoint string) string {
	rel := strings.Trim(endpoint, "/")
	if rel == "" {
		return filepath.Join(outputDir, IndexFile)
	}
	if strings.Contains(path.Base(rel), ".") {
		return filepath.Join(outputDir, filepath.FromSlash(rel))
	}
	return filepath.Join(outputDir, filepath.FromSlash(rel), IndexFile)
}

// CleanDir leaves dir as an existing, empty directory. Existing children are
// removed, dir itself is kept. A non-directory at dir is replaced.
func CleanDir(dir string) error {
	info, err := os.Lstat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return derrors.FileSystem("mkdir", dir, err)
		}
		return nil
	case err != nil:
		return derrors.FileSystem("stat", dir, err)
	case !info.IsDir():
		if err := os.Remove(dir); err != nil {
			return derrors.FileSystem("remove", dir, err)
		}
		if err := os.Mkdir(dir, dirPerm); err != nil {
			return derrors.FileSystem("mkdir", dir, err)
		}
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return derrors.FileSystem("readdir", dir, err)
	}
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(p); err != nil {
			return derrors.FileSystem("remove", p, err)
		}
	}
	return nil
}

// WriteFile writes data to name, creating parent directories on demand.
func WriteFile(name string, data []byte) error {
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return derrors.FileSystem("mkdir", dir, err)
		}
	}
	if err := os.WriteFile(name, data, filePerm); err != nil {
		return derrors.FileSystem("write", name, err)
	}
	return nil
}

// CopyDir recursively copies src into dst, preserving file modes. It returns
// the number of regular files copied. Symlinks are skipped.
func CopyDir(src, dst string) (int, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, derrors.FileSystem("stat", src, err)
	}
	if !srcInfo.IsDir() {
		return 0, derrors.FileSystem("copy", src, errors.New("source is not a directory"))
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return 0, derrors.FileSystem("mkdir", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, derrors.FileSystem("readdir", src, err)
	}

	copied := 0
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.IsDir():
			n, err := CopyDir(srcPath, dstPath)
			copied += n
			if err != nil {
				return copied, err
			}
		case entry.Type().IsRegular():
			if err := copyFile(srcPath, dstPath); err != nil {
				return copied, err
			}
			copied++
		}
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return derrors.FileSystem("open", src, err)
	}
	defer func() {
		_ = in.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return derrors.FileSystem("stat", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return derrors.FileSystem("create", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return derrors.FileSystem("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return derrors.FileSystem("close", dst, err)
	}
	return nil
}

// IsDir reports whether p exists and is a directory.
func IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
