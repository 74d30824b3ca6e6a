package docs

import (
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	derrors "github.com/phpnomad/documentation/internal/errors"
	"github.com/phpnomad/documentation/internal/logfields"
)

// IndexName is the base name that maps a document onto its directory endpoint.
const IndexName = "index"

// DefaultExtensions are the Markdown extensions picked up by a Provider.
var DefaultExtensions = []string{".md", ".markdown", ".mdown", ".mkd"}

// DocFile represents a discovered documentation file. It is an immutable value.
type DocFile struct {
	path      string
	dir       []string
	name      string
	extension string
}

// NewDocFile constructs a DocFile from its parts. relativeDir is copied.
func NewDocFile(path string, relativeDir []string, name, extension string) DocFile {
	var dir []string
	if len(relativeDir) > 0 {
		dir = append([]string(nil), relativeDir...)
	}
	return DocFile{path: path, dir: dir, name: name, extension: extension}
}

// Path is the absolute path of the file.
func (df DocFile) Path() string { return df.path }

// Name is the file name without extension.
func (df DocFile) Name() string { return df.name }

// Extension is the original file extension, including the dot.
func (df DocFile) Extension() string { return df.extension }

// RelativeDir returns a copy of the directory segments relative to the docs root.
func (df DocFile) RelativeDir() []string {
	if len(df.dir) == 0 {
		return nil
	}
	return append([]string(nil), df.dir...)
}

// RelativeDirPath joins the relative directory segments with "/".
func (df DocFile) RelativeDirPath() string { return strings.Join(df.dir, "/") }

// RelativePath is the slash-separated path of the file relative to the docs root.
func (df DocFile) RelativePath() string {
	file := df.name + df.extension
	if len(df.dir) == 0 {
		return file
	}
	return df.RelativeDirPath() + "/" + file
}

// IsIndex reports whether the file is a directory index page.
func (df DocFile) IsIndex() bool { return df.name == IndexName }

// ReadSource loads the raw content of the file.
func (df DocFile) ReadSource() ([]byte, error) {
	content, err := os.ReadFile(df.path)
	if err != nil {
		return nil, derrors.FileSystem("read", df.path, err)
	}
	return content, nil
}

// FileSource is anything that can enumerate documentation files. Every call to
// Files must start an independent traversal.
type FileSource interface {
	Files() iter.Seq2[DocFile, error]
}

// Provider enumerates Markdown files under a docs root.
type Provider struct {
	root       string
	extensions map[string]struct{}
}

// Option configures a Provider.
type Option func(*Provider)

// WithExtensions replaces the recognised Markdown extensions.
func WithExtensions(exts ...string) Option {
	return func(p *Provider) {
		p.extensions = make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			p.extensions[ext] = struct{}{}
		}
	}
}

// NewProvider creates a Provider rooted at root.
func NewProvider(root string, opts ...Option) *Provider {
	p := &Provider{root: root}
	WithExtensions(DefaultExtensions...)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Root returns the configured docs root.
func (p *Provider) Root() string { return p.root }

// Check verifies the root exists and is a directory.
func (p *Provider) Check() error {
	st, err := os.Stat(p.root)
	if err != nil {
		if os.IsNotExist(err) {
			return derrors.RootNotFound(p.root)
		}
		return derrors.FileSystem("stat", p.root, err)
	}
	if !st.IsDir() {
		return derrors.RootNotFound(p.root)
	}
	return nil
}

// Files returns a lazy sequence of every Markdown file under the root. Each call
// walks the tree afresh. A missing root yields a single RootNotFound error; an
// empty root yields nothing. Iteration stops after the first error.
func (p *Provider) Files() iter.Seq2[DocFile, error] {
	return func(yield func(DocFile, error) bool) {
		if err := p.Check(); err != nil {
			yield(DocFile{}, err)
			return
		}

		absRoot, err := filepath.Abs(p.root)
		if err != nil {
			yield(DocFile{}, derrors.FileSystem("abs", p.root, err))
			return
		}

		stopped := false
		walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if strings.HasPrefix(d.Name(), ".") && path != absRoot {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !p.isMarkdown(d.Name()) {
				return nil
			}

			df, err := p.docFile(absRoot, path)
			if err != nil {
				return err
			}
			slog.Debug("Discovered file", logfields.File(df.RelativePath()))
			if !yield(df, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if walkErr != nil && !stopped {
			yield(DocFile{}, derrors.FileSystem("walk", p.root, walkErr))
		}
	}
}

// Collect drains Files into a slice.
func (p *Provider) Collect() ([]DocFile, error) {
	return Collect(p)
}

// Collect drains any FileSource into a slice, stopping at the first error.
func Collect(src FileSource) ([]DocFile, error) {
	var files []DocFile
	for df, err := range src.Files() {
		if err != nil {
			return nil, err
		}
		files = append(files, df)
	}
	return files, nil
}

func (p *Provider) docFile(absRoot, path string) (DocFile, error) {
	rel, err := filepath.Rel(absRoot, filepath.Dir(path))
	if err != nil {
		return DocFile{}, err
	}
	var dir []string
	if rel != "." {
		dir = strings.Split(filepath.ToSlash(rel), "/")
	}
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return DocFile{
		path:      path,
		dir:       dir,
		name:      strings.TrimSuffix(base, ext),
		extension: ext,
	}, nil
}

func (p *Provider) isMarkdown(filename string) bool {
	_, ok := p.extensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// StaticSource is a FileSource over a fixed slice, used by tests and callers
// that already hold an enumeration.
type StaticSource []DocFile

// Files yields the slice in order.
func (s StaticSource) Files() iter.Seq2[DocFile, error] {
	return func(yield func(DocFile, error) bool) {
		for _, df := range s {
			if !yield(df, nil) {
				return
			}
		}
	}
}
