package testing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/phpnomad/documentation/internal/config"
)

// SiteFixture lays out a documentation project in a temporary directory:
//
//	<root>/public/docs/...       documents
//	<root>/public/templates/...  layout overrides
//	<root>/public/<asset>/...    asset directories
//	<root>/dist                  output
type SiteFixture struct {
	t    *testing.T
	Root string
	cfg  *config.Config
}

// NewSiteFixture creates the template and docs roots and a configuration
// pointing at them with absolute paths.
func NewSiteFixture(t *testing.T) *SiteFixture {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.TemplateRoot = filepath.Join(root, config.DefaultTemplateRoot)
	cfg.DocsRoot = filepath.Join(root, filepath.FromSlash(config.DefaultDocsRoot))
	cfg.OutputDir = filepath.Join(root, config.DefaultOutputDir)

	if err := os.MkdirAll(cfg.DocsRoot, testDirPermissions); err != nil {
		t.Fatalf("Failed to create docs root: %v", err)
	}
	return &SiteFixture{t: t, Root: root, cfg: cfg}
}

// Config returns the fixture configuration. Callers may modify it.
func (f *SiteFixture) Config() *config.Config { return f.cfg }

// Doc writes a document under the docs root. rel is slash separated.
func (f *SiteFixture) Doc(rel, content string) *SiteFixture {
	f.t.Helper()
	f.write(filepath.Join(f.cfg.DocsRoot, filepath.FromSlash(rel)), content)
	return f
}

// Docs writes several documents with a generated heading each.
func (f *SiteFixture) Docs(rels ...string) *SiteFixture {
	f.t.Helper()
	for _, rel := range rels {
		f.Doc(rel, "# "+rel+"\n\nContent of "+rel+".\n")
	}
	return f
}

// Asset writes a file into an asset directory under the template root.
func (f *SiteFixture) Asset(dir, rel, content string) *SiteFixture {
	f.t.Helper()
	f.write(filepath.Join(f.cfg.TemplateRoot, dir, filepath.FromSlash(rel)), content)
	return f
}

// Template writes a layout override.
func (f *SiteFixture) Template(name, content string) *SiteFixture {
	f.t.Helper()
	f.write(filepath.Join(f.cfg.TemplatesDir(), name), content)
	return f
}

// Output writes a file into the output directory, e.g. to simulate stale results.
func (f *SiteFixture) Output(rel, content string) *SiteFixture {
	f.t.Helper()
	f.write(filepath.Join(f.cfg.OutputDir, filepath.FromSlash(rel)), content)
	return f
}

// WriteConfig stores the configuration as docsite.json in the fixture root
// and returns its path.
func (f *SiteFixture) WriteConfig() string {
	f.t.Helper()
	data, err := json.MarshalIndent(f.cfg, "", "  ")
	if err != nil {
		f.t.Fatalf("Failed to marshal config: %v", err)
	}
	p := filepath.Join(f.Root, config.DefaultConfigFile)
	f.write(p, string(data))
	return p
}

// OutputAssertions returns assertions rooted at the output directory.
func (f *SiteFixture) OutputAssertions() *FileAssertions {
	return NewFileAssertions(f.t, f.cfg.OutputDir)
}

func (f *SiteFixture) write(p, content string) {
	f.t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), testDirPermissions); err != nil {
		f.t.Fatalf("Failed to create directory for %s: %v", p, err)
	}
	if err := os.WriteFile(p, []byte(content), testFilePermissions); err != nil {
		f.t.Fatalf("Failed to write %s: %v", p, err)
	}
}
