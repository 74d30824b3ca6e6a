// Package render turns Markdown documents into full HTML pages using goldmark
// and html/template layouts. Layouts ship embedded and can be overridden by
// files under the configured templates directory.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"

	derrors "github.com/phpnomad/documentation/internal/errors"
	"github.com/phpnomad/documentation/internal/logfields"
	"github.com/phpnomad/documentation/internal/nav"
)

// Template names, also the override file names under the templates directory.
const (
	PageTemplate     = "page.html"
	NotFoundTemplate = "404.html"
	navPartial       = "nav.html"
)

// ContentTypeHTML is the content type of every rendered page.
const ContentTypeHTML = "text/html; charset=utf-8"

//go:embed templates/*.html
var embeddedTemplates embed.FS

// TemplateInfo records where a layout was loaded from: "embedded" or "file".
type TemplateInfo struct {
	Source string `json:"source"`
	Path   string `json:"path,omitempty"`
}

// Options configures a Renderer.
type Options struct {
	SiteTitle string
	// TemplatesDir holds optional page.html and 404.html overrides. Empty
	// means embedded layouts only.
	TemplatesDir string
	Extensions   []string
	Unsafe       bool
}

// PageData is the value handed to the page layout.
type PageData struct {
	SiteTitle   string
	Title       string
	Description string
	Endpoint    string
	Content     template.HTML
	Nav         []nav.Node
	Breadcrumb  []nav.Node
}

// NotFoundData is the value handed to the not-found layout.
type NotFoundData struct {
	SiteTitle string
	Endpoint  string
	Nav       []nav.Node
}

// Renderer converts Markdown and executes layouts. It holds no per-request
// state and is safe for concurrent use.
type Renderer struct {
	md        goldmark.Markdown
	page      *template.Template
	notFound  *template.Template
	siteTitle string
	usage     map[string]TemplateInfo
}

// New loads layouts and builds the Markdown engine.
func New(opts Options) (*Renderer, error) {
	md, unknown := newMarkdown(opts.Extensions, opts.Unsafe)
	for _, name := range unknown {
		slog.Warn("Ignoring unknown markdown extension", slog.String("extension", name))
	}

	r := &Renderer{md: md, siteTitle: opts.SiteTitle, usage: map[string]TemplateInfo{}}
	var err error
	if r.page, err = r.loadTemplate(opts.TemplatesDir, PageTemplate); err != nil {
		return nil, err
	}
	if r.notFound, err = r.loadTemplate(opts.TemplatesDir, NotFoundTemplate); err != nil {
		return nil, err
	}
	return r, nil
}

// loadTemplate parses the nav partial followed by either the override file or
// the embedded default for name.
func (r *Renderer) loadTemplate(dir, name string) (*template.Template, error) {
	partial, err := embeddedTemplates.ReadFile("templates/" + navPartial)
	if err != nil {
		return nil, derrors.InternalError("embedded nav partial missing", err)
	}
	tmpl, err := template.New(name).Parse(string(partial))
	if err != nil {
		return nil, derrors.InternalError("parse nav partial", err)
	}

	body, info, err := readLayout(dir, name)
	if err != nil {
		return nil, err
	}
	if _, err := tmpl.Parse(string(body)); err != nil {
		return nil, derrors.RenderFailed("", fmt.Errorf("parse template %s: %w", name, err)).
			WithContext("template", name).
			WithContext("source", info.Source)
	}
	r.usage[name] = info
	if info.Source == "file" {
		slog.Debug("Using template override", slog.String("template", name), logfields.Path(info.Path))
	}
	return tmpl, nil
}

func readLayout(dir, name string) ([]byte, TemplateInfo, error) {
	if dir != "" {
		p := filepath.Join(dir, name)
		b, err := os.ReadFile(p)
		switch {
		case err == nil && len(bytes.TrimSpace(b)) > 0:
			return b, TemplateInfo{Source: "file", Path: p}, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return nil, TemplateInfo{}, derrors.FileSystem("read", p, err)
		}
	}
	b, err := embeddedTemplates.ReadFile("templates/" + name)
	if err != nil {
		return nil, TemplateInfo{}, derrors.InternalError("embedded template missing", err).WithContext("template", name)
	}
	return b, TemplateInfo{Source: "embedded"}, nil
}

// Templates reports where each layout came from.
func (r *Renderer) Templates() map[string]TemplateInfo {
	out := make(map[string]TemplateInfo, len(r.usage))
	for k, v := range r.usage {
		out[k] = v
	}
	return out
}

// SiteTitle is the configured site title.
func (r *Renderer) SiteTitle() string { return r.siteTitle }

// Markdown converts a Markdown body (front matter already removed) to HTML.
func (r *Renderer) Markdown(body []byte) ([]byte, error) {
	return convert(r.md, body)
}

// Page executes the page layout.
func (r *Renderer) Page(data PageData) ([]byte, error) {
	if data.SiteTitle == "" {
		data.SiteTitle = r.siteTitle
	}
	var buf bytes.Buffer
	if err := r.page.Execute(&buf, data); err != nil {
		return nil, derrors.RenderFailed(data.Endpoint, err).WithContext("template", PageTemplate)
	}
	return buf.Bytes(), nil
}

// NotFound executes the not-found layout for endpoint with the given tree.
func (r *Renderer) NotFound(endpoint string, tree []nav.Node) ([]byte, error) {
	data := NotFoundData{SiteTitle: r.siteTitle, Endpoint: endpoint, Nav: tree}
	var buf bytes.Buffer
	if err := r.notFound.Execute(&buf, data); err != nil {
		return nil, derrors.RenderFailed(endpoint, err).WithContext("template", NotFoundTemplate)
	}
	return buf.Bytes(), nil
}
