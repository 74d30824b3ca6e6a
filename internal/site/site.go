// Package site wires configuration into the compiler components: file
// provider, route resolver, navigation builder, renderer and dispatcher.
package site

import (
	"context"

	"github.com/phpnomad/documentation/internal/config"
	"github.com/phpnomad/documentation/internal/dispatch"
	"github.com/phpnomad/documentation/internal/docs"
	derrors "github.com/phpnomad/documentation/internal/errors"
	"github.com/phpnomad/documentation/internal/fsutil"
	"github.com/phpnomad/documentation/internal/metrics"
	"github.com/phpnomad/documentation/internal/nav"
	"github.com/phpnomad/documentation/internal/render"
	"github.com/phpnomad/documentation/internal/routing"
)

// Site is the assembled documentation site for one configuration.
type Site struct {
	cfg      *config.Config
	files    *docs.Provider
	navs     *nav.Builder
	renderer *render.Renderer
	recorder metrics.Recorder
}

// Option configures a Site.
type Option func(*Site)

// WithRecorder records dispatch outcomes.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Site) {
		if r != nil {
			s.recorder = r
		}
	}
}

// New assembles a Site. Layouts are loaded eagerly so template errors surface
// before any compile starts.
func New(cfg *config.Config, opts ...Option) (*Site, error) {
	renderer, err := render.New(render.Options{
		SiteTitle:    cfg.SiteTitle,
		TemplatesDir: cfg.TemplatesDir(),
		Extensions:   cfg.Markdown.Extensions,
		Unsafe:       cfg.Markdown.AllowRawHTML(),
	})
	if err != nil {
		return nil, err
	}
	files := docs.NewProvider(cfg.DocsRoot)
	s := &Site{
		cfg:      cfg,
		files:    files,
		navs:     nav.NewBuilder(files),
		renderer: renderer,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config is the configuration the site was built from.
func (s *Site) Config() *config.Config { return s.cfg }

// Files is the document enumeration.
func (s *Site) Files() *docs.Provider { return s.files }

// Nav is the navigation builder.
func (s *Site) Nav() *nav.Builder { return s.navs }

// Renderer is the page renderer.
func (s *Site) Renderer() *render.Renderer { return s.renderer }

// Check reports a RootNotFound error when the docs or template root is missing.
func (s *Site) Check() error {
	if err := s.files.Check(); err != nil {
		return err
	}
	if !fsutil.IsDir(s.cfg.TemplateRoot) {
		return derrors.RootNotFound(s.cfg.TemplateRoot)
	}
	return nil
}

// Table enumerates the documents once and builds the route table.
func (s *Site) Table() (*routing.Table, error) {
	resolver := routing.NewResolver(s.files, s.renderer.Pages(s.navs))
	return routing.NewTable(resolver.Routes(), routing.Strict(s.cfg.StrictRoutes))
}

// Build returns a fresh route table and a dispatcher over it.
func (s *Site) Build(_ context.Context) (*routing.Table, *dispatch.Dispatcher, error) {
	table, err := s.Table()
	if err != nil {
		return nil, nil, err
	}
	return table, dispatch.New(table, s.navs, s.renderer, dispatch.WithRecorder(s.recorder)), nil
}

// Dispatcher builds a dispatcher over a fresh table. It matches dispatch.Factory.
func (s *Site) Dispatcher(ctx context.Context) (*dispatch.Dispatcher, error) {
	_, d, err := s.Build(ctx)
	return d, err
}

// Handler serves the site over HTTP, rebuilding the route table per request.
func (s *Site) Handler() *dispatch.Handler {
	return dispatch.NewHandler(s.Dispatcher, nil)
}
