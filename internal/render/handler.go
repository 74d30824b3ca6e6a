package render

import (
	"context"
	"html/template"
	"net/http"

	"github.com/phpnomad/documentation/internal/docs"
	derrors "github.com/phpnomad/documentation/internal/errors"
	"github.com/phpnomad/documentation/internal/frontmatter"
	"github.com/phpnomad/documentation/internal/nav"
	"github.com/phpnomad/documentation/internal/observability"
	"github.com/phpnomad/documentation/internal/routing"
)

// NavBuilder builds a fresh navigation tree against a current endpoint.
type NavBuilder interface {
	Build(current string) ([]nav.Node, error)
}

// Pages returns a routing.HandlerFactory whose handlers render one document
// each. Every call of a handler rereads the source and rebuilds the tree.
func (r *Renderer) Pages(navs NavBuilder) routing.HandlerFactory {
	return func(df docs.DocFile, endpoint string) routing.Handler {
		return &pageHandler{renderer: r, navs: navs, doc: df, endpoint: endpoint}
	}
}

type pageHandler struct {
	renderer *Renderer
	navs     NavBuilder
	doc      docs.DocFile
	endpoint string
}

func (h *pageHandler) Handle(ctx context.Context, _ routing.Request) (routing.Response, error) {
	ctx = observability.WithEndpoint(ctx, h.endpoint)

	source, err := h.doc.ReadSource()
	if err != nil {
		return routing.Response{}, err
	}
	meta, body, err := frontmatter.Parse(source)
	if err != nil {
		return routing.Response{}, derrors.RenderFailed(h.endpoint, err).WithContext("file", h.doc.RelativePath())
	}
	content, err := h.renderer.Markdown(body)
	if err != nil {
		return routing.Response{}, derrors.RenderFailed(h.endpoint, err).WithContext("file", h.doc.RelativePath())
	}

	tree, err := h.navs.Build(h.endpoint)
	if err != nil {
		return routing.Response{}, err
	}

	page, err := h.renderer.Page(PageData{
		Title:       pageTitle(meta, content, tree, h.endpoint, h.doc),
		Description: meta.Description,
		Endpoint:    h.endpoint,
		// Raw HTML passthrough is governed by the goldmark unsafe option.
		Content:    template.HTML(content), //nolint:gosec // output of the Markdown engine
		Nav:        tree,
		Breadcrumb: nav.OpenTrail(tree),
	})
	if err != nil {
		return routing.Response{}, err
	}
	observability.DebugContext(ctx, "Rendered page")
	return routing.Response{Status: http.StatusOK, ContentType: ContentTypeHTML, Body: page}, nil
}

// pageTitle prefers front matter, then the first heading, then the nav entry
// for the endpoint and finally the file slug.
func pageTitle(meta frontmatter.Meta, content []byte, tree []nav.Node, endpoint string, df docs.DocFile) string {
	if meta.Title != "" {
		return meta.Title
	}
	if t := ExtractTitle(content); t != "" {
		return t
	}
	if n, ok := nav.Find(tree, endpoint); ok && n.Title != "" {
		return n.Title
	}
	return nav.Title(df.Name())
}
