package routing

import (
	"iter"
	"log/slog"

	"github.com/phpnomad/documentation/internal/docs"
	derrors "github.com/phpnomad/documentation/internal/errors"
	"github.com/phpnomad/documentation/internal/logfields"
)

// Route pairs a normalized endpoint with the handler that renders it.
type Route struct {
	Endpoint string
	Handler  Handler
	Source   docs.DocFile
}

// HandlerFactory builds the content handler for a document.
type HandlerFactory func(df docs.DocFile, endpoint string) Handler

// Resolver turns a file enumeration into routes.
type Resolver struct {
	files    docs.FileSource
	handlers HandlerFactory
}

// NewResolver creates a Resolver over files. handlers may be nil, in which case
// routes carry no handler (useful for listing).
func NewResolver(files docs.FileSource, handlers HandlerFactory) *Resolver {
	return &Resolver{files: files, handlers: handlers}
}

// Routes yields one Route per document, lazily and in enumeration order. Each
// call re-enumerates the underlying files.
func (r *Resolver) Routes() iter.Seq2[Route, error] {
	return func(yield func(Route, error) bool) {
		for df, err := range r.files.Files() {
			if err != nil {
				yield(Route{}, err)
				return
			}
			endpoint := EndpointFor(df)
			route := Route{Endpoint: endpoint, Source: df}
			if r.handlers != nil {
				route.Handler = r.handlers(df, endpoint)
			}
			if !yield(route, nil) {
				return
			}
		}
	}
}

// Duplicate records two documents that normalized to the same endpoint.
type Duplicate struct {
	Endpoint string
	Replaced docs.DocFile
	Winner   docs.DocFile
}

// Table is an exact-match route table built from one full enumeration.
type Table struct {
	routes     []Route
	index      map[string]int
	duplicates []Duplicate
}

// TableOption configures table construction.
type TableOption func(*tableOptions)

type tableOptions struct {
	strict bool
}

// Strict makes duplicate endpoints a DuplicateRoute error instead of a warning.
func Strict(enabled bool) TableOption {
	return func(o *tableOptions) { o.strict = enabled }
}

// NewTable consumes routes eagerly. When two routes share an endpoint the later
// one wins and the collision is recorded, unless Strict is set.
func NewTable(routes iter.Seq2[Route, error], opts ...TableOption) (*Table, error) {
	var o tableOptions
	for _, opt := range opts {
		opt(&o)
	}

	t := &Table{index: make(map[string]int)}
	for route, err := range routes {
		if err != nil {
			return nil, err
		}
		i, exists := t.index[route.Endpoint]
		if !exists {
			t.index[route.Endpoint] = len(t.routes)
			t.routes = append(t.routes, route)
			continue
		}

		prev := t.routes[i]
		if o.strict {
			return nil, derrors.DuplicateRoute(route.Endpoint, prev.Source.RelativePath(), route.Source.RelativePath())
		}
		slog.Warn("Duplicate endpoint, later document wins",
			logfields.Endpoint(route.Endpoint),
			slog.String("replaced", prev.Source.RelativePath()),
			slog.String("winner", route.Source.RelativePath()))
		t.duplicates = append(t.duplicates, Duplicate{
			Endpoint: route.Endpoint,
			Replaced: prev.Source,
			Winner:   route.Source,
		})
		t.routes[i] = route
	}
	return t, nil
}

// Lookup finds the route registered for endpoint. Only literal matches count.
func (t *Table) Lookup(endpoint string) (Route, bool) {
	i, ok := t.index[endpoint]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Routes returns the unique routes in first-seen order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Len is the number of unique endpoints.
func (t *Table) Len() int { return len(t.routes) }

// Duplicates lists endpoint collisions seen while building the table.
func (t *Table) Duplicates() []Duplicate {
	return append([]Duplicate(nil), t.duplicates...)
}
