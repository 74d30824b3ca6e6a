// Package dispatch resolves request paths against a route table and produces
// rendered responses, falling back to a not-found page.
package dispatch

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/phpnomad/documentation/internal/logfields"
	"github.com/phpnomad/documentation/internal/metrics"
	"github.com/phpnomad/documentation/internal/nav"
	"github.com/phpnomad/documentation/internal/observability"
	"github.com/phpnomad/documentation/internal/render"
	"github.com/phpnomad/documentation/internal/routing"
)

// NotFoundRenderer renders the fixed not-found page.
type NotFoundRenderer interface {
	NotFound(endpoint string, tree []nav.Node) ([]byte, error)
}

// Dispatcher matches one request against a route table. It keeps no state
// between calls.
type Dispatcher struct {
	table    *routing.Table
	navs     render.NavBuilder
	notFound NotFoundRenderer
	recorder metrics.Recorder
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRecorder records dispatch outcomes.
func WithRecorder(r metrics.Recorder) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.recorder = r
		}
	}
}

// New creates a Dispatcher over table.
func New(table *routing.Table, navs render.NavBuilder, notFound NotFoundRenderer, opts ...Option) *Dispatcher {
	d := &Dispatcher{table: table, navs: navs, notFound: notFound, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch resolves path, which may carry a query string. A registered
// endpoint returns its handler's response unchanged; anything else gets a 404
// page whose navigation has nothing open. A missing route is not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, path string) (routing.Response, error) {
	endpoint, params := d.Resolve(path)
	return d.dispatch(ctx, endpoint, params)
}

// DispatchEndpoint dispatches an already normalized endpoint verbatim, without
// query parsing. Compile passes use it for every route in the table.
func (d *Dispatcher) DispatchEndpoint(ctx context.Context, endpoint string) (routing.Response, error) {
	return d.dispatch(ctx, endpoint, routing.Params{})
}

// Resolve splits a request path into endpoint and query parameters. A path
// that literally names a registered endpoint wins over query splitting, so
// "/what?" reaches the document what?.md. Nothing is percent-decoded.
func (d *Dispatcher) Resolve(path string) (string, routing.Params) {
	literal := routing.Normalize(path)
	if _, ok := d.table.Lookup(literal); ok {
		return literal, routing.Params{}
	}
	return splitPath(path)
}

func (d *Dispatcher) dispatch(ctx context.Context, endpoint string, params routing.Params) (routing.Response, error) {
	ctx = observability.WithEndpoint(ctx, endpoint)

	route, ok := d.table.Lookup(endpoint)
	if !ok {
		resp, err := d.renderNotFound(endpoint)
		if err != nil {
			d.recorder.IncDispatch(metrics.DispatchError)
			return routing.Response{}, err
		}
		observability.DebugContext(ctx, "No route matched")
		d.recorder.IncDispatch(metrics.DispatchNotFound)
		return resp, nil
	}

	resp, err := route.Handler.Handle(ctx, routing.Request{Path: endpoint, Params: params})
	if err != nil {
		observability.ErrorContext(ctx, "Handler failed", logfields.Error(err))
		d.recorder.IncDispatch(metrics.DispatchError)
		return routing.Response{}, err
	}
	d.recorder.IncDispatch(metrics.DispatchMatched)
	return resp, nil
}

func (d *Dispatcher) renderNotFound(endpoint string) (routing.Response, error) {
	tree, err := d.navs.Build("")
	if err != nil {
		return routing.Response{}, err
	}
	body, err := d.notFound.NotFound(endpoint, tree)
	if err != nil {
		return routing.Response{}, err
	}
	return routing.Response{Status: http.StatusNotFound, ContentType: render.ContentTypeHTML, Body: body}, nil
}

// splitPath cuts raw at the first '?' and parses the remainder as a query
// string. The path part is taken literally.
func splitPath(raw string) (string, routing.Params) {
	path, query, found := strings.Cut(raw, "?")
	if !found || query == "" {
		return routing.Normalize(path), routing.Params{}
	}
	q, err := url.ParseQuery(query)
	if err != nil {
		return routing.Normalize(path), routing.Params{}
	}
	return routing.Normalize(path), paramsFromQuery(q)
}

func paramsFromQuery(q url.Values) routing.Params {
	if len(q) == 0 {
		return routing.Params{}
	}
	values := make(map[string]string, len(q))
	for k := range q {
		values[k] = q.Get(k)
	}
	return routing.NewParams(values)
}
