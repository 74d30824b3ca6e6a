package routing

import (
	"context"
	"iter"
	"maps"
	"net/http"
	"slices"
)

// Request is the input handed to a Handler for one dispatch.
type Request struct {
	// Path is the normalized endpoint that was requested.
	Path string
	// Params is built once per dispatch and never mutated afterwards.
	Params Params
}

// Response is what a Handler produces. Status follows HTTP semantics.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// OK reports whether the response is a 2xx.
func (r Response) OK() bool {
	return r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices
}

// Handler produces content for a route.
type Handler interface {
	Handle(ctx context.Context, req Request) (Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req Request) (Response, error)

func (f HandlerFunc) Handle(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Params is an immutable string map attached to a Request.
type Params struct {
	values map[string]string
}

// NewParams copies values into a new Params.
func NewParams(values map[string]string) Params {
	if len(values) == 0 {
		return Params{}
	}
	return Params{values: maps.Clone(values)}
}

// Get returns the value stored under key.
func (p Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Len is the number of entries.
func (p Params) Len() int { return len(p.values) }

// All yields the entries in key order.
func (p Params) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range slices.Sorted(maps.Keys(p.values)) {
			if !yield(k, p.values[k]) {
				return
			}
		}
	}
}

// With returns a copy of p with key set to value. p is left unchanged.
func (p Params) With(key, value string) Params {
	next := make(map[string]string, len(p.values)+1)
	maps.Copy(next, p.values)
	next[key] = value
	return Params{values: next}
}
