package dispatch

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phpnomad/documentation/internal/logfields"
	"github.com/phpnomad/documentation/internal/routing"
)

// Factory assembles a Dispatcher from a freshly built route table.
type Factory func(ctx context.Context) (*Dispatcher, error)

// Handler serves HTTP by building a new Dispatcher for every request, so edits
// to the docs tree show up without a restart.
type Handler struct {
	factory Factory
	logger  *slog.Logger
}

// NewHandler wraps factory as an http.Handler.
func NewHandler(factory Factory, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{factory: factory, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	d, err := h.factory(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp, err := d.dispatch(r.Context(), routing.Normalize(r.URL.Path), paramsFromQuery(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeResponse(w, r, resp)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("Dispatch failed", logfields.Path(r.URL.Path), logfields.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeResponse(w http.ResponseWriter, r *http.Request, resp routing.Response) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	w.WriteHeader(resp.Status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(resp.Body)
	}
}
