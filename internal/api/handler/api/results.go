package api

import (
	"net/http"

	"github.com/newthinker/trendkit/internal/api/response"
	"github.com/newthinker/trendkit/internal/core"
)

// ResultsHandler browses archived results.
type ResultsHandler struct {
	store ResultStore
}

// NewResultsHandler creates a new results handler. A nil store answers
// every request with CONFIG_MISSING.
func NewResultsHandler(store ResultStore) *ResultsHandler {
	return &ResultsHandler{store: store}
}

// List returns result keys, optionally narrowed by ?study= and ?symbol=.
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		response.Fail(w, core.Errorf(core.ErrConfigMissing, "no result archive configured"))
		return
	}

	q := r.URL.Query()
	keys, err := h.store.List(r.Context(), q.Get("study"), q.Get("symbol"))
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.List(w, keys)
}

// Get returns one archived result.
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		response.Fail(w, core.Errorf(core.ErrConfigMissing, "no result archive configured"))
		return
	}

	out, err := h.store.Load(r.Context(), r.PathValue("key"))
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, out)
}
