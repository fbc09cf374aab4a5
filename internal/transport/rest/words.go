package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/wikidefine/internal/domain"
	"github.com/heartmarshall/wikidefine/internal/service/lookup"
)

type lookupService interface {
	Lookup(ctx context.Context, q lookup.Query) (*lookup.Result, error)
}

// WordHandler serves definition lookups.
type WordHandler struct {
	svc lookupService
	log *slog.Logger
}

// NewWordHandler creates a WordHandler.
func NewWordHandler(svc lookupService, logger *slog.Logger) *WordHandler {
	return &WordHandler{svc: svc, log: logger.With("handler", "words")}
}

// Get handles GET /words/{name}?language=&raw=.
func (h *WordHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := lookup.Query{
		Name:     chi.URLParam(r, "name"),
		Language: r.URL.Query().Get("language"),
	}
	if v := r.URL.Query().Get("raw"); v != "" {
		raw, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "raw: must be a boolean")
			return
		}
		q.Raw = raw
	}

	res, err := h.svc.Lookup(r.Context(), q)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		h.log.ErrorContext(r.Context(), "lookup failed", slog.String("name", q.Name), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if res.Empty() {
		writeError(w, http.StatusNotFound, "no results")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
