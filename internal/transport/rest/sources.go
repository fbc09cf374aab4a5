package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/wikidefine/internal/domain"
)

type sourceGetter interface {
	Get(ctx context.Context, kind domain.PageKind, name string) (*domain.Source, error)
}

// SourceResponse is the stored body of a template or module page.
type SourceResponse struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// SourceHandler serves stored template and module bodies.
type SourceHandler struct {
	repo sourceGetter
	log  *slog.Logger
}

// NewSourceHandler creates a SourceHandler.
func NewSourceHandler(repo sourceGetter, logger *slog.Logger) *SourceHandler {
	return &SourceHandler{repo: repo, log: logger.With("handler", "sources")}
}

// Template handles GET /templates/{name}.
func (h *SourceHandler) Template(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, domain.PageKindTemplate)
}

// Module handles GET /modules/{name}.
func (h *SourceHandler) Module(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, domain.PageKindModule)
}

func (h *SourceHandler) get(w http.ResponseWriter, r *http.Request, kind domain.PageKind) {
	name := chi.URLParam(r, "name")

	src, err := h.repo.Get(r.Context(), kind, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no such source")
			return
		}
		h.log.ErrorContext(r.Context(), "get source failed",
			slog.String("kind", kind.String()), slog.String("name", name), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, SourceResponse{Kind: kind.String(), Name: src.Name, Content: src.Content})
}
