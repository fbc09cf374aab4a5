package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/wikidefine/internal/config"
	"github.com/heartmarshall/wikidefine/internal/transport/middleware"
)

// NewRouter mounts the health probes, the lookup API and the stored
// template and module sources.
func NewRouter(health *HealthHandler, words *WordHandler, sources *SourceHandler, cors config.CORSConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cors),
	))

	r.Get("/live", health.Live)
	r.Get("/ready", health.Ready)
	r.Get("/health", health.Health)

	r.Get("/words/{name}", words.Get)
	r.Get("/templates/{name}", sources.Template)
	r.Get("/modules/{name}", sources.Module)

	return r
}
