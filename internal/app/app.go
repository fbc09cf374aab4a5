package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wikidefine/internal/adapter/postgres"
	"github.com/heartmarshall/wikidefine/internal/adapter/postgres/source"
	"github.com/heartmarshall/wikidefine/internal/adapter/postgres/word"
	"github.com/heartmarshall/wikidefine/internal/config"
	"github.com/heartmarshall/wikidefine/internal/render"
	"github.com/heartmarshall/wikidefine/internal/service/lookup"
	"github.com/heartmarshall/wikidefine/internal/transport/rest"
	"github.com/heartmarshall/wikidefine/internal/vocab"
)

// Lookup holds what both the HTTP server and the define command need to
// answer word lookups.
type Lookup struct {
	Pool    *pgxpool.Pool
	Words   *word.Repo
	Sources *source.Repo
	Service *lookup.Service
}

// OpenLookup connects to the database, applies migrations when configured
// and wires the renderer from the configured vocabulary.
func OpenLookup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Lookup, error) {
	voc, err := vocab.Load(cfg.Vocabulary.Path)
	if err != nil {
		return nil, err
	}
	renderer, err := NewRenderer(voc, cfg.Render, logger)
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if !cfg.Database.SkipMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	words := word.New(pool)
	return &Lookup{
		Pool:    pool,
		Words:   words,
		Sources: source.New(pool),
		Service: lookup.NewService(logger, words, renderer),
	}, nil
}

// Close releases the connection pool.
func (l *Lookup) Close() {
	l.Pool.Close()
}

// NewRenderer builds the definition renderer from the vocabulary's
// template rules.
func NewRenderer(voc *vocab.Vocabulary, cfg config.RenderConfig, logger *slog.Logger) (*render.Renderer, error) {
	expander, err := render.NewExpander(voc.Rules, render.WithMaxIterations(cfg.MaxIterations))
	if err != nil {
		return nil, fmt.Errorf("build expander: %w", err)
	}
	return render.NewRenderer(expander, logger), nil
}

// Run starts the lookup HTTP server and blocks until ctx is cancelled or
// the server fails. Shutdown waits up to server.shutdown_timeout for
// in-flight requests.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting server",
		slog.String("version", BuildVersion()),
		slog.String("addr", cfg.Server.Addr()),
		slog.String("log_level", cfg.Log.Level),
	)

	lk, err := OpenLookup(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer lk.Close()

	handler := rest.NewRouter(
		rest.NewHealthHandler(lk.Pool, lk.Words, Version),
		rest.NewWordHandler(lk.Service, logger),
		rest.NewSourceHandler(lk.Sources, logger),
		cfg.CORS,
		logger,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}
