// Package source stores template and module page bodies.
package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wikidefine/internal/adapter/postgres"
	"github.com/heartmarshall/wikidefine/internal/domain"
)

// Repo provides template and module persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a source repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func table(kind domain.PageKind) (string, error) {
	switch kind {
	case domain.PageKindTemplate:
		return "templates", nil
	case domain.PageKindModule:
		return "modules", nil
	default:
		return "", fmt.Errorf("%w: no source table for page kind %s", domain.ErrValidation, kind)
	}
}

// BulkInsert stores sources of one kind with a single pgx.Batch.
func (r *Repo) BulkInsert(ctx context.Context, kind domain.PageKind, sources []domain.Source) (int, error) {
	if len(sources) == 0 {
		return 0, nil
	}
	tbl, err := table(kind)
	if err != nil {
		return 0, err
	}

	stmt := "INSERT INTO " + tbl + " (name, content) VALUES ($1, $2)"
	batch := &pgx.Batch{}
	for _, s := range sources {
		batch.Queue(stmt, s.Name, s.Content)
	}

	n, err := postgres.SendBatchExec(ctx, postgres.QuerierFromCtx(ctx, r.pool), batch)
	if err != nil {
		return n, postgres.MapError(err, kind.String(), sources[0].Name)
	}
	return n, nil
}

// Get returns the stored source called name. It wraps domain.ErrNotFound
// when there is none.
func (r *Repo) Get(ctx context.Context, kind domain.PageKind, name string) (*domain.Source, error) {
	tbl, err := table(kind)
	if err != nil {
		return nil, err
	}

	var s domain.Source
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		"SELECT name, content FROM "+tbl+" WHERE name = $1 LIMIT 1", name)
	if err := row.Scan(&s.Name, &s.Content); err != nil {
		return nil, postgres.MapError(err, kind.String(), name)
	}
	return &s, nil
}

// Truncate empties the template and module tables.
func (r *Repo) Truncate(ctx context.Context) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, `TRUNCATE TABLE templates, modules`); err != nil {
		return fmt.Errorf("truncate sources: %w", err)
	}
	return nil
}
