// Package word stores extracted definitions in the words table.
package word

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wikidefine/internal/adapter/postgres"
	"github.com/heartmarshall/wikidefine/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const insertSQL = `
INSERT INTO words (name, language, part_of_speech, definition, position)
VALUES ($1, $2, $3, $4, $5)`

// Repo provides definition persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a word repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// BulkInsert queues one INSERT per definition in a single pgx.Batch and
// returns the number of rows written.
func (r *Repo) BulkInsert(ctx context.Context, defs []domain.Definition) (int, error) {
	if len(defs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, d := range defs {
		batch.Queue(insertSQL, d.Name, d.Language, d.PartOfSpeech, d.Definition, d.Position)
	}

	n, err := postgres.SendBatchExec(ctx, postgres.QuerierFromCtx(ctx, r.pool), batch)
	if err != nil {
		return n, postgres.MapError(err, "word", defs[0].Name)
	}
	return n, nil
}

// FindByName returns every stored definition of name, optionally limited to
// one language. Rows are ordered by language, part of speech and position.
// An unknown name yields an empty slice, not an error.
func (r *Repo) FindByName(ctx context.Context, name, language string) ([]domain.Definition, error) {
	query := psql.
		Select("name", "language", "part_of_speech", "definition", "position").
		From("words").
		Where(sq.Eq{"name": name}).
		OrderBy("language", "part_of_speech", "position")
	if language != "" {
		query = query.Where(sq.Eq{"language": language})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find words query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "word", name)
	}
	defer rows.Close()

	defs := []domain.Definition{}
	for rows.Next() {
		var d domain.Definition
		if err := rows.Scan(&d.Name, &d.Language, &d.PartOfSpeech, &d.Definition, &d.Position); err != nil {
			return nil, fmt.Errorf("scan word row: %w", err)
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "word", name)
	}

	return defs, nil
}

// Count returns the number of stored definitions.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM words`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}

// Truncate removes every stored definition.
func (r *Repo) Truncate(ctx context.Context) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, `TRUNCATE TABLE words`); err != nil {
		return fmt.Errorf("truncate words: %w", err)
	}
	return nil
}
