// Package ingest loads a wiki dump into the definitions store.
package ingest

import (
	"context"

	"github.com/heartmarshall/wikidefine/internal/domain"
	"github.com/heartmarshall/wikidefine/internal/dump"
)

// WordRepo persists extracted definitions. Implemented by word.Repo.
type WordRepo interface {
	BulkInsert(ctx context.Context, defs []domain.Definition) (int, error)
	Truncate(ctx context.Context) error
}

// SourceRepo persists template and module bodies. Implemented by source.Repo.
type SourceRepo interface {
	BulkInsert(ctx context.Context, kind domain.PageKind, sources []domain.Source) (int, error)
	Truncate(ctx context.Context) error
}

// TxManager runs fn in a transaction. Implemented by postgres.TxManager.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PageReader yields dump pages until io.EOF. Implemented by dump.Reader.
type PageReader interface {
	Next() (domain.Page, error)
	Stats() dump.Stats
	Close() error
}

// Opener opens the dump at path for one pass.
type Opener func(path string) (PageReader, error)

// OpenDump is the Opener backed by dump.Open.
func OpenDump(path string) (PageReader, error) {
	return dump.Open(path)
}
