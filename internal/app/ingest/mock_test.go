package ingest

import (
	"context"
	"io"
	"sync"

	"github.com/heartmarshall/wikidefine/internal/domain"
	"github.com/heartmarshall/wikidefine/internal/dump"
)

type mockWordRepo struct {
	mu        sync.Mutex
	rows      []domain.Definition
	batches   int
	truncated int

	insertErr   error
	failOnBatch int // 1-based; 0 fails every batch
	truncateErr error
}

func (m *mockWordRepo) BulkInsert(_ context.Context, defs []domain.Definition) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++
	if m.insertErr != nil && (m.failOnBatch == 0 || m.batches == m.failOnBatch) {
		return 0, m.insertErr
	}
	m.rows = append(m.rows, defs...)
	return len(defs), nil
}

func (m *mockWordRepo) Truncate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.truncated++
	m.rows = nil
	return m.truncateErr
}

type mockSourceRepo struct {
	mu        sync.Mutex
	stored    map[domain.PageKind][]domain.Source
	truncated int
	insertErr error
}

func newMockSourceRepo() *mockSourceRepo {
	return &mockSourceRepo{stored: make(map[domain.PageKind][]domain.Source)}
}

func (m *mockSourceRepo) BulkInsert(_ context.Context, kind domain.PageKind, sources []domain.Source) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.stored[kind] = append(m.stored[kind], sources...)
	return len(sources), nil
}

func (m *mockSourceRepo) Truncate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.truncated++
	return nil
}

type mockTxManager struct {
	mu    sync.Mutex
	calls int
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return fn(ctx)
}

// memReader replays pages and counts entries marked as skipped the way
// dump.Reader does. A nil entry stands for a page without a title.
type memReader struct {
	pages   []*domain.Page
	failAt  int // index at which Next returns readErr; -1 disables
	readErr error

	pos    int
	stats  dump.Stats
	closed bool
}

func (r *memReader) Next() (domain.Page, error) {
	for r.pos < len(r.pages) {
		i := r.pos
		r.pos++
		if i == r.failAt {
			return domain.Page{}, r.readErr
		}
		if r.pages[i] == nil {
			r.stats.SkippedPages++
			continue
		}
		r.stats.Pages++
		return *r.pages[i], nil
	}
	return domain.Page{}, io.EOF
}

func (r *memReader) Stats() dump.Stats { return r.stats }

func (r *memReader) Close() error {
	r.closed = true
	return nil
}

// opener returns an Opener that hands out a fresh memReader per pass.
func opener(pages []*domain.Page) (Opener, *[]*memReader) {
	var opened []*memReader
	return func(string) (PageReader, error) {
		r := &memReader{pages: pages, failAt: -1}
		opened = append(opened, r)
		return r, nil
	}, &opened
}
