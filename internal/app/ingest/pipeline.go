package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wikidefine/internal/domain"
	"github.com/heartmarshall/wikidefine/internal/dump"
	"github.com/heartmarshall/wikidefine/internal/wikitext"
)

const (
	PhaseTemplates = "templates"
	PhaseWords     = "words"
)

// allPhases defines the canonical execution order.
var allPhases = []string{PhaseTemplates, PhaseWords}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Pages        int // pages read from the dump
	SkippedPages int // pages without a title or text
	Words        int // content pages parsed
	Templates    int
	Modules      int
	Inserted     int // rows written
	Duration     time.Duration
	Err          error
}

// Pipeline runs the ingestion phases against one dump file.
type Pipeline struct {
	log     *slog.Logger
	words   WordRepo
	sources SourceRepo
	txm     TxManager
	parser  *wikitext.Parser
	open    Opener
	cfg     Config
	results map[string]PhaseResult
}

// NewPipeline creates a Pipeline. open is usually OpenDump.
func NewPipeline(
	log *slog.Logger,
	words WordRepo,
	sources SourceRepo,
	txm TxManager,
	vocab wikitext.Vocabulary,
	open Opener,
	cfg Config,
) *Pipeline {
	return &Pipeline{
		log:     log.With("service", "ingest"),
		words:   words,
		sources: sources,
		txm:     txm,
		parser:  wikitext.NewParser(vocab),
		open:    open,
		cfg:     cfg,
		results: make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasErrors returns true if any phase failed.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Run executes the listed phases in canonical order, or all of them when
// phases is empty. A failed phase is recorded in Results and does not stop
// the following ones; Run itself only fails on an unknown phase name.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	toRun, err := selectPhases(phases)
	if err != nil {
		return err
	}

	log := p.log.With(slog.String("run_id", uuid.NewString()))
	log.Info("ingestion started",
		slog.String("dump", p.cfg.DumpPath),
		slog.Int("workers", p.cfg.workers()),
		slog.Bool("dry_run", p.cfg.DryRun),
	)

	for _, phase := range toRun {
		start := time.Now()
		log.Info("starting phase", slog.String("phase", phase))

		var result PhaseResult
		switch phase {
		case PhaseTemplates:
			result = p.runTemplates(ctx)
		case PhaseWords:
			result = p.runWords(ctx, log)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			log.Warn("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Int("pages", result.Pages),
				slog.Duration("duration", result.Duration),
			)
			continue
		}
		log.Info("phase completed",
			slog.String("phase", phase),
			slog.Int("pages", result.Pages),
			slog.Int("skipped_pages", result.SkippedPages),
			slog.Int("words", result.Words),
			slog.Int("templates", result.Templates),
			slog.Int("modules", result.Modules),
			slog.Int("inserted", result.Inserted),
			slog.Duration("duration", result.Duration),
		)
	}

	log.Info("ingestion completed", slog.Int("phases_run", len(toRun)))
	return nil
}

func selectPhases(phases []string) ([]string, error) {
	if len(phases) == 0 {
		return allPhases, nil
	}

	filter := make(map[string]bool, len(phases))
	for _, ph := range phases {
		if !slices.Contains(allPhases, ph) {
			return nil, fmt.Errorf("unknown phase %q (want one of %v)", ph, allPhases)
		}
		filter[ph] = true
	}

	var out []string
	for _, ph := range allPhases {
		if filter[ph] {
			out = append(out, ph)
		}
	}
	return out, nil
}

// runTemplates stores the bodies of Template: and Module: pages.
func (p *Pipeline) runTemplates(ctx context.Context) (result PhaseResult) {
	r, err := p.open(p.cfg.DumpPath)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("open dump: %w", err)}
	}
	defer func() {
		st := r.Stats()
		result.Pages, result.SkippedPages = st.Pages, st.SkippedPages
		_ = r.Close()
	}()

	if !p.cfg.DryRun {
		if err := p.sources.Truncate(ctx); err != nil {
			return PhaseResult{Err: fmt.Errorf("truncate sources: %w", err)}
		}
	}

	var templates, modules []domain.Source
	flush := func(kind domain.PageKind, buf []domain.Source) error {
		n, err := p.writeSources(ctx, kind, buf)
		result.Inserted += n
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			result.Err = err
			return result
		}

		page, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Err = fmt.Errorf("read dump: %w", err)
			return result
		}

		switch page.Kind() {
		case domain.PageKindTemplate:
			result.Templates++
			templates = append(templates, domain.Source{
				Name:    page.LocalName(),
				Content: dump.CleanTemplateSource(page.Content),
			})
			if len(templates) >= p.cfg.BatchSize {
				if err := flush(domain.PageKindTemplate, templates); err != nil {
					result.Err = err
					return result
				}
				templates = templates[:0]
			}
		case domain.PageKindModule:
			result.Modules++
			modules = append(modules, domain.Source{Name: page.LocalName(), Content: page.Content})
			if len(modules) >= p.cfg.BatchSize {
				if err := flush(domain.PageKindModule, modules); err != nil {
					result.Err = err
					return result
				}
				modules = modules[:0]
			}
		}
	}

	if err := flush(domain.PageKindTemplate, templates); err != nil {
		result.Err = err
		return result
	}
	if err := flush(domain.PageKindModule, modules); err != nil {
		result.Err = err
	}
	return result
}

// runWords parses content pages with a pool of workers and writes their
// definitions from a single goroutine. With one worker, rows are written in
// dump order.
func (p *Pipeline) runWords(ctx context.Context, log *slog.Logger) (result PhaseResult) {
	r, err := p.open(p.cfg.DumpPath)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("open dump: %w", err)}
	}
	defer func() { _ = r.Close() }()

	if !p.cfg.DryRun {
		if err := p.words.Truncate(ctx); err != nil {
			return PhaseResult{Err: fmt.Errorf("truncate words: %w", err)}
		}
	}

	pages := make(chan domain.Page, p.cfg.QueueSize)
	parsed := make(chan domain.Word, p.cfg.QueueSize)

	g, gctx := errgroup.WithContext(ctx)

	// Reader. Stats are only read after g.Wait, so no lock is needed.
	g.Go(func() error {
		defer close(pages)
		for {
			if err := gctx.Err(); err != nil {
				return err
			}
			page, err := r.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read dump: %w", err)
			}
			if page.Kind() != domain.PageKindContent {
				continue
			}
			select {
			case pages <- page:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	// Parsers.
	var wg sync.WaitGroup
	for range p.cfg.workers() {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for page := range pages {
				w := p.parser.ParsePage(page)
				select {
				case parsed <- w:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(parsed)
		return nil
	})

	// Writer.
	g.Go(func() error {
		buf := make([]domain.Definition, 0, p.cfg.BatchSize)
		for w := range parsed {
			result.Words++
			if p.cfg.ProgressEvery > 0 && result.Words%p.cfg.ProgressEvery == 0 {
				log.Info("progress", slog.Int("words", result.Words), slog.String("word", w.Name))
			}

			buf = append(buf, w.Definitions()...)
			if len(buf) < p.cfg.BatchSize {
				continue
			}
			n, err := p.writeDefinitions(gctx, buf)
			result.Inserted += n
			if err != nil {
				return err
			}
			buf = buf[:0]
		}
		n, err := p.writeDefinitions(gctx, buf)
		result.Inserted += n
		return err
	})

	result.Err = g.Wait()
	st := r.Stats()
	result.Pages, result.SkippedPages = st.Pages, st.SkippedPages
	return result
}

// writeDefinitions commits defs in one transaction. Earlier batches stay
// committed if a later one fails.
func (p *Pipeline) writeDefinitions(ctx context.Context, defs []domain.Definition) (int, error) {
	if len(defs) == 0 || p.cfg.DryRun {
		return 0, nil
	}
	var n int
	err := p.txm.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		n, err = p.words.BulkInsert(ctx, defs)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("insert definitions: %w", err)
	}
	return n, nil
}

func (p *Pipeline) writeSources(ctx context.Context, kind domain.PageKind, sources []domain.Source) (int, error) {
	if len(sources) == 0 || p.cfg.DryRun {
		return 0, nil
	}
	var n int
	err := p.txm.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		n, err = p.sources.BulkInsert(ctx, kind, sources)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("insert %s sources: %w", kind, err)
	}
	return n, nil
}
