// Package lookup answers "what does this word mean" from the stored
// definitions, rendering each one for display.
package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/heartmarshall/wikidefine/internal/domain"
	"github.com/heartmarshall/wikidefine/internal/render"
)

type wordRepo interface {
	FindByName(ctx context.Context, name, language string) ([]domain.Definition, error)
}

type renderer interface {
	Render(definition string, raw bool) render.Rendered
}

// Service implements word lookup.
type Service struct {
	log      *slog.Logger
	words    wordRepo
	renderer renderer
}

// NewService creates a lookup service.
func NewService(logger *slog.Logger, words wordRepo, renderer renderer) *Service {
	return &Service{
		log:      logger.With("service", "lookup"),
		words:    words,
		renderer: renderer,
	}
}

// Query selects what to look up. Language is optional; Raw skips rendering.
type Query struct {
	Name     string
	Language string
	Raw      bool
}

// Validate checks the query. Name must contain a non-space character.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Name) == "" {
		return domain.NewValidationError("name", "required")
	}
	return nil
}

// Lookup returns the definitions of q.Name grouped by language and part of
// speech. An unknown word is not an error: the result is simply Empty.
func (s *Service) Lookup(ctx context.Context, q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	defs, err := s.words.FindByName(ctx, q.Name, q.Language)
	if err != nil {
		return nil, fmt.Errorf("find definitions of %q: %w", q.Name, err)
	}

	res := group(q.Name, defs, func(d string) Definition {
		r := s.renderer.Render(d, q.Raw)
		return Definition{Text: r.Text, Unresolved: r.Unresolved}
	})

	s.log.DebugContext(ctx, "lookup",
		slog.String("name", q.Name),
		slog.String("language", q.Language),
		slog.Bool("raw", q.Raw),
		slog.Int("definitions", len(defs)),
	)
	return res, nil
}

// group builds a Result with languages and parts of speech sorted by name.
// Definitions keep the order of defs.
func group(name string, defs []domain.Definition, renderDef func(string) Definition) *Result {
	byLang := make(map[string]map[string][]Definition)
	for _, d := range defs {
		pos, ok := byLang[d.Language]
		if !ok {
			pos = make(map[string][]Definition)
			byLang[d.Language] = pos
		}
		pos[d.PartOfSpeech] = append(pos[d.PartOfSpeech], renderDef(d.Definition))
	}

	res := &Result{Word: name, Languages: make([]Language, 0, len(byLang))}
	for _, lang := range sortedKeys(byLang) {
		l := Language{Name: lang}
		for _, pos := range sortedKeys(byLang[lang]) {
			l.PartsOfSpeech = append(l.PartsOfSpeech, PartOfSpeech{
				Name:        pos,
				Definitions: byLang[lang][pos],
			})
		}
		res.Languages = append(res.Languages, l)
	}
	return res
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
