// Package render turns the raw wiki markup of a stored definition into
// display text: template invocations are expanded through a rule table and
// the remaining link, comment and emphasis markup is stripped.
//
// This is a best-effort approximation of the wiki template language. Named
// parameters, defaults and parser functions are not interpreted.
package render

import (
	"log/slog"
	"strings"
)

// Rendered is a definition ready for display.
type Rendered struct {
	Text       string
	Unresolved bool
}

// Renderer combines an Expander with StripMarkup. Safe for concurrent use.
type Renderer struct {
	expander *Expander
	log      *slog.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(expander *Expander, logger *slog.Logger) *Renderer {
	return &Renderer{
		expander: expander,
		log:      logger.With("component", "render"),
	}
}

// Render expands and cleans definition. In raw mode the definition is
// returned untouched.
func (r *Renderer) Render(definition string, raw bool) Rendered {
	if raw {
		return Rendered{Text: definition}
	}

	exp := r.expander.Expand(definition)
	if exp.Unresolved {
		r.log.Debug("template expansion did not converge",
			slog.Int("iterations", exp.Iterations),
			slog.String("definition", definition),
		)
	}

	return Rendered{
		Text:       strings.TrimSpace(StripMarkup(exp.Text)),
		Unresolved: exp.Unresolved,
	}
}
