// Package view prints lookup results to a terminal.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/heartmarshall/wikidefine/internal/service/lookup"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ValidFormats returns the accepted --output values.
func ValidFormats() []string {
	return []string{string(FormatText), string(FormatJSON)}
}

// ValidateFormat returns an error unless format is empty or one of ValidFormats.
func ValidateFormat(format string) error {
	switch Format(format) {
	case "", FormatText, FormatJSON:
		return nil
	}
	return fmt.Errorf("invalid output format %q (valid: %s)", format, strings.Join(ValidFormats(), ", "))
}

const (
	DefaultWidth = 80

	posIndent        = "  "
	definitionIndent = "    "
	hangingIndent    = "      "
)

// NoResults is printed when a lookup finds nothing.
const NoResults = "No results found."

// Renderer writes lookup results.
type Renderer struct {
	w        io.Writer
	format   Format
	width    int
	language *color.Color
	pos      *color.Color
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the wrap column. Values below 1 fall back to DefaultWidth.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithFormat selects the output format.
func WithFormat(f Format) Option {
	return func(r *Renderer) {
		if f != "" {
			r.format = f
		}
	}
}

// WithColor forces colour on or off regardless of the terminal.
func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		for _, c := range []*color.Color{r.language, r.pos} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		w:        w,
		format:   FormatText,
		width:    DefaultWidth,
		language: color.New(color.FgGreen, color.Bold),
		pos:      color.New(color.FgWhite),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render prints res. A nil or empty result prints NoResults in text mode
// and an empty object in JSON mode.
func (r *Renderer) Render(res *lookup.Result) error {
	if r.format == FormatJSON {
		return r.renderJSON(res)
	}

	if res.Empty() {
		_, err := fmt.Fprintln(r.w, NoResults)
		return err
	}

	var b strings.Builder
	for _, lang := range res.Languages {
		b.WriteString(r.language.Sprint(lang.Name))
		b.WriteByte('\n')
		for _, pos := range lang.PartsOfSpeech {
			b.WriteString(posIndent)
			b.WriteString(r.pos.Sprint(pos.Name))
			b.WriteByte('\n')
			for _, def := range pos.Definitions {
				for _, line := range Wrap(def.Text, r.width, definitionIndent, hangingIndent) {
					b.WriteString(line)
					b.WriteByte('\n')
				}
			}
		}
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) renderJSON(res *lookup.Result) error {
	if res == nil {
		res = &lookup.Result{}
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = fmt.Fprintln(r.w, string(data))
	return err
}

// Wrap fills text into lines no wider than width display columns. The first
// line starts with indent, the rest with hanging. Words wider than a line are
// split. Empty text yields no lines.
func Wrap(text string, width int, indent, hanging string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var (
		lines []string
		line  strings.Builder
		used  int
	)
	prefix := indent
	avail := func() int { return max(width-runewidth.StringWidth(prefix), 1) }

	flush := func() {
		lines = append(lines, prefix+line.String())
		line.Reset()
		used = 0
		prefix = hanging
	}

	// Zero-width words such as lone combining marks leave used at 0, so
	// emptiness is judged by the builder.
	for _, word := range words {
		w := runewidth.StringWidth(word)
		if line.Len() > 0 && used+1+w > avail() {
			flush()
		}
		for line.Len() == 0 && w > avail() {
			head := runewidth.Truncate(word, avail(), "")
			if head == "" {
				// A single rune wider than the line still has to go somewhere.
				head = string([]rune(word)[:1])
			}
			line.WriteString(head)
			used = runewidth.StringWidth(head)
			flush()
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		if word == "" {
			continue
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
			used++
		}
		line.WriteString(word)
		used += w
	}
	if line.Len() > 0 {
		flush()
	}
	return lines
}
