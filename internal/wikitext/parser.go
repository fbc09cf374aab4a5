// Package wikitext extracts language and part-of-speech scoped definitions
// from the raw markup of a single wiki page.
package wikitext

import (
	"strings"

	"github.com/heartmarshall/wikidefine/internal/domain"
)

// DefinitionMarker starts a definition line.
const DefinitionMarker = "# "

// ParseHeading reports whether line is a section heading and returns it.
//
// A heading is a run of 1 to 6 '=' followed by at least one character of
// text and closed by a run of the same length. Anything else, including
// unbalanced runs, is ordinary text. Trailing whitespace on the line is
// ignored and the heading text is trimmed, so "== English ==" and
// "==English==" are the same heading. Vocabulary membership is then exact on
// the trimmed text: case and inner spacing still matter.
func ParseHeading(line string) (Heading, bool) {
	line = strings.TrimRight(line, " \t\r")

	// '=' is a single byte in UTF-8, so both cuts fall on rune boundaries.
	inner := strings.TrimLeft(line, "=")
	open := len(line) - len(inner)
	if open == 0 || open > MaxHeadingLevel {
		return Heading{}, false
	}
	text := strings.TrimRight(inner, "=")
	closing := len(inner) - len(text)
	if closing != open || text == "" {
		return Heading{}, false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Heading{}, false
	}
	return Heading{Level: open, Text: text}, true
}

// Parser turns page markup into meanings. It holds only read-only
// configuration, so one Parser may be used from many goroutines; every call
// gets its own ContextStack.
type Parser struct {
	vocab Vocabulary
}

// NewParser creates a Parser for the given vocabulary.
func NewParser(vocab Vocabulary) *Parser {
	return &Parser{vocab: vocab}
}

// Parse walks text line by line and returns the definitions found while both
// a language and a part of speech were bound, in source order.
func (p *Parser) Parse(text string) []domain.Meaning {
	stack := NewContextStack(p.vocab)
	var meanings []domain.Meaning

	for line := range strings.Lines(text) {
		line = strings.TrimRight(line, "\r\n")

		if h, ok := ParseHeading(line); ok {
			stack.Apply(h)
			continue
		}

		if !strings.HasPrefix(line, DefinitionMarker) {
			continue
		}
		lang, ok := stack.Language()
		if !ok {
			continue
		}
		pos, ok := stack.PartOfSpeech()
		if !ok {
			continue
		}
		meanings = append(meanings, domain.Meaning{
			Language:     lang,
			PartOfSpeech: pos,
			Definition:   line[len(DefinitionMarker):],
		})
	}

	return meanings
}

// ParsePage parses a content page into a Word named after its title.
func (p *Parser) ParsePage(page domain.Page) domain.Word {
	return domain.Word{
		Name:     page.Title,
		Meanings: p.Parse(page.Content),
	}
}
