package domain

import "strings"

// Meaning is one sense extracted from a page, scoped by the language and
// part-of-speech headings that were active when its definition line was read.
// Definition holds raw wiki markup.
type Meaning struct {
	Language     string
	PartOfSpeech string
	Definition   string
}

// Word groups all meanings extracted from a single content page.
// Meanings keep source-line order.
type Word struct {
	Name     string
	Meanings []Meaning
}

// Definition is the persisted four-column row for a meaning.
// Position is the meaning's index within its page and only orders rows
// that share a name.
type Definition struct {
	Name         string
	Language     string
	PartOfSpeech string
	Definition   string
	Position     int
}

// Definitions flattens a word into rows ready for persistence.
func (w Word) Definitions() []Definition {
	rows := make([]Definition, len(w.Meanings))
	for i, m := range w.Meanings {
		rows[i] = Definition{
			Name:         w.Name,
			Language:     m.Language,
			PartOfSpeech: m.PartOfSpeech,
			Definition:   m.Definition,
			Position:     i,
		}
	}
	return rows
}

// Page is a single record from a wiki dump: the title and the raw markup of
// its latest revision.
type Page struct {
	Title     string
	Namespace int
	Content   string
}

// MediaWiki namespace numbers.
const (
	NamespaceMain     = 0
	NamespaceTemplate = 10
	NamespaceModule   = 828
)

const (
	templatePrefix = "Template:"
	modulePrefix   = "Module:"
)

// Kind classifies the page by its namespace. Pages in the main namespace,
// which is also the zero value, fall back to the title prefix.
func (p Page) Kind() PageKind {
	switch p.Namespace {
	case NamespaceTemplate:
		return PageKindTemplate
	case NamespaceModule:
		return PageKindModule
	case NamespaceMain:
		return kindFromTitle(p.Title)
	default:
		return PageKindContent
	}
}

func kindFromTitle(title string) PageKind {
	switch {
	case strings.HasPrefix(title, templatePrefix):
		return PageKindTemplate
	case strings.HasPrefix(title, modulePrefix):
		return PageKindModule
	default:
		return PageKindContent
	}
}

// LocalName returns the title without its namespace prefix for template and
// module pages, and the full title otherwise.
func (p Page) LocalName() string {
	switch p.Kind() {
	case PageKindTemplate:
		return strings.TrimPrefix(p.Title, templatePrefix)
	case PageKindModule:
		return strings.TrimPrefix(p.Title, modulePrefix)
	default:
		return p.Title
	}
}

// Source is the stored body of a template or module page.
type Source struct {
	Name    string
	Content string
}
