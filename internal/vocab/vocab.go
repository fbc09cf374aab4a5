// Package vocab loads the heading vocabulary and the template rule table
// from YAML. A default file is embedded in the binary.
package vocab

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/wikidefine/internal/render"
	"github.com/heartmarshall/wikidefine/internal/wikitext"
)

//go:embed default.yaml
var defaultFile []byte

// TemplateRule is one entry of the templates list. Several names may share
// the same rule.
type TemplateRule struct {
	Names  []string `yaml:"names"`
	Format string   `yaml:"format"`
	Arity  int      `yaml:"arity,omitempty"`
}

// File is the on-disk layout of a vocabulary file.
type File struct {
	Languages     []string       `yaml:"languages"`
	PartsOfSpeech []string       `yaml:"parts_of_speech"`
	Templates     []TemplateRule `yaml:"templates"`
}

// Vocabulary is a validated vocabulary file.
type Vocabulary struct {
	Headings wikitext.Vocabulary
	Rules    render.Rules
}

// Default returns the embedded vocabulary.
func Default() (*Vocabulary, error) {
	v, err := Parse(defaultFile)
	if err != nil {
		return nil, fmt.Errorf("vocab: embedded default: %w", err)
	}
	return v, nil
}

// Load reads the vocabulary at path. An empty path selects the embedded
// default.
func Load(path string) (*Vocabulary, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: read %s: %w", path, err)
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("vocab: %s: %w", path, err)
	}
	return v, nil
}

// Parse decodes and validates a vocabulary document.
func Parse(data []byte) (*Vocabulary, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	rules := make(render.Rules)
	for _, t := range f.Templates {
		for _, name := range t.Names {
			rules[strings.TrimSpace(name)] = render.Rule{Format: t.Format, Arity: t.Arity}
		}
	}

	return &Vocabulary{
		Headings: wikitext.Vocabulary{
			Languages:     wikitext.NewSet(f.Languages...),
			PartsOfSpeech: wikitext.NewSet(f.PartsOfSpeech...),
		},
		Rules: rules,
	}, nil
}

// Validate checks the document for empty entries and duplicate template names.
func (f *File) Validate() error {
	var errs []error

	for i, l := range f.Languages {
		if strings.TrimSpace(l) == "" {
			errs = append(errs, fmt.Errorf("languages[%d]: empty", i))
		}
	}
	for i, p := range f.PartsOfSpeech {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("parts_of_speech[%d]: empty", i))
		}
	}

	seen := make(map[string]int)
	for i, t := range f.Templates {
		if len(t.Names) == 0 {
			errs = append(errs, fmt.Errorf("templates[%d]: names is required", i))
		}
		if t.Arity < 0 {
			errs = append(errs, fmt.Errorf("templates[%d]: arity must be >= 0", i))
		}
		for _, n := range t.Names {
			n = strings.TrimSpace(n)
			if n == "" {
				errs = append(errs, fmt.Errorf("templates[%d]: empty name", i))
				continue
			}
			if prev, ok := seen[n]; ok {
				errs = append(errs, fmt.Errorf("templates[%d]: %q already defined in templates[%d]", i, n, prev))
				continue
			}
			seen[n] = i
		}
	}

	return errors.Join(errs...)
}
