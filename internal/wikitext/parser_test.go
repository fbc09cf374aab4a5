package wikitext

import (
	"reflect"
	"strings"
	"testing"

	"github.com/heartmarshall/wikidefine/internal/domain"
)

func TestParseHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		want   Heading
		wantOK bool
	}{
		{name: "level 1", line: "=English=", want: Heading{1, "English"}, wantOK: true},
		{name: "level 2", line: "==English==", want: Heading{2, "English"}, wantOK: true},
		{name: "level 3", line: "===Noun===", want: Heading{3, "Noun"}, wantOK: true},
		{name: "level 6", line: "======Deep======", want: Heading{6, "Deep"}, wantOK: true},
		{name: "spaces inside", line: "== Proper noun ==", want: Heading{2, "Proper noun"}, wantOK: true},
		{name: "trailing whitespace", line: "===Verb=== \r", want: Heading{3, "Verb"}, wantOK: true},
		{name: "multibyte text", line: "===漢字===", want: Heading{3, "漢字"}, wantOK: true},
		{name: "multibyte single rune", line: "=猫=", want: Heading{1, "猫"}, wantOK: true},
		{name: "inner equals kept", line: "==a=b==", want: Heading{2, "a=b"}, wantOK: true},
		{name: "unbalanced more closing", line: "==English===", wantOK: false},
		{name: "unbalanced more opening", line: "===English==", wantOK: false},
		{name: "seven delimiters", line: "=======Seven=======", wantOK: false},
		{name: "no content", line: "====", wantOK: false},
		{name: "whitespace content", line: "== ==", wantOK: false},
		{name: "no closing", line: "==English", wantOK: false},
		{name: "plain text", line: "English", wantOK: false},
		{name: "definition line", line: "# a cat", wantOK: false},
		{name: "leading space", line: " ==English==", wantOK: false},
		{name: "empty", line: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseHeading(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ParseHeading(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseHeading(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParser_Parse_SingleMeaning(t *testing.T) {
	t.Parallel()

	p := NewParser(Vocabulary{
		Languages:     NewSet("English"),
		PartsOfSpeech: NewSet("Noun"),
	})

	got := p.Parse(strings.Join([]string{"=English=", "===Noun===", "# a furry animal"}, "\n"))
	want := []domain.Meaning{meaning("English", "Noun", "a furry animal")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParser_Parse_SpacedHeadingsBind(t *testing.T) {
	t.Parallel()

	p := NewParser(testVocabulary())

	got := p.Parse("== English ==\n=== Noun ===\n# x\n== english ==\n=== Noun ===\n# lower")
	want := []domain.Meaning{meaning("English", "Noun", "x")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParser_Parse_NoPartOfSpeechMatch(t *testing.T) {
	t.Parallel()

	p := NewParser(Vocabulary{
		Languages:     NewSet("English"),
		PartsOfSpeech: NewSet(),
	})

	got := p.Parse("=English=\n===Noun===\n# a furry animal")
	if len(got) != 0 {
		t.Errorf("expected no meanings, got %+v", got)
	}
}

func TestParser_Parse_FullPage(t *testing.T) {
	t.Parallel()

	page := `{{also|Cat|CAT}}
==English==
===Etymology===
From {{inh|en|enm|cat}}.

===Noun===
{{en-noun}}

# A [[domestic]] [[species]] of [[feline]].
#: ''The '''cat''' sat on the mat.''
## {{lb|en|informal}} A person.
# {{lb|en|nautical}} A [[catboat]].

===Verb===
# {{lb|en|transitive|nautical}} To hoist the anchor.

====Translations====
* French: chat

==Japanese==
===Kanji===
# cat
===Pronunciation===
# not a definition
==Latin==
===Noun===
# ignored, Latin is not configured
`
	p := NewParser(testVocabulary())
	got := p.Parse(page)

	want := []domain.Meaning{
		meaning("English", "Noun", "A [[domestic]] [[species]] of [[feline]]."),
		meaning("English", "Noun", "{{lb|en|nautical}} A [[catboat]]."),
		meaning("English", "Verb", "{{lb|en|transitive|nautical}} To hoist the anchor."),
		meaning("Japanese", "Kanji", "cat"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestParser_Parse_TranslationsSubsectionKeepsPartOfSpeech(t *testing.T) {
	t.Parallel()

	// A narrower non-member heading does not unbind the part of speech.
	p := NewParser(testVocabulary())
	got := p.Parse("==English==\n===Noun===\n====Usage notes====\n# still a noun sense")
	if len(got) != 1 || got[0].PartOfSpeech != "Noun" {
		t.Errorf("expected one Noun meaning, got %+v", got)
	}
}

func TestParser_Parse_MalformedHeadingIsText(t *testing.T) {
	t.Parallel()

	p := NewParser(testVocabulary())
	got := p.Parse("==English==\n===Noun===\n===Verb====\n# a noun sense")
	if len(got) != 1 || got[0].PartOfSpeech != "Noun" {
		t.Errorf("malformed heading must not change scope, got %+v", got)
	}
}

func TestParser_Parse_CRLF(t *testing.T) {
	t.Parallel()

	p := NewParser(testVocabulary())
	got := p.Parse("==English==\r\n===Noun===\r\n# a cat\r\n")
	want := []domain.Meaning{meaning("English", "Noun", "a cat")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParser_Parse_MarkerRequiresSpace(t *testing.T) {
	t.Parallel()

	p := NewParser(testVocabulary())
	got := p.Parse("==English==\n===Noun===\n#: example\n#* quote\n## sub\n#\n# real")
	want := []domain.Meaning{meaning("English", "Noun", "real")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParser_Parse_MultibyteDefinition(t *testing.T) {
	t.Parallel()

	p := NewParser(testVocabulary())
	got := p.Parse("==Japanese==\n===Kanji===\n# 猫 (ねこ): cat")
	if len(got) != 1 || got[0].Definition != "猫 (ねこ): cat" {
		t.Errorf("unexpected meanings: %+v", got)
	}
}

func TestParser_Parse_Empty(t *testing.T) {
	t.Parallel()

	if got := NewParser(testVocabulary()).Parse(""); len(got) != 0 {
		t.Errorf("expected no meanings, got %+v", got)
	}
}

func TestParser_ParsePage(t *testing.T) {
	t.Parallel()

	p := NewParser(testVocabulary())
	w := p.ParsePage(domain.Page{Title: "cat", Content: "==English==\n===Noun===\n# a cat"})
	if w.Name != "cat" {
		t.Errorf("Name = %q, want cat", w.Name)
	}
	if len(w.Meanings) != 1 {
		t.Errorf("expected 1 meaning, got %d", len(w.Meanings))
	}
}

func TestParser_ConcurrentUse(t *testing.T) {
	t.Parallel()

	p := NewParser(testVocabulary())
	pages := []string{
		"==English==\n===Noun===\n# one",
		"==Japanese==\n===Kanji===\n# two",
		"==Lojban==\n===Gismu===\n# three",
	}

	done := make(chan []domain.Meaning, 30)
	for i := 0; i < 30; i++ {
		go func(text string) { done <- p.Parse(text) }(pages[i%len(pages)])
	}
	for i := 0; i < 30; i++ {
		if got := <-done; len(got) != 1 {
			t.Errorf("expected exactly one meaning per page, got %+v", got)
		}
	}
}

func meaning(lang, pos, def string) domain.Meaning {
	return domain.Meaning{Language: lang, PartOfSpeech: pos, Definition: def}
}
