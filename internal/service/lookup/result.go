package lookup

// Result is a word's definitions, grouped language → part of speech.
type Result struct {
	Word      string     `json:"word"`
	Languages []Language `json:"languages"`
}

// Language groups the parts of speech found under one language heading.
type Language struct {
	Name          string         `json:"name"`
	PartsOfSpeech []PartOfSpeech `json:"parts_of_speech"`
}

// PartOfSpeech holds definitions in stored order.
type PartOfSpeech struct {
	Name        string       `json:"name"`
	Definitions []Definition `json:"definitions"`
}

// Definition is one rendered (or raw) definition.
type Definition struct {
	Text       string `json:"text"`
	Unresolved bool   `json:"unresolved,omitempty"`
}

// Empty reports whether the lookup found nothing.
func (r *Result) Empty() bool {
	return r == nil || len(r.Languages) == 0
}

// Count returns the number of definitions in r.
func (r *Result) Count() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, l := range r.Languages {
		for _, p := range l.PartsOfSpeech {
			n += len(p.Definitions)
		}
	}
	return n
}
