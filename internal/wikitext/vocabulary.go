package wikitext

// Set is a closed vocabulary of heading texts. Membership is exact string
// equality.
type Set map[string]struct{}

// NewSet builds a Set from the given items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// Has reports whether v is a member of the set.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Vocabulary holds the two closed sets that decide which headings bind a
// language and which bind a part of speech. A heading may be in both.
type Vocabulary struct {
	Languages     Set
	PartsOfSpeech Set
}
