package wikitext

// MaxHeadingLevel is the narrowest heading precedence.
const MaxHeadingLevel = 6

// Heading is a section heading. Level 1 is the broadest scope.
type Heading struct {
	Level int
	Text  string
}

// ContextStack tracks the nested headings of one page and the language and
// part of speech they currently bind.
//
// Levels on the stack are strictly increasing from bottom to top, so there is
// at most one heading per level. A ContextStack is owned by a single page
// parse and must not be shared between goroutines.
type ContextStack struct {
	vocab        Vocabulary
	headings     []Heading
	language     string
	partOfSpeech string
}

// NewContextStack creates an empty stack bound to the given vocabulary.
func NewContextStack(vocab Vocabulary) *ContextStack {
	return &ContextStack{
		vocab:    vocab,
		headings: make([]Heading, 0, MaxHeadingLevel),
	}
}

// Apply pops every heading of equal or narrower scope than h, then pushes h.
// A popped heading whose text equals a current binding clears that binding;
// a pushed heading that is a vocabulary member sets it.
func (s *ContextStack) Apply(h Heading) {
	for len(s.headings) > 0 {
		top := s.headings[len(s.headings)-1]
		if top.Level < h.Level {
			break
		}
		s.headings = s.headings[:len(s.headings)-1]
		if top.Text == s.language {
			s.language = ""
		}
		if top.Text == s.partOfSpeech {
			s.partOfSpeech = ""
		}
	}

	if s.vocab.Languages.Has(h.Text) {
		s.language = h.Text
	}
	if s.vocab.PartsOfSpeech.Has(h.Text) {
		s.partOfSpeech = h.Text
	}

	s.headings = append(s.headings, h)
}

// Language returns the bound language, if any.
func (s *ContextStack) Language() (string, bool) {
	return s.language, s.language != ""
}

// PartOfSpeech returns the bound part of speech, if any.
func (s *ContextStack) PartOfSpeech() (string, bool) {
	return s.partOfSpeech, s.partOfSpeech != ""
}

// Top returns the innermost heading.
func (s *ContextStack) Top() (Heading, bool) {
	if len(s.headings) == 0 {
		return Heading{}, false
	}
	return s.headings[len(s.headings)-1], true
}

// Headings returns a copy of the stack, bottom first.
func (s *ContextStack) Headings() []Heading {
	out := make([]Heading, len(s.headings))
	copy(out, s.headings)
	return out
}
