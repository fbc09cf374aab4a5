package render

import (
	"fmt"
	"strings"
)

// DefaultMaxIterations bounds the rewriting loop in Expand.
const DefaultMaxIterations = 32

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Invocation is a parsed {{name|arg1|arg2...}} call. Args[0] is the name.
type Invocation struct {
	Args []string
}

// Name returns the template name with surrounding whitespace removed.
func (inv Invocation) Name() string {
	if len(inv.Args) == 0 {
		return ""
	}
	return strings.TrimSpace(inv.Args[0])
}

// ParseInvocation splits the body of an invocation (the text between the
// braces) into arguments. Pipes inside [[...]] links do not split.
func ParseInvocation(body string) Invocation {
	var (
		args  []string
		depth int
		start int
	)
	for i := 0; i < len(body); i++ {
		switch {
		case strings.HasPrefix(body[i:], "[["):
			depth++
			i++
		case depth > 0 && strings.HasPrefix(body[i:], "]]"):
			depth--
			i++
		case depth == 0 && body[i] == '|':
			args = append(args, body[start:i])
			start = i + 1
		}
	}
	args = append(args, body[start:])
	return Invocation{Args: args}
}

type span struct {
	start, end int // end is exclusive and includes the closing braces
}

// innermost returns the non-overlapping invocations whose body contains no
// opening delimiter: for each "}}" the nearest preceding "{{" is used.
// Stray braces that never pair up are left alone.
func innermost(s string) []span {
	var spans []span
	open := -1
	for i := 0; i+1 < len(s); {
		switch {
		case s[i] == '{' && s[i+1] == '{':
			open = i
			i++
		case s[i] == '}' && s[i+1] == '}' && open >= 0:
			spans = append(spans, span{start: open, end: i + 2})
			open = -1
			i += 2
		default:
			i++
		}
	}
	return spans
}

// Expander rewrites template invocations into display text using a fixed
// rule table. It holds no mutable state and is safe for concurrent use.
//
// Templates are expanded innermost first by repeated rewriting until the
// text stops changing. Unknown names, and invocations with too few arguments
// for their rule, are left exactly as written.
type Expander struct {
	rules         map[string]compiledRule
	maxIterations int
}

// ExpanderOption configures an Expander.
type ExpanderOption func(*Expander)

// WithMaxIterations overrides DefaultMaxIterations. Values below 1 are ignored.
func WithMaxIterations(n int) ExpanderOption {
	return func(e *Expander) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// NewExpander compiles rules into an Expander.
func NewExpander(rules Rules, opts ...ExpanderOption) (*Expander, error) {
	e := &Expander{
		rules:         make(map[string]compiledRule, len(rules)),
		maxIterations: DefaultMaxIterations,
	}
	for name, r := range rules {
		c, err := compileRule(name, r)
		if err != nil {
			return nil, fmt.Errorf("compile rules: %w", err)
		}
		e.rules[name] = c
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Expansion is the result of Expand.
type Expansion struct {
	Text       string
	Iterations int
	// Unresolved is set when the iteration cap was hit before the text
	// reached a fixed point. Text is then the last rewrite.
	Unresolved bool
}

// Expand rewrites s until a fixed point or the iteration cap.
func (e *Expander) Expand(s string) Expansion {
	cur := s
	for i := 1; i <= e.maxIterations; i++ {
		next := e.step(cur)
		if next == cur {
			return Expansion{Text: cur, Iterations: i}
		}
		cur = next
	}
	return Expansion{Text: cur, Iterations: e.maxIterations, Unresolved: true}
}

// Resolve expands a single invocation. ok is false when no rule applies.
func (e *Expander) Resolve(inv Invocation) (string, bool) {
	r, ok := e.rules[inv.Name()]
	if !ok {
		return "", false
	}
	return r.apply(inv.Args)
}

// step replaces every innermost invocation of s once.
func (e *Expander) step(s string) string {
	spans := innermost(s)
	if len(spans) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, sp := range spans {
		b.WriteString(s[last:sp.start])
		body := s[sp.start+len(openDelim) : sp.end-len(closeDelim)]
		if out, ok := e.Resolve(ParseInvocation(body)); ok {
			b.WriteString(out)
		} else {
			b.WriteString(s[sp.start:sp.end])
		}
		last = sp.end
	}
	b.WriteString(s[last:])
	return b.String()
}
