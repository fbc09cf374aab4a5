package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Rule describes how one template name is turned into display text.
//
// Format is literal text with $N placeholders, where N is a positional
// argument index (argument 0 is the template name). "$$" produces a literal
// dollar sign. Arity is the number of positional arguments, not counting the
// name, an invocation must carry for the rule to apply; zero means "derived
// from the highest placeholder".
type Rule struct {
	Format string
	Arity  int
}

// Rules maps a template name to its rule.
type Rules map[string]Rule

type segment struct {
	literal string
	arg     int // -1 for a literal segment
}

type compiledRule struct {
	segments []segment
	arity    int
}

func compileRule(name string, r Rule) (compiledRule, error) {
	var (
		segs    []segment
		lit     strings.Builder
		highest int
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String(), arg: -1})
			lit.Reset()
		}
	}

	f := r.Format
	for i := 0; i < len(f); i++ {
		if f[i] != '$' {
			lit.WriteByte(f[i])
			continue
		}
		if i+1 < len(f) && f[i+1] == '$' {
			lit.WriteByte('$')
			i++
			continue
		}
		j := i + 1
		for j < len(f) && f[j] >= '0' && f[j] <= '9' {
			j++
		}
		if j == i+1 {
			return compiledRule{}, fmt.Errorf("template %q: bare $ at offset %d in format %q", name, i, f)
		}
		n, err := strconv.Atoi(f[i+1 : j])
		if err != nil {
			return compiledRule{}, fmt.Errorf("template %q: placeholder in %q: %w", name, f, err)
		}
		flush()
		segs = append(segs, segment{arg: n})
		highest = max(highest, n)
		i = j - 1
	}
	flush()

	arity := r.Arity
	if arity < 0 {
		return compiledRule{}, fmt.Errorf("template %q: negative arity %d", name, arity)
	}
	if arity == 0 {
		arity = highest
	}
	return compiledRule{segments: segs, arity: arity}, nil
}

// apply renders the rule for args. It reports false when the invocation
// carries fewer positional arguments than the rule needs.
func (c compiledRule) apply(args []string) (string, bool) {
	if len(args)-1 < c.arity {
		return "", false
	}
	var b strings.Builder
	for _, s := range c.segments {
		if s.arg < 0 {
			b.WriteString(s.literal)
			continue
		}
		if s.arg < len(args) {
			b.WriteString(strings.TrimSpace(args[s.arg]))
		}
	}
	return b.String(), true
}
