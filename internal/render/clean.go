package render

import "regexp"

var (
	pipedLinkRe = regexp.MustCompile(`\[\[[^\]]*?\|(.*?)\]\]`)
	bareLinkRe  = regexp.MustCompile(`\[\[(.*?)\]\]`)
	commentRe   = regexp.MustCompile(`(?s)<!--.*?-->`)
	boldRe      = regexp.MustCompile(`'''(.+?)'''`)
	italicRe    = regexp.MustCompile(`''(.+?)''`)
)

// StripMarkup removes wiki links, HTML comments and quote emphasis from s.
// Replacements run in this order, each as one non-overlapping pass:
//
//	[[target|label]] → label
//	[[target]]       → target
//	<!-- ... -->     → (removed)
//	'''text'''       → text
//	''text''         → text
//
// Delimiters without a partner stay as literal text. Emphasis bodies may
// hold apostrophes and nested emphasis of the other kind.
//
// A later replacement can join text into markup an earlier one would have
// matched (for example "[<!-- -->[x]]"). The round is then repeated on the
// shorter result, so StripMarkup is idempotent.
func StripMarkup(s string) string {
	if s == "" {
		return ""
	}
	for {
		out := stripRound(s)
		if out == s {
			return out
		}
		s = out
	}
}

func stripRound(s string) string {
	s = pipedLinkRe.ReplaceAllString(s, "$1")
	s = bareLinkRe.ReplaceAllString(s, "$1")
	s = commentRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllString(s, "$1")
	s = italicRe.ReplaceAllString(s, "$1")
	return s
}
