package dump

import "regexp"

var (
	noincludeRe   = regexp.MustCompile(`(?s)<noinclude>.*?</noinclude>`)
	includeonlyRe = regexp.MustCompile(`(?s)<includeonly>(.*?)</includeonly>`)
	commentRe     = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// CleanTemplateSource returns the part of a template page that takes effect
// on transclusion: <noinclude> sections and HTML comments are removed and,
// if an <includeonly> section exists, only the first one is kept.
func CleanTemplateSource(content string) string {
	content = noincludeRe.ReplaceAllString(content, "")
	content = commentRe.ReplaceAllString(content, "")
	if m := includeonlyRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return content
}
