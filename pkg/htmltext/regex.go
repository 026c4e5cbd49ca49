package htmltext

import (
	stdhtml "html"
	"regexp"
)

// RegexConverter approximates HTML-to-text conversion without a parser:
// block-closing tags and <br> become newlines, table cell closings become
// tabs, every remaining tag is stripped, and entities are unescaped. It
// preserves fewer line breaks than DOMConverter for markup it cannot see
// structurally, which is acceptable for its role as the degraded path.
type RegexConverter struct{}

// NewRegexConverter returns a regex-based converter.
func NewRegexConverter() *RegexConverter {
	return &RegexConverter{}
}

var (
	brTagRegex         = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	blockCloseRegex    = regexp.MustCompile(`(?i)</(?:p|div|li|h[1-6]|blockquote|pre|tr)\s*>`)
	cellCloseRegex     = regexp.MustCompile(`(?i)</(?:td|th)\s*>`)
	anyTagRegex        = regexp.MustCompile(`<[^>]*>`)
	horizontalRunRegex = regexp.MustCompile(`[ \t]{2,}`)
)

// Convert strips the fragment down to plain text.
func (c *RegexConverter) Convert(fragment string) string {
	text := brTagRegex.ReplaceAllString(fragment, "\n")
	text = blockCloseRegex.ReplaceAllString(text, "\n")
	text = cellCloseRegex.ReplaceAllString(text, "\t")
	text = anyTagRegex.ReplaceAllString(text, "")
	text = stdhtml.UnescapeString(text)
	return horizontalRunRegex.ReplaceAllString(text, " ")
}
