package segment

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches an opening or closing occurrence of the block/inline tags a
	// rich-text editor emits. Presence of one of these is the signal that
	// the input is editor HTML rather than plain text.
	richTagRegex = regexp.MustCompile(`(?i)</?(?:p|div|br|span|strong|em|ul|ol|li|h[1-6]|blockquote|pre|code)\b[^>]*>`)

	// Collapses paragraph spacing: three or more consecutive newlines
	// become exactly two.
	newlineRunRegex = regexp.MustCompile(`\n{3,}`)
)

// LooksLikeRichHTML reports whether the text appears to be rich-editor HTML.
// Fenced code blocks are treated as plain text even when they contain angle
// brackets, so code samples pasted into a plain field are never mangled.
func LooksLikeRichHTML(input string) bool {
	if strings.Contains(input, "```") {
		return false
	}
	return richTagRegex.MatchString(input)
}

// Normalize prepares raw editor output for marker scanning: NFC unicode
// normalization, line-ending normalization, HTML-to-text conversion when the
// input looks like editor HTML, and final whitespace cleanup. Normalizing
// already-normalized plain text is a no-op.
func (s *Segmenter) Normalize(value string) string {
	if value == "" {
		return ""
	}

	text := norm.NFC.String(value)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if LooksLikeRichHTML(text) {
		text = s.conv.Convert(text)
	}

	text = newlineRunRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
