package segment

import (
	"regexp"
	"strings"
)

// Matches a candidate speaker marker at the start of a line: up to 60
// characters containing neither a colon nor a line break, then a colon and
// any trailing horizontal whitespace. The non-whitespace-follows requirement
// is checked separately since RE2 has no lookahead.
var markerRegex = regexp.MustCompile(`(?m)^([^:\n]{1,60}):[ \t]*`)

// FindMarkers scans text for line-starting "Speaker:" tokens and returns them
// in document order. A candidate is rejected when nothing but whitespace (or
// end of text) follows it, or when its trimmed label contains no ASCII letter
// (filtering timestamps like "1:23" and ratios like "3:1").
func FindMarkers(text string) []Marker {
	matches := markerRegex.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return nil
	}

	markers := make([]Marker, 0, len(matches))
	for _, m := range matches {
		start, end := m[0], m[1]

		// The marker must be immediately followed by message content on
		// the same line, not a line break or end of text. Empty
		// "Speaker:" lines are not markers.
		if end >= len(text) || text[end] == '\n' {
			continue
		}

		label := strings.TrimSpace(text[m[2]:m[3]])
		if !containsASCIILetter(label) {
			continue
		}

		markers = append(markers, Marker{
			Speaker: label,
			Start:   start,
			End:     end,
		})
	}

	if len(markers) == 0 {
		return nil
	}
	return markers
}

// containsASCIILetter reports whether s has at least one ASCII letter.
func containsASCIILetter(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}
