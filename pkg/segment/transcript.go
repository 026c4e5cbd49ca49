package segment

import "strings"

// IsTranscript reports whether the input should be rendered as a chat
// transcript at all. It is a lighter-weight check than full extraction: two
// raw markers, or a structured-block literal anywhere in the chat portion,
// are enough evidence.
func (s *Segmenter) IsTranscript(input string) bool {
	text := s.Normalize(input)
	if text == "" {
		return false
	}

	chat := chatPortion(text)
	if strings.Contains(chat, freeformPrefix) || strings.Contains(chat, takeawayPrefix) {
		return true
	}
	return len(FindMarkers(chat)) >= 2
}

// Explanation returns the free-text annotation that follows the first
// explanation separator, trimmed. The second return is false when the input
// has no separator or the trailing text is blank. Separators occurring inside
// the explanation itself are preserved by rejoining the remaining parts.
func (s *Segmenter) Explanation(input string) (string, bool) {
	text := s.Normalize(input)
	parts := strings.Split(text, separator)
	if len(parts) < 2 {
		return "", false
	}

	explanation := strings.TrimSpace(strings.Join(parts[1:], separator))
	if explanation == "" {
		return "", false
	}
	return explanation, true
}
