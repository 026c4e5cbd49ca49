package segment

import (
	"regexp"
	"sort"
	"strings"
)

// separator splits chat content from a trailing free-text explanation block.
const separator = "\n---\n"

// Strips paragraph spacing left hanging at the end of a turn when another
// speaker label follows it.
var trailingGapRegex = regexp.MustCompile(`\n{2,}[ \t]*$`)

// Extract normalizes the input and splits it into ordered conversational
// turns. Only the portion before the first explanation separator is scanned.
// The result is empty when the text does not look like a transcript.
func (s *Segmenter) Extract(input string, opts Options) []Segment {
	text := s.Normalize(input)
	if text == "" {
		return nil
	}

	chat := chatPortion(text)
	markers := FindMarkers(chat)
	if len(markers) == 0 {
		return nil
	}

	surviving := admitSpeakers(chat, markers, opts)
	if len(surviving) == 0 {
		return nil
	}

	// A transcript needs either a second turn or an explicit structured
	// block; a lone dialogue-shaped line is more likely prose.
	if !opts.AllowSingle && len(surviving) < 2 && !anyStructured(chat, surviving) {
		return nil
	}

	segments := make([]Segment, 0, len(surviving))
	for i, m := range surviving {
		var content string
		if i+1 < len(surviving) {
			content = chat[m.End:surviving[i+1].Start]
			content = trailingGapRegex.ReplaceAllString(content, "")
		} else {
			content = chat[m.End:]
		}
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}

		segments = append(segments, Segment{
			Speaker: m.Speaker,
			Content: content,
			Kind:    structuredKind(chat, m),
		})
	}

	if len(segments) == 0 {
		return nil
	}
	return segments
}

// chatPortion returns the substring preceding the first explanation
// separator, or the whole text when no separator is present.
func chatPortion(text string) string {
	if i := strings.Index(text, separator); i >= 0 {
		return text[:i]
	}
	return text
}

// admitSpeakers applies the false-positive suppression heuristic and returns
// the markers whose speakers are trusted, in document order.
//
// Repetition is the core signal: a label seen twice is almost certainly a
// recurring conversational participant, while a one-off label may just be
// prose that happens to match the marker shape. Short two-line conversations
// are rescued by progressively admitting speakers in order of first
// appearance until the required count is reached. Structured blocks bypass
// the heuristic entirely.
func admitSpeakers(chat string, markers []Marker, opts Options) []Marker {
	freq := make(map[string]int)
	var order []string
	for _, m := range markers {
		key := strings.ToLower(m.Speaker)
		if freq[key] == 0 {
			order = append(order, key)
		}
		freq[key]++
	}

	admitted := make(map[string]bool)
	if opts.AllowSingle {
		for key := range freq {
			admitted[key] = true
		}
	} else {
		for key, n := range freq {
			if n >= 2 {
				admitted[key] = true
			}
		}
		const required = 2
		for _, key := range order {
			if len(admitted) >= required {
				break
			}
			admitted[key] = true
		}
	}

	kept := make(map[int]bool)
	var surviving []Marker
	for _, m := range markers {
		if admitted[strings.ToLower(m.Speaker)] && !kept[m.Start] {
			kept[m.Start] = true
			surviving = append(surviving, m)
		}
	}

	// Structured blocks are re-admitted unconditionally: they are tagged
	// content, not dialogue, and must survive even as singletons.
	for _, m := range markers {
		if structuredKind(chat, m) != KindDialogue && !kept[m.Start] {
			kept[m.Start] = true
			surviving = append(surviving, m)
		}
	}

	sort.Slice(surviving, func(i, j int) bool { return surviving[i].Start < surviving[j].Start })
	return surviving
}

// structuredKind reports whether the marker opens a structured block: a
// "takeaway" or "freeform" label whose content starts with the matching
// literal prefix. Everything else is dialogue.
func structuredKind(chat string, m Marker) Kind {
	following := strings.TrimLeft(chat[m.End:], " \t\n")
	switch strings.ToLower(m.Speaker) {
	case "takeaway":
		if strings.HasPrefix(following, takeawayPrefix) {
			return KindTakeaway
		}
	case "freeform":
		if strings.HasPrefix(following, freeformPrefix) {
			return KindFreeformCanvas
		}
	}
	return KindDialogue
}

// anyStructured reports whether any surviving marker opens a structured block.
func anyStructured(chat string, markers []Marker) bool {
	for _, m := range markers {
		if structuredKind(chat, m) != KindDialogue {
			return true
		}
	}
	return false
}
