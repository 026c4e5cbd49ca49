// Package segment turns free-form text into ordered conversational turns.
//
// The input is whatever a rich-text editor or a plain textarea produced: it
// may be HTML, it may be plain text, and it may or may not actually be a chat
// transcript. The package decides whether the text looks like a transcript
// ("Speaker: message" lines) and, if so, splits it into (speaker, content)
// segments while suppressing false positives such as "Note: see below".
//
// Every function here is a pure, single-pass computation over its input.
// Nothing is retained between calls and nothing can fail at runtime; ambiguous
// text degrades to "not a transcript" rather than to an error.
package segment

import "github.com/coursenote/chatseg/pkg/htmltext"

// Kind classifies a segment. Most segments are dialogue turns; a transcript
// can also carry structured annotation blocks serialized in the same
// "Label: content" shape but identified by a literal content prefix.
type Kind string

const (
	// KindDialogue is an ordinary conversational turn.
	KindDialogue Kind = "dialogue"
	// KindTakeaway is an instructor note, tagged with a [TAKEAWAY prefix.
	KindTakeaway Kind = "takeaway"
	// KindFreeformCanvas is a freeform canvas dump, tagged [FREEFORM_CANVAS].
	KindFreeformCanvas Kind = "freeform_canvas"
)

// Structured block content prefixes. A marker labeled "takeaway" or
// "freeform" is only treated as a structured block when its content starts
// with the matching literal.
const (
	takeawayPrefix = "[TAKEAWAY"
	freeformPrefix = "[FREEFORM_CANVAS]"
)

// Marker is a detected "Speaker:" token that starts a line within the scanned
// text. Offsets are byte positions into the scanned string: Start is the
// first byte of the label, End points just past the colon and any horizontal
// whitespace that follows it.
type Marker struct {
	Speaker string `json:"speaker"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// Segment is one reconstructed conversational turn. Content is trimmed and
// never empty; segments are returned in document order.
type Segment struct {
	Speaker string `json:"speaker"`
	Content string `json:"content"`
	Kind    Kind   `json:"kind"`
}

// Options controls extraction behavior.
type Options struct {
	// AllowSingle admits every detected speaker regardless of how often it
	// repeats. Interactive editors use this to build one bubble per line;
	// the default heuristic instead requires repetition as evidence of a
	// genuine conversation.
	AllowSingle bool
}

// Segmenter performs transcript segmentation with a configurable
// HTML-to-text conversion capability.
type Segmenter struct {
	conv htmltext.Converter
}

// New creates a Segmenter using the given HTML converter.
func New(conv htmltext.Converter) *Segmenter {
	if conv == nil {
		conv = htmltext.NewDOMConverter()
	}
	return &Segmenter{conv: conv}
}

// defaultSegmenter backs the package-level convenience functions.
var defaultSegmenter = New(htmltext.NewDOMConverter())

// Extract runs the default segmenter. See Segmenter.Extract.
func Extract(input string, opts Options) []Segment {
	return defaultSegmenter.Extract(input, opts)
}

// Normalize runs the default segmenter. See Segmenter.Normalize.
func Normalize(value string) string {
	return defaultSegmenter.Normalize(value)
}

// IsTranscript runs the default segmenter. See Segmenter.IsTranscript.
func IsTranscript(input string) bool {
	return defaultSegmenter.IsTranscript(input)
}

// Explanation runs the default segmenter. See Segmenter.Explanation.
func Explanation(input string) (string, bool) {
	return defaultSegmenter.Explanation(input)
}
