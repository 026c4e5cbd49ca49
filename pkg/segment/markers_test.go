package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMarkers_BasicDialogue(t *testing.T) {
	text := "Alice: hi\nBob: hello"

	markers := FindMarkers(text)
	require.Len(t, markers, 2)

	assert.Equal(t, "Alice", markers[0].Speaker)
	assert.Equal(t, 0, markers[0].Start)
	assert.Equal(t, "hi", text[markers[0].End:markers[1].Start-1])

	assert.Equal(t, "Bob", markers[1].Speaker)
	assert.Equal(t, strings.Index(text, "Bob"), markers[1].Start)
}

func TestFindMarkers_MustStartLine(t *testing.T) {
	// A colon mid-sentence is not a speaker marker.
	markers := FindMarkers("See the docs Note: this is inline")
	assert.Empty(t, markers)

	// But the same label at a line start is.
	markers = FindMarkers("intro line\nNote: this starts a line")
	require.Len(t, markers, 1)
	assert.Equal(t, "Note", markers[0].Speaker)
}

func TestFindMarkers_RejectsEmptyMessage(t *testing.T) {
	// A bare "Speaker:" line with nothing after it is not a marker.
	assert.Empty(t, FindMarkers("Alice:"))
	assert.Empty(t, FindMarkers("Alice:   "))
	assert.Empty(t, FindMarkers("Alice:\nnext line"))

	// Horizontal whitespace before real content is fine.
	markers := FindMarkers("Alice:   hi")
	require.Len(t, markers, 1)
	assert.Equal(t, "hi", "Alice:   hi"[markers[0].End:])
}

func TestFindMarkers_RejectsLabelsWithoutLetters(t *testing.T) {
	// Timestamps and ratios match the marker shape but carry no letters.
	assert.Empty(t, FindMarkers("1: first item"))
	assert.Empty(t, FindMarkers("12:45 meeting starts"))
	assert.Empty(t, FindMarkers("  : odd punctuation"))
}

func TestFindMarkers_LabelLengthLimit(t *testing.T) {
	longLabel := strings.Repeat("a", 60)
	markers := FindMarkers(longLabel + ": message")
	require.Len(t, markers, 1)
	assert.Equal(t, longLabel, markers[0].Speaker)

	// 61 characters before the colon cannot match from the line start.
	tooLong := strings.Repeat("a", 61)
	assert.Empty(t, FindMarkers(tooLong+": message"))
}

func TestFindMarkers_TrimsLabel(t *testing.T) {
	markers := FindMarkers("  Alice  : hi")
	require.Len(t, markers, 1)
	assert.Equal(t, "Alice", markers[0].Speaker)
}

func TestFindMarkers_DocumentOrder(t *testing.T) {
	markers := FindMarkers("Zed: one\nAmy: two\nZed: three")
	require.Len(t, markers, 3)
	assert.True(t, markers[0].Start < markers[1].Start)
	assert.True(t, markers[1].Start < markers[2].Start)
}

func TestFindMarkers_EmptyInput(t *testing.T) {
	assert.Empty(t, FindMarkers(""))
	assert.Empty(t, FindMarkers("no markers here at all"))
}
