package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_ThreeTurnConversation(t *testing.T) {
	segments := Extract("Alice: hi\nBob: hello\nAlice: how are you", Options{})
	require.Len(t, segments, 3)

	assert.Equal(t, Segment{Speaker: "Alice", Content: "hi", Kind: KindDialogue}, segments[0])
	assert.Equal(t, Segment{Speaker: "Bob", Content: "hello", Kind: KindDialogue}, segments[1])
	assert.Equal(t, Segment{Speaker: "Alice", Content: "how are you", Kind: KindDialogue}, segments[2])
}

func TestExtract_PlainProseIsNotATranscript(t *testing.T) {
	assert.Empty(t, Extract("Just a paragraph of ordinary text.\nAnd another line.", Options{}))
	assert.Empty(t, Extract("", Options{}))
	assert.Empty(t, Extract("   \n\n  ", Options{}))
}

func TestExtract_SingleNonRepeatingLabelRejected(t *testing.T) {
	// One dialogue-shaped line is more likely prose than a transcript.
	segments := Extract("Note: remember to check this.\nAnother line", Options{})
	assert.Empty(t, segments)
}

func TestExtract_TwoLineConversationSurvives(t *testing.T) {
	// Neither speaker repeats, but progressive admission rescues short
	// two-line conversations.
	segments := Extract("Alice: hi\nBob: hello", Options{})
	require.Len(t, segments, 2)
	assert.Equal(t, "Alice", segments[0].Speaker)
	assert.Equal(t, "Bob", segments[1].Speaker)
}

func TestExtract_RepeatingSpeakerAdmitsFalsePositiveSuppression(t *testing.T) {
	// "Warning" appears once and is not rescued because two speakers
	// already qualify by repetition.
	input := "Alice: one\nBob: two\nWarning: not a person\nAlice: three\nBob: four"
	segments := Extract(input, Options{})
	require.Len(t, segments, 4)
	for _, seg := range segments {
		assert.NotEqual(t, "Warning", seg.Speaker)
	}
}

func TestExtract_MultilineTurns(t *testing.T) {
	input := "Alice: first line\nstill alice talking\nBob: reply"
	segments := Extract(input, Options{})
	require.Len(t, segments, 2)
	assert.Equal(t, "first line\nstill alice talking", segments[0].Content)
	assert.Equal(t, "reply", segments[1].Content)
}

func TestExtract_ParagraphSpacingBeforeNextSpeaker(t *testing.T) {
	input := "Alice: hello there\n\nBob: hi"
	segments := Extract(input, Options{})
	require.Len(t, segments, 2)
	assert.Equal(t, "hello there", segments[0].Content)
}

func TestExtract_AllowSingleAdmitsEverySpeaker(t *testing.T) {
	input := "Alice: solo line\nNote: also kept\nBob: third"
	segments := Extract(input, Options{AllowSingle: true})
	require.Len(t, segments, 3)
	assert.Equal(t, "Alice", segments[0].Speaker)
	assert.Equal(t, "Note", segments[1].Speaker)
	assert.Equal(t, "Bob", segments[2].Speaker)
}

func TestExtract_AllowSingleLoneSpeaker(t *testing.T) {
	segments := Extract("Alice: just me here", Options{AllowSingle: true})
	require.Len(t, segments, 1)
	assert.Equal(t, "just me here", segments[0].Content)
}

func TestExtract_TakeawayStructuredBlock(t *testing.T) {
	// A takeaway block survives as a singleton because of its literal
	// content prefix, even though the admission heuristic would drop it.
	segments := Extract("Takeaway: [TAKEAWAY] Always validate input", Options{})
	require.Len(t, segments, 1)
	assert.Equal(t, "Takeaway", segments[0].Speaker)
	assert.Equal(t, "[TAKEAWAY] Always validate input", segments[0].Content)
	assert.Equal(t, KindTakeaway, segments[0].Kind)
}

func TestExtract_FreeformCanvasBlock(t *testing.T) {
	segments := Extract("Freeform: [FREEFORM_CANVAS] sketch contents", Options{})
	require.Len(t, segments, 1)
	assert.Equal(t, KindFreeformCanvas, segments[0].Kind)
}

func TestExtract_TakeawayLabelWithoutPrefixIsNotStructured(t *testing.T) {
	// The label alone is not enough: without the literal prefix it is an
	// ordinary one-off marker and gets rejected.
	assert.Empty(t, Extract("Takeaway: just some advice", Options{}))
}

func TestExtract_StructuredBlockAmongDialogue(t *testing.T) {
	input := "Alice: hi\nBob: hello\nTakeaway: [TAKEAWAY] be kind\nAlice: bye"
	segments := Extract(input, Options{})
	require.Len(t, segments, 4)
	assert.Equal(t, KindDialogue, segments[0].Kind)
	assert.Equal(t, KindTakeaway, segments[2].Kind)
}

func TestExtract_StopsAtExplanationSeparator(t *testing.T) {
	input := "Alice: hi\nBob: hello\n---\nCarol: this is explanation text, not chat"
	segments := Extract(input, Options{})
	require.Len(t, segments, 2)
	for _, seg := range segments {
		assert.NotEqual(t, "Carol", seg.Speaker)
		assert.NotContains(t, seg.Content, "explanation")
	}
}

func TestExtract_HTMLInput(t *testing.T) {
	segments := Extract("<p>Alice: hi</p><p>Bob: hello</p>", Options{})
	require.Len(t, segments, 2)
	assert.Equal(t, Segment{Speaker: "Alice", Content: "hi", Kind: KindDialogue}, segments[0])
	assert.Equal(t, Segment{Speaker: "Bob", Content: "hello", Kind: KindDialogue}, segments[1])
}

func TestExtract_CaseInsensitiveSpeakerGrouping(t *testing.T) {
	// "alice" and "Alice" are the same participant for admission purposes
	// but keep their original casing in the output.
	input := "alice: one\nBob: two\nAlice: three\nbob: four"
	segments := Extract(input, Options{})
	require.Len(t, segments, 4)
	assert.Equal(t, "alice", segments[0].Speaker)
	assert.Equal(t, "Alice", segments[2].Speaker)
}

func TestExtract_EmptyContentTurnsDropped(t *testing.T) {
	// The lookahead already rejects bare labels; a turn whose content
	// trims to nothing after slicing is dropped too.
	input := "Alice: hi\nBob: hello\nAlice: bye"
	segments := Extract(input, Options{})
	for _, seg := range segments {
		assert.NotEmpty(t, seg.Content)
	}
}

func TestExtract_FencedCodeTreatedAsPlainText(t *testing.T) {
	// Angle brackets inside a fenced code block must not trigger HTML
	// conversion and corrupt the sample.
	input := "Alice: look at this\n```\n<div>not html</div>\n```\nBob: neat"
	segments := Extract(input, Options{})
	require.Len(t, segments, 2)
	assert.Contains(t, segments[0].Content, "<div>not html</div>")
}
