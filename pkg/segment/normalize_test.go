package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coursenote/chatseg/pkg/htmltext"
)

func TestNormalize_LineEndings(t *testing.T) {
	assert.Equal(t, "a\nb\nc", Normalize("a\r\nb\rc"))
}

func TestNormalize_CollapsesParagraphSpacing(t *testing.T) {
	assert.Equal(t, "a\n\nb", Normalize("a\n\n\n\n\nb"))
	// Exactly two newlines are left alone.
	assert.Equal(t, "a\n\nb", Normalize("a\n\nb"))
}

func TestNormalize_TrimsSurroundingWhitespace(t *testing.T) {
	assert.Equal(t, "hello", Normalize("  \n hello \n\n "))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \n\t  "))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Alice: hi\nBob: hello",
		"plain text\r\nwith\rmixed endings",
		"a\n\n\n\nb",
		"  padded  ",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "re-normalizing %q must be a no-op", in)
	}
}

func TestNormalize_ConvertsEditorHTML(t *testing.T) {
	assert.Equal(t, "Alice: hi\nBob: hello", Normalize("<p>Alice: hi</p><p>Bob: hello</p>"))
	assert.Equal(t, "line one\nline two", Normalize("line one<br>line two"))
}

func TestNormalize_RespectsConverterInjection(t *testing.T) {
	// A segmenter constructed with the regex converter still normalizes,
	// just with the degraded conversion path.
	s := New(htmltext.NewRegexConverter())
	out := s.Normalize("<p>Alice: hi</p>")
	assert.Equal(t, "Alice: hi", out)
}

func TestLooksLikeRichHTML(t *testing.T) {
	assert.True(t, LooksLikeRichHTML("<p>hello</p>"))
	assert.True(t, LooksLikeRichHTML("before<br/>after"))
	assert.True(t, LooksLikeRichHTML(`<div class="x">y</div>`))
	assert.True(t, LooksLikeRichHTML("<H2>heading</H2>"))

	assert.False(t, LooksLikeRichHTML("plain text"))
	assert.False(t, LooksLikeRichHTML("a < b and b > c"))
	assert.False(t, LooksLikeRichHTML("<custom-element>x</custom-element>"))
	// Fenced code wins even when real tags are present.
	assert.False(t, LooksLikeRichHTML("```\n<div>code sample</div>\n```"))
}
