package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDOMConverter_ParagraphsBecomeLines(t *testing.T) {
	c := NewDOMConverter()
	assert.Equal(t, "Alice: hi\nBob: hello\n", c.Convert("<p>Alice: hi</p><p>Bob: hello</p>"))
}

func TestDOMConverter_BreakTags(t *testing.T) {
	c := NewDOMConverter()
	assert.Equal(t, "one\ntwo", c.Convert("one<br>two"))
	assert.Equal(t, "one\ntwo", c.Convert("one<br/>two"))
	assert.Equal(t, "one\ntwo", c.Convert("one<br />two"))
}

func TestDOMConverter_InlineTagsStripped(t *testing.T) {
	c := NewDOMConverter()
	assert.Equal(t, "bold and italic", c.Convert("<strong>bold</strong> and <em>italic</em>"))
	assert.Equal(t, "spanned", c.Convert(`<span class="x">spanned</span>`))
}

func TestDOMConverter_ListItems(t *testing.T) {
	c := NewDOMConverter()
	assert.Equal(t, "first\nsecond\n", c.Convert("<ul><li>first</li><li>second</li></ul>"))
}

func TestDOMConverter_NestedBlocks(t *testing.T) {
	c := NewDOMConverter()
	// The parser sees structure the regex path cannot: each block close
	// contributes its newline.
	out := c.Convert("<div><p>inner</p>tail</div>")
	assert.Equal(t, "inner\ntail\n", out)
}

func TestDOMConverter_TableCells(t *testing.T) {
	c := NewDOMConverter()
	out := c.Convert("<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table>")
	assert.Equal(t, "a\tb\t\nc\td\t\n", out)
}

func TestDOMConverter_SkipsScriptAndStyle(t *testing.T) {
	c := NewDOMConverter()
	out := c.Convert(`<p>visible</p><script>alert("hidden")</script><style>p{color:red}</style>`)
	assert.Equal(t, "visible\n", out)
}

func TestDOMConverter_Entities(t *testing.T) {
	c := NewDOMConverter()
	assert.Equal(t, "a < b & c\n", c.Convert("<p>a &lt; b &amp; c</p>"))
}

func TestRegexConverter_BlockClosesBecomeLines(t *testing.T) {
	c := NewRegexConverter()
	assert.Equal(t, "Alice: hi\nBob: hello\n", c.Convert("<p>Alice: hi</p><p>Bob: hello</p>"))
}

func TestRegexConverter_StripsUnknownTags(t *testing.T) {
	c := NewRegexConverter()
	assert.Equal(t, "kept", c.Convert("<article><section>kept</section></article>"))
}

func TestRegexConverter_UnescapesEntities(t *testing.T) {
	c := NewRegexConverter()
	assert.Equal(t, "x < y", c.Convert("x &lt; y"))
}

func TestRegexConverter_CollapsesHorizontalRuns(t *testing.T) {
	c := NewRegexConverter()
	assert.Equal(t, "a b", c.Convert("a    \t  b"))
}

func TestConverters_TotalOverGarbage(t *testing.T) {
	garbage := "<<<p>>broken<div <span>"
	assert.NotPanics(t, func() { NewDOMConverter().Convert(garbage) })
	assert.NotPanics(t, func() { NewRegexConverter().Convert(garbage) })
}
