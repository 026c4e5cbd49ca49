package htmltext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DOMConverter parses the fragment with the x/net HTML parser and reads text
// out of the node tree, inserting newlines at block boundaries. This is the
// high-fidelity implementation.
type DOMConverter struct{}

// NewDOMConverter returns a DOM-based converter.
func NewDOMConverter() *DOMConverter {
	return &DOMConverter{}
}

// Block elements whose closing boundary maps to a newline.
var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Li:         true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Tr:         true,
}

// Convert extracts the text content of the fragment. Parse failures fall back
// to the regex approximation so the function stays total.
func (c *DOMConverter) Convert(fragment string) string {
	body := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return NewRegexConverter().Convert(fragment)
	}

	var b strings.Builder
	for _, n := range nodes {
		writeText(&b, n)
	}
	return b.String()
}

// writeText walks the node tree appending text content, with newlines after
// block elements and <br>, and tabs between table cells.
func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style:
			return
		case atom.Br:
			b.WriteByte('\n')
			return
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		writeText(b, child)
	}

	if n.Type == html.ElementNode {
		switch {
		case blockElements[n.DataAtom]:
			b.WriteByte('\n')
		case n.DataAtom == atom.Td || n.DataAtom == atom.Th:
			b.WriteByte('\t')
		}
	}
}
