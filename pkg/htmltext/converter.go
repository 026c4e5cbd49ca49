// Package htmltext converts rich-editor HTML fragments to plain text while
// preserving block-level line breaks.
//
// Conversion is modeled as an injected capability: callers construct either a
// DOMConverter, which parses the fragment and walks the node tree, or a
// RegexConverter, which approximates the same result with tag substitution.
// The two differ in newline fidelity for markup the regex path cannot see
// structurally (nested or malformed blocks); both are deterministic pure
// functions.
package htmltext

// Converter turns an HTML fragment into plain text. Implementations insert
// newlines for block boundaries and never fail: garbage in, best-effort
// plain text out.
type Converter interface {
	Convert(html string) string
}
