// Package htmlcursor implements a pull-mode (cursor-based) HTML5-flavored
// reader: a single forward-only position advanced one node at a time by
// Read, in the spirit of an XML pull parser rather than a DOM builder.
//
// A Reader consumes runes from a CharSource, synthesizes the implicit
// structure HTML5 tolerates (auto-closed siblings, implicit html/body,
// forced void elements), resolves namespaces including the MathML/SVG
// default-namespace rules, and exposes the result as a stream of tagged
// Node values: Element, EndElement, Attribute, Text, Whitespace,
// SignificantWhitespace, Comment, CDATA, ProcessingInstruction,
// DocumentType, and a terminal EndEntity.
//
//	r, err := htmlcursor.NewReader(strings.NewReader(input))
//	for {
//		ok, err := r.Read()
//		if err != nil {
//			// one of ErrInvalidArgument/ErrOutOfRange/ErrInvalidState/
//			// ErrNotImplemented/ErrMalformedInput
//		}
//		if !ok {
//			break
//		}
//		switch r.NodeKind() {
//		case htmlcursor.Element:
//			// ...
//		}
//	}
package htmlcursor
