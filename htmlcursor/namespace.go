package htmlcursor

import "fmt"

// Fixed namespace URIs (spec.md §6).
const (
	HTMLNamespaceURI   = "http://www.w3.org/1999/xhtml"
	MathMLNamespaceURI = "http://www.w3.org/1998/Math/MathML"
	SVGNamespaceURI    = "http://www.w3.org/2000/svg"
	XLinkNamespaceURI  = "http://www.w3.org/1999/xlink"
	XMLNamespaceURI    = "http://www.w3.org/XML/1998/namespace"

	synthesizedNamespacePrefix = "uri:namespace:"
)

// resolveNamespace implements spec.md §4.4's resolve(context_element,
// prefix) -> uri. It walks the element's own namespace map, then each
// ancestor's map from the element up to the root (the same ancestor-first
// stack walk ucarion-c14n's sortattr package uses to resolve a prefix's
// bound URI), before falling back to the special prefixes, the configured
// default, or a synthesized placeholder.
func (r *Reader) resolveNamespace(el *Node, prefix string) string {
	for n := el; n != nil; n = n.parent {
		if n.NamespaceMap != nil {
			if uri, ok := n.NamespaceMap[prefix]; ok {
				return uri
			}
		}
	}

	if prefix == "" {
		if r.cfg.emitHTMLNamespace {
			return HTMLNamespaceURI
		}
		return ""
	}

	switch prefix {
	case "xlink":
		return XLinkNamespaceURI
	case "xml":
		return XMLNamespaceURI
	}

	uri := fmt.Sprintf("%s%s", synthesizedNamespacePrefix, prefix)
	if el.NamespaceMap == nil {
		el.NamespaceMap = map[string]string{}
	}
	el.NamespaceMap[prefix] = uri
	return uri
}

// applyNamespaceBindings scans an element's attribute list for xmlns /
// xmlns:prefix declarations and records them on the element's own
// NamespaceMap, per spec.md §3 ("Namespace map ... holds only bindings
// introduced at that element").
func applyNamespaceBindings(el *Node, attrs []Attr) {
	for _, a := range attrs {
		switch {
		case a.Prefix == "" && a.LocalName == "xmlns":
			el.NamespaceMap[""] = a.Value
		case a.Prefix == "xmlns":
			el.NamespaceMap[a.LocalName] = a.Value
		}
	}
}

// applyDefaultNamespaceTrigger implements spec.md §4.4: when an element
// named math or svg (with no prefix) is scanned, its default namespace is
// set before resolving its own URI, so the element itself and its
// unprefixed descendants inherit it.
func applyDefaultNamespaceTrigger(el *Node) {
	if el.Prefix != "" {
		return
	}
	switch el.LocalName {
	case "math":
		el.NamespaceMap[""] = MathMLNamespaceURI
	case "svg":
		el.NamespaceMap[""] = SVGNamespaceURI
	}
}
