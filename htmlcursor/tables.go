package htmlcursor

import "golang.org/x/net/html/atom"

// voidElements is the HTML5 void-element set of spec.md §4.5 step C,
// expressed as atom.Atom values rather than raw strings — the same
// representation the HTML5 tree-builder lineage in the examples pack
// (dpotapov-go-pages/chtml/html) uses for its stop-tag and scope tables, so
// a tag-name classification is an integer-set membership test rather than a
// string compare.
var voidElements = map[atom.Atom]bool{
	atom.Area:    true,
	atom.Base:    true,
	atom.Br:      true,
	atom.Col:     true,
	atom.Command: true,
	atom.Embed:   true,
	atom.Hr:      true,
	atom.Img:     true,
	atom.Input:   true,
	atom.Keygen:  true,
	atom.Link:    true,
	atom.Meta:    true,
	atom.Param:   true,
	atom.Source:  true,
	atom.Track:   true,
	atom.Wbr:     true,
}

func isVoidElement(local string) bool {
	return voidElements[atom.Lookup([]byte(local))]
}

// canCloseTable implements the Can-close table of spec.md §4.5: for an open
// element with the given local name, the set of incoming tag-on-right local
// names that implicitly close it.
var canCloseTable = map[atom.Atom]map[atom.Atom]bool{
	atom.Li: atomSet(atom.Li),
	atom.Dt: atomSet(atom.Dt, atom.Dd),
	atom.Dd: atomSet(atom.Dd, atom.Dt),
	atom.P: atomSet(
		atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Details,
		atom.Div, atom.Dl, atom.Fieldset, atom.Figcaption, atom.Figure,
		atom.Footer, atom.Form, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5,
		atom.H6, atom.Header, atom.Hr, atom.Main, atom.Menu, atom.Nav,
		atom.Ol, atom.P, atom.Pre, atom.Section, atom.Table, atom.Ul,
	),
	atom.Rt:       atomSet(atom.Rt, atom.Rp),
	atom.Rp:       atomSet(atom.Rp, atom.Rt),
	atom.Optgroup: atomSet(atom.Optgroup),
	atom.Option:   atomSet(atom.Option, atom.Optgroup),
	atom.Thead:    atomSet(atom.Tbody, atom.Tfoot),
	atom.Tbody:    atomSet(atom.Tbody, atom.Tfoot),
	atom.Tfoot:    atomSet(atom.Tbody),
	atom.Tr:       atomSet(atom.Tr),
	atom.Td:       atomSet(atom.Td, atom.Th),
	atom.Th:       atomSet(atom.Th, atom.Td),
}

func atomSet(atoms ...atom.Atom) map[atom.Atom]bool {
	m := make(map[atom.Atom]bool, len(atoms))
	for _, a := range atoms {
		m[a] = true
	}
	return m
}

// canClose reports whether an open element named openLocal may be
// implicitly closed by an incoming tag named incomingLocal, per the
// Can-close table of spec.md §4.5.
func canClose(openLocal, incomingLocal string) bool {
	closers, ok := canCloseTable[atom.Lookup([]byte(openLocal))]
	if !ok {
		return false
	}
	return closers[atom.Lookup([]byte(incomingLocal))]
}
