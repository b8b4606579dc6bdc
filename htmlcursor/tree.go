package htmlcursor

import (
	"html"
	"strings"
)

// Tree-construction engine: spec.md §4.5's steps A-D, end-tag handling, and
// doctype handling. Pops for implicit/explicit closes are applied eagerly
// to r.stack at decision time rather than lazily when each EndElement node
// is later dequeued and exposed to the consumer. Because nodes only ever
// leave the queue one at a time (one per Read call, in FIFO/document order,
// per spec.md invariant 2), this produces an externally identical stream to
// a lazy-pop design while avoiding a second "logical stack" bookkeeping
// structure. Grounded on dpotapov-go-pages/chtml/html/parse.go's
// popUntil/indexOfElementInScope stack-walk shape, simplified to the
// Can-close table instead of full HTML5 scope rules.

// inForeignContext reports whether the current insertion point is inside a
// math or svg subtree, in which case Steps A/B (sibling closes, implicit
// ancestors) do not apply. Step C (void-element forcing) does not consult
// it; it checks the element's own namespace via isHTMLNamespace.
func (r *Reader) inForeignContext() bool {
	top := r.stack.top()
	return top != nil && (top.NamespaceURI == MathMLNamespaceURI || top.NamespaceURI == SVGNamespaceURI)
}

// synthesizeOpen enqueues and eagerly pushes an implicit <local> element
// with no attributes, per spec.md §4.5 Step B.
func (r *Reader) synthesizeOpen(local string) *Node {
	parent := r.stack.top()
	n := newElementNode("", local, parent)
	n.NamespaceURI = r.resolveNamespace(n, "")
	r.queue = append(r.queue, n)
	r.stack.push(n)
	return n
}

// processStartTag implements steps A-D for a freshly scanned start tag.
func (r *Reader) processStartTag(prefix, local string, attrs []Attr, selfClosingToken bool) {
	if r.cfg.nameTable != nil {
		prefix = r.cfg.nameTable.intern(prefix)
		local = r.cfg.nameTable.intern(local)
	}

	// Step A: implicit sibling close.
	if !r.inForeignContext() {
		for {
			top := r.stack.top()
			if top == nil || top.NamespaceURI == MathMLNamespaceURI || top.NamespaceURI == SVGNamespaceURI {
				break
			}
			if !canClose(top.LocalName, local) {
				break
			}
			r.queue = append(r.queue, endElementFor(top))
			r.stack.pop()
		}

		// Step B: synthesized ancestors.
		if r.stack.empty() && local != "html" {
			r.synthesizeOpen("html")
		}
		if !r.stack.containsLocal("body", "head") && local != "html" && local != "head" && local != "body" {
			r.synthesizeOpen("body")
		}
		if local == "col" && !r.stack.containsLocal("colgroup") {
			r.synthesizeOpen("colgroup")
		} else if local == "tr" && !r.stack.containsLocal("tbody", "thead", "tfoot") {
			r.synthesizeOpen("tbody")
		}
	}

	// Step D (parent): the element's parent is the (possibly synthesized)
	// current top.
	parent := r.stack.top()
	n := newElementNode(prefix, local, parent)
	applyNamespaceBindings(n, attrs)
	applyDefaultNamespaceTrigger(n)
	n.NamespaceURI = r.resolveNamespace(n, prefix)

	resolved := make([]Attr, len(attrs))
	for i, a := range attrs {
		a.Index = i
		if r.cfg.nameTable != nil {
			a.Prefix = r.cfg.nameTable.intern(a.Prefix)
			a.LocalName = r.cfg.nameTable.intern(a.LocalName)
		}
		if a.Prefix != "" {
			a.NamespaceURI = r.resolveNamespace(n, a.Prefix)
		}
		resolved[i] = a
	}
	n.Attributes = resolved

	// Step C: void elements.
	isEmpty := selfClosingToken
	if isHTMLNamespace(n.NamespaceURI) && isVoidElement(local) {
		isEmpty = true
	}
	n.IsEmptyElement = isEmpty

	if !isEmpty {
		r.stack.push(n)
	}
	r.queue = append(r.queue, n)
}

// isHTMLNamespace reports whether uri identifies the (non-foreign) HTML
// namespace context — i.e. not MathML or SVG. Elements default to the
// empty string unless WithEmitHTMLNamespace is set, so both are treated as
// "HTML" for the purposes of the void-element and can-close tables.
func isHTMLNamespace(uri string) bool {
	return uri != MathMLNamespaceURI && uri != SVGNamespaceURI
}

// processEndTag implements end-tag handling from spec.md §4.5: void tags
// and tags with no matching open element are discarded silently; otherwise
// every open element from the stack top down to (and including) the
// matching one is closed, permissively popping through any non-matching
// intermediate elements (preserved per spec.md §9's open question).
func (r *Reader) processEndTag(prefix, local string) {
	_ = prefix
	if isVoidElement(local) {
		return
	}
	match := r.stack.probeLocal(local)
	if match == nil {
		return
	}
	for {
		top := r.stack.top()
		r.queue = append(r.queue, endElementFor(top))
		r.stack.pop()
		if top == match {
			return
		}
	}
}

// processDoctype consumes a <!DOCTYPE ...> construct up to its closing '>'
// and emits a normalized DocumentType node, per spec.md §4.5.
func (r *Reader) processDoctype() {
	scanUntilChar(r.cur, '>')
	r.queue = append(r.queue, &Node{Kind: DocumentType, LocalName: "html", parent: r.stack.top()})
}

func (r *Reader) processComment() {
	content := scanUntilString(r.cur, "-->")
	r.queue = append(r.queue, &Node{Kind: Comment, Value: content, parent: r.stack.top()})
}

// processBogusComment handles "<!" constructs that are neither a comment, a
// CDATA section, nor a doctype — tolerated per spec.md §7 kind 6 by
// treating everything up to the next '>' as comment text.
func (r *Reader) processBogusComment() {
	content := scanUntilChar(r.cur, '>')
	r.queue = append(r.queue, &Node{Kind: Comment, Value: content, parent: r.stack.top()})
}

func (r *Reader) processCDATA() {
	content := scanUntilString(r.cur, "]]>")
	r.queue = append(r.queue, &Node{Kind: CDATA, Value: content, parent: r.stack.top()})
}

func (r *Reader) processPI() {
	_, target := scanName(r.cur)
	skipWhitespace(r.cur)
	data := scanUntilString(r.cur, "?>")
	r.queue = append(r.queue, &Node{
		Kind:      ProcessingInstruction,
		LocalName: target,
		Value:     strings.TrimSpace(data),
		parent:    r.stack.top(),
	})
}

// processStrayLessThan handles a '<' that wasn't followed by anything
// recognizable as markup: it is treated as a literal text character, per
// spec.md §7 kind 6. The '<' itself has already been consumed by the
// caller's dispatch.
func (r *Reader) processStrayLessThan() {
	r.queue = append(r.queue, &Node{Kind: Text, Value: "<", parent: r.stack.top()})
}

// processText implements spec.md §4.6.
func (r *Reader) processText() {
	leadingWS := skipWhitespace(r.cur)
	significant := r.cur.peek() != '<'
	ctx := r.stack.top()
	if ctx != nil && significant {
		ctx.whitespaceSignificant = true
	}

	if leadingWS != "" && (!r.lastWasText || r.cur.eof()) {
		kind := Whitespace
		if significant || (ctx != nil && ctx.whitespaceSignificant) {
			kind = SignificantWhitespace
		}
		r.queue = append(r.queue, &Node{Kind: kind, Value: leadingWS, parent: ctx})
		return
	}

	if r.stack.empty() {
		r.synthesizeOpen("html")
		if !r.stack.containsLocal("body", "head") {
			r.synthesizeOpen("body")
		}
		return
	}

	var sb strings.Builder
	sb.WriteString(leadingWS)
	for {
		ch := r.cur.peek()
		if ch == '<' || (ch == eofRune && r.cur.eof()) {
			break
		}
		sb.WriteRune(r.cur.read())
	}
	raw := sb.String()
	trimmed := strings.TrimRightFunc(raw, isWhitespace)
	trailing := raw[len(trimmed):]

	ctx = r.stack.top()
	r.queue = append(r.queue, &Node{Kind: Text, Value: html.UnescapeString(trimmed), parent: ctx})
	if trailing != "" {
		r.queue = append(r.queue, &Node{Kind: SignificantWhitespace, Value: trailing, parent: ctx})
	}
}
