package htmlcursor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
)

// ReadState mirrors spec.md §5's state machine.
type ReadState int

const (
	Initial ReadState = iota
	Interactive
	EndOfFile
	Closed
)

func (s ReadState) String() string {
	switch s {
	case Initial:
		return "Initial"
	case Interactive:
		return "Interactive"
	case EndOfFile:
		return "EndOfFile"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// maxReadIterations bounds how many scan attempts a single Read call may
// make without producing a node, per spec.md §4.7's tolerant-mode loop
// guard.
const maxReadIterations = 50

var errNoProgress = errors.New("parse loop made no progress before the safety cap")

// Reader is the pull cursor of spec.md §6: a single mutable position over a
// CharSource, advanced one node at a time by Read. The zero value is not
// usable; construct with NewReader.
type Reader struct {
	cur *cursor
	src CharSource
	cfg *config

	stack nodeStack
	queue []*Node

	current *Node
	state   ReadState

	lastWasText bool

	attrElement *Node
	attrIndex   int
	inAttrValue bool
}

// NewReader constructs a Reader pulling characters from src. A nil src is
// rejected as invalid-argument misuse, per spec.md §7.
func NewReader(src CharSource, opts ...Option) (*Reader, error) {
	if src == nil {
		return nil, newError(ErrInvalidArgument, "NewReader", errors.New("nil source"))
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger
	}
	return &Reader{
		cur:       newCursor(src),
		src:       src,
		cfg:       cfg,
		current:   &Node{Kind: None},
		state:     Initial,
		attrIndex: -1,
	}, nil
}

// NewReaderFromReader wraps a byte stream in a bufio.Reader before handing
// it to NewReader, the same adaptation the examples pack uses whenever a
// byte stream needs to become a rune stream.
func NewReaderFromReader(r io.Reader, opts ...Option) (*Reader, error) {
	return NewReader(bufio.NewReader(r), opts...)
}

// Read advances to the next node, returning false once end-of-file has been
// reached and no further node is available (ok=false, err=nil), or a
// surfaced error for one of spec.md §7's error kinds.
func (r *Reader) Read() (bool, error) {
	if r.state == Closed {
		return false, nil
	}
	if r.attrIndex != -1 {
		r.moveToElementInternal()
	}
	if r.state == Initial {
		r.state = Interactive
	}
	return r.advance()
}

// advance runs the drain-queue-else-dispatch loop of spec.md §4.7.
func (r *Reader) advance() (bool, error) {
	iterations := 0
	for {
		if len(r.queue) > 0 {
			n := r.dequeue()
			if r.shouldFilter(n) {
				r.traceFiltered(n)
				continue
			}
			r.setCurrent(n)
			return true, nil
		}
		if r.state == EndOfFile {
			return false, nil
		}

		iterations++
		if iterations > maxReadIterations {
			return false, newError(ErrMalformedInput, "Read", errNoProgress)
		}

		if r.cur.eof() {
			r.processEOF()
			continue
		}

		if r.cur.peek() == '<' {
			r.scanMarkup()
		} else {
			r.processText()
		}
	}
}

// processEOF implements the end-of-file handler of spec.md §4.7.
func (r *Reader) processEOF() {
	if top := r.stack.top(); top != nil {
		r.queue = append(r.queue, endElementFor(top))
		r.stack.pop()
		return
	}
	r.state = EndOfFile
	r.queue = append(r.queue, &Node{Kind: EndEntity})
}

// scanMarkup dispatches on a '<' already confirmed present at the cursor.
func (r *Reader) scanMarkup() {
	r.cur.read() // consume '<'
	switch {
	case matchLiteral(r.cur, "!--", false):
		r.processComment()
	case matchLiteral(r.cur, "![CDATA[", true):
		r.processCDATA()
	case matchLiteral(r.cur, "!DOCTYPE", true):
		r.processDoctype()
	case r.cur.peek() == '!':
		r.cur.read()
		r.processBogusComment()
	case r.cur.peek() == '/':
		r.cur.read()
		r.scanEndTag()
	case r.cur.peek() == '?':
		r.cur.read()
		r.processPI()
	case isNameStart(r.cur.peek()):
		r.scanStartTag()
	default:
		r.processStrayLessThan()
	}
}

// scanEndTag scans "</name ... >" and hands the parsed name to
// processEndTag. Any content between the name and '>' (stray attributes,
// whitespace) is discarded, tolerating malformed end tags.
func (r *Reader) scanEndTag() {
	prefix, local := scanName(r.cur)
	scanUntilChar(r.cur, '>')
	if local == "" {
		return
	}
	r.processEndTag(prefix, local)
}

// scanStartTag scans "<name attr=\"value\" ... >" or its self-closing form
// and hands the parsed tag to processStartTag.
func (r *Reader) scanStartTag() {
	prefix, local := scanName(r.cur)

	var attrs []Attr
	for {
		skipWhitespace(r.cur)
		ch := r.cur.peek()
		if ch == '>' || ch == '/' || (ch == eofRune && r.cur.eof()) {
			break
		}
		aprefix, alocal := scanName(r.cur)
		if alocal == "" {
			// No name here (e.g. a stray '=' or quote). Consume one
			// character to guarantee forward progress and retry.
			r.cur.read()
			continue
		}
		val := ""
		skipWhitespace(r.cur)
		if r.cur.peek() == '=' {
			r.cur.read()
			val = scanAttrValue(r.cur)
		}
		attrs = append(attrs, Attr{Prefix: aprefix, LocalName: alocal, Value: val})
	}

	selfClosing := false
	if r.cur.peek() == '/' {
		r.cur.read()
		selfClosing = true
		skipWhitespace(r.cur)
	}
	if r.cur.peek() == '>' {
		r.cur.read()
	}

	r.processStartTag(prefix, local, attrs, selfClosing)
}

func (r *Reader) dequeue() *Node {
	n := r.queue[0]
	r.queue = r.queue[1:]
	return n
}

func (r *Reader) shouldFilter(n *Node) bool {
	switch n.Kind {
	case Comment:
		return r.cfg.ignoreComments
	case ProcessingInstruction:
		return r.cfg.ignoreProcessingInstructions
	case Whitespace:
		return r.cfg.ignoreInsignificantWhitespace
	default:
		return false
	}
}

func (r *Reader) traceFiltered(n *Node) {
	if r.cfg.logger.Enabled(context.Background(), slog.LevelDebug) {
		r.cfg.logger.Debug("htmlcursor: filtered node", "kind", n.Kind.String())
	}
}

func (r *Reader) setCurrent(n *Node) {
	r.current = n
	r.lastWasText = n.Kind == Text
}

// --- Node-level properties (spec.md §6) ---

func (r *Reader) NodeKind() NodeKind         { return r.current.Kind }
func (r *Reader) LocalName() string          { return r.current.LocalName }
func (r *Reader) Prefix() string             { return r.current.Prefix }
func (r *Reader) NamespaceURI() string       { return r.current.NamespaceURI }
func (r *Reader) Value() string              { return r.current.Value }
func (r *Reader) Depth() int                 { return r.current.Depth() }
func (r *Reader) IsEmptyElement() bool       { return r.current.Kind == Element && r.current.IsEmptyElement }
func (r *Reader) AttributeCount() int {
	if r.current.Kind != Element {
		return 0
	}
	return len(r.current.Attributes)
}
func (r *Reader) HasAttributes() bool { return r.AttributeCount() > 0 }
func (r *Reader) EOF() bool           { return r.state == EndOfFile }
func (r *Reader) ReadState() ReadState { return r.state }

// --- Attribute access and the attribute sub-cursor (spec.md §6) ---

// elementForAttrOps returns the Element node attribute operations apply to:
// the current node itself if it is an Element, or the saved owner if the
// cursor is currently positioned on one of its attributes.
func (r *Reader) elementForAttrOps() *Node {
	if r.current.Kind == Element {
		return r.current
	}
	if r.attrElement != nil {
		return r.attrElement
	}
	return nil
}

// GetAttributeAt returns the value of the i'th attribute of the current (or
// attribute-owning) element, without moving the cursor.
func (r *Reader) GetAttributeAt(i int) (string, error) {
	el := r.elementForAttrOps()
	if el == nil {
		return "", newError(ErrInvalidState, "GetAttributeAt", errNotOnElement)
	}
	if i < 0 || i >= len(el.Attributes) {
		return "", newError(ErrOutOfRange, "GetAttributeAt", errAttrIndexRange)
	}
	return el.Attributes[i].Value, nil
}

// GetAttribute looks up an attribute by local name, optionally constrained
// to a namespace URI, without moving the cursor. ok is false if no matching
// attribute exists or the cursor isn't positioned on an element/attribute.
func (r *Reader) GetAttribute(name string, ns ...string) (value string, ok bool) {
	el := r.elementForAttrOps()
	if el == nil {
		return "", false
	}
	want := ""
	if len(ns) > 0 {
		want = ns[0]
	}
	for _, a := range el.Attributes {
		if a.LocalName == name && (want == "" || a.NamespaceURI == want) {
			return a.Value, true
		}
	}
	return "", false
}

// MoveToAttribute repositions the cursor onto the i'th attribute of the
// current (or attribute-owning) element.
func (r *Reader) MoveToAttribute(i int) error {
	el := r.elementForAttrOps()
	if el == nil {
		return newError(ErrInvalidState, "MoveToAttribute", errNotOnElement)
	}
	if i < 0 || i >= len(el.Attributes) {
		return newError(ErrOutOfRange, "MoveToAttribute", errAttrIndexRange)
	}
	r.attrElement = el
	r.attrIndex = i
	r.inAttrValue = false
	r.current = attributeNodeView(el, i)
	return nil
}

// MoveToAttributeByName repositions the cursor onto the named attribute, if
// present, reporting whether it found one.
func (r *Reader) MoveToAttributeByName(name string, ns ...string) bool {
	el := r.elementForAttrOps()
	if el == nil {
		return false
	}
	want := ""
	if len(ns) > 0 {
		want = ns[0]
	}
	for i, a := range el.Attributes {
		if a.LocalName == name && (want == "" || a.NamespaceURI == want) {
			r.attrElement = el
			r.attrIndex = i
			r.inAttrValue = false
			r.current = attributeNodeView(el, i)
			return true
		}
	}
	return false
}

// MoveToFirstAttribute repositions the cursor onto the current element's
// first attribute, if it has one.
func (r *Reader) MoveToFirstAttribute() bool {
	el := r.elementForAttrOps()
	if el == nil || len(el.Attributes) == 0 {
		return false
	}
	r.attrElement = el
	r.attrIndex = 0
	r.inAttrValue = false
	r.current = attributeNodeView(el, 0)
	return true
}

// MoveToNextAttribute advances the cursor to the next attribute, if any.
func (r *Reader) MoveToNextAttribute() bool {
	el := r.elementForAttrOps()
	if el == nil {
		return false
	}
	next := r.attrIndex + 1
	if r.attrIndex == -1 {
		next = 0
	}
	if next >= len(el.Attributes) {
		return false
	}
	r.attrElement = el
	r.attrIndex = next
	r.inAttrValue = false
	r.current = attributeNodeView(el, next)
	return true
}

// MoveToElement restores the current node to the element owning the
// attribute the cursor is positioned on, reporting whether it moved.
func (r *Reader) MoveToElement() bool {
	if r.attrIndex == -1 {
		return false
	}
	r.moveToElementInternal()
	return true
}

func (r *Reader) moveToElementInternal() {
	r.current = r.attrElement
	r.attrElement = nil
	r.attrIndex = -1
	r.inAttrValue = false
}

// ReadAttributeValue pushes a synthetic Text node carrying the current
// attribute's decoded value, so the consumer sees exactly one text child per
// attribute, per spec.md §6. Calling it again before moving elsewhere
// returns false: an attribute has no further children.
func (r *Reader) ReadAttributeValue() (bool, error) {
	if r.attrIndex == -1 {
		return false, newError(ErrInvalidState, "ReadAttributeValue", errNotOnAttribute)
	}
	if r.inAttrValue {
		return false, nil
	}
	a := r.attrElement.Attributes[r.attrIndex]
	r.current = &Node{Kind: Text, Value: a.Value, parent: r.attrElement}
	r.inAttrValue = true
	return true, nil
}

// attributeNodeView builds the Attribute-kind Node exposed while the cursor
// is positioned on attribute i of el.
func attributeNodeView(el *Node, i int) *Node {
	a := el.Attributes[i]
	return &Node{
		Kind:         Attribute,
		Prefix:       a.Prefix,
		LocalName:    a.LocalName,
		NamespaceURI: a.NamespaceURI,
		Value:        a.Value,
		parent:       el,
	}
}

var (
	errNotOnElement   = errors.New("current node is not an element or attribute")
	errNotOnAttribute = errors.New("cursor is not positioned on an attribute")
	errAttrIndexRange = errors.New("attribute index out of range")
)

// LookupNamespace resolves prefix against the current element (or the
// attribute-owning element, or the innermost open element if positioned
// elsewhere), per spec.md §4.4/§6.
func (r *Reader) LookupNamespace(prefix string) string {
	el := r.elementForAttrOps()
	if el == nil {
		el = r.stack.top()
	}
	if el == nil {
		return ""
	}
	return r.resolveNamespace(el, prefix)
}

// Skip advances past the current element's entire subtree, leaving the
// cursor positioned on the node immediately following it. It is a no-op
// when the current node isn't an open (non-empty) element.
func (r *Reader) Skip() error {
	if r.current.Kind != Element || r.current.IsEmptyElement {
		return nil
	}
	depth := 0
	for {
		ok, err := r.Read()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch r.current.Kind {
		case Element:
			if !r.current.IsEmptyElement {
				depth++
			}
		case EndElement:
			if depth == 0 {
				_, err := r.Read()
				return err
			}
			depth--
		}
	}
}

var errEntityResolutionUnsupported = errors.New("entity resolution is not implemented")

// ResolveEntity mirrors XmlReader.ResolveEntity(): resolving a general
// entity reference against an external or internal subset. spec.md §1/§9
// list entity resolution hooks as an unsupported collaborator surface, so
// this always fails with not-implemented rather than silently no-op'ing.
func (r *Reader) ResolveEntity() error {
	return newError(ErrNotImplemented, "ResolveEntity", errEntityResolutionUnsupported)
}

// Close releases the Reader. If WithCloseInput was set and the underlying
// CharSource implements io.Closer, it is closed too.
func (r *Reader) Close() error {
	if r.state == Closed {
		return nil
	}
	r.state = Closed
	r.stack = nil
	r.queue = nil
	if r.cfg.closeInput {
		if c, ok := r.src.(io.Closer); ok {
			return c.Close()
		}
	}
	return nil
}
