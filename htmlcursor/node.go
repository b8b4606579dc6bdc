package htmlcursor

// NodeKind identifies the variant a Node represents. spec.md §9 calls for a
// tagged-variant record rather than a class hierarchy; NodeKind is the tag.
type NodeKind int

const (
	None NodeKind = iota
	Element
	EndElement
	Attribute
	Text
	Whitespace
	SignificantWhitespace
	Comment
	CDATA
	ProcessingInstruction
	DocumentType
	EndEntity
)

func (k NodeKind) String() string {
	switch k {
	case None:
		return "None"
	case Element:
		return "Element"
	case EndElement:
		return "EndElement"
	case Attribute:
		return "Attribute"
	case Text:
		return "Text"
	case Whitespace:
		return "Whitespace"
	case SignificantWhitespace:
		return "SignificantWhitespace"
	case Comment:
		return "Comment"
	case CDATA:
		return "CDATA"
	case ProcessingInstruction:
		return "ProcessingInstruction"
	case DocumentType:
		return "DocumentType"
	case EndEntity:
		return "EndEntity"
	default:
		return "Unknown"
	}
}

// Attr is one attribute owned by an element Node. Attributes are ordered;
// Index records an attribute's position in its owning element's list.
type Attr struct {
	Index        int
	Prefix       string
	LocalName    string
	NamespaceURI string
	Value        string
}

// Name returns the attribute's qualified name (prefix:local, or just local
// when unprefixed).
func (a Attr) Name() string {
	if a.Prefix == "" {
		return a.LocalName
	}
	return a.Prefix + ":" + a.LocalName
}

// Node is the single record type used for every stream element, per
// spec.md §3. Fields that don't apply to a given Kind are left at their
// zero value (empty string / nil / false).
type Node struct {
	Kind         NodeKind
	Prefix       string
	LocalName    string
	NamespaceURI string
	Value        string
	IsEmptyElement bool
	Attributes   []Attr
	NamespaceMap map[string]string

	parent *Node
	depth  int
	depthSet bool

	// whitespaceSignificant lives on the nearest enclosing element so that
	// sibling whitespace between two text-bearing children stays
	// significant, per spec.md §4.6.
	whitespaceSignificant bool
}

// Name returns the node's qualified name (prefix:local, or just local when
// unprefixed). Meaningful for Element/EndElement/Attribute nodes.
func (n *Node) Name() string {
	if n.Prefix == "" {
		return n.LocalName
	}
	return n.Prefix + ":" + n.LocalName
}

// Depth computes depth(node) = 0 if no parent, else depth(parent)+1, cached
// on first observation per spec.md invariant 6. Depth is computed lazily
// because the tree-construction engine may splice synthesized ancestors in
// between scanning a token and emitting it.
func (n *Node) Depth() int {
	if n.depthSet {
		return n.depth
	}
	if n.parent == nil {
		n.depth = 0
	} else {
		n.depth = n.parent.Depth() + 1
	}
	n.depthSet = true
	return n.depth
}

// sameElementIdentity reports whether a and b have the same element
// identity (prefix, local name, namespace), the identity an EndElement
// shares with the open element it closes.
func sameElementIdentity(a, b *Node) bool {
	return a.Prefix == b.Prefix && a.LocalName == b.LocalName && a.NamespaceURI == b.NamespaceURI
}

// newElementNode allocates a fresh Element node with its own namespace map,
// parented under parent (which may be nil for a document-root element).
func newElementNode(prefix, local string, parent *Node) *Node {
	return &Node{
		Kind:         Element,
		Prefix:       prefix,
		LocalName:    local,
		NamespaceMap: map[string]string{},
		parent:       parent,
	}
}

// endElementFor builds the EndElement node matching an open element node.
func endElementFor(open *Node) *Node {
	return &Node{
		Kind:         EndElement,
		Prefix:       open.Prefix,
		LocalName:    open.LocalName,
		NamespaceURI: open.NamespaceURI,
		parent:       open.parent,
	}
}
