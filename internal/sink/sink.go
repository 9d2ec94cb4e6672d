// Package sink receives structural callbacks from HTML5 tree
// construction and keeps only what text extraction needs. Nodes are
// flat handles with no parent, child or sibling links; the
// construction algorithm owns all topology and only ever asks the
// sink to mint handles, compare them, and accept appends.
package sink

// NodeKind discriminates the closed set of handle variants the
// construction algorithm can ask for.
type NodeKind uint8

const (
	KindDocument NodeKind = iota
	KindComment
	KindProcessingInstruction
	KindElement
)

func (k NodeKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindComment:
		return "comment"
	case KindProcessingInstruction:
		return "processing instruction"
	case KindElement:
		return "element"
	}
	return "unknown"
}

// Node is one construction-time handle. Identity is pointer identity:
// two handles name the same node exactly when they are the same
// allocation. Only elements carry a qualified name.
type Node struct {
	kind NodeKind
	name string
}

func newNode(kind NodeKind, name string) *Node {
	return &Node{kind: kind, name: name}
}

// Kind reports which variant the handle is.
func (n *Node) Kind() NodeKind { return n.kind }

// Attribute is a parsed element attribute. The text sink discards
// attributes, but the contract still delivers them.
type Attribute struct {
	Key string
	Val string
}

// ElementFlags carries construction hints for a new element.
type ElementFlags struct {
	// Template marks a <template> element, whose contents live in a
	// separate container obtained via TemplateContents.
	Template bool
}

// QuirksMode is the document-wide mode the algorithm selects from the
// doctype. It affects structural interpretation upstream only.
type QuirksMode uint8

const (
	NoQuirks QuirksMode = iota
	LimitedQuirks
	Quirks
)

// NodeOrText is the payload of an append callback: either a node
// handle or a run of character data, never both.
type NodeOrText struct {
	Node *Node
	Text string
}

// AppendNode wraps a node handle for an append callback.
func AppendNode(n *Node) NodeOrText { return NodeOrText{Node: n} }

// AppendText wraps character data for an append callback.
func AppendText(s string) NodeOrText { return NodeOrText{Text: s} }

// TreeSink is the contract an HTML5 tree-construction algorithm
// expects from its output consumer. The algorithm calls these in
// document order as it builds; a conforming implementation must
// tolerate every structural callback, because malformed markup is
// recovered upstream and must never fail extraction.
type TreeSink interface {
	// Document returns the root document handle. Called once per parse.
	Document() *Node

	// ElementName returns the qualified name of an element handle.
	// Asking for the name of any other variant is a contract
	// violation and panics.
	ElementName(n *Node) string

	// CreateElement mints a handle for a new element. Attributes and
	// flags are delivered but the implementation may discard them.
	CreateElement(name string, attrs []Attribute, flags ElementFlags) *Node

	// CreateComment mints a handle for a comment.
	CreateComment(text string) *Node

	// CreatePI mints a handle for a processing instruction.
	CreatePI(target, data string) *Node

	// AppendDoctype records the document type declaration.
	AppendDoctype(name, publicID, systemID string)

	// Append attaches a node or character data under parent.
	Append(parent *Node, child NodeOrText)

	// AppendBasedOnParentNode is the foster-parenting variant: the
	// algorithm wants child placed before element if element has a
	// parent, otherwise appended under prevElement. Used for content
	// that tables push out of place.
	AppendBasedOnParentNode(element, prevElement *Node, child NodeOrText)

	// AppendBeforeSibling inserts child directly before sibling. The
	// construction algorithm never takes this path in practice; see
	// TextSink for how that guarantee is enforced.
	AppendBeforeSibling(sibling *Node, child NodeOrText)

	// TemplateContents returns the container holding a template
	// element's contents.
	TemplateContents(target *Node) *Node

	// SameNode reports whether two handles name the same node.
	SameNode(x, y *Node) bool

	// SetQuirksMode records the mode chosen from the doctype.
	SetQuirksMode(mode QuirksMode)

	// AddAttrsIfMissing merges attributes onto an existing element,
	// as happens for duplicate <html> or <body> start tags.
	AddAttrsIfMissing(target *Node, attrs []Attribute)

	// RemoveFromParent detaches a node from its parent.
	RemoveFromParent(target *Node)

	// ReparentChildren moves every child of node under newParent.
	ReparentChildren(node, newParent *Node)

	// ParseError reports recoverable malformed markup. The algorithm
	// recovers on its own; the sink must not fail.
	ParseError(msg string)

	// Finish consumes the sink and returns the accumulated text.
	// The sink is unusable afterwards.
	Finish() string
}
