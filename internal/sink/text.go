package sink

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// TextSink implements TreeSink by keeping nothing but character data.
// Every text-bearing callback funnels into one append-only buffer, so
// the output is the document's text in the exact order the
// construction algorithm emitted it. That projection is lossy but
// order-preserving: the algorithm may hang a text run under the main
// tree, a foster parent, or template contents, yet it always does so
// in final document order, and once structure is discarded those
// destinations are indistinguishable.
type TextSink struct {
	text     strings.Builder
	finished bool
}

// NewTextSink returns a sink ready for one parse.
func NewTextSink() *TextSink {
	return &TextSink{}
}

func (s *TextSink) Document() *Node {
	return newNode(KindDocument, "")
}

func (s *TextSink) ElementName(n *Node) string {
	if n.kind != KindElement {
		panic(fmt.Sprintf("sink: qualified name requested for %s node", n.kind))
	}
	return n.name
}

func (s *TextSink) CreateElement(name string, _ []Attribute, _ ElementFlags) *Node {
	return newNode(KindElement, name)
}

func (s *TextSink) CreateComment(_ string) *Node {
	return newNode(KindComment, "")
}

func (s *TextSink) CreatePI(_, _ string) *Node {
	return newNode(KindProcessingInstruction, "")
}

func (s *TextSink) AppendDoctype(_, _, _ string) {}

func (s *TextSink) Append(_ *Node, child NodeOrText) {
	s.appendText(child)
}

func (s *TextSink) AppendBasedOnParentNode(_, _ *Node, child NodeOrText) {
	// Foster-parented content differs from ordinary content only in
	// where the tree builder files it, which the text projection
	// ignores. Order is what matters, and the builder delivers this
	// callback at the point the content occurred.
	s.appendText(child)
}

func (s *TextSink) AppendBeforeSibling(_ *Node, _ NodeOrText) {
	// The construction algorithm never inserts before a sibling in
	// practice. Accepting it silently could misorder text with no way
	// to notice, so a broken upstream guarantee fails loudly instead.
	panic("sink: append before sibling is not supported")
}

func (s *TextSink) TemplateContents(_ *Node) *Node {
	// Template contents get their own container, but appends are
	// global, so template text lands in the shared buffer at its
	// point of occurrence rather than being isolated.
	return newNode(KindDocument, "")
}

func (s *TextSink) SameNode(x, y *Node) bool {
	return x == y
}

func (s *TextSink) SetQuirksMode(_ QuirksMode) {}

func (s *TextSink) AddAttrsIfMissing(_ *Node, _ []Attribute) {}

func (s *TextSink) RemoveFromParent(_ *Node) {}

func (s *TextSink) ReparentChildren(_, _ *Node) {
	// Safe to ignore: any text under the moved children already went
	// into the buffer when it was first inserted.
}

func (s *TextSink) ParseError(msg string) {
	log.Debug().Str("detail", msg).Msg("recovered html parse error")
}

func (s *TextSink) Finish() string {
	if s.finished {
		panic("sink: Finish called twice")
	}
	s.finished = true
	return s.text.String()
}

func (s *TextSink) appendText(child NodeOrText) {
	if s.finished {
		panic("sink: append after Finish")
	}
	if child.Node != nil {
		// Structural appends carry no text. Topology lives upstream.
		return
	}
	s.text.WriteString(child.Text)
}
