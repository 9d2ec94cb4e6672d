// Package treebuild drives a sink.TreeSink from the WHATWG tokenizer
// in golang.org/x/net/html.
//
// x/net/html offers no hook into its own tree construction: html.Parse
// materializes a full DOM, and walking that DOM afterwards replays
// foster-parented table content out of order, because the DOM records
// where content was relocated to rather than where it occurred. The
// tokenizer, by contrast, delivers character data in markup order,
// which is exactly the order a conforming tree builder hands its sink
// the corresponding append callbacks. So this package adapts the
// tokenizer: it owns the open-insertion-point stack, implies missing
// html/body elements, routes table-context text through the
// foster-parenting callback, and reports recoverable errors, while
// structural decisions the sink discards anyway are left to the
// tokenizer's recovery rules.
package treebuild

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/hyperifyio/dissolve/internal/sink"
)

const whitespace = " \t\n\f\r"

// voidElements never hold content and are never pushed as insertion
// points.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// headElements may appear before the body without implying it.
var headElements = map[string]bool{
	"html": true, "head": true, "base": true, "basefont": true,
	"bgsound": true, "link": true, "meta": true, "title": true,
	"noscript": true, "noframes": true, "style": true, "script": true,
	"template": true,
}

// fosterContexts are insertion points where non-whitespace character
// data gets foster-parented out of the table.
var fosterContexts = map[string]bool{
	"table": true, "tbody": true, "tfoot": true, "thead": true, "tr": true,
}

// openNode is one open insertion point. The document root and
// template-contents containers are not elements and carry their name
// locally; element names are the sink's to answer.
type openNode struct {
	node    *sink.Node
	element bool
	name    string
}

type runner struct {
	sink       sink.TreeSink
	stack      []openNode
	htmlElem   *sink.Node
	bodyElem   *sink.Node
	headClosed bool
}

// Run tokenizes one complete HTML document from r and feeds the
// resulting construction callbacks to ts in document order. Malformed
// markup is recovered, not returned: the only possible error is an
// I/O failure from r.
func Run(ts sink.TreeSink, r io.Reader) error {
	doc := ts.Document()
	run := &runner{sink: ts, stack: []openNode{{node: doc}}}
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return err
			}
			return nil
		case html.TextToken:
			run.text(string(z.Text()))
		case html.StartTagToken:
			name, attrs := tagAndAttrs(z)
			run.startTag(name, attrs, false)
		case html.SelfClosingTagToken:
			name, attrs := tagAndAttrs(z)
			run.startTag(name, attrs, true)
		case html.EndTagToken:
			name, _ := z.TagName()
			run.endTag(string(name))
		case html.CommentToken:
			run.comment(string(z.Text()))
		case html.DoctypeToken:
			run.doctype(string(z.Text()))
		}
	}
}

func tagAndAttrs(z *html.Tokenizer) (string, []sink.Attribute) {
	name, hasAttr := z.TagName()
	var attrs []sink.Attribute
	for hasAttr {
		key, val, more := z.TagAttr()
		attrs = append(attrs, sink.Attribute{Key: string(key), Val: string(val)})
		hasAttr = more
	}
	return string(name), attrs
}

func (r *runner) top() openNode {
	return r.stack[len(r.stack)-1]
}

func (r *runner) pushElement(n *sink.Node) {
	r.stack = append(r.stack, openNode{node: n, element: true})
}

// entryName resolves an insertion point's name, asking the sink for
// element names the way the construction algorithm does.
func (r *runner) entryName(e openNode) string {
	if e.element {
		return r.sink.ElementName(e.node)
	}
	return e.name
}

// atRootLevel reports whether the insertion point is still the
// document or the html element, i.e. no body content has begun.
func (r *runner) atRootLevel() bool {
	if len(r.stack) == 1 {
		return true
	}
	top := r.top()
	return top.element && r.sink.SameNode(top.node, r.htmlElem)
}

func (r *runner) ensureHTML(attrs []sink.Attribute) {
	if r.htmlElem != nil {
		return
	}
	r.htmlElem = r.sink.CreateElement("html", attrs, sink.ElementFlags{})
	r.sink.Append(r.stack[0].node, sink.AppendNode(r.htmlElem))
	r.pushElement(r.htmlElem)
}

func (r *runner) ensureBody(attrs []sink.Attribute) {
	if r.bodyElem != nil {
		return
	}
	// An open head closes implicitly when body content begins.
	if len(r.stack) > 1 && r.entryName(r.top()) == "head" {
		r.stack = r.stack[:len(r.stack)-1]
		r.headClosed = true
	}
	r.ensureHTML(nil)
	r.bodyElem = r.sink.CreateElement("body", attrs, sink.ElementFlags{})
	r.sink.Append(r.htmlElem, sink.AppendNode(r.bodyElem))
	r.pushElement(r.bodyElem)
}

func (r *runner) text(s string) {
	if s == "" {
		return
	}
	if strings.Trim(s, whitespace) == "" {
		// Inter-element whitespace before the head closes is ignored
		// by the construction algorithm; between head and body, and
		// inside head or body, it is ordinary character data.
		if r.bodyElem == nil && !r.headClosed && r.atRootLevel() {
			return
		}
		r.sink.Append(r.top().node, sink.AppendText(s))
		return
	}
	if r.atRootLevel() {
		r.ensureBody(nil)
	}
	top := r.top()
	if fosterContexts[r.entryName(top)] {
		// Character data here is relocated by the tree builder. Hand
		// it over through the foster-parenting callback, anchored on
		// the table element and whatever holds the table.
		anchor, prev := top.node, r.stack[len(r.stack)-2].node
		for i := len(r.stack) - 1; i > 0; i-- {
			if r.stack[i].element && r.sink.ElementName(r.stack[i].node) == "table" {
				anchor, prev = r.stack[i].node, r.stack[i-1].node
				break
			}
		}
		r.sink.AppendBasedOnParentNode(anchor, prev, sink.AppendText(s))
		return
	}
	r.sink.Append(top.node, sink.AppendText(s))
}

func (r *runner) startTag(name string, attrs []sink.Attribute, selfClosing bool) {
	switch name {
	case "html":
		if r.htmlElem != nil {
			r.sink.ParseError("duplicate html start tag")
			r.sink.AddAttrsIfMissing(r.htmlElem, attrs)
			return
		}
		r.ensureHTML(attrs)
		return
	case "body":
		if r.bodyElem != nil {
			r.sink.ParseError("duplicate body start tag")
			r.sink.AddAttrsIfMissing(r.bodyElem, attrs)
			return
		}
		r.ensureBody(attrs)
		return
	case "head":
		r.ensureHTML(nil)
	default:
		if !headElements[name] {
			r.ensureBody(nil)
		}
	}
	elem := r.sink.CreateElement(name, attrs, sink.ElementFlags{Template: name == "template"})
	r.sink.Append(r.top().node, sink.AppendNode(elem))
	if selfClosing || voidElements[name] {
		return
	}
	if name == "template" {
		// Template contents live in their own container; make it the
		// insertion point until the matching end tag.
		contents := r.sink.TemplateContents(elem)
		r.stack = append(r.stack, openNode{node: contents, name: "template"})
		return
	}
	r.pushElement(elem)
}

func (r *runner) endTag(name string) {
	for i := len(r.stack) - 1; i > 0; i-- {
		entry := r.stack[i]
		if r.entryName(entry) != name {
			continue
		}
		// html and body stay open until end of file; content after
		// their end tags still belongs to the body.
		if r.sink.SameNode(entry.node, r.htmlElem) || r.sink.SameNode(entry.node, r.bodyElem) {
			return
		}
		if name == "head" {
			r.headClosed = true
		}
		r.stack = r.stack[:i]
		return
	}
	r.sink.ParseError("unmatched end tag: " + name)
}

func (r *runner) comment(text string) {
	if target, rest, ok := cutPI(text); ok {
		pi := r.sink.CreatePI(target, rest)
		r.sink.Append(r.top().node, sink.AppendNode(pi))
		return
	}
	c := r.sink.CreateComment(text)
	r.sink.Append(r.top().node, sink.AppendNode(c))
}

// cutPI recognizes bogus comments tokenized from <?target data?>
// markup and splits them into a processing-instruction payload.
func cutPI(text string) (target, data string, ok bool) {
	if !strings.HasPrefix(text, "?") {
		return "", "", false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(text, "?"), "?")
	target, data, _ = strings.Cut(body, " ")
	return target, data, true
}

func (r *runner) doctype(text string) {
	r.sink.AppendDoctype(text, "", "")
	// Anything beyond a bare "html" doctype is a legacy declaration.
	// Full limited-quirks public identifier matching belongs to the
	// construction algorithm proper; the sink ignores the mode either
	// way, so flagging every legacy form as quirks is enough to honor
	// the callback.
	if !strings.EqualFold(strings.Trim(text, whitespace), "html") {
		r.sink.SetQuirksMode(sink.Quirks)
	}
}
