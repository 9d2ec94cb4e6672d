package sink

import (
	"strings"
	"testing"
)

func TestTextSink_AppendsTextInCallOrder(t *testing.T) {
	s := NewTextSink()
	doc := s.Document()
	div := s.CreateElement("div", nil, ElementFlags{})

	s.Append(doc, AppendText("Hello"))
	s.Append(div, AppendText(" World"))
	s.AppendBasedOnParentNode(div, doc, AppendText("!"))

	if got := s.Finish(); got != "Hello World!" {
		t.Fatalf("expected %q, got %q", "Hello World!", got)
	}
}

func TestTextSink_NodeAppendsCarryNoText(t *testing.T) {
	s := NewTextSink()
	doc := s.Document()

	s.Append(doc, AppendText("a"))
	s.Append(doc, AppendNode(s.CreateElement("p", nil, ElementFlags{})))
	s.Append(doc, AppendNode(s.CreateComment("hidden")))
	s.Append(doc, AppendNode(s.CreatePI("php", "echo 1;")))
	s.Append(doc, AppendText("b"))

	if got := s.Finish(); got != "ab" {
		t.Fatalf("expected %q, got %q", "ab", got)
	}
}

func TestTextSink_StructuralCallbacksDoNotDisturbText(t *testing.T) {
	s := NewTextSink()
	doc := s.Document()
	from := s.CreateElement("b", nil, ElementFlags{})
	to := s.CreateElement("p", nil, ElementFlags{})

	s.Append(from, AppendText("one "))
	s.SetQuirksMode(Quirks)
	s.AddAttrsIfMissing(to, []Attribute{{Key: "class", Val: "x"}})
	s.RemoveFromParent(from)
	s.ReparentChildren(from, to)
	s.AppendDoctype("html", "", "")
	s.ParseError("stray end tag")
	s.Append(doc, AppendText("two"))

	if got := s.Finish(); got != "one two" {
		t.Fatalf("expected %q, got %q", "one two", got)
	}
}

func TestTextSink_ElementName(t *testing.T) {
	s := NewTextSink()
	el := s.CreateElement("td", []Attribute{{Key: "colspan", Val: "2"}}, ElementFlags{})
	if got := s.ElementName(el); got != "td" {
		t.Fatalf("expected element name %q, got %q", "td", got)
	}
}

func TestTextSink_ElementNamePanicsOffElement(t *testing.T) {
	s := NewTextSink()
	for _, n := range []*Node{s.Document(), s.CreateComment("c"), s.CreatePI("t", "d")} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic asking %s node for a name", n.Kind())
				}
			}()
			s.ElementName(n)
		}()
	}
}

func TestTextSink_AppendBeforeSiblingPanics(t *testing.T) {
	s := NewTextSink()
	sib := s.CreateElement("li", nil, ElementFlags{})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic: append before sibling is outside the builder's contract")
		}
	}()
	s.AppendBeforeSibling(sib, AppendText("late"))
}

func TestTextSink_SameNodeIsReferenceIdentity(t *testing.T) {
	s := NewTextSink()
	a := s.CreateElement("div", nil, ElementFlags{})
	b := s.CreateElement("div", nil, ElementFlags{})
	if !s.SameNode(a, a) {
		t.Fatalf("a node must equal itself")
	}
	if s.SameNode(a, b) {
		t.Fatalf("structurally equal elements are still distinct nodes")
	}
}

func TestTextSink_TemplateContentsIsFreshDocument(t *testing.T) {
	s := NewTextSink()
	tmpl := s.CreateElement("template", nil, ElementFlags{Template: true})
	c1 := s.TemplateContents(tmpl)
	c2 := s.TemplateContents(tmpl)
	if c1.Kind() != KindDocument {
		t.Fatalf("expected document container, got %s", c1.Kind())
	}
	if s.SameNode(c1, c2) {
		t.Fatalf("each request must mint a fresh container")
	}
	s.Append(c1, AppendText("inside"))
	if got := s.Finish(); got != "inside" {
		t.Fatalf("template text must reach the shared buffer, got %q", got)
	}
}

func TestTextSink_FinishIsOneShot(t *testing.T) {
	s := NewTextSink()
	s.Append(s.Document(), AppendText("x"))
	if got := s.Finish(); got != "x" {
		t.Fatalf("expected %q, got %q", "x", got)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on second Finish")
		}
	}()
	s.Finish()
}

func TestTextSink_AppendAfterFinishPanics(t *testing.T) {
	s := NewTextSink()
	doc := s.Document()
	_ = s.Finish()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic appending after Finish")
		}
	}()
	s.Append(doc, AppendText("late"))
}

func TestTextSink_LargeAccumulation(t *testing.T) {
	s := NewTextSink()
	doc := s.Document()
	chunk := "lorem ipsum "
	for i := 0; i < 10000; i++ {
		s.Append(doc, AppendText(chunk))
	}
	got := s.Finish()
	if len(got) != len(chunk)*10000 {
		t.Fatalf("expected %d bytes, got %d", len(chunk)*10000, len(got))
	}
	if !strings.HasPrefix(got, chunk) || !strings.HasSuffix(got, chunk) {
		t.Fatalf("buffer corrupted at the edges")
	}
}
