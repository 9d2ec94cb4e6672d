// Package dissolve extracts the visible text content from HTML5
// markup, discarding tags, attributes, comments and doctypes while
// keeping text in the order the document would render it.
//
//	out := dissolve.StripTags("<html>Hello World!</html>")
//	// out == "Hello World!"
//
// Input is tolerated the way browsers tolerate it: unclosed tags,
// misnested elements and table content in the wrong place all degrade
// to a best-effort text result rather than an error.
package dissolve

import (
	"bytes"
	"strings"

	"github.com/hyperifyio/dissolve/internal/sink"
	"github.com/hyperifyio/dissolve/internal/treebuild"
)

// StripTags parses input as one complete HTML5 document and returns
// its text content in document order. Malformed markup never causes a
// failure; the result is always the best-effort text of the page.
func StripTags(input string) string {
	s := sink.NewTextSink()
	// In-memory input cannot fail to read, and malformed markup is
	// recovered rather than reported, so Run has no error to return
	// here.
	_ = treebuild.Run(s, strings.NewReader(input))
	return s.Finish()
}

// StripTagsBytes is StripTags for a byte slice.
func StripTagsBytes(input []byte) string {
	s := sink.NewTextSink()
	_ = treebuild.Run(s, bytes.NewReader(input))
	return s.Finish()
}
