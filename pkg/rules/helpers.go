package rules

import (
	"bytes"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/document"
)

// lineSet returns the set of 1-based line numbers covered by nodes of
// the given kinds.
func lineSet(rc *check.RuleContext, kinds ...document.NodeKind) map[int]bool {
	set := make(map[int]bool)
	for _, kind := range kinds {
		for _, n := range rc.Nodes(kind) {
			if n.Span.IsEmpty() {
				continue
			}
			start := rc.Doc.PositionAt(n.Span.Start).Line
			end := rc.Doc.PositionAt(n.Span.End - 1).Line
			for line := start; line <= end; line++ {
				set[line] = true
			}
		}
	}
	return set
}

// isBlankLine reports whether a 1-based line holds only whitespace.
// The terminator-less empty line a trailing newline produces does not
// count: it is end-of-file, not a line an author wrote.
func isBlankLine(doc *document.Document, line int) bool {
	if line == doc.LineCount() && doc.LineSpan(line).IsEmpty() {
		return false
	}
	return len(bytes.TrimSpace(doc.LineText(line))) == 0
}

// lineContainsURL reports whether a line carries an absolute URL.
func lineContainsURL(line []byte) bool {
	return bytes.Contains(line, []byte("http://")) ||
		bytes.Contains(line, []byte("https://"))
}

// itemOrdinal parses the number of an ordered list item from its
// marker. Returns -1 when the item does not start with digits.
func itemOrdinal(doc *document.Document, item *document.Node) (int, document.Span) {
	src := doc.Slice(item.Span)
	i := 0
	for i < len(src) && src[i] >= '0' && src[i] <= '9' {
		i++
	}
	if i == 0 {
		return -1, document.Span{}
	}
	n := 0
	for _, b := range src[:i] {
		n = n*10 + int(b-'0')
	}
	return n, document.Span{Start: item.Span.Start, End: item.Span.Start + i}
}

// htmlTagName extracts the element name from the start of an HTML
// fragment. It returns "" for comments, declarations, and processing
// instructions, and reports whether the tag is a closing tag.
func htmlTagName(src []byte) (name string, closing bool) {
	i := bytes.IndexByte(src, '<')
	if i < 0 || i+1 >= len(src) {
		return "", false
	}
	i++
	switch src[i] {
	case '!', '?':
		return "", false
	case '/':
		closing = true
		i++
	}

	start := i
	for i < len(src) {
		b := src[i]
		if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
			(b >= '0' && b <= '9' && i > start) || (b == '-' && i > start) {
			i++
			continue
		}
		break
	}
	if i == start {
		return "", false
	}
	return string(bytes.ToLower(src[start:i])), closing
}
