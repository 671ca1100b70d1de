package markdown

import (
	"bytes"

	"github.com/ledgewell/mdcheck/pkg/document"
)

// scanFrontMatter detects a YAML front matter block at the very start
// of the document: a `---` fence on the first line, closed by a `---`
// or `...` line. It returns the FrontMatter node, the offset goldmark
// parsing should resume from, and whether a block was found.
//
// An opening fence without a closer is recorded as a ParseError and
// the content is left for goldmark to parse as ordinary Markdown.
func scanFrontMatter(doc *document.Document) (*document.Node, int, bool) {
	if len(doc.Lines) < 2 || !isFence(doc.LineText(1), "---") {
		return nil, 0, false
	}

	for line := 2; line <= len(doc.Lines); line++ {
		text := doc.LineText(line)
		if !isFence(text, "---") && !isFence(text, "...") {
			continue
		}

		info := doc.Lines[line-1]
		node := &document.Node{
			Kind: document.KindFrontMatter,
			Span: document.Span{Start: 0, End: info.TextEnd},
			InnerSpan: document.Span{
				Start: doc.Lines[1].Start,
				End:   info.Start,
			},
		}
		return node, info.End, true
	}

	doc.AddError(0, "unterminated front matter")
	return nil, 0, false
}

// isFence reports whether a line consists of exactly the fence text,
// ignoring trailing whitespace.
func isFence(line []byte, fence string) bool {
	return string(bytes.TrimRight(line, " \t")) == fence
}
