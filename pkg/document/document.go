// Package document defines the structural model for parsed Markdown
// files: an immutable node tree addressing source text through byte
// spans, plus the line index that resolves spans to 1-based line and
// column positions.
package document

import "fmt"

// Document is an immutable view of one parsed Markdown file.
// It holds the raw content, the line index, the node tree, and any
// parse errors recovered while building the tree.
type Document struct {
	// Path is the file path (may be a placeholder for in-memory content).
	Path string

	// Content is the full file bytes.
	Content []byte

	// Lines is the line index over Content.
	Lines []Line

	// Root is the tree root (KindDocument).
	Root *Node

	// Errors lists recovered parse problems, in source order.
	Errors []ParseError
}

// New creates a Document for content and builds its line index.
// The node tree is attached by the parser.
func New(path string, content []byte) *Document {
	return &Document{
		Path:    path,
		Content: content,
		Lines:   buildLines(content),
	}
}

// AddError records a recovered parse problem at the given offset.
func (d *Document) AddError(offset int, message string) {
	pos := d.PositionAt(offset)
	d.Errors = append(d.Errors, ParseError{
		Line:    pos.Line,
		Column:  pos.Column,
		Message: message,
	})
}

// NodeText returns the plain text content under a node: text runs and
// code span bodies concatenated in source order, markers excluded.
func (d *Document) NodeText(n *Node) string {
	var buf []byte

	//nolint:errcheck // the callback never fails
	Walk(n, func(child *Node) error {
		switch child.Kind {
		case KindText:
			buf = append(buf, d.Slice(child.Span)...)
		case KindCodeSpan:
			buf = append(buf, d.Slice(child.InnerSpan)...)
		}
		return nil
	})
	return string(buf)
}

// ParseError describes malformed input recovered during parsing.
// Parse errors never abort a parse; they are recorded on the Document
// alongside the degraded tree.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}
