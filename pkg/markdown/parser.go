// Package markdown provides the goldmark-backed parser that turns raw
// Markdown bytes into document trees with byte-accurate spans.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/ledgewell/mdcheck/pkg/config"
	"github.com/ledgewell/mdcheck/pkg/document"
)

// Parser converts Markdown content into document.Document trees.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	flavor config.Flavor
	md     goldmark.Markdown
}

// NewParser creates a parser for the given flavor.
// Supported flavors are commonmark and gfm; anything else falls back
// to gfm.
func NewParser(flavor config.Flavor) *Parser {
	f := flavorOrDefault(flavor)
	return &Parser{
		flavor: f,
		md:     newGoldmarkInstance(f),
	}
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() config.Flavor {
	return p.flavor
}

// Parse converts raw Markdown bytes into a document tree.
//
// Malformed content never fails the parse: degraded constructs come
// back as plain nodes and the problems are recorded as ParseErrors on
// the Document. The only error Parse returns is context cancellation.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	doc := document.New(path, copyContent(content))

	root := &document.Node{
		Kind: document.KindDocument,
		Span: document.Span{Start: 0, End: len(doc.Content)},
	}
	doc.Root = root

	// Binary content degrades to a single text node covering the file.
	if idx := bytes.IndexByte(doc.Content, 0); idx >= 0 {
		root.AppendChild(&document.Node{Kind: document.KindText, Span: root.Span})
		doc.AddError(idx, "binary content")
		return doc, nil
	}

	if idx := firstInvalidUTF8(doc.Content); idx >= 0 {
		// Byte positions stay exact, so the parse continues.
		doc.AddError(idx, "invalid UTF-8")
	}

	// Front matter is fenced off before goldmark sees the content.
	base := 0
	if fm, parseFrom, ok := scanFrontMatter(doc); ok {
		root.AppendChild(fm)
		base = parseFrom
	}

	source := doc.Content[base:]
	reader := text.NewReader(source)
	gmRoot := p.md.Parser().Parse(reader, gparser.WithContext(gparser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	body := newMapper(source).mapDocument(gmRoot)
	if base > 0 {
		shiftSpans(body, base)
	}
	for _, child := range body.Children {
		root.AppendChild(child)
	}

	return doc, nil
}

// flavorOrDefault returns the flavor if valid, otherwise gfm.
func flavorOrDefault(flavor config.Flavor) config.Flavor {
	if flavor.IsValid() {
		return flavor
	}
	return config.FlavorGFM
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor config.Flavor) goldmark.Markdown {
	var opts []goldmark.Option

	if flavor == config.FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}

	return goldmark.New(opts...)
}

// copyContent copies the content slice to guarantee immutability.
func copyContent(content []byte) []byte {
	if content == nil {
		return []byte{}
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}

// firstInvalidUTF8 returns the offset of the first invalid UTF-8
// sequence, or -1 if the content is valid.
func firstInvalidUTF8(content []byte) int {
	if utf8.Valid(content) {
		return -1
	}
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// shiftSpans moves every span in the tree forward by base. The mapper
// works in coordinates relative to the goldmark slice; this rebases
// them onto the full document content.
func shiftSpans(root *document.Node, base int) {
	//nolint:errcheck // the callback never fails
	document.Walk(root, func(n *document.Node) error {
		n.Span.Start += base
		n.Span.End += base
		if !n.InnerSpan.IsEmpty() {
			n.InnerSpan.Start += base
			n.InnerSpan.End += base
		}
		return nil
	})
}
