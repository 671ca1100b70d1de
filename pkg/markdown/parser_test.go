package markdown

import (
	"context"
	"strings"
	"testing"

	"github.com/ledgewell/mdcheck/pkg/config"
	"github.com/ledgewell/mdcheck/pkg/document"
)

func TestParser_New(t *testing.T) {
	tests := []struct {
		name   string
		flavor config.Flavor
		want   config.Flavor
	}{
		{"gfm", config.FlavorGFM, config.FlavorGFM},
		{"commonmark", config.FlavorCommonMark, config.FlavorCommonMark},
		{"empty defaults to gfm", config.Flavor(""), config.FlavorGFM},
		{"unknown defaults to gfm", config.Flavor("pandoc"), config.FlavorGFM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.flavor)

			if p.Flavor() != tt.want {
				t.Errorf("Flavor() = %q, want %q", p.Flavor(), tt.want)
			}
		})
	}
}

func TestParser_Parse_Basic(t *testing.T) {
	parser := NewParser(config.FlavorGFM)
	ctx := context.Background()

	content := []byte("# Hello\n\nWorld.\n")
	doc, err := parser.Parse(ctx, "test.md", content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Path != "test.md" {
		t.Errorf("Path = %q, want %q", doc.Path, "test.md")
	}

	if string(doc.Content) != string(content) {
		t.Error("content mismatch")
	}
	if &doc.Content[0] == &content[0] {
		t.Error("content should be a copy, not the same slice")
	}

	if len(doc.Lines) != 4 {
		t.Errorf("line count = %d, want 4", len(doc.Lines))
	}

	if doc.Root == nil {
		t.Fatal("expected non-nil root")
	}
	if doc.Root.Kind != document.KindDocument {
		t.Errorf("root kind = %v, want document", doc.Root.Kind)
	}

	if len(doc.Errors) != 0 {
		t.Errorf("unexpected parse errors: %v", doc.Errors)
	}

	headings := document.Collect(doc.Root, document.KindHeading)
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(headings))
	}
	paragraphs := document.Collect(doc.Root, document.KindParagraph)
	if len(paragraphs) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(paragraphs))
	}
}

func TestParser_Parse_Empty(t *testing.T) {
	parser := NewParser(config.FlavorGFM)

	doc, err := parser.Parse(context.Background(), "empty.md", nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Root == nil {
		t.Fatal("expected non-nil root for empty content")
	}
	if doc.Root.HasChildren() {
		t.Errorf("expected no children, got %d", len(doc.Root.Children))
	}
	if len(doc.Lines) != 1 {
		t.Errorf("line count = %d, want 1", len(doc.Lines))
	}
}

func TestParser_Parse_ContextCancelled(t *testing.T) {
	parser := NewParser(config.FlavorGFM)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parser.Parse(ctx, "test.md", []byte("# Hello"))
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !strings.Contains(err.Error(), "parse cancelled") {
		t.Errorf("error = %q, want parse cancelled", err)
	}
}

func TestParser_Parse_BinaryContent(t *testing.T) {
	parser := NewParser(config.FlavorGFM)

	content := []byte("# Title\x00binary")
	doc, err := parser.Parse(context.Background(), "bin.md", content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(doc.Errors) != 1 {
		t.Fatalf("expected 1 parse error, got %d", len(doc.Errors))
	}
	if !strings.Contains(doc.Errors[0].Message, "binary content") {
		t.Errorf("error message = %q", doc.Errors[0].Message)
	}

	// Binary files degrade to a single text node covering everything.
	if len(doc.Root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(doc.Root.Children))
	}
	child := doc.Root.Children[0]
	if child.Kind != document.KindText {
		t.Errorf("child kind = %v, want text", child.Kind)
	}
	want := document.Span{Start: 0, End: len(content)}
	if child.Span != want {
		t.Errorf("child span = %+v, want %+v", child.Span, want)
	}
}

func TestParser_Parse_InvalidUTF8(t *testing.T) {
	parser := NewParser(config.FlavorGFM)

	content := []byte("# Title\n\nbad \xff byte\n")
	doc, err := parser.Parse(context.Background(), "bad.md", content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(doc.Errors) != 1 {
		t.Fatalf("expected 1 parse error, got %d", len(doc.Errors))
	}
	if !strings.Contains(doc.Errors[0].Message, "invalid UTF-8") {
		t.Errorf("error message = %q", doc.Errors[0].Message)
	}
	if doc.Errors[0].Line != 3 {
		t.Errorf("error line = %d, want 3", doc.Errors[0].Line)
	}

	// Parsing continues despite the encoding problem.
	if len(document.Collect(doc.Root, document.KindHeading)) != 1 {
		t.Error("expected heading to survive invalid UTF-8")
	}
}

func TestParser_Parse_FrontMatter(t *testing.T) {
	parser := NewParser(config.FlavorGFM)

	content := []byte("---\ntitle: Test\n---\n\n# Hi\n")
	doc, err := parser.Parse(context.Background(), "fm.md", content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(doc.Root.Children) == 0 {
		t.Fatal("expected children")
	}

	fm := doc.Root.Children[0]
	if fm.Kind != document.KindFrontMatter {
		t.Fatalf("first child kind = %v, want front-matter", fm.Kind)
	}
	if got := string(content[fm.Span.Start:fm.Span.End]); got != "---\ntitle: Test\n---" {
		t.Errorf("front matter span text = %q", got)
	}
	if got := string(content[fm.InnerSpan.Start:fm.InnerSpan.End]); got != "title: Test\n" {
		t.Errorf("front matter inner text = %q", got)
	}

	// Body spans are rebased onto the full document.
	headings := document.Collect(doc.Root, document.KindHeading)
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(headings))
	}
	h := headings[0]
	if got := string(content[h.Span.Start:h.Span.End]); got != "# Hi" {
		t.Errorf("heading span text = %q", got)
	}
	start, _ := doc.SpanPositions(h.Span)
	if start.Line != 5 || start.Column != 1 {
		t.Errorf("heading position = %+v, want line 5 col 1", start)
	}
}

func TestParser_Parse_FrontMatterDotClose(t *testing.T) {
	parser := NewParser(config.FlavorGFM)

	content := []byte("---\na: 1\n...\nBody.\n")
	doc, err := parser.Parse(context.Background(), "fm.md", content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	fm := doc.Root.Children[0]
	if fm.Kind != document.KindFrontMatter {
		t.Fatalf("first child kind = %v, want front-matter", fm.Kind)
	}
	if got := string(content[fm.Span.Start:fm.Span.End]); got != "---\na: 1\n..." {
		t.Errorf("front matter span text = %q", got)
	}

	paragraphs := document.Collect(doc.Root, document.KindParagraph)
	if len(paragraphs) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(paragraphs))
	}
	if got := string(content[paragraphs[0].Span.Start:paragraphs[0].Span.End]); got != "Body." {
		t.Errorf("paragraph span text = %q", got)
	}
}

func TestParser_Parse_FrontMatterUnterminated(t *testing.T) {
	parser := NewParser(config.FlavorGFM)

	content := []byte("---\ntitle: Test\n")
	doc, err := parser.Parse(context.Background(), "fm.md", content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(doc.Errors) != 1 {
		t.Fatalf("expected 1 parse error, got %d", len(doc.Errors))
	}
	if !strings.Contains(doc.Errors[0].Message, "unterminated front matter") {
		t.Errorf("error message = %q", doc.Errors[0].Message)
	}

	// The content is parsed as regular Markdown instead.
	if len(document.Collect(doc.Root, document.KindFrontMatter)) != 0 {
		t.Error("expected no front matter node")
	}
	if len(document.Collect(doc.Root, document.KindThematicBreak)) != 1 {
		t.Error("expected opening fence to parse as thematic break")
	}
}

func TestParser_Parse_NotFrontMatter(t *testing.T) {
	parser := NewParser(config.FlavorGFM)

	// A delimiter later in the file is not front matter.
	content := []byte("# Title\n\n---\n")
	doc, err := parser.Parse(context.Background(), "doc.md", content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(document.Collect(doc.Root, document.KindFrontMatter)) != 0 {
		t.Error("expected no front matter node")
	}
	if len(doc.Errors) != 0 {
		t.Errorf("unexpected parse errors: %v", doc.Errors)
	}
}

func TestParser_Parse_GFMConstructs(t *testing.T) {
	parser := NewParser(config.FlavorGFM)

	content := []byte(`# Features

- [x] Task one
- [ ] Task two

| h1 | h2 |
| -- | -- |
| a  | b  |

~~old~~ and https://example.com
`)

	doc, err := parser.Parse(context.Background(), "gfm.md", content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	counts := map[document.NodeKind]int{
		document.KindTaskCheckbox:  2,
		document.KindTable:         1,
		document.KindTableRow:      2,
		document.KindTableCell:     4,
		document.KindStrikethrough: 1,
		document.KindAutoLink:      1,
	}
	for kind, want := range counts {
		if got := len(document.Collect(doc.Root, kind)); got != want {
			t.Errorf("%v count = %d, want %d", kind, got, want)
		}
	}
}

func TestParser_Parse_CRLF(t *testing.T) {
	parser := NewParser(config.FlavorGFM)

	content := []byte("# Title\r\n\r\nBody text.\r\n")
	doc, err := parser.Parse(context.Background(), "crlf.md", content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	paragraphs := document.Collect(doc.Root, document.KindParagraph)
	if len(paragraphs) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(paragraphs))
	}
	start, _ := doc.SpanPositions(paragraphs[0].Span)
	if start.Line != 3 || start.Column != 1 {
		t.Errorf("paragraph position = %+v, want line 3 col 1", start)
	}
}

func TestParser_Parse_Deterministic(t *testing.T) {
	parser := NewParser(config.FlavorGFM)
	ctx := context.Background()

	content := []byte("# Hello\n\nSome *text* with [a link](https://example.com).\n")

	var spans [][]document.Span
	for range 3 {
		doc, err := parser.Parse(ctx, "test.md", content)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}

		var collected []document.Span
		//nolint:errcheck // the callback never fails
		document.Walk(doc.Root, func(n *document.Node) error {
			collected = append(collected, n.Span)
			return nil
		})
		spans = append(spans, collected)
	}

	for i := 1; i < len(spans); i++ {
		if len(spans[i]) != len(spans[0]) {
			t.Fatalf("run %d node count = %d, want %d", i, len(spans[i]), len(spans[0]))
		}
		for j := range spans[i] {
			if spans[i][j] != spans[0][j] {
				t.Errorf("run %d span[%d] = %+v, want %+v", i, j, spans[i][j], spans[0][j])
			}
		}
	}
}

func TestParser_Parse_MutatingInputLeavesDocumentIntact(t *testing.T) {
	parser := NewParser(config.FlavorGFM)

	content := []byte("# Stable\n")
	doc, err := parser.Parse(context.Background(), "test.md", content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	content[2] = 'X'

	if string(doc.Content) != "# Stable\n" {
		t.Errorf("document content changed: %q", doc.Content)
	}
}
