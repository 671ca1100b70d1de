package xref

import (
	"context"
	"strings"
	"testing"

	"github.com/ledgewell/mdcheck/pkg/config"
	"github.com/ledgewell/mdcheck/pkg/document"
	"github.com/ledgewell/mdcheck/pkg/markdown"
)

func parseDoc(t *testing.T, input string) *document.Document {
	t.Helper()

	parser := markdown.NewParser(config.FlavorGFM)
	doc, err := parser.Parse(context.Background(), "test.md", []byte(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return doc
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "foo", "foo"},
		{"uppercase", "FOO", "foo"},
		{"mixed case", "FoO BaR", "foo bar"},
		{"extra spaces", "foo  bar", "foo bar"},
		{"leading spaces", "  foo", "foo"},
		{"trailing spaces", "foo  ", "foo"},
		{"tabs", "foo\tbar", "foo bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLabel(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsLineReference(t *testing.T) {
	tests := []struct {
		id       string
		expected bool
	}{
		{"L20", true},
		{"L1", true},
		{"L19C5", true},
		{"L19C5-L21C11", true},
		{"L19-L21", true},
		{"l20", true},
		{"heading", false},
		{"L", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := isLineReference(tt.id)
			if got != tt.expected {
				t.Errorf("isLineReference(%q) = %v, want %v", tt.id, got, tt.expected)
			}
		})
	}
}

func TestCollect_HeadingAnchors(t *testing.T) {
	input := "# Hello World\n\n## Hello World\n\n### The `Parse` API\n"
	ix := Collect(parseDoc(t, input))

	for _, id := range []string{"hello-world", "hello-world-1", "the-parse-api"} {
		if !ix.HasAnchor(id, StyleGitHub) {
			t.Errorf("missing github anchor %q", id)
		}
	}
	if ix.HasAnchor("hello-world-2", StyleGitHub) {
		t.Error("unexpected anchor hello-world-2")
	}

	// ASCII headings produce identical ids under the plain style.
	if !ix.HasAnchor("hello-world", StylePlain) {
		t.Error("missing plain anchor hello-world")
	}
}

func TestCollect_HTMLAnchors(t *testing.T) {
	input := "Jump to <a id=\"custom-id\"></a> or <span name='named'></span> markers.\n"
	ix := Collect(parseDoc(t, input))

	// Explicit HTML anchors are valid under either style.
	for _, style := range []AnchorStyle{StyleGitHub, StylePlain} {
		if !ix.HasAnchor("custom-id", style) {
			t.Errorf("missing %s anchor custom-id", style)
		}
		if !ix.HasAnchor("named", style) {
			t.Errorf("missing %s anchor named", style)
		}
	}
}

func TestCollect_Definitions(t *testing.T) {
	input := "[ref]: https://example.com \"Title\"\n" +
		"[single]: /a 'Quoted'\n" +
		"[paren]: /b (Parens)\n" +
		"[dup]: /first\n" +
		"[dup]: /second\n"
	ix := Collect(parseDoc(t, input))

	defs := ix.Definitions()
	if len(defs) != 5 {
		t.Fatalf("got %d definitions, want 5", len(defs))
	}

	ref := ix.Lookup("ref")
	if ref == nil {
		t.Fatal("Lookup(ref) = nil")
	}
	if ref.Destination != "https://example.com" {
		t.Errorf("Destination = %q", ref.Destination)
	}
	if ref.Title != "Title" {
		t.Errorf("Title = %q", ref.Title)
	}
	if ref.Line != 1 {
		t.Errorf("Line = %d, want 1", ref.Line)
	}

	// Label matching is case-insensitive.
	if ix.Lookup("REF") != ref {
		t.Error("Lookup should normalize labels")
	}

	if got := ix.Lookup("single").Title; got != "Quoted" {
		t.Errorf("single title = %q", got)
	}
	if got := ix.Lookup("paren").Title; got != "Parens" {
		t.Errorf("paren title = %q", got)
	}

	// The second dup definition is marked, the first wins.
	if ix.Lookup("dup").Destination != "/first" {
		t.Errorf("dup resolves to %q, want /first", ix.Lookup("dup").Destination)
	}
	if !defs[4].Duplicate {
		t.Error("second dup definition should be marked Duplicate")
	}
	if defs[3].Duplicate {
		t.Error("first dup definition should not be marked Duplicate")
	}
}

func TestCollect_Usages(t *testing.T) {
	input := "See [docs][ref] and [other][].\n\n[ref]: /x\n[other]: /y\n"
	ix := Collect(parseDoc(t, input))

	usages := ix.Usages()
	if len(usages) != 2 {
		t.Fatalf("got %d usages, want 2", len(usages))
	}

	if usages[0].Label != "ref" || usages[0].Collapsed {
		t.Errorf("usage[0] = %+v, want full form with label ref", usages[0])
	}
	if usages[1].Label != "other" || !usages[1].Collapsed {
		t.Errorf("usage[1] = %+v, want collapsed form with label other", usages[1])
	}

	if undef := ix.UndefinedReferences(); len(undef) != 0 {
		t.Errorf("expected no undefined references, got %d", len(undef))
	}
	if unused := ix.UnusedDefinitions(); len(unused) != 0 {
		t.Errorf("expected no unused definitions, got %d", len(unused))
	}
}

func TestCollect_UndefinedReference(t *testing.T) {
	input := "See [docs][missing] here.\n"
	ix := Collect(parseDoc(t, input))

	undef := ix.UndefinedReferences()
	if len(undef) != 1 {
		t.Fatalf("got %d undefined references, want 1", len(undef))
	}
	if undef[0].Label != "missing" {
		t.Errorf("Label = %q, want missing", undef[0].Label)
	}
	if undef[0].Line != 1 {
		t.Errorf("Line = %d, want 1", undef[0].Line)
	}

	wantStart := strings.Index(input, "[docs]")
	wantEnd := wantStart + len("[docs][missing]")
	if undef[0].Span.Start != wantStart || undef[0].Span.End != wantEnd {
		t.Errorf("Span = %+v, want {%d %d}", undef[0].Span, wantStart, wantEnd)
	}
}

func TestCollect_UnusedDefinition(t *testing.T) {
	input := "Some text.\n\n[never]: /x\n"
	ix := Collect(parseDoc(t, input))

	unused := ix.UnusedDefinitions()
	if len(unused) != 1 {
		t.Fatalf("got %d unused definitions, want 1", len(unused))
	}
	if unused[0].Label != "never" {
		t.Errorf("Label = %q, want never", unused[0].Label)
	}
	if unused[0].Line != 3 {
		t.Errorf("Line = %d, want 3", unused[0].Line)
	}
}

func TestCollect_ShortcutUsageCountsDefinition(t *testing.T) {
	// The parser resolves [ref] into a link node; the raw-line scan
	// alone would miss that usage.
	input := "See [ref].\n\n[ref]: /x\n"
	ix := Collect(parseDoc(t, input))

	if unused := ix.UnusedDefinitions(); len(unused) != 0 {
		t.Errorf("shortcut usage should count, got %d unused", len(unused))
	}
	if usages := ix.Usages(); len(usages) != 0 {
		t.Errorf("shortcut links are not collected as usages, got %d", len(usages))
	}
}

func TestCollect_CodeIsMasked(t *testing.T) {
	input := "Use `[a][b]` inline.\n\n```\n[ref]: /x\n[c][d]\n```\n"
	ix := Collect(parseDoc(t, input))

	if len(ix.Usages()) != 0 {
		t.Errorf("expected no usages from code, got %d", len(ix.Usages()))
	}
	if len(ix.Definitions()) != 0 {
		t.Errorf("expected no definitions from code, got %d", len(ix.Definitions()))
	}
}

func TestCollect_Nil(t *testing.T) {
	ix := Collect(nil)

	if ix.HasAnchor("anything", StyleGitHub) {
		t.Error("empty index should have no anchors")
	}
	if len(ix.Definitions()) != 0 || len(ix.Usages()) != 0 {
		t.Error("empty index should have no definitions or usages")
	}
}

func TestIndex_ValidFragment(t *testing.T) {
	ix := Collect(parseDoc(t, "# Heading One\n\nJump to <a id=\"custom-id\"></a>.\n"))

	tests := []struct {
		name     string
		fragment string
		expected bool
	}{
		{"empty fragment", "", true},
		{"just hash", "#", true},
		{"special top", "#top", true},
		{"special TOP", "#TOP", true},
		{"github line ref", "#L20", true},
		{"line range", "#L4C2-L8C10", true},
		{"valid anchor", "#heading-one", true},
		{"valid html anchor", "#custom-id", true},
		{"invalid anchor", "#nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ix.ValidFragment(tt.fragment, StyleGitHub)
			if got != tt.expected {
				t.Errorf("ValidFragment(%q) = %v, want %v", tt.fragment, got, tt.expected)
			}
		})
	}
}
