package check_test

import (
	"context"
	"strings"
	"testing"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/config"
	"github.com/ledgewell/mdcheck/pkg/document"
	"github.com/ledgewell/mdcheck/pkg/markdown"
)

func parseTestDoc(t *testing.T, input string) *document.Document {
	t.Helper()

	parser := markdown.NewParser(config.FlavorGFM)
	doc, err := parser.Parse(context.Background(), "test.md", []byte(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return doc
}

func TestRuleContext_Cancelled(t *testing.T) {
	t.Parallel()

	doc := parseTestDoc(t, "# Title\n")

	t.Run("not cancelled", func(t *testing.T) {
		t.Parallel()

		rc := check.NewRuleContext(context.Background(), doc, nil)
		if rc.Cancelled() {
			t.Error("should not be cancelled")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		rc := check.NewRuleContext(ctx, doc, nil)
		if !rc.Cancelled() {
			t.Error("should be cancelled")
		}
	})
}

func TestRuleContext_Nodes(t *testing.T) {
	t.Parallel()

	input := "# Title\n\nSome `code` here.\n\n## Section\n\n```go\nblock\n```\n"
	doc := parseTestDoc(t, input)
	rc := check.NewRuleContext(context.Background(), doc, nil)

	if got := len(rc.Nodes(document.KindHeading)); got != 2 {
		t.Errorf("got %d headings, want 2", got)
	}
	if got := len(rc.Nodes(document.KindCodeSpan)); got != 1 {
		t.Errorf("got %d code spans, want 1", got)
	}
	if got := len(rc.Nodes(document.KindCodeBlock)); got != 1 {
		t.Errorf("got %d code blocks, want 1", got)
	}
	if got := len(rc.Nodes(document.KindTable)); got != 0 {
		t.Errorf("got %d tables, want 0", got)
	}
}

func TestRuleContext_Nodes_Cached(t *testing.T) {
	t.Parallel()

	doc := parseTestDoc(t, "# One\n\n## Two\n")
	rc := check.NewRuleContext(context.Background(), doc, nil)

	first := rc.Nodes(document.KindHeading)
	second := rc.Nodes(document.KindHeading)

	if len(first) == 0 || &first[0] != &second[0] {
		t.Error("node index should be built once and reused")
	}
}

func TestRuleContext_InCode(t *testing.T) {
	t.Parallel()

	input := "Some `code` here.\n\n```go\nblock\n```\n"
	doc := parseTestDoc(t, input)
	rc := check.NewRuleContext(context.Background(), doc, nil)

	spanOffset := strings.Index(input, "code")
	blockOffset := strings.Index(input, "block")
	proseOffset := strings.Index(input, "Some")

	if !rc.InCode(spanOffset) {
		t.Error("offset inside a code span should be in code")
	}
	if !rc.InCode(blockOffset) {
		t.Error("offset inside a code block should be in code")
	}
	if rc.InCode(proseOffset) {
		t.Error("prose offset should not be in code")
	}
}

func TestRuleContext_InCode_NoCode(t *testing.T) {
	t.Parallel()

	doc := parseTestDoc(t, "Just prose.\n")
	rc := check.NewRuleContext(context.Background(), doc, nil)

	if rc.InCode(0) {
		t.Error("document without code should report no offsets in code")
	}
}

func TestRuleContext_Refs(t *testing.T) {
	t.Parallel()

	input := "# Title\n\nSee [docs][ref].\n\n[ref]: https://example.com\n"
	doc := parseTestDoc(t, input)
	rc := check.NewRuleContext(context.Background(), doc, nil)

	refs := rc.Refs()
	if refs == nil {
		t.Fatal("expected a reference index")
	}
	if refs.Lookup("ref") == nil {
		t.Error("expected definition for ref")
	}

	// Second call reuses the built index.
	if rc.Refs() != refs {
		t.Error("reference index should be cached")
	}
}

func TestRuleContext_Option(t *testing.T) {
	t.Parallel()

	rc := check.NewRuleContext(context.Background(), parseTestDoc(t, "x\n"), map[string]any{"key": "value"})

	v, ok := rc.Option("key")
	if !ok || v != "value" {
		t.Errorf("Option(key) = %v, %v; want value, true", v, ok)
	}

	_, ok = rc.Option("missing")
	if ok {
		t.Error("Option(missing) should report absence")
	}
}

func TestRuleContext_OptionInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		options map[string]any
		key     string
		def     int
		want    int
	}{
		{name: "returns default when nil options", options: nil, key: "max", def: 100, want: 100},
		{name: "returns int value", options: map[string]any{"max": 50}, key: "max", def: 100, want: 50},
		{name: "converts int64", options: map[string]any{"max": int64(60)}, key: "max", def: 100, want: 60},
		{name: "converts float64", options: map[string]any{"max": float64(75)}, key: "max", def: 100, want: 75},
		{name: "returns default for wrong type", options: map[string]any{"max": "nope"}, key: "max", def: 100, want: 100},
	}

	doc := parseTestDoc(t, "x\n")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rc := check.NewRuleContext(context.Background(), doc, tt.options)
			if got := rc.OptionInt(tt.key, tt.def); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRuleContext_OptionString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		options map[string]any
		def     string
		want    string
	}{
		{name: "returns default when nil options", options: nil, def: "github", want: "github"},
		{name: "returns string value", options: map[string]any{"style": "plain"}, def: "github", want: "plain"},
		{name: "returns default for wrong type", options: map[string]any{"style": 3}, def: "github", want: "github"},
	}

	doc := parseTestDoc(t, "x\n")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rc := check.NewRuleContext(context.Background(), doc, tt.options)
			if got := rc.OptionString("style", tt.def); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRuleContext_OptionBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		options map[string]any
		def     bool
		want    bool
	}{
		{name: "returns default when nil options", options: nil, def: true, want: true},
		{name: "returns false value", options: map[string]any{"ignore_code": false}, def: true, want: false},
		{name: "returns true value", options: map[string]any{"ignore_code": true}, def: false, want: true},
		{name: "returns default for wrong type", options: map[string]any{"ignore_code": "yes"}, def: true, want: true},
	}

	doc := parseTestDoc(t, "x\n")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rc := check.NewRuleContext(context.Background(), doc, tt.options)
			if got := rc.OptionBool("ignore_code", tt.def); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleContext_OptionStringSlice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		options map[string]any
		want    []string
	}{
		{name: "returns default when nil options", options: nil, want: []string{"br"}},
		{name: "returns string slice", options: map[string]any{"allowed": []string{"a", "b"}}, want: []string{"a", "b"}},
		{
			name:    "converts any slice skipping non-strings",
			options: map[string]any{"allowed": []any{"kbd", 7, "sup"}},
			want:    []string{"kbd", "sup"},
		},
		{name: "returns default for wrong type", options: map[string]any{"allowed": "kbd"}, want: []string{"br"}},
	}

	doc := parseTestDoc(t, "x\n")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rc := check.NewRuleContext(context.Background(), doc, tt.options)
			got := rc.OptionStringSlice("allowed", []string{"br"})
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
