package rules

import (
	"context"
	"testing"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/config"
	"github.com/ledgewell/mdcheck/pkg/markdown"
)

// testHelper parses markdown and runs a rule.
func testHelper(t *testing.T, rule check.Rule, input string) []check.Violation {
	t.Helper()

	parser := markdown.NewParser(config.FlavorGFM)
	doc, err := parser.Parse(context.Background(), "test.md", []byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	rc := check.NewRuleContext(context.Background(), doc, nil)

	violations, err := rule.Check(rc)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	return violations
}

func TestUndefinedReferencesRule(t *testing.T) {
	rule := NewUndefinedReferencesRule()

	tests := []struct {
		name  string
		input string
		wantN int
	}{
		{
			name:  "defined reference",
			input: "[docs][ref]\n\n[ref]: https://example.com\n",
			wantN: 0,
		},
		{
			name:  "undefined reference",
			input: "[docs][missing]\n",
			wantN: 1,
		},
		{
			name:  "collapsed undefined",
			input: "[missing][]\n",
			wantN: 1,
		},
		{
			name:  "collapsed defined",
			input: "[ref][]\n\n[ref]: /x\n",
			wantN: 0,
		},
		{
			name:  "labels match case insensitively",
			input: "[docs][REF]\n\n[ref]: /x\n",
			wantN: 0,
		},
		{
			name:  "shortcut text left alone",
			input: "Press [Enter] to continue.\n",
			wantN: 0,
		},
		{
			name:  "definition inside code block does not count",
			input: "[docs][ref]\n\n```\n[ref]: /x\n```\n",
			wantN: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := testHelper(t, rule, tt.input)
			if len(violations) != tt.wantN {
				t.Errorf("got %d violations, want %d", len(violations), tt.wantN)
			}
		})
	}
}

func TestUndefinedReferencesRule_Message(t *testing.T) {
	rule := NewUndefinedReferencesRule()

	violations := testHelper(t, rule, "[docs][missing]\n")
	if len(violations) != 1 {
		t.Fatalf("got %d violations, want 1", len(violations))
	}

	want := `Reference "missing" is not defined`
	if violations[0].Message != want {
		t.Errorf("Message = %q, want %q", violations[0].Message, want)
	}
	if violations[0].StartLine != 1 {
		t.Errorf("StartLine = %d, want 1", violations[0].StartLine)
	}
}

func TestUnusedDefinitionsRule(t *testing.T) {
	rule := NewUnusedDefinitionsRule()

	tests := []struct {
		name  string
		input string
		wantN int
	}{
		{
			name:  "used definition",
			input: "[docs][ref]\n\n[ref]: /x\n",
			wantN: 0,
		},
		{
			name:  "unused definition",
			input: "Text.\n\n[never]: /x\n",
			wantN: 1,
		},
		{
			name:  "shortcut use counts",
			input: "See [ref].\n\n[ref]: /x\n",
			wantN: 0,
		},
		{
			name:  "collapsed use counts",
			input: "[ref][]\n\n[ref]: /x\n",
			wantN: 0,
		},
		{
			name:  "duplicate definition reported once",
			input: "[a][ref]\n\n[ref]: /x\n[ref]: /y\n",
			wantN: 0,
		},
		{
			name:  "two unused definitions",
			input: "Text.\n\n[one]: /a\n[two]: /b\n",
			wantN: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := testHelper(t, rule, tt.input)
			if len(violations) != tt.wantN {
				t.Errorf("got %d violations, want %d", len(violations), tt.wantN)
			}
		})
	}
}

func TestUnusedDefinitionsRule_Line(t *testing.T) {
	rule := NewUnusedDefinitionsRule()

	violations := testHelper(t, rule, "Text.\n\n[never]: /x\n")
	if len(violations) != 1 {
		t.Fatalf("got %d violations, want 1", len(violations))
	}

	if violations[0].StartLine != 3 {
		t.Errorf("StartLine = %d, want 3", violations[0].StartLine)
	}
	want := `Reference definition "never" is never used`
	if violations[0].Message != want {
		t.Errorf("Message = %q, want %q", violations[0].Message, want)
	}
}

func TestUndefinedReferencesRule_Metadata(t *testing.T) {
	rule := NewUndefinedReferencesRule()

	if got := rule.ID(); got != "no-undefined-references" {
		t.Errorf("ID() = %q, want %q", got, "no-undefined-references")
	}
	if !rule.DefaultEnabled() {
		t.Error("DefaultEnabled() = false, want true")
	}
}

func TestUnusedDefinitionsRule_Metadata(t *testing.T) {
	rule := NewUnusedDefinitionsRule()

	if got := rule.ID(); got != "no-unused-definitions" {
		t.Errorf("ID() = %q, want %q", got, "no-unused-definitions")
	}
	if !rule.DefaultEnabled() {
		t.Error("DefaultEnabled() = false, want true")
	}
}
