// Package xref builds a per-document cross-reference index: the anchor
// ids headings and HTML elements expose, the link reference definitions
// the document declares, and the reference-style usages that point at
// them. Rules that validate fragments, undefined references, or unused
// definitions all consume the same index.
package xref

import (
	"strings"

	"github.com/ledgewell/mdcheck/pkg/document"
)

// Definition is a link reference definition such as
// [label]: https://example.com "Title".
type Definition struct {
	// Label is the reference label as written.
	Label string

	// Normalized is the lowercased, whitespace-collapsed label used for
	// matching.
	Normalized string

	// Destination is the link target.
	Destination string

	// Title is the optional title.
	Title string

	// Line is the 1-based line the definition sits on.
	Line int

	// Duplicate marks a definition whose label was already defined.
	Duplicate bool

	uses int
}

// Usage is a reference-style link or image usage: [text][label] or
// [label][].
type Usage struct {
	// Label is the reference label as written.
	Label string

	// Normalized is the label form used for matching.
	Normalized string

	// Collapsed reports the [label][] form.
	Collapsed bool

	// Line is the 1-based line the usage starts on.
	Line int

	// Span is the byte range of the whole usage.
	Span document.Span
}

// Index is the cross-reference index for one document. Build it with
// Collect; an Index is immutable afterwards.
type Index struct {
	anchors map[AnchorStyle]map[string]struct{}
	defs    map[string]*Definition
	allDefs []*Definition
	usages  []*Usage
}

// HasAnchor reports whether the document exposes the anchor id under
// the given style.
func (ix *Index) HasAnchor(id string, style AnchorStyle) bool {
	_, ok := ix.anchors[style][id]
	return ok
}

// ValidFragment reports whether a URL fragment points at something the
// document can satisfy: an empty fragment, the implicit #top target,
// a GitHub line reference (#L10, #L4C2-L8C10), or a known anchor.
func (ix *Index) ValidFragment(fragment string, style AnchorStyle) bool {
	id := strings.TrimPrefix(fragment, "#")
	if id == "" {
		return true
	}
	if strings.EqualFold(id, "top") {
		return true
	}
	if isLineReference(id) {
		return true
	}
	return ix.HasAnchor(id, style)
}

// Lookup returns the first definition for a label, or nil.
func (ix *Index) Lookup(label string) *Definition {
	return ix.defs[NormalizeLabel(label)]
}

// Definitions returns every definition, duplicates included, in line
// order.
func (ix *Index) Definitions() []*Definition {
	return ix.allDefs
}

// Usages returns every reference-style usage in document order.
func (ix *Index) Usages() []*Usage {
	return ix.usages
}

// UndefinedReferences returns usages whose label has no definition, in
// document order.
func (ix *Index) UndefinedReferences() []*Usage {
	var out []*Usage
	for _, u := range ix.usages {
		if _, ok := ix.defs[u.Normalized]; !ok {
			out = append(out, u)
		}
	}
	return out
}

// UnusedDefinitions returns non-duplicate definitions that no usage
// references, in line order.
func (ix *Index) UnusedDefinitions() []*Definition {
	var out []*Definition
	for _, def := range ix.allDefs {
		if !def.Duplicate && def.uses == 0 {
			out = append(out, def)
		}
	}
	return out
}

// NormalizeLabel lowers a reference label and collapses its internal
// whitespace, per CommonMark label matching.
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

// isLineReference recognizes GitHub's #L10 / #L4C2-L8C10 fragment
// syntax for line and column ranges.
func isLineReference(id string) bool {
	if len(id) < 2 || (id[0] != 'L' && id[0] != 'l') {
		return false
	}
	digits := false
	for i := 1; i < len(id); i++ {
		switch ch := id[i]; {
		case ch >= '0' && ch <= '9':
			digits = true
		case ch == 'C' || ch == 'c' || ch == '-' || ch == 'L' || ch == 'l':
		default:
			return false
		}
	}
	return digits
}
