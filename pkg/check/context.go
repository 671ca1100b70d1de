package check

import (
	"cmp"
	"context"
	"slices"

	"github.com/ledgewell/mdcheck/pkg/config"
	"github.com/ledgewell/mdcheck/pkg/document"
	"github.com/ledgewell/mdcheck/pkg/xref"
)

// RuleContext carries everything a rule needs to check one document.
//
// The context exposes the parsed document plus lazily built derived
// data (per-kind node index, code mask, cross-reference index) that is
// shared by all rules run against the same document. Rules must treat
// the document and every slice returned by the context as read-only.
type RuleContext struct {
	// Ctx is the cancellation context for this run. Rules doing long
	// scans should poll Cancelled() between lines or nodes.
	Ctx context.Context //nolint:containedctx // rules receive a single argument by contract

	// Doc is the parsed document under check.
	Doc *document.Document

	// Severity is the resolved severity for this rule. Informational
	// only; the checker stamps it onto violations itself.
	Severity config.Severity

	// Options holds the rule's configured options, nil when none are
	// set. Use the Option* accessors rather than reading the map.
	Options map[string]any

	cache *docCache
}

// NewRuleContext creates a standalone context for running a single rule
// against a document. The checker builds its contexts internally so all
// rules of a run share the cached derived data; this constructor serves
// tests and callers driving one rule directly. doc must be non-nil.
func NewRuleContext(ctx context.Context, doc *document.Document, options map[string]any) *RuleContext {
	return &RuleContext{
		Ctx:     ctx,
		Doc:     doc,
		Options: options,
		cache:   newDocCache(doc),
	}
}

// Cancelled reports whether the run's context has been cancelled.
func (rc *RuleContext) Cancelled() bool {
	return rc.Ctx.Err() != nil
}

// Nodes returns all nodes of the given kind in source order. The index
// is built once per document on first use.
func (rc *RuleContext) Nodes(kind document.NodeKind) []*document.Node {
	return rc.cache.nodes(kind)
}

// InCode reports whether the byte offset falls inside a code block or
// code span. Rules use it to skip content that is code rather than
// prose.
func (rc *RuleContext) InCode(offset int) bool {
	return rc.cache.inCode(offset)
}

// Refs returns the document's cross-reference index (anchors,
// reference definitions, reference usages), built on first use.
func (rc *RuleContext) Refs() *xref.Index {
	return rc.cache.refIndex()
}

// Option returns the raw configured value for an option.
func (rc *RuleContext) Option(name string) (any, bool) {
	v, ok := rc.Options[name]
	return v, ok
}

// OptionInt returns an integer option, or def when the option is
// absent or not numeric. YAML and TOML decoders may deliver numbers as
// int, int64, or float64.
func (rc *RuleContext) OptionInt(name string, def int) int {
	v, ok := rc.Options[name]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

// OptionString returns a string option, or def when absent or not a
// string.
func (rc *RuleContext) OptionString(name, def string) string {
	if s, ok := rc.Options[name].(string); ok {
		return s
	}
	return def
}

// OptionBool returns a boolean option, or def when absent or not a
// bool.
func (rc *RuleContext) OptionBool(name string, def bool) bool {
	if b, ok := rc.Options[name].(bool); ok {
		return b
	}
	return def
}

// OptionStringSlice returns a string-list option, or def when absent.
// Decoders may deliver lists as []string or []any; non-string elements
// are skipped.
func (rc *RuleContext) OptionStringSlice(name string, def []string) []string {
	v, ok := rc.Options[name]
	if !ok {
		return def
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return def
	}
}

// docCache holds derived data shared by every rule run against one
// document. Rules within a document run sequentially, so the lazy
// builds need no locking.
type docCache struct {
	doc *document.Document

	kinds     map[document.NodeKind][]*document.Node
	codeMask  []document.Span
	codeBuilt bool
	refs      *xref.Index
}

func newDocCache(doc *document.Document) *docCache {
	return &docCache{doc: doc}
}

func (c *docCache) nodes(kind document.NodeKind) []*document.Node {
	if c.kinds == nil {
		c.kinds = make(map[document.NodeKind][]*document.Node)
		//nolint:errcheck // the callback never fails
		document.Walk(c.doc.Root, func(n *document.Node) error {
			c.kinds[n.Kind] = append(c.kinds[n.Kind], n)
			return nil
		})
	}
	return c.kinds[kind]
}

func (c *docCache) inCode(offset int) bool {
	if !c.codeBuilt {
		c.codeMask = buildCodeMask(c.nodes(document.KindCodeBlock), c.nodes(document.KindCodeSpan))
		c.codeBuilt = true
	}

	i, found := slices.BinarySearchFunc(c.codeMask, offset, func(s document.Span, off int) int {
		return cmp.Compare(s.Start, off)
	})
	if found {
		return true
	}
	return i > 0 && c.codeMask[i-1].End > offset
}

func (c *docCache) refIndex() *xref.Index {
	if c.refs == nil {
		c.refs = xref.Collect(c.doc)
	}
	return c.refs
}

// buildCodeMask merges code block and code span ranges into a sorted,
// non-overlapping span list suitable for binary search.
func buildCodeMask(blocks, spans []*document.Node) []document.Span {
	mask := make([]document.Span, 0, len(blocks)+len(spans))
	for _, n := range blocks {
		mask = append(mask, n.Span)
	}
	for _, n := range spans {
		mask = append(mask, n.Span)
	}

	slices.SortFunc(mask, func(a, b document.Span) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(a.End, b.End))
	})

	merged := mask[:0]
	for _, s := range mask {
		if s.Len() == 0 {
			continue
		}
		if n := len(merged); n > 0 && s.Start <= merged[n-1].End {
			if s.End > merged[n-1].End {
				merged[n-1].End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
