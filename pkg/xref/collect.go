package xref

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/ledgewell/mdcheck/pkg/document"
)

// refDefPattern matches a link reference definition at the start of a
// line (up to three spaces of indent): [label]: destination "title".
var refDefPattern = regexp.MustCompile(
	`^ {0,3}\[([^\]]+)\]:\s*(\S+)(?:\s+"([^"]*)"|\s+'([^']*)'|\s+\(([^)]*)\))?\s*$`,
)

// refUsePattern matches reference-style usages: [text][label] (full)
// and [label][] (collapsed).
var refUsePattern = regexp.MustCompile(`\[([^\[\]]*)\]\[([^\[\]]*)\]`)

// htmlAnchorPattern matches id="value" / name='value' attributes in
// raw HTML.
var htmlAnchorPattern = regexp.MustCompile(`(?i)\b(id|name)\s*=\s*["']([^"']+)["']`)

// Collect builds the cross-reference index for a parsed document in a
// single pass: heading and HTML anchors from the tree, definitions and
// reference usages from the source lines outside code.
func Collect(doc *document.Document) *Index {
	c := &collector{
		doc: doc,
		ix: &Index{
			anchors: map[AnchorStyle]map[string]struct{}{
				StyleGitHub: make(map[string]struct{}),
				StylePlain:  make(map[string]struct{}),
			},
			defs: make(map[string]*Definition),
		},
		seen: map[AnchorStyle]map[string]int{
			StyleGitHub: make(map[string]int),
			StylePlain:  make(map[string]int),
		},
	}
	if doc == nil || doc.Root == nil {
		return c.ix
	}

	c.walkTree()
	c.buildMask()
	c.scanLines()
	c.resolve()
	return c.ix
}

type collector struct {
	doc *document.Document
	ix  *Index

	// seen counts occurrences of each base anchor per style, for the
	// -1/-2 duplicate suffixes.
	seen map[AnchorStyle]map[string]int

	// mask holds sorted spans whose content is not prose: code, HTML,
	// front matter. Definitions and usages are not collected there.
	mask []document.Span

	// shortcuts are labels used via resolved shortcut or collapsed
	// links found in the tree.
	shortcuts []string
}

// walkTree collects anchors and tree-resolved reference usages.
func (c *collector) walkTree() {
	//nolint:errcheck // the callback never fails
	document.Walk(c.doc.Root, func(n *document.Node) error {
		switch n.Kind {
		case document.KindHeading:
			c.addHeadingAnchors(n)
		case document.KindHTMLBlock, document.KindRawHTML:
			c.addHTMLAnchors(n)
		case document.KindLink, document.KindImage:
			c.noteTreeReference(n)
		}
		return nil
	})
}

// addHeadingAnchors derives the heading's anchor id under both styles.
func (c *collector) addHeadingAnchors(n *document.Node) {
	text := c.doc.NodeText(n)
	if text == "" {
		return
	}
	c.addAnchor(StyleGitHub, githubAnchor(text))
	c.addAnchor(StylePlain, plainAnchor(text))
}

// addAnchor records an anchor id, suffixing repeats with -1, -2, ...
// the way GitHub disambiguates repeated headings.
func (c *collector) addAnchor(style AnchorStyle, base string) {
	if base == "" {
		return
	}
	id := base
	if count := c.seen[style][base]; count > 0 {
		id = base + "-" + strconv.Itoa(count)
	}
	c.seen[style][base]++
	c.ix.anchors[style][id] = struct{}{}
}

// addHTMLAnchors records id= and name= attributes as anchors under
// both styles; explicit HTML anchors are valid targets regardless of
// how heading anchors are derived.
func (c *collector) addHTMLAnchors(n *document.Node) {
	for _, m := range htmlAnchorPattern.FindAllSubmatch(c.doc.Slice(n.Span), -1) {
		id := string(m[2])
		c.ix.anchors[StyleGitHub][id] = struct{}{}
		c.ix.anchors[StylePlain][id] = struct{}{}
	}
}

// noteTreeReference records the label of a resolved shortcut or
// collapsed reference link. The parser only produces link nodes for
// labels it could resolve, so these count as definition usages that
// the source scan alone would miss.
func (c *collector) noteTreeReference(n *document.Node) {
	src := c.doc.Slice(n.Span)
	if len(src) == 0 || src[len(src)-1] != ']' {
		return // inline or autolink form
	}
	if strings.HasSuffix(string(src), "][]") {
		return // collapsed; the source scan already sees it
	}
	if idx := strings.LastIndex(string(src), "]["); idx >= 0 {
		return // full; the source scan already sees it
	}

	label := strings.TrimPrefix(string(src[:len(src)-1]), "!")
	label = strings.TrimPrefix(label, "[")
	if norm := NormalizeLabel(label); norm != "" {
		c.shortcuts = append(c.shortcuts, norm)
	}
}

// buildMask merges the spans where reference syntax is inert: code
// blocks and spans, raw HTML, front matter.
func (c *collector) buildMask() {
	var mask []document.Span
	for _, kind := range []document.NodeKind{
		document.KindCodeBlock,
		document.KindCodeSpan,
		document.KindHTMLBlock,
		document.KindFrontMatter,
	} {
		for _, n := range document.Collect(c.doc.Root, kind) {
			if !n.Span.IsEmpty() {
				mask = append(mask, n.Span)
			}
		}
	}

	slices.SortFunc(mask, func(a, b document.Span) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(a.End, b.End))
	})

	merged := mask[:0]
	for _, s := range mask {
		if n := len(merged); n > 0 && s.Start <= merged[n-1].End {
			if s.End > merged[n-1].End {
				merged[n-1].End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	c.mask = merged
}

func (c *collector) masked(offset int) bool {
	i, found := slices.BinarySearchFunc(c.mask, offset, func(s document.Span, off int) int {
		return cmp.Compare(s.Start, off)
	})
	if found {
		return true
	}
	return i > 0 && c.mask[i-1].End > offset
}

// scanLines walks the source lines collecting definitions and
// reference usages.
func (c *collector) scanLines() {
	for num := 1; num <= c.doc.LineCount(); num++ {
		span := c.doc.LineSpan(num)
		if span.IsEmpty() || c.masked(span.Start) {
			continue
		}
		line := c.doc.LineText(num)

		if m := refDefPattern.FindSubmatch(line); m != nil {
			c.addDefinition(num, m)
			continue
		}

		for _, loc := range refUsePattern.FindAllSubmatchIndex(line, -1) {
			if c.masked(span.Start + loc[0]) {
				continue
			}
			c.addUsage(num, span.Start, line, loc)
		}
	}
}

func (c *collector) addDefinition(line int, m [][]byte) {
	label := string(m[1])
	title := ""
	for _, group := range m[3:] {
		if len(group) > 0 {
			title = string(group)
			break
		}
	}

	def := &Definition{
		Label:       label,
		Normalized:  NormalizeLabel(label),
		Destination: string(m[2]),
		Title:       title,
		Line:        line,
	}
	if _, exists := c.ix.defs[def.Normalized]; exists {
		def.Duplicate = true
	} else {
		c.ix.defs[def.Normalized] = def
	}
	c.ix.allDefs = append(c.ix.allDefs, def)
}

// addUsage records one [text][label] or [label][] match. loc is the
// submatch index vector from FindAllSubmatchIndex.
func (c *collector) addUsage(line, lineStart int, text []byte, loc []int) {
	first := string(text[loc[2]:loc[3]])
	second := string(text[loc[4]:loc[5]])

	usage := &Usage{
		Label: second,
		Line:  line,
		Span:  document.Span{Start: lineStart + loc[0], End: lineStart + loc[1]},
	}
	if second == "" {
		usage.Label = first
		usage.Collapsed = true
	}
	usage.Normalized = NormalizeLabel(usage.Label)
	if usage.Normalized == "" {
		return
	}
	c.ix.usages = append(c.ix.usages, usage)
}

// resolve counts usages against their definitions.
func (c *collector) resolve() {
	for _, u := range c.ix.usages {
		if def := c.ix.defs[u.Normalized]; def != nil {
			def.uses++
		}
	}
	for _, norm := range c.shortcuts {
		if def := c.ix.defs[norm]; def != nil {
			def.uses++
		}
	}
}

