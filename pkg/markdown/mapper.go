package markdown

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/ledgewell/mdcheck/pkg/document"
)

// mapper converts a goldmark AST into a document.Node tree, resolving
// every node to a byte span against the parsed source. goldmark keeps
// positions only for text segments, so container and delimiter spans
// are reconstructed from the raw bytes around the segments.
type mapper struct {
	src []byte

	// cursor tracks the end of the last block that received a span.
	// Blocks goldmark gives no position at all (thematic breaks, empty
	// fenced code blocks) are located by scanning forward from here.
	cursor int
}

func newMapper(src []byte) *mapper {
	return &mapper{src: src}
}

// mapDocument converts the goldmark document root.
func (m *mapper) mapDocument(gmRoot ast.Node) *document.Node {
	root := &document.Node{
		Kind: document.KindDocument,
		Span: document.Span{Start: 0, End: len(m.src)},
	}
	m.mapBlockChildren(gmRoot, root)
	return root
}

// mapBlockChildren maps all block children of gmParent under parent.
func (m *mapper) mapBlockChildren(gmParent ast.Node, parent *document.Node) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		node := m.mapBlock(child)
		if node == nil {
			continue
		}
		parent.AppendChild(node)
		if node.Span.End > m.cursor {
			m.cursor = node.Span.End
		}
	}
}

// mapBlock converts a single block-level goldmark node.
func (m *mapper) mapBlock(gmNode ast.Node) *document.Node {
	switch n := gmNode.(type) {
	case *ast.Heading:
		return m.mapHeading(n)

	case *ast.Paragraph:
		return m.mapParagraphLike(n)

	case *ast.TextBlock:
		// Tight list items hold their prose in text blocks.
		return m.mapParagraphLike(n)

	case *ast.Blockquote:
		node := &document.Node{Kind: document.KindBlockquote}
		m.mapBlockChildren(n, node)
		span := unionChildren(node)
		if !span.IsEmpty() {
			span.Start = m.lineStartBefore(span.Start)
		}
		node.Span = span
		return node

	case *ast.List:
		return m.mapList(n)

	case *ast.ListItem:
		return m.mapListItem(n)

	case *ast.FencedCodeBlock:
		return m.mapFencedCodeBlock(n)

	case *ast.CodeBlock:
		span := m.linesSpan(n)
		return &document.Node{Kind: document.KindCodeBlock, Span: span, InnerSpan: span}

	case *ast.ThematicBreak:
		return m.mapThematicBreak()

	case *ast.HTMLBlock:
		return m.mapHTMLBlock(n)

	case *east.Table:
		return m.mapTable(n)

	default:
		return nil
	}
}

// mapParagraphLike maps paragraphs and text blocks.
func (m *mapper) mapParagraphLike(gmNode ast.Node) *document.Node {
	node := &document.Node{Kind: document.KindParagraph, Span: m.linesSpan(gmNode)}
	m.mapInlineChildren(gmNode, node, node.Span.Start)
	return node
}

// mapHeading maps ATX and setext headings. ATX heading segments start
// after the marker, so the span is pulled back to the line start;
// setext spans are pushed forward over the underline.
func (m *mapper) mapHeading(h *ast.Heading) *document.Node {
	node := &document.Node{Kind: document.KindHeading, Level: h.Level}
	span := m.linesSpan(h)
	if span.IsEmpty() {
		// An empty ATX heading ("##" alone) has no text segment.
		span = m.nextNonBlankLine(m.cursor)
		node.Span = span
		return node
	}

	textStart := span.Start
	span.Start = m.lineStartBefore(span.Start)

	if !m.atxAt(span.Start, textStart) {
		// Setext: include the underline line.
		_, next := m.lineEndFrom(span.End)
		if next < len(m.src) {
			underEnd, _ := m.lineEndFrom(next)
			if isSetextUnderline(m.src[next:underEnd]) {
				span.End = underEnd
			}
		}
	}

	node.Span = span
	m.mapInlineChildren(h, node, textStart)
	return node
}

// atxAt reports whether the bytes between start and textStart look
// like an ATX heading prefix ('#' run plus whitespace).
func (m *mapper) atxAt(start, textStart int) bool {
	i := start
	for i < textStart && i < len(m.src) && m.src[i] == ' ' {
		i++
	}
	return i < len(m.src) && m.src[i] == '#'
}

// isSetextUnderline reports whether a line is a setext underline.
func isSetextUnderline(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	c := trimmed[0]
	if c != '=' && c != '-' {
		return false
	}
	for _, b := range trimmed {
		if b != c {
			return false
		}
	}
	return true
}

// mapList maps a list container.
func (m *mapper) mapList(list *ast.List) *document.Node {
	node := &document.Node{
		Kind:    document.KindList,
		Ordered: list.IsOrdered(),
		Marker:  list.Marker,
		Tight:   list.IsTight,
	}
	if list.IsOrdered() {
		node.Start = list.Start
	}
	m.mapBlockChildren(list, node)
	node.Span = unionChildren(node)
	return node
}

// mapListItem maps a list item, extending its span backward over the
// marker text ("- ", "12. ", ...) that goldmark drops.
func (m *mapper) mapListItem(item *ast.ListItem) *document.Node {
	node := &document.Node{Kind: document.KindListItem}
	m.mapBlockChildren(item, node)

	span := unionChildren(node)
	if !span.IsEmpty() {
		span.Start = m.extendOverListMarker(span.Start)
	}
	node.Span = span
	return node
}

// extendOverListMarker walks an item's content start backward over the
// marker that introduced it. Returns the original start when the bytes
// before it do not form a list marker.
func (m *mapper) extendOverListMarker(start int) int {
	i := start
	for i > 0 && (m.src[i-1] == ' ' || m.src[i-1] == '\t') {
		i--
	}
	if i == start || i == 0 {
		return start
	}

	switch m.src[i-1] {
	case '-', '*', '+':
		return i - 1
	case '.', ')':
		j := i - 1
		digits := 0
		for j > 0 && m.src[j-1] >= '0' && m.src[j-1] <= '9' {
			j--
			digits++
		}
		if digits == 0 {
			return start
		}
		return j
	default:
		return start
	}
}

// mapFencedCodeBlock maps a fenced code block. The span covers both
// fence lines; InnerSpan covers the content between them.
func (m *mapper) mapFencedCodeBlock(cb *ast.FencedCodeBlock) *document.Node {
	node := &document.Node{Kind: document.KindCodeBlock, Fenced: true}
	if cb.Info != nil {
		node.Info = string(cb.Info.Value(m.src))
	}

	inner := m.rawLinesSpan(cb)
	node.InnerSpan = inner

	// Locate the opening fence line.
	var openStart int
	switch {
	case cb.Info != nil:
		openStart = m.lineStartBefore(cb.Info.Segment.Start)
	case !inner.IsEmpty():
		contentLine := m.lineStartBefore(inner.Start)
		if contentLine == 0 {
			// Content at offset zero means goldmark saw a fence we
			// cannot back up over; fall back to scanning.
			openStart = m.nextNonBlankLine(m.cursor).Start
		} else {
			openStart = m.lineStartBefore(contentLine - 1)
		}
	default:
		openStart = m.nextNonBlankLine(m.cursor).Start
	}

	fenceChar, fenceLen := fenceStyle(m.src[openStart:])
	openTextEnd, openNext := m.lineEndFrom(openStart)

	// Locate the closing fence, if the block is terminated.
	closeFrom := openNext
	if !inner.IsEmpty() {
		closeFrom = inner.End
	}
	end := openTextEnd
	if !inner.IsEmpty() {
		end = m.trimLineEnd(inner.End)
	}
	if closeFrom < len(m.src) {
		closeTextEnd, _ := m.lineEndFrom(closeFrom)
		if isClosingFence(m.src[closeFrom:closeTextEnd], fenceChar, fenceLen) {
			end = closeTextEnd
		}
	}

	node.Span = document.Span{Start: openStart, End: end}
	return node
}

// fenceStyle extracts the fence character and run length at the start
// of a fence line. Indentation and blockquote markers are skipped.
func fenceStyle(line []byte) (byte, int) {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t' || line[i] == '>') {
		i++
	}
	if i >= len(line) || (line[i] != '`' && line[i] != '~') {
		return '`', 3
	}
	char := line[i]
	length := 0
	for i < len(line) && line[i] == char {
		length++
		i++
	}
	return char, length
}

// isClosingFence reports whether a line closes a fence of the given
// character with at least the given run length.
func isClosingFence(line []byte, char byte, minLen int) bool {
	trimmed := bytes.TrimLeft(line, " \t>")
	run := 0
	for run < len(trimmed) && trimmed[run] == char {
		run++
	}
	if run < minLen || run < 3 {
		return false
	}
	return len(bytes.TrimRight(trimmed[run:], " \t")) == 0
}

// mapThematicBreak locates a thematic break by scanning forward from
// the previous block; goldmark keeps no position for it.
func (m *mapper) mapThematicBreak() *document.Node {
	return &document.Node{Kind: document.KindThematicBreak, Span: m.nextNonBlankLine(m.cursor)}
}

// mapHTMLBlock maps a block-level HTML region.
func (m *mapper) mapHTMLBlock(h *ast.HTMLBlock) *document.Node {
	span := m.linesSpan(h)
	if h.HasClosure() {
		closure := h.ClosureLine
		span = span.Union(document.Span{Start: closure.Start, End: m.trimLineEnd(closure.Stop)})
	}
	return &document.Node{Kind: document.KindHTMLBlock, Span: span}
}

// mapTable maps a GFM table. Row spans are widened to full lines so
// the table span also covers the delimiter row, which has no node.
func (m *mapper) mapTable(t *east.Table) *document.Node {
	node := &document.Node{Kind: document.KindTable}
	for child := t.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *east.TableHeader, *east.TableRow:
			node.AppendChild(m.mapTableRow(child))
		}
	}

	span := unionChildren(node)
	node.Span = span
	return node
}

// mapTableRow maps a header or body row and its cells.
func (m *mapper) mapTableRow(row ast.Node) *document.Node {
	node := &document.Node{Kind: document.KindTableRow}
	for child := row.FirstChild(); child != nil; child = child.NextSibling() {
		cell, ok := child.(*east.TableCell)
		if !ok {
			continue
		}
		cellNode := &document.Node{Kind: document.KindTableCell, Span: m.linesSpan(cell)}
		m.mapInlineChildren(cell, cellNode, cellNode.Span.Start)
		node.AppendChild(cellNode)
	}

	span := unionChildren(node)
	if !span.IsEmpty() {
		// Widen to the full source line to cover the pipes.
		span.Start = m.lineStartBefore(span.Start)
		textEnd, _ := m.lineEndFrom(span.End)
		span.End = textEnd
	}
	node.Span = span
	return node
}

// mapInlineChildren maps inline children. searchFrom seeds the scan
// position for inline constructs goldmark keeps no segments for
// (autolinks, task checkboxes); it advances past each mapped child.
func (m *mapper) mapInlineChildren(gmParent ast.Node, parent *document.Node, searchFrom int) {
	cursor := searchFrom
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		node := m.mapInline(child, cursor)
		if node == nil {
			continue
		}
		parent.AppendChild(node)
		if node.Span.End > cursor {
			cursor = node.Span.End
		}
	}
}

// mapInline converts a single inline goldmark node.
func (m *mapper) mapInline(gmNode ast.Node, searchFrom int) *document.Node {
	switch n := gmNode.(type) {
	case *ast.Text:
		if n.Segment.Len() == 0 {
			return nil
		}
		return &document.Node{
			Kind: document.KindText,
			Span: document.Span{Start: n.Segment.Start, End: n.Segment.Stop},
		}

	case *ast.String:
		// Synthetic nodes carry no source position.
		return nil

	case *ast.Emphasis:
		kind := document.KindEmphasis
		level := n.Level
		if n.Level >= 2 {
			kind = document.KindStrong
			level = 2
		}
		node := &document.Node{Kind: kind}
		m.mapInlineChildren(n, node, searchFrom)
		node.Span = m.extendDelimiters(unionChildren(node), level, '*', '_')
		return node

	case *east.Strikethrough:
		node := &document.Node{Kind: document.KindStrikethrough}
		m.mapInlineChildren(n, node, searchFrom)
		node.Span = m.extendDelimiters(unionChildren(node), 2, '~')
		return node

	case *ast.CodeSpan:
		return m.mapCodeSpan(n)

	case *ast.Link:
		node := &document.Node{
			Kind:        document.KindLink,
			Destination: string(n.Destination),
			Title:       string(n.Title),
		}
		m.mapInlineChildren(n, node, searchFrom)
		node.Span = m.linkSpan(unionChildren(node), searchFrom, false)
		return node

	case *ast.Image:
		node := &document.Node{
			Kind:        document.KindImage,
			Destination: string(n.Destination),
			Title:       string(n.Title),
		}
		m.mapInlineChildren(n, node, searchFrom)
		node.Span = m.linkSpan(unionChildren(node), searchFrom, true)
		return node

	case *ast.AutoLink:
		return m.mapAutoLink(n, searchFrom)

	case *ast.RawHTML:
		var span document.Span
		for i := range n.Segments.Len() {
			seg := n.Segments.At(i)
			span = span.Union(document.Span{Start: seg.Start, End: seg.Stop})
		}
		return &document.Node{Kind: document.KindRawHTML, Span: span}

	case *east.TaskCheckBox:
		return m.mapTaskCheckBox(n, searchFrom)

	default:
		return nil
	}
}

// mapCodeSpan maps an inline code span. InnerSpan is the text between
// the backtick runs; Span extends over them.
func (m *mapper) mapCodeSpan(cs *ast.CodeSpan) *document.Node {
	node := &document.Node{Kind: document.KindCodeSpan}

	var inner document.Span
	for child := cs.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			inner = inner.Union(document.Span{Start: t.Segment.Start, End: t.Segment.Stop})
		}
	}
	node.InnerSpan = inner

	span := inner
	for span.Start > 0 && m.src[span.Start-1] == '`' {
		span.Start--
	}
	for span.End < len(m.src) && m.src[span.End] == '`' {
		span.End++
	}
	node.Span = span
	return node
}

// mapAutoLink locates an autolink by scanning for its label; goldmark
// keeps the segment private. Angle brackets around the label are
// included in the span when present.
func (m *mapper) mapAutoLink(al *ast.AutoLink, searchFrom int) *document.Node {
	node := &document.Node{Kind: document.KindAutoLink, Destination: string(al.URL(m.src))}

	label := al.Label(m.src)
	if len(label) == 0 || searchFrom > len(m.src) {
		return node
	}
	idx := bytes.Index(m.src[searchFrom:], label)
	if idx < 0 {
		return node
	}

	span := document.Span{Start: searchFrom + idx, End: searchFrom + idx + len(label)}
	if span.Start > 0 && m.src[span.Start-1] == '<' &&
		span.End < len(m.src) && m.src[span.End] == '>' {
		span.Start--
		span.End++
	}
	node.Span = span
	return node
}

// mapTaskCheckBox locates a GFM task checkbox ("[x]", "[ ]") at the
// start of its list item's text, where goldmark places it.
func (m *mapper) mapTaskCheckBox(cb *east.TaskCheckBox, searchFrom int) *document.Node {
	node := &document.Node{Kind: document.KindTaskCheckbox, Checked: cb.IsChecked}

	if searchFrom+3 <= len(m.src) && m.src[searchFrom] == '[' && m.src[searchFrom+2] == ']' {
		switch m.src[searchFrom+1] {
		case 'x', 'X', ' ':
			node.Span = document.Span{Start: searchFrom, End: searchFrom + 3}
		}
	}
	return node
}

// linkSpan widens a link or image span from its text children to the
// full construct: brackets, the "!" prefix for images, and the inline
// destination or reference label that follows.
func (m *mapper) linkSpan(text document.Span, searchFrom int, image bool) document.Span {
	span := text
	if span.IsEmpty() {
		// Links with empty text ("[](...)") have no text children;
		// find the opening bracket directly.
		idx := bytes.IndexByte(m.src[min(searchFrom, len(m.src)):], '[')
		if idx < 0 {
			return span
		}
		start := searchFrom + idx
		span = document.Span{Start: start, End: start + 1}
	}

	if span.Start > 0 && m.src[span.Start-1] == '[' {
		span.Start--
	}
	if image && span.Start > 0 && m.src[span.Start-1] == '!' {
		span.Start--
	}

	i := span.End
	if span.Len() == 1 && m.src[span.Start] == '[' {
		// Empty text: span currently covers just "[", expect "]" next.
		i = span.Start + 1
	}
	if i < len(m.src) && m.src[i] == ']' {
		i++
		switch {
		case i < len(m.src) && m.src[i] == '(':
			depth := 1
			i++
			for i < len(m.src) && depth > 0 {
				switch m.src[i] {
				case '(':
					depth++
				case ')':
					depth--
				}
				i++
			}
		case i < len(m.src) && m.src[i] == '[':
			for i < len(m.src) && m.src[i] != ']' {
				i++
			}
			if i < len(m.src) {
				i++
			}
		}
		span.End = i
	}
	return span
}

// extendDelimiters widens a span over up to count delimiter bytes on
// each side, matching only the characters given.
func (m *mapper) extendDelimiters(span document.Span, count int, chars ...byte) document.Span {
	if span.IsEmpty() {
		return span
	}
	for i := 0; i < count && span.Start > 0 && byteIn(m.src[span.Start-1], chars); i++ {
		span.Start--
	}
	for i := 0; i < count && span.End < len(m.src) && byteIn(m.src[span.End], chars); i++ {
		span.End++
	}
	return span
}

func byteIn(b byte, set []byte) bool {
	for _, c := range set {
		if b == c {
			return true
		}
	}
	return false
}

// linesSpan derives a span from a block node's line segments, trimmed
// of the trailing line terminator.
func (m *mapper) linesSpan(n ast.Node) document.Span {
	span := m.rawLinesSpan(n)
	if span.IsEmpty() {
		return span
	}
	span.End = m.trimLineEnd(span.End)
	return span
}

// rawLinesSpan derives a span from line segments without trimming.
func (m *mapper) rawLinesSpan(n ast.Node) document.Span {
	lines := n.Lines()
	if lines.Len() == 0 {
		return document.Span{}
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	return document.Span{Start: first.Start, End: last.Stop}
}

// unionChildren returns the union of all child spans.
func unionChildren(n *document.Node) document.Span {
	var span document.Span
	for _, child := range n.Children {
		span = span.Union(child.Span)
	}
	return span
}

// lineStartBefore walks an offset back to the start of its line.
func (m *mapper) lineStartBefore(offset int) int {
	i := offset
	if i > len(m.src) {
		i = len(m.src)
	}
	for i > 0 && m.src[i-1] != '\n' {
		i--
	}
	return i
}

// lineEndFrom scans forward from a line start, returning the offset
// where the line's text ends and where the next line begins.
func (m *mapper) lineEndFrom(start int) (textEnd, next int) {
	i := start
	for i < len(m.src) && m.src[i] != '\n' {
		i++
	}
	textEnd = i
	next = i
	if i < len(m.src) {
		next = i + 1
	}
	if textEnd > start && m.src[textEnd-1] == '\r' {
		textEnd--
	}
	return textEnd, next
}

// trimLineEnd backs an end offset over at most one trailing newline
// sequence.
func (m *mapper) trimLineEnd(end int) int {
	if end > len(m.src) {
		end = len(m.src)
	}
	if end > 0 && m.src[end-1] == '\n' {
		end--
		if end > 0 && m.src[end-1] == '\r' {
			end--
		}
	}
	return end
}

// nextNonBlankLine returns the text span of the first non-blank line
// at or after from.
func (m *mapper) nextNonBlankLine(from int) document.Span {
	start := from
	if start < 0 {
		start = 0
	}
	// Resume from a line boundary.
	if start > 0 && start <= len(m.src) && m.src[start-1] != '\n' {
		_, start = m.lineEndFrom(start)
	}
	for start < len(m.src) {
		textEnd, next := m.lineEndFrom(start)
		if len(bytes.TrimSpace(m.src[start:textEnd])) > 0 {
			return document.Span{Start: start, End: textEnd}
		}
		start = next
	}
	return document.Span{Start: len(m.src), End: len(m.src)}
}
