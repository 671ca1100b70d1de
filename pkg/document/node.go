package document

// NodeKind classifies the type of a document node.
type NodeKind uint8

// Node kinds for block-level and inline-level Markdown elements.
const (
	KindDocument NodeKind = iota

	// Block-level nodes.
	KindFrontMatter
	KindHeading
	KindParagraph
	KindBlockquote
	KindList
	KindListItem
	KindCodeBlock
	KindHTMLBlock
	KindThematicBreak
	KindTable
	KindTableRow
	KindTableCell

	// Inline-level nodes.
	KindText
	KindEmphasis
	KindStrong
	KindCodeSpan
	KindLink
	KindImage
	KindAutoLink
	KindRawHTML
	KindStrikethrough
	KindTaskCheckbox
)

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindFrontMatter:
		return "front-matter"
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindBlockquote:
		return "blockquote"
	case KindList:
		return "list"
	case KindListItem:
		return "list-item"
	case KindCodeBlock:
		return "code-block"
	case KindHTMLBlock:
		return "html-block"
	case KindThematicBreak:
		return "thematic-break"
	case KindTable:
		return "table"
	case KindTableRow:
		return "table-row"
	case KindTableCell:
		return "table-cell"
	case KindText:
		return "text"
	case KindEmphasis:
		return "emphasis"
	case KindStrong:
		return "strong"
	case KindCodeSpan:
		return "code-span"
	case KindLink:
		return "link"
	case KindImage:
		return "image"
	case KindAutoLink:
		return "auto-link"
	case KindRawHTML:
		return "raw-html"
	case KindStrikethrough:
		return "strikethrough"
	case KindTaskCheckbox:
		return "task-checkbox"
	default:
		return "unknown"
	}
}

// IsBlock returns true if this is a block-level node kind.
func (k NodeKind) IsBlock() bool {
	switch k {
	case KindDocument, KindFrontMatter, KindHeading, KindParagraph,
		KindBlockquote, KindList, KindListItem, KindCodeBlock, KindHTMLBlock,
		KindThematicBreak, KindTable, KindTableRow, KindTableCell:
		return true
	default:
		return false
	}
}

// IsInline returns true if this is an inline-level node kind.
func (k NodeKind) IsInline() bool {
	switch k {
	case KindText, KindEmphasis, KindStrong, KindCodeSpan, KindLink,
		KindImage, KindAutoLink, KindRawHTML, KindStrikethrough,
		KindTaskCheckbox:
		return true
	default:
		return false
	}
}

// Node represents a single node in the parsed document tree.
// Nodes reference their source text through byte spans; they never
// copy content. Per-kind attribute fields are meaningful only for
// the kinds documented on each field.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Span is the source byte range this node covers.
	Span Span

	// Tree structure.
	Parent   *Node
	Children []*Node

	// Level is the heading level (1-6) for KindHeading.
	Level int

	// List attributes for KindList.
	Ordered bool // ordered vs bullet list
	Start   int  // first ordinal of an ordered list
	Marker  byte // bullet char ('-', '*', '+') or ordered delimiter ('.', ')')
	Tight   bool // no blank lines between items

	// Code block attributes for KindCodeBlock.
	Fenced bool   // fenced vs indented
	Info   string // fence info string (language identifier)

	// InnerSpan is the content span excluding delimiters: the body
	// between fences for KindCodeBlock and KindFrontMatter, the text
	// between backticks for KindCodeSpan.
	InnerSpan Span

	// Link attributes for KindLink, KindImage, and KindAutoLink.
	Destination string
	Title       string

	// Checked reports the checkbox state for KindTaskCheckbox.
	Checked bool
}

// AppendChild adds a child node and sets its parent pointer.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// FirstChild returns the first child, or nil if the node is empty.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// LastChild returns the last child, or nil if the node is empty.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Ancestor returns the nearest ancestor of the given kind, or nil.
func (n *Node) Ancestor(kind NodeKind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}
