package document_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgewell/mdcheck/pkg/document"
)

// buildTree constructs a small fixture tree:
//
//	Document
//	├── Heading
//	│   └── Text
//	├── Paragraph
//	│   ├── Text
//	│   └── Emphasis
//	│       └── Text
//	└── CodeBlock
func buildTree() *document.Node {
	root := &document.Node{Kind: document.KindDocument}

	heading := &document.Node{Kind: document.KindHeading, Level: 1}
	heading.AppendChild(&document.Node{Kind: document.KindText})
	root.AppendChild(heading)

	para := &document.Node{Kind: document.KindParagraph}
	para.AppendChild(&document.Node{Kind: document.KindText})
	emph := &document.Node{Kind: document.KindEmphasis}
	emph.AppendChild(&document.Node{Kind: document.KindText})
	para.AppendChild(emph)
	root.AppendChild(para)

	root.AppendChild(&document.Node{Kind: document.KindCodeBlock})

	return root
}

func TestWalkVisitsPreOrder(t *testing.T) {
	t.Parallel()

	var visited []document.NodeKind
	err := document.Walk(buildTree(), func(n *document.Node) error {
		visited = append(visited, n.Kind)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []document.NodeKind{
		document.KindDocument,
		document.KindHeading,
		document.KindText,
		document.KindParagraph,
		document.KindText,
		document.KindEmphasis,
		document.KindText,
		document.KindCodeBlock,
	}, visited)
}

func TestWalkStopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	count := 0
	err := document.Walk(buildTree(), func(n *document.Node) error {
		count++
		if n.Kind == document.KindParagraph {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, count)
}

func TestWalkSkipChildren(t *testing.T) {
	t.Parallel()

	var visited []document.NodeKind
	err := document.Walk(buildTree(), func(n *document.Node) error {
		visited = append(visited, n.Kind)
		if n.Kind == document.KindParagraph {
			return document.SkipChildren
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []document.NodeKind{
		document.KindDocument,
		document.KindHeading,
		document.KindText,
		document.KindParagraph,
		document.KindCodeBlock,
	}, visited)
}

func TestWalkNilRoot(t *testing.T) {
	t.Parallel()

	err := document.Walk(nil, func(n *document.Node) error {
		t.Fatal("callback should not run")
		return nil
	})
	assert.NoError(t, err)
}

func TestCollect(t *testing.T) {
	t.Parallel()

	texts := document.Collect(buildTree(), document.KindText)
	assert.Len(t, texts, 3)

	headings := document.Collect(buildTree(), document.KindHeading)
	require.Len(t, headings, 1)
	assert.Equal(t, 1, headings[0].Level)

	assert.Empty(t, document.Collect(buildTree(), document.KindTable))
}

func TestFindFirst(t *testing.T) {
	t.Parallel()

	root := buildTree()

	emph := document.FindFirst(root, func(n *document.Node) bool {
		return n.Kind == document.KindEmphasis
	})
	require.NotNil(t, emph)
	assert.Equal(t, document.KindParagraph, emph.Parent.Kind)

	missing := document.FindFirst(root, func(n *document.Node) bool {
		return n.Kind == document.KindTableCell
	})
	assert.Nil(t, missing)
}

func TestNodeRelations(t *testing.T) {
	t.Parallel()

	root := buildTree()

	assert.True(t, root.HasChildren())
	assert.Equal(t, document.KindHeading, root.FirstChild().Kind)
	assert.Equal(t, document.KindCodeBlock, root.LastChild().Kind)

	leaf := &document.Node{Kind: document.KindText}
	assert.Nil(t, leaf.FirstChild())
	assert.Nil(t, leaf.LastChild())

	emph := document.FindFirst(root, func(n *document.Node) bool {
		return n.Kind == document.KindEmphasis
	})
	require.NotNil(t, emph)
	inner := emph.FirstChild()
	require.NotNil(t, inner)

	assert.Equal(t, emph, inner.Ancestor(document.KindEmphasis))
	assert.Equal(t, root, inner.Ancestor(document.KindDocument))
	assert.Nil(t, inner.Ancestor(document.KindTable))
}

func TestNodeKindClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     document.NodeKind
		name     string
		isBlock  bool
		isInline bool
	}{
		{document.KindDocument, "document", true, false},
		{document.KindFrontMatter, "front-matter", true, false},
		{document.KindHeading, "heading", true, false},
		{document.KindParagraph, "paragraph", true, false},
		{document.KindBlockquote, "blockquote", true, false},
		{document.KindList, "list", true, false},
		{document.KindListItem, "list-item", true, false},
		{document.KindCodeBlock, "code-block", true, false},
		{document.KindHTMLBlock, "html-block", true, false},
		{document.KindThematicBreak, "thematic-break", true, false},
		{document.KindTable, "table", true, false},
		{document.KindTableRow, "table-row", true, false},
		{document.KindTableCell, "table-cell", true, false},
		{document.KindText, "text", false, true},
		{document.KindEmphasis, "emphasis", false, true},
		{document.KindStrong, "strong", false, true},
		{document.KindCodeSpan, "code-span", false, true},
		{document.KindLink, "link", false, true},
		{document.KindImage, "image", false, true},
		{document.KindAutoLink, "auto-link", false, true},
		{document.KindRawHTML, "raw-html", false, true},
		{document.KindStrikethrough, "strikethrough", false, true},
		{document.KindTaskCheckbox, "task-checkbox", false, true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.name, testCase.kind.String())
			assert.Equal(t, testCase.isBlock, testCase.kind.IsBlock())
			assert.Equal(t, testCase.isInline, testCase.kind.IsInline())
		})
	}

	assert.Equal(t, "unknown", document.NodeKind(255).String())
}
