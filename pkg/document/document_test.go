package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgewell/mdcheck/pkg/document"
)

func TestNewBuildsLineIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []document.Line
	}{
		{
			name:    "empty content",
			content: "",
			expected: []document.Line{
				{Start: 0, TextEnd: 0, End: 0},
			},
		},
		{
			name:    "single line no newline",
			content: "hello",
			expected: []document.Line{
				{Start: 0, TextEnd: 5, End: 5},
			},
		},
		{
			name:    "single line with LF",
			content: "hello\n",
			expected: []document.Line{
				{Start: 0, TextEnd: 5, End: 6},
				{Start: 6, TextEnd: 6, End: 6},
			},
		},
		{
			name:    "single line with CRLF",
			content: "hello\r\n",
			expected: []document.Line{
				{Start: 0, TextEnd: 5, End: 7},
				{Start: 7, TextEnd: 7, End: 7},
			},
		},
		{
			name:    "multiple lines LF",
			content: "line1\nline2\nline3",
			expected: []document.Line{
				{Start: 0, TextEnd: 5, End: 6},
				{Start: 6, TextEnd: 11, End: 12},
				{Start: 12, TextEnd: 17, End: 17},
			},
		},
		{
			name:    "multiple lines CRLF",
			content: "line1\r\nline2\r\n",
			expected: []document.Line{
				{Start: 0, TextEnd: 5, End: 7},
				{Start: 7, TextEnd: 12, End: 14},
				{Start: 14, TextEnd: 14, End: 14},
			},
		},
		{
			name:    "only newline",
			content: "\n",
			expected: []document.Line{
				{Start: 0, TextEnd: 0, End: 1},
				{Start: 1, TextEnd: 1, End: 1},
			},
		},
		{
			name:    "bare carriage return is not a terminator",
			content: "a\rb",
			expected: []document.Line{
				{Start: 0, TextEnd: 3, End: 3},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			doc := document.New("test.md", []byte(testCase.content))
			assert.Equal(t, testCase.expected, doc.Lines)
		})
	}
}

func TestPositionAt(t *testing.T) {
	t.Parallel()

	doc := document.New("test.md", []byte("line1\nline2\nline3"))

	tests := []struct {
		name     string
		offset   int
		expected document.Position
	}{
		{"start of file", 0, document.Position{Line: 1, Column: 1}},
		{"middle of line 1", 2, document.Position{Line: 1, Column: 3}},
		{"last byte of line 1", 4, document.Position{Line: 1, Column: 5}},
		{"newline of line 1", 5, document.Position{Line: 1, Column: 6}},
		{"start of line 2", 6, document.Position{Line: 2, Column: 1}},
		{"start of line 3", 12, document.Position{Line: 3, Column: 1}},
		{"end of content", 17, document.Position{Line: 3, Column: 6}},
		{"past end of content", 25, document.Position{Line: 3, Column: 6}},
		{"negative offset", -1, document.Position{}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := doc.PositionAt(testCase.offset)
			assert.Equal(t, testCase.expected, got)
		})
	}
}

func TestPositionAtCRLF(t *testing.T) {
	t.Parallel()

	doc := document.New("test.md", []byte("ab\r\ncd\r\n"))

	// Offsets inside the CRLF sequence still resolve to the line they
	// terminate.
	assert.Equal(t, document.Position{Line: 1, Column: 3}, doc.PositionAt(2))
	assert.Equal(t, document.Position{Line: 1, Column: 4}, doc.PositionAt(3))
	assert.Equal(t, document.Position{Line: 2, Column: 1}, doc.PositionAt(4))
}

func TestSpanPositions(t *testing.T) {
	t.Parallel()

	doc := document.New("test.md", []byte("# Heading\n\nSome  text.\n"))

	// "  " run inside "Some  text." sits at offsets 15-17.
	start, end := doc.SpanPositions(document.Span{Start: 15, End: 17})
	assert.Equal(t, document.Position{Line: 3, Column: 5}, start)
	assert.Equal(t, document.Position{Line: 3, Column: 7}, end)
}

func TestLineTextAndSpan(t *testing.T) {
	t.Parallel()

	doc := document.New("test.md", []byte("first\nsecond\r\nthird"))

	tests := []struct {
		line     int
		expected string
	}{
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{0, ""},
		{4, ""},
		{-1, ""},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.expected, string(doc.LineText(testCase.line)),
			"LineText(%d)", testCase.line)

		span := doc.LineSpan(testCase.line)
		assert.Equal(t, testCase.expected, string(doc.Slice(span)),
			"LineSpan(%d)", testCase.line)
	}
}

func TestLineCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected int
	}{
		{"empty", "", 1},
		{"single line no newline", "hello", 1},
		{"single line with newline", "hello\n", 2},
		{"three lines", "a\nb\nc", 3},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			doc := document.New("test.md", []byte(testCase.content))
			assert.Equal(t, testCase.expected, doc.LineCount())
		})
	}
}

func TestSliceClampsBounds(t *testing.T) {
	t.Parallel()

	doc := document.New("test.md", []byte("abc"))

	assert.Equal(t, "abc", string(doc.Slice(document.Span{Start: -2, End: 10})))
	assert.Nil(t, doc.Slice(document.Span{Start: 2, End: 2}))
	assert.Nil(t, doc.Slice(document.Span{Start: 3, End: 1}))
}

func TestSpanHelpers(t *testing.T) {
	t.Parallel()

	s := document.Span{Start: 2, End: 5}

	assert.Equal(t, 3, s.Len())
	assert.False(t, s.IsEmpty())
	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(5))

	empty := document.Span{Start: 4, End: 4}
	assert.True(t, empty.IsEmpty())

	assert.Equal(t, document.Span{Start: 2, End: 9},
		s.Union(document.Span{Start: 7, End: 9}))
	assert.Equal(t, s, s.Union(empty))
	assert.Equal(t, s, empty.Union(s))
}

func TestAddError(t *testing.T) {
	t.Parallel()

	doc := document.New("test.md", []byte("one\ntwo\n"))
	doc.AddError(4, "unterminated front matter")

	require.Len(t, doc.Errors, 1)
	assert.Equal(t, 2, doc.Errors[0].Line)
	assert.Equal(t, 1, doc.Errors[0].Column)
	assert.Equal(t, "2:1: unterminated front matter", doc.Errors[0].Error())
}
