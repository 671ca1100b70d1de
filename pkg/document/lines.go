package document

import "sort"

// Line holds the byte layout of a single source line.
type Line struct {
	// Start is the byte index of the first byte of the line.
	Start int

	// TextEnd is the byte index where the line terminator begins.
	// For a final line without a terminator this equals End.
	TextEnd int

	// End is the byte index just past the terminator (or end of content).
	End int
}

// buildLines constructs the line index for content.
// It handles both LF and CRLF line endings. Empty content yields a
// single empty line so that positions on it remain addressable.
func buildLines(content []byte) []Line {
	var lines []Line
	lineStart := 0

	for idx, b := range content {
		if b != '\n' {
			continue
		}
		textEnd := idx
		if idx > 0 && content[idx-1] == '\r' && textEnd > lineStart {
			textEnd = idx - 1
		}
		lines = append(lines, Line{Start: lineStart, TextEnd: textEnd, End: idx + 1})
		lineStart = idx + 1
	}

	// The last line has no terminator; emit it even when empty so a
	// trailing newline still yields an addressable final position.
	lines = append(lines, Line{Start: lineStart, TextEnd: len(content), End: len(content)})

	return lines
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// LineSpan returns the text span of a 1-based line number, excluding
// the line terminator. Returns an empty span for out-of-range lines.
func (d *Document) LineSpan(line int) Span {
	if line < 1 || line > len(d.Lines) {
		return Span{}
	}
	info := d.Lines[line-1]
	return Span{Start: info.Start, End: info.TextEnd}
}

// LineText returns the content of a 1-based line number, excluding the
// line terminator. Returns nil for out-of-range lines.
func (d *Document) LineText(line int) []byte {
	if line < 1 || line > len(d.Lines) {
		return nil
	}
	info := d.Lines[line-1]
	return d.Content[info.Start:info.TextEnd]
}

// PositionAt converts a byte offset to a 1-based line/column position.
// Column counts bytes. Offsets at or past the end of content resolve to
// a position just past the last byte; negative offsets are invalid.
func (d *Document) PositionAt(offset int) Position {
	if offset < 0 || len(d.Lines) == 0 {
		return Position{}
	}

	if offset >= len(d.Content) {
		last := d.Lines[len(d.Lines)-1]
		return Position{Line: len(d.Lines), Column: len(d.Content) - last.Start + 1}
	}

	// Binary search for the line whose range covers the offset.
	idx := sort.Search(len(d.Lines), func(i int) bool {
		return d.Lines[i].End > offset
	})
	if idx >= len(d.Lines) {
		idx = len(d.Lines) - 1
	}

	return Position{Line: idx + 1, Column: offset - d.Lines[idx].Start + 1}
}

// SpanPositions resolves a span to its start and end positions.
// The end position is exclusive, matching the span convention.
func (d *Document) SpanPositions(s Span) (Position, Position) {
	return d.PositionAt(s.Start), d.PositionAt(s.End)
}

// Slice returns the content bytes covered by a span.
// Out-of-range spans are clamped to the content.
func (d *Document) Slice(s Span) []byte {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(d.Content) {
		end = len(d.Content)
	}
	if start >= end {
		return nil
	}
	return d.Content[start:end]
}
