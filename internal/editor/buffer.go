// Package editor implements the modal text buffer the tutor embeds: an
// ordered sequence of lines with a cursor, an optional visual selection,
// a dirty flag, and bounded undo history. Cursor columns are measured in
// grapheme clusters so multi-byte text behaves like single cells.
package editor

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Position is a (line, column) pair. Column is a grapheme-cluster index,
// not a byte offset.
type Position struct {
	Row int
	Col int
}

// Buffer holds one exercise's source text. All mutating operations clamp
// out-of-range cursor positions instead of failing, mark the buffer dirty,
// and record an inverse change for undo.
type Buffer struct {
	lines []string
	cur   Position

	anchor    Position
	selecting bool

	dirty bool

	undo []change
	redo []change
}

// New builds a buffer from text. An empty input still yields one empty
// line so the cursor always has a valid row.
func New(text string) *Buffer {
	b := &Buffer{}
	b.Load(text)
	return b
}

// Load replaces the buffer contents, resets the cursor and selection,
// clears the dirty flag, and drops undo history.
func (b *Buffer) Load(text string) {
	b.lines = strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
	b.cur = Position{}
	b.selecting = false
	b.dirty = false
	b.undo = nil
	b.redo = nil
}

// Content serializes the buffer back to text.
func (b *Buffer) Content() string {
	return strings.Join(b.lines, "\n")
}

// Lines returns the underlying lines. Callers must not mutate the slice.
func (b *Buffer) Lines() []string { return b.lines }

// LineCount returns the number of lines, always >= 1.
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns line i, or the empty string when i is out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() Position { return b.cur }

// Dirty reports whether the buffer has unsaved mutations.
func (b *Buffer) Dirty() bool { return b.dirty }

// MarkClean clears the dirty flag; called after a successful save.
func (b *Buffer) MarkClean() { b.dirty = false }

// lineWidth returns the grapheme-cluster length of line row.
func (b *Buffer) lineWidth(row int) int {
	if row < 0 || row >= len(b.lines) {
		return 0
	}
	return uniseg.GraphemeClusterCount(b.lines[row])
}

// CurrentLineWidth returns the grapheme length of the cursor line.
func (b *Buffer) CurrentLineWidth() int { return b.lineWidth(b.cur.Row) }

// byteOffset converts a grapheme column on s into a byte offset,
// clamping past-end columns to len(s).
func byteOffset(s string, col int) int {
	if col <= 0 {
		return 0
	}
	rest := s
	offset := 0
	state := -1
	var cluster string
	for i := 0; i < col && len(rest) > 0; i++ {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		offset += len(cluster)
	}
	return offset
}

// clusterAt returns the grapheme cluster at column col of s, or "" when
// col is past the end of the line.
func clusterAt(s string, col int) string {
	rest := s
	state := -1
	var cluster string
	for i := 0; len(rest) > 0; i++ {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if i == col {
			return cluster
		}
	}
	return ""
}

// ClusterAtCursor returns the grapheme under the cursor, "" at line end.
func (b *Buffer) ClusterAtCursor() string {
	return clusterAt(b.Line(b.cur.Row), b.cur.Col)
}

// Clamp forces the cursor back into [0, len) on both axes. Motions call
// it after every move, so it also repairs positions handed in from
// outside (mouse clicks, restored state).
func (b *Buffer) Clamp() {
	if b.cur.Row < 0 {
		b.cur.Row = 0
	}
	if b.cur.Row > len(b.lines)-1 {
		b.cur.Row = len(b.lines) - 1
	}
	if b.cur.Col < 0 {
		b.cur.Col = 0
	}
	if w := b.CurrentLineWidth(); b.cur.Col > w {
		b.cur.Col = w
	}
}

// SetCursor moves the cursor to pos, clamped into bounds.
func (b *Buffer) SetCursor(pos Position) {
	b.cur = pos
	b.Clamp()
}
