package editor

import (
	"strings"

	"github.com/rivo/uniseg"
)

// InsertRune inserts r at the cursor and advances one column.
func (b *Buffer) InsertRune(r rune) {
	b.InsertString(string(r))
}

// InsertString inserts s (no newlines) at the cursor.
func (b *Buffer) InsertString(s string) {
	if s == "" {
		return
	}
	b.Clamp()
	before := b.cur
	line := b.lines[b.cur.Row]
	at := byteOffset(line, b.cur.Col)
	b.lines[b.cur.Row] = line[:at] + s + line[at:]
	b.cur.Col += clusterCount(s)
	b.record(before, opSetLine{row: before.Row, text: line})
}

// InsertNewline splits the current line at the cursor.
func (b *Buffer) InsertNewline() {
	b.Clamp()
	before := b.cur
	line := b.lines[b.cur.Row]
	at := byteOffset(line, b.cur.Col)
	b.lines[b.cur.Row] = line[:at]
	b.insertLineRaw(b.cur.Row+1, line[at:])
	b.cur.Row++
	b.cur.Col = 0
	b.record(before,
		opRemoveLine{row: before.Row + 1},
		opSetLine{row: before.Row, text: line},
	)
}

// Backspace deletes the grapheme before the cursor, joining with the
// previous line at column zero.
func (b *Buffer) Backspace() {
	b.Clamp()
	before := b.cur
	if b.cur.Col > 0 {
		line := b.lines[b.cur.Row]
		start := byteOffset(line, b.cur.Col-1)
		end := byteOffset(line, b.cur.Col)
		b.lines[b.cur.Row] = line[:start] + line[end:]
		b.cur.Col--
		b.record(before, opSetLine{row: before.Row, text: line})
		return
	}
	if b.cur.Row == 0 {
		return
	}
	prev := b.lines[b.cur.Row-1]
	cur := b.lines[b.cur.Row]
	b.cur.Col = clusterCount(prev)
	b.cur.Row--
	b.lines[b.cur.Row] = prev + cur
	b.removeLineRaw(before.Row)
	b.record(before,
		opSetLine{row: before.Row - 1, text: prev},
		opInsertLine{row: before.Row, text: cur},
	)
}

// DeleteAtCursor deletes the grapheme under the cursor, joining with the
// next line when the cursor sits at line end.
func (b *Buffer) DeleteAtCursor() {
	b.Clamp()
	before := b.cur
	line := b.lines[b.cur.Row]
	if b.cur.Col < clusterCount(line) {
		start := byteOffset(line, b.cur.Col)
		end := byteOffset(line, b.cur.Col+1)
		b.lines[b.cur.Row] = line[:start] + line[end:]
		b.record(before, opSetLine{row: before.Row, text: line})
		return
	}
	if b.cur.Row >= len(b.lines)-1 {
		return
	}
	next := b.lines[b.cur.Row+1]
	b.lines[b.cur.Row] = line + next
	b.removeLineRaw(b.cur.Row + 1)
	b.record(before,
		opSetLine{row: before.Row, text: line},
		opInsertLine{row: before.Row + 1, text: next},
	)
}

// ReplaceCluster overwrites the grapheme under the cursor with s. No-op
// past line end.
func (b *Buffer) ReplaceCluster(s string) {
	b.Clamp()
	line := b.lines[b.cur.Row]
	if b.cur.Col >= clusterCount(line) {
		return
	}
	start := byteOffset(line, b.cur.Col)
	end := byteOffset(line, b.cur.Col+1)
	b.lines[b.cur.Row] = line[:start] + s + line[end:]
	b.record(b.cur, opSetLine{row: b.cur.Row, text: line})
}

// DeleteLine removes the cursor line and returns it (with a trailing
// newline so pastes stay linewise). The last remaining line is cleared
// instead of removed.
func (b *Buffer) DeleteLine() string {
	b.Clamp()
	before := b.cur
	deleted := b.lines[b.cur.Row]
	if len(b.lines) == 1 {
		if deleted == "" {
			return "\n"
		}
		b.lines[0] = ""
		b.cur.Col = 0
		b.record(before, opSetLine{row: 0, text: deleted})
		return deleted + "\n"
	}
	b.removeLineRaw(b.cur.Row)
	if b.cur.Row >= len(b.lines) {
		b.cur.Row = len(b.lines) - 1
	}
	b.Clamp()
	b.record(before, opInsertLine{row: before.Row, text: deleted})
	return deleted + "\n"
}

// YankLine returns the cursor line with a trailing newline, unmodified.
func (b *Buffer) YankLine() string {
	b.Clamp()
	return b.lines[b.cur.Row] + "\n"
}

// OpenBelow inserts an empty line under the cursor and moves onto it.
func (b *Buffer) OpenBelow() {
	b.Clamp()
	before := b.cur
	b.insertLineRaw(b.cur.Row+1, "")
	b.cur.Row++
	b.cur.Col = 0
	b.record(before, opRemoveLine{row: before.Row + 1})
}

// OpenAbove inserts an empty line above the cursor and moves onto it.
func (b *Buffer) OpenAbove() {
	b.Clamp()
	before := b.cur
	b.insertLineRaw(b.cur.Row, "")
	b.cur.Col = 0
	b.record(before, opRemoveLine{row: before.Row})
}

// Paste inserts yanked text at the cursor. Linewise text (trailing
// newline) goes on a new line below the cursor; charwise text is
// inserted in place.
func (b *Buffer) Paste(text string) {
	if text == "" {
		return
	}
	if strings.HasSuffix(text, "\n") {
		b.Clamp()
		before := b.cur
		b.insertLineRaw(b.cur.Row+1, strings.TrimSuffix(text, "\n"))
		b.record(before, opRemoveLine{row: before.Row + 1})
		return
	}
	b.InsertString(text)
}

// DeleteInnerWord removes the whitespace-delimited word under the cursor
// and returns it. Returns "" when the cursor is not on a word.
func (b *Buffer) DeleteInnerWord() string {
	b.Clamp()
	line := b.lines[b.cur.Row]
	clusters := splitClusters(line)
	if len(clusters) == 0 || b.cur.Col >= len(clusters) {
		return ""
	}
	start, end := wordBounds(clusters, b.cur.Col)
	return b.deleteClusterRange(line, clusters, start, end)
}

// DeleteAroundWord removes the word under the cursor together with
// trailing whitespace (or leading whitespace at line end).
func (b *Buffer) DeleteAroundWord() string {
	b.Clamp()
	line := b.lines[b.cur.Row]
	clusters := splitClusters(line)
	if len(clusters) == 0 || b.cur.Col >= len(clusters) {
		return ""
	}
	start, end := wordBounds(clusters, b.cur.Col)
	grew := false
	for end < len(clusters) && isBlank(clusters[end]) {
		end++
		grew = true
	}
	if !grew {
		for start > 0 && isBlank(clusters[start-1]) {
			start--
		}
	}
	return b.deleteClusterRange(line, clusters, start, end)
}

func (b *Buffer) deleteClusterRange(line string, clusters []string, start, end int) string {
	before := b.cur
	deleted := strings.Join(clusters[start:end], "")
	b.lines[b.cur.Row] = strings.Join(clusters[:start], "") + strings.Join(clusters[end:], "")
	b.cur.Col = start
	b.Clamp()
	b.record(before, opSetLine{row: before.Row, text: line})
	return deleted
}

// DeleteRange removes the inclusive span between two positions (in
// either order) and returns the deleted text. Used by visual mode.
func (b *Buffer) DeleteRange(a, c Position) string {
	start, end := orderPositions(a, c)
	b.SetCursor(start)
	startLine := b.Line(start.Row)
	endLine := b.Line(end.Row)
	before := start

	if start.Row == end.Row {
		clusters := splitClusters(startLine)
		to := end.Col + 1
		if to > len(clusters) {
			to = len(clusters)
		}
		from := start.Col
		if from > len(clusters) {
			from = len(clusters)
		}
		if from >= to {
			return ""
		}
		deleted := strings.Join(clusters[from:to], "")
		b.lines[start.Row] = strings.Join(clusters[:from], "") + strings.Join(clusters[to:], "")
		b.cur = Position{Row: start.Row, Col: from}
		b.Clamp()
		b.record(before, opSetLine{row: start.Row, text: startLine})
		return deleted
	}

	var sb strings.Builder
	headAt := byteOffset(startLine, start.Col)
	tailAt := byteOffset(endLine, end.Col+1)
	sb.WriteString(startLine[headAt:])
	sb.WriteString("\n")
	for r := start.Row + 1; r < end.Row; r++ {
		sb.WriteString(b.lines[r])
		sb.WriteString("\n")
	}
	sb.WriteString(endLine[:tailAt])

	ops := make([]op, 0, end.Row-start.Row+1)
	// Restore middle lines and the tail line, then the head line.
	for r := start.Row + 1; r <= end.Row; r++ {
		ops = append(ops, opInsertLine{row: r, text: b.lines[r]})
	}
	ops = append(ops, opSetLine{row: start.Row, text: startLine})

	b.lines[start.Row] = startLine[:headAt] + endLine[tailAt:]
	b.lines = append(b.lines[:start.Row+1], b.lines[end.Row+1:]...)
	b.cur = start
	b.Clamp()
	b.record(before, ops...)
	return sb.String()
}

// TextInRange returns the inclusive span between two positions without
// modifying the buffer. Used by visual-mode yank.
func (b *Buffer) TextInRange(a, c Position) string {
	start, end := orderPositions(a, c)
	if start.Row == end.Row {
		line := b.Line(start.Row)
		from := byteOffset(line, start.Col)
		to := byteOffset(line, end.Col+1)
		if from >= to {
			return ""
		}
		return line[from:to]
	}
	var sb strings.Builder
	startLine := b.Line(start.Row)
	sb.WriteString(startLine[byteOffset(startLine, start.Col):])
	sb.WriteString("\n")
	for r := start.Row + 1; r < end.Row; r++ {
		sb.WriteString(b.Line(r))
		sb.WriteString("\n")
	}
	endLine := b.Line(end.Row)
	sb.WriteString(endLine[:byteOffset(endLine, end.Col+1)])
	return sb.String()
}

func (b *Buffer) insertLineRaw(row int, text string) {
	b.lines = append(b.lines, "")
	copy(b.lines[row+1:], b.lines[row:])
	b.lines[row] = text
}

func (b *Buffer) removeLineRaw(row int) {
	b.lines = append(b.lines[:row], b.lines[row+1:]...)
}

func orderPositions(a, c Position) (Position, Position) {
	if a.Row < c.Row || (a.Row == c.Row && a.Col <= c.Col) {
		return a, c
	}
	return c, a
}

func wordBounds(clusters []string, col int) (int, int) {
	start, end := col, col
	for start > 0 && !isBlank(clusters[start-1]) {
		start--
	}
	for end < len(clusters) && !isBlank(clusters[end]) {
		end++
	}
	return start, end
}

func isBlank(cluster string) bool {
	return strings.TrimSpace(cluster) == ""
}

func splitClusters(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, len(s))
	rest := s
	state := -1
	var cluster string
	for len(rest) > 0 {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		out = append(out, cluster)
	}
	return out
}

func clusterCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
