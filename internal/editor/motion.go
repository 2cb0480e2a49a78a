package editor

import "strings"

// Direction selects the axis and sign of a cursor motion.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// Unit selects how far a motion travels.
type Unit int

const (
	UnitCluster Unit = iota
	UnitWord
	UnitLine
	UnitBuffer
)

// Move dispatches a single cursor motion. Unsupported combinations
// (vertical word motions, horizontal buffer motions) fall back to the
// cluster motion on the same axis.
func (b *Buffer) Move(dir Direction, unit Unit) {
	switch {
	case unit == UnitWord && dir == DirRight:
		b.WordForward()
	case unit == UnitWord && dir == DirLeft:
		b.WordBackward()
	case unit == UnitLine && dir == DirLeft:
		b.LineStart()
	case unit == UnitLine && dir == DirRight:
		b.LineEnd()
	case unit == UnitBuffer && dir == DirUp:
		b.FirstLine()
	case unit == UnitBuffer && dir == DirDown:
		b.LastLine()
	default:
		switch dir {
		case DirLeft:
			b.MoveLeft()
		case DirRight:
			b.MoveRight()
		case DirUp:
			b.MoveUp()
		case DirDown:
			b.MoveDown()
		}
	}
}

// MoveLeft moves one cluster left, wrapping to the end of the previous
// line at column zero.
func (b *Buffer) MoveLeft() {
	b.Clamp()
	if b.cur.Col > 0 {
		b.cur.Col--
		return
	}
	if b.cur.Row > 0 {
		b.cur.Row--
		b.cur.Col = b.CurrentLineWidth()
	}
}

// MoveRight moves one cluster right, wrapping to the start of the next
// line at line end.
func (b *Buffer) MoveRight() {
	b.Clamp()
	if b.cur.Col < b.CurrentLineWidth() {
		b.cur.Col++
		return
	}
	if b.cur.Row < len(b.lines)-1 {
		b.cur.Row++
		b.cur.Col = 0
	}
}

// MoveUp moves one line up, clamping the column to the new line's width.
func (b *Buffer) MoveUp() {
	b.Clamp()
	if b.cur.Row > 0 {
		b.cur.Row--
		b.Clamp()
	}
}

// MoveDown moves one line down, clamping the column to the new line's
// width.
func (b *Buffer) MoveDown() {
	b.Clamp()
	if b.cur.Row < len(b.lines)-1 {
		b.cur.Row++
		b.Clamp()
	}
}

// LineStart moves to column zero.
func (b *Buffer) LineStart() {
	b.Clamp()
	b.cur.Col = 0
}

// LineEnd moves past the last cluster of the line.
func (b *Buffer) LineEnd() {
	b.Clamp()
	b.cur.Col = b.CurrentLineWidth()
}

// FirstNonBlank moves to the first non-whitespace cluster of the line,
// or column zero on a blank line.
func (b *Buffer) FirstNonBlank() {
	b.Clamp()
	clusters := splitClusters(b.lines[b.cur.Row])
	for i, c := range clusters {
		if !isBlank(c) {
			b.cur.Col = i
			return
		}
	}
	b.cur.Col = 0
}

// FirstLine moves to the start of the buffer.
func (b *Buffer) FirstLine() {
	b.cur = Position{}
}

// LastLine moves to the start of the final line.
func (b *Buffer) LastLine() {
	b.cur = Position{Row: len(b.lines) - 1, Col: 0}
}

// WordForward moves to the start of the next word, crossing line
// boundaries. Words are runs of non-whitespace clusters.
func (b *Buffer) WordForward() {
	b.Clamp()
	row, col := b.cur.Row, b.cur.Col
	clusters := splitClusters(b.lines[row])

	// Leave the current word, then skip whitespace, wrapping as needed.
	for col < len(clusters) && !isBlank(clusters[col]) {
		col++
	}
	for {
		for col < len(clusters) && isBlank(clusters[col]) {
			col++
		}
		if col < len(clusters) || row >= len(b.lines)-1 {
			break
		}
		row++
		col = 0
		clusters = splitClusters(b.lines[row])
		if len(clusters) > 0 && !isBlank(clusters[0]) {
			break
		}
	}
	b.cur = Position{Row: row, Col: col}
	b.Clamp()
}

// WordBackward moves to the start of the previous word, crossing line
// boundaries.
func (b *Buffer) WordBackward() {
	b.Clamp()
	row, col := b.cur.Row, b.cur.Col
	clusters := splitClusters(b.lines[row])

	for {
		// Step off the current position, wrapping to the previous
		// line's end when at column zero.
		if col == 0 {
			if row == 0 {
				b.cur = Position{}
				return
			}
			row--
			clusters = splitClusters(b.lines[row])
			col = len(clusters)
		}
		col--
		for col >= 0 && isBlank(at(clusters, col)) {
			col--
		}
		if col >= 0 {
			break
		}
		col = 0
	}
	// Walk back to the start of the word.
	for col > 0 && !isBlank(clusters[col-1]) {
		col--
	}
	b.cur = Position{Row: row, Col: col}
	b.Clamp()
}

func at(clusters []string, i int) string {
	if i < 0 || i >= len(clusters) {
		return ""
	}
	return clusters[i]
}

// IndentOf returns the leading whitespace of line row, used for
// auto-indent on newline in insert mode.
func (b *Buffer) IndentOf(row int) string {
	line := b.Line(row)
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
