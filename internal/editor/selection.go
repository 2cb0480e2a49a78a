package editor

// StartSelection anchors a visual selection at the cursor.
func (b *Buffer) StartSelection() {
	b.Clamp()
	b.anchor = b.cur
	b.selecting = true
}

// ClearSelection leaves visual mode's selection state behind.
func (b *Buffer) ClearSelection() {
	b.selecting = false
}

// Selecting reports whether a visual selection is active.
func (b *Buffer) Selecting() bool { return b.selecting }

// SelectionBounds returns the inclusive selection span in document
// order. ok is false when no selection is active.
func (b *Buffer) SelectionBounds() (start, end Position, ok bool) {
	if !b.selecting {
		return Position{}, Position{}, false
	}
	start, end = orderPositions(b.anchor, b.cur)
	return start, end, true
}

// Selected reports whether pos falls inside the active selection, used
// by the renderer to invert selected cells.
func (b *Buffer) Selected(pos Position) bool {
	start, end, ok := b.SelectionBounds()
	if !ok {
		return false
	}
	if pos.Row < start.Row || pos.Row > end.Row {
		return false
	}
	if pos.Row == start.Row && pos.Col < start.Col {
		return false
	}
	if pos.Row == end.Row && pos.Col > end.Col {
		return false
	}
	return true
}

// YankSelection returns the selected text without modifying the buffer
// and clears the selection.
func (b *Buffer) YankSelection() string {
	start, end, ok := b.SelectionBounds()
	if !ok {
		return ""
	}
	b.ClearSelection()
	return b.TextInRange(start, end)
}

// DeleteSelection removes the selected text, returns it, and clears the
// selection.
func (b *Buffer) DeleteSelection() string {
	start, end, ok := b.SelectionBounds()
	if !ok {
		return ""
	}
	b.ClearSelection()
	return b.DeleteRange(start, end)
}
