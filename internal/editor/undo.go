package editor

// Undo history is a bounded stack of inverse edit operations rather than
// buffer snapshots: each recorded change holds the line-level operations
// that restore the previous state when applied in order.

const maxUndoDepth = 100

type op interface {
	// apply performs the operation on b and returns its own inverse.
	apply(b *Buffer) op
}

type opSetLine struct {
	row  int
	text string
}

func (o opSetLine) apply(b *Buffer) op {
	inv := opSetLine{row: o.row, text: b.lines[o.row]}
	b.lines[o.row] = o.text
	return inv
}

type opInsertLine struct {
	row  int
	text string
}

func (o opInsertLine) apply(b *Buffer) op {
	b.lines = append(b.lines, "")
	copy(b.lines[o.row+1:], b.lines[o.row:])
	b.lines[o.row] = o.text
	return opRemoveLine{row: o.row}
}

type opRemoveLine struct {
	row int
}

func (o opRemoveLine) apply(b *Buffer) op {
	inv := opInsertLine{row: o.row, text: b.lines[o.row]}
	b.lines = append(b.lines[:o.row], b.lines[o.row+1:]...)
	return inv
}

// change is one undoable edit: the inverse operations plus the cursor
// positions on both sides of the edit.
type change struct {
	ops    []op
	before Position
	after  Position
}

// record pushes the inverse of the edit that just happened. ops must
// restore the pre-edit lines when applied in order. Recording a new
// change invalidates the redo stack.
func (b *Buffer) record(before Position, ops ...op) {
	if len(ops) == 0 {
		return
	}
	b.undo = append(b.undo, change{ops: ops, before: before, after: b.cur})
	if len(b.undo) > maxUndoDepth {
		b.undo = b.undo[1:]
	}
	b.redo = nil
	b.dirty = true
}

func (b *Buffer) applyChange(c change) change {
	inv := change{before: c.after, after: c.before, ops: make([]op, len(c.ops))}
	for i, o := range c.ops {
		// Inverses must be replayed in reverse order to undo this change.
		inv.ops[len(c.ops)-1-i] = o.apply(b)
	}
	return inv
}

// Undo reverts the most recent change. Returns false when there is
// nothing to undo.
func (b *Buffer) Undo() bool {
	if len(b.undo) == 0 {
		return false
	}
	c := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.redo = append(b.redo, b.applyChange(c))
	b.cur = c.before
	b.Clamp()
	b.dirty = true
	return true
}

// Redo re-applies the most recently undone change.
func (b *Buffer) Redo() bool {
	if len(b.redo) == 0 {
		return false
	}
	c := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.undo = append(b.undo, b.applyChange(c))
	b.cur = c.before
	b.Clamp()
	b.dirty = true
	return true
}
