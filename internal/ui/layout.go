package ui

// Rect is a pane rectangle in terminal cells.
type Rect struct {
	X, Y, W, H int
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutStacked
	LayoutTooSmall
)

// Frame is the computed pane geometry for one terminal size. Header and
// status are single rows; the body splits between editor and output.
type Frame struct {
	Mode   LayoutMode
	Header Rect
	Editor Rect
	Output Rect
	Status Rect
}

const (
	minCols = 60
	minRows = 16
	wideAt  = 110
)

// ComputeFrame is a pure function of the terminal size. Wide terminals
// put the output beside the editor; narrow ones stack it below.
func ComputeFrame(cols, rows int) Frame {
	if cols < minCols || rows < minRows {
		return Frame{Mode: LayoutTooSmall}
	}

	body := rows - 2
	f := Frame{
		Header: Rect{X: 0, Y: 0, W: cols, H: 1},
		Status: Rect{X: 0, Y: rows - 1, W: cols, H: 1},
	}

	if cols >= wideAt {
		f.Mode = LayoutWide
		editorW := cols * 3 / 5
		f.Editor = Rect{X: 0, Y: 1, W: editorW, H: body}
		f.Output = Rect{X: editorW, Y: 1, W: cols - editorW, H: body}
		return f
	}

	f.Mode = LayoutStacked
	editorH := body * 7 / 10
	if editorH < 5 {
		editorH = 5
	}
	f.Editor = Rect{X: 0, Y: 1, W: cols, H: editorH}
	f.Output = Rect{X: 0, Y: 1 + editorH, W: cols, H: body - editorH}
	return f
}
