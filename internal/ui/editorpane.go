package ui

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/rivo/uniseg"

	"github.com/Rust-Frog/Rust-Progress-sub000/internal/syntax"
)

// syntaxCache carries highlighter state across lines so only the
// visible window is re-highlighted each frame. states[i] is the
// highlighter state at the start of line i.
type syntaxCache struct {
	lang   syntax.Language
	lines  []string
	states []syntax.State
}

func newSyntaxCache(lang syntax.Language) *syntaxCache {
	return &syntaxCache{lang: lang, states: []syntax.State{{}}}
}

// update diffs the new buffer against the cached one and truncates the
// state prefix at the first changed line.
func (c *syntaxCache) update(lines []string) {
	keep := 0
	for keep < len(lines) && keep < len(c.lines) && lines[keep] == c.lines[keep] {
		keep++
	}
	if keep+1 < len(c.states) {
		c.states = c.states[:keep+1]
	}
	c.lines = append(c.lines[:0:0], lines...)
}

// spansFor returns the highlight spans for line row, extending the
// state prefix as far as needed.
func (c *syntaxCache) spansFor(row int) []syntax.Span {
	if row < 0 || row >= len(c.lines) {
		return nil
	}
	for len(c.states) <= row {
		i := len(c.states) - 1
		_, next := syntax.HighlightLine(c.lang, c.lines[i], c.states[i])
		c.states = append(c.states, next)
	}
	spans, next := syntax.HighlightLine(c.lang, c.lines[row], c.states[row])
	if len(c.states) == row+1 {
		c.states = append(c.states, next)
	}
	return spans
}

// renderEditorPane draws the gutter plus highlighted source for rect,
// scrolled so the cursor stays visible.
func (r *Root) renderEditorPane(rect Rect) string {
	es := r.editor
	if rect.W < 8 || rect.H < 1 {
		return ""
	}

	gutterW := len(fmt.Sprintf("%d", max(1, len(es.Lines)))) + 1
	textW := rect.W - gutterW - 1

	r.editorScroll = clampScroll(r.editorScroll, es.CursorRow, rect.H, len(es.Lines))

	var sb strings.Builder
	for i := 0; i < rect.H; i++ {
		row := r.editorScroll + i
		if i > 0 {
			sb.WriteString("\n")
		}
		if row >= len(es.Lines) {
			sb.WriteString(r.theme.LineNumber.Render(strings.Repeat(" ", gutterW-1) + "~"))
			continue
		}
		num := fmt.Sprintf("%*d ", gutterW-1, row+1)
		sb.WriteString(r.theme.LineNumber.Render(num))
		sb.WriteString(r.renderSourceLine(row, es.Lines[row], textW))
	}
	return sb.String()
}

// renderSourceLine styles one line cluster by cluster: syntax class
// first, then selection, then the cursor cell on top.
func (r *Root) renderSourceLine(row int, line string, width int) string {
	spans := r.highlight.spansFor(row)
	es := r.editor

	var sb strings.Builder
	var runStyle lipgloss.Style
	var run strings.Builder
	runActive := false

	flush := func() {
		if runActive {
			sb.WriteString(runStyle.Render(run.String()))
			run.Reset()
			runActive = false
		}
	}

	col := 0
	offset := 0
	rest := line
	state := -1
	var cluster string
	for len(rest) > 0 && col < width {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		style := r.theme.SyntaxStyle(classAt(spans, offset))
		switch {
		case row == es.CursorRow && col == es.CursorCol:
			style = r.theme.CursorCell
		case selected(es, row, col):
			style = r.theme.Selection
		}
		if !runActive || !sameStyle(style, runStyle) {
			flush()
			runStyle = style
			runActive = true
		}
		run.WriteString(cluster)
		offset += len(cluster)
		col++
	}
	flush()

	// Cursor past the last cluster renders as a reversed blank.
	if row == es.CursorRow && es.CursorCol >= col && col < width {
		sb.WriteString(r.theme.CursorCell.Render(" "))
	}
	return sb.String()
}

func classAt(spans []syntax.Span, offset int) syntax.Class {
	for _, s := range spans {
		if offset >= s.Start && offset < s.End {
			return s.Class
		}
	}
	return syntax.ClassPlain
}

func selected(es EditorState, row, col int) bool {
	if !es.Selecting {
		return false
	}
	if row < es.SelStartRow || row > es.SelEndRow {
		return false
	}
	if row == es.SelStartRow && col < es.SelStartCol {
		return false
	}
	if row == es.SelEndRow && col > es.SelEndCol {
		return false
	}
	return true
}

func sameStyle(a, b lipgloss.Style) bool {
	return a.Render("x") == b.Render("x")
}

// clampScroll keeps cursorRow within the viewport of height rows.
func clampScroll(scroll, cursorRow, height, total int) int {
	if height <= 0 {
		return 0
	}
	if cursorRow < scroll {
		scroll = cursorRow
	}
	if cursorRow >= scroll+height {
		scroll = cursorRow - height + 1
	}
	if maxScroll := total - height; scroll > maxScroll {
		scroll = maxScroll
	}
	if scroll < 0 {
		scroll = 0
	}
	return scroll
}
