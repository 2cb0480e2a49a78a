package ui

import (
	"fmt"
	"strings"
	"time"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// activityFrames animate the "run in flight" indicator. The frame index
// is a function of wall-clock time, not redraw count, so the indicator
// moves at the same speed regardless of how often the UI repaints.
var activityFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func activityFrame(now time.Time) string {
	idx := int(now.UnixMilli()/100) % len(activityFrames)
	return activityFrames[idx]
}

func (r *Root) renderSession() string {
	f := ComputeFrame(r.cols, r.rows)
	if f.Mode == LayoutTooSmall {
		msg := []string{
			"Terminal too small",
			fmt.Sprintf("Current: %dx%d", r.cols, r.rows),
			fmt.Sprintf("Minimum: %dx%d", minCols, minRows),
			"Resize the terminal to continue.",
		}
		panel := r.drawPanel("Resize Required", msg, min(48, r.cols), min(10, r.rows))
		return lipgloss.Place(r.cols, r.rows, lipgloss.Center, lipgloss.Center, panel)
	}

	header := r.headerText()
	status := r.statusText()

	editor := lipgloss.NewStyle().
		Width(f.Editor.W).
		Height(f.Editor.H).
		MaxWidth(f.Editor.W).
		MaxHeight(f.Editor.H).
		Render(r.renderEditorPane(f.Editor))
	output := lipgloss.NewStyle().
		Width(f.Output.W).
		Height(f.Output.H).
		MaxWidth(f.Output.W).
		MaxHeight(f.Output.H).
		Render(r.renderOutputPane(f.Output))

	var body string
	if f.Mode == LayoutWide {
		body = lipgloss.JoinHorizontal(lipgloss.Top, editor, output)
	} else {
		body = editor + "\n" + output
	}
	return header + "\n" + body + "\n" + status
}

func (r *Root) headerText() string {
	ratio := 0.0
	if r.prog.Total > 0 {
		ratio = float64(r.prog.Done) / float64(r.prog.Total)
	}
	left := fmt.Sprintf("%s  %s (%d/%d)", r.prog.Course, r.prog.Exercise, r.prog.Index+1, max(1, r.prog.Total))
	bar := fmt.Sprintf("%s %d/%d done", r.courseBar.ViewAs(ratio), r.prog.Done, r.prog.Total)

	flags := make([]string, 0, 2)
	if r.prog.AutoAdvance {
		flags = append(flags, "auto")
	}
	if r.prog.Watching {
		flags = append(flags, "watch")
	}
	right := bar
	if len(flags) > 0 {
		right += "  [" + strings.Join(flags, " ") + "]"
	}

	gap := r.cols - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return r.theme.Header.Width(r.cols).Render(left + strings.Repeat(" ", gap) + right)
}

func (r *Root) statusText() string {
	mode := r.editor.Mode
	var badge string
	switch mode {
	case "INSERT":
		badge = r.theme.ModeInsert.Render(mode)
	case "VISUAL":
		badge = r.theme.ModeVisual.Render(mode)
	case "COMMAND":
		badge = r.theme.ModeCommand.Render(mode)
	default:
		badge = r.theme.ModeNormal.Render(mode)
	}

	parts := []string{badge}
	if mode == "COMMAND" {
		parts = append(parts, r.theme.Accent.Render(":"+r.editor.CommandLine+"▏"))
	}
	if r.editor.PendingKeys != "" {
		parts = append(parts, r.theme.Pending.Render(r.editor.PendingKeys))
	}
	if r.editor.Dirty {
		parts = append(parts, r.theme.Pending.Render("[+]"))
	}
	if r.checking {
		elapsed := time.Since(r.checkingSince).Round(time.Second)
		parts = append(parts, r.theme.Accent.Render(fmt.Sprintf("%s %s running %s", activityFrame(time.Now()), r.runSpin.View(), elapsed)))
	}
	if r.statusFlash != "" {
		parts = append(parts, r.theme.Accent.Render(r.statusFlash))
	}

	left := strings.Join(parts, " ")
	right := r.help.ShortHelpView(r.keymap.ShortHelp())
	gap := r.cols - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return r.theme.Status.Width(r.cols).Render(left + strings.Repeat(" ", gap) + right)
}

func (r *Root) renderOutputPane(rect Rect) string {
	var title string
	switch r.output.Verdict {
	case "success":
		title = r.theme.Pass.Render("✓ passed")
	case "failure":
		title = r.theme.Fail.Render("✗ failed")
	case "tool_error":
		title = r.theme.Pending.Render("! toolchain error")
	default:
		title = r.theme.Muted.Render("no run yet")
	}
	header := r.theme.PanelTitle.Render("Output") + " " + title

	bodyH := rect.H - 1
	if bodyH < 1 {
		return header
	}
	lines := r.output.Lines
	start := r.output.Scroll
	if start > len(lines) {
		start = len(lines)
	}
	if start < 0 {
		start = 0
	}
	end := start + bodyH
	if end > len(lines) {
		end = len(lines)
	}

	out := make([]string, 0, bodyH+1)
	out = append(out, header)
	for _, line := range lines[start:end] {
		out = append(out, trimForWidth(line, rect.W-1))
	}
	if start > 0 || end < len(lines) {
		out[0] += r.theme.Muted.Render(fmt.Sprintf("  (%d-%d/%d)", start+1, end, len(lines)))
	}
	return strings.Join(out, "\n")
}

func (r *Root) renderOverlay() string {
	switch {
	case r.helpOpen:
		return r.renderHelpOverlay()
	case r.solutionOpen:
		return r.renderSolutionOverlay()
	case r.hintOpen:
		return r.renderHintOverlay()
	}
	return ""
}

var helpLines = []string{
	"Normal mode",
	"  i insert   v visual   : command",
	"  h j k l / arrows  move   w b  word   0 $  line   gg G  buffer",
	"  x delete   dd delete line   yy yank   p paste   o O open line",
	"  diw daw  delete word   ciw caw  change word   r  replace",
	"  [ ]  previous/next exercise   J K PgUp PgDn  scroll output",
	"",
	"Commands",
	"  :w save    :q quit    :q! force quit    :wq save and quit",
	"  :c check   :t test    :lint lint",
	"  :h hint    :s solution    :n next    :p prev",
	"  :auto toggle auto-advance    :watch toggle watching",
	"  :r reload from disk    :reset restore original    :help this help",
}

func (r *Root) renderHelpOverlay() string {
	lines := helpLines
	if r.motionLevel != "off" && r.overlayPos < 1 {
		visible := int(r.overlayPos*float64(len(lines)) + 0.5)
		if visible < 1 {
			visible = 1
		}
		if visible < len(lines) {
			lines = lines[:visible]
		}
	}
	body := r.theme.PanelTitle.Render("Help") + "\n\n" + strings.Join(lines, "\n")
	return r.theme.Overlay.Render(body)
}

func (r *Root) renderSolutionOverlay() string {
	lines := strings.Split(strings.TrimRight(r.solutionText, "\n"), "\n")
	maxLines := r.rows - 6
	if maxLines < 3 {
		maxLines = 3
	}
	if len(lines) > maxLines {
		lines = append(lines[:maxLines-1], "…")
	}
	body := r.theme.PanelTitle.Render("Solution") + "\n\n" + strings.Join(lines, "\n")
	return r.theme.Overlay.Render(body)
}

func (r *Root) renderHintOverlay() string {
	text := r.hintMD
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(r.hintMD); err == nil {
			text = strings.TrimSpace(rendered)
		}
	}
	body := r.theme.PanelTitle.Render("Hint") + "\n\n" + text
	return r.theme.Overlay.Render(body)
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	top := "┌" + strings.Repeat("─", innerW) + "┐"
	if title != "" && innerW > 2 {
		t := " " + title + " "
		runes := []rune(top)
		for i, ch := range []rune(t) {
			pos := 1 + i
			if pos >= len(runes)-1 {
				break
			}
			runes[pos] = ch
		}
		top = string(runes)
	}

	out := make([]string, 0, height)
	out = append(out, r.theme.PanelBorder.Render(top))
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		line = padRune(line, innerW)
		out = append(out, r.theme.PanelBorder.Render("│")+r.theme.Plain.Render(line)+r.theme.PanelBorder.Render("│"))
	}
	out = append(out, r.theme.PanelBorder.Render("└"+strings.Repeat("─", innerW)+"┘"))
	return strings.Join(out, "\n")
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func composeOverlay(base, overlay string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	base = ansi.Strip(base)
	overlay = ansi.Strip(overlay)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	if len(overlayLines) == 0 {
		return strings.Join(baseLines[:rows], "\n")
	}
	ow := 1
	for _, line := range overlayLines {
		if lw := len([]rune(line)); lw > ow {
			ow = lw
		}
	}
	if ow > cols {
		ow = cols
	}
	oh := len(overlayLines)
	if oh > rows {
		oh = rows
	}
	startRow := (rows - oh) / 2
	startCol := (cols - ow) / 2
	if startCol < 0 {
		startCol = 0
	}

	for i := 0; i < oh; i++ {
		row := startRow + i
		if row < 0 || row >= rows {
			continue
		}
		dst := []rune(baseLines[row])
		src := []rune(overlayLines[i])
		if len(src) > ow {
			src = src[:ow]
		}
		for j := 0; j < ow && startCol+j < len(dst); j++ {
			dst[startCol+j] = ' '
		}
		for j := 0; j < len(src) && startCol+j < len(dst); j++ {
			dst[startCol+j] = src[j]
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}
