package app

import (
	"strings"

	"github.com/Rust-Frog/Rust-Progress-sub000/internal/command"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/editor"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/exercises"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/ui"
)

// autoPairs maps an opening rune to its closing counterpart for insert
// mode. Quotes pair with themselves.
var autoPairs = map[rune]rune{
	'(':  ')',
	'{':  '}',
	'[':  ']',
	'"':  '"',
	'\'': '\'',
}

var autoClosers = map[string]bool{")": true, "}": true, "]": true, `"`: true, "'": true}

func (a *App) handleKey(k ui.KeyEvent) bool {
	switch a.mode {
	case editor.ModeInsert:
		a.insertKey(k)
	case editor.ModeCommand:
		return a.commandKey(k)
	case editor.ModeVisual:
		a.visualKey(k)
	default:
		return a.normalKey(k)
	}
	return false
}

func (a *App) setMode(to editor.Mode) {
	if !editor.CanTransition(a.mode, to) {
		return
	}
	a.mode = to
	a.pending = ""
	if to != editor.ModeCommand {
		a.cmdline = ""
	}
}

func (a *App) normalKey(k ui.KeyEvent) bool {
	if k.Kind != ui.KeyRune {
		a.pending = ""
	}
	switch k.Kind {
	case ui.KeyEsc:
		a.pending = ""
		a.closeOverlays()
		return false
	case ui.KeyUp:
		a.buf.MoveUp()
		return false
	case ui.KeyDown:
		a.buf.MoveDown()
		return false
	case ui.KeyLeft:
		a.buf.MoveLeft()
		return false
	case ui.KeyRight:
		a.buf.MoveRight()
		return false
	case ui.KeyHome:
		a.outputScroll = 0
		return false
	case ui.KeyEnd:
		a.scrollOutput(len(a.output))
		return false
	case ui.KeyPageUp:
		a.scrollOutput(-5)
		return false
	case ui.KeyPageDown:
		a.scrollOutput(5)
		return false
	case ui.KeyRune:
		return a.normalRune(k)
	}
	return false
}

func (a *App) normalRune(k ui.KeyEvent) bool {
	if k.Ctrl {
		a.pending = ""
		switch k.Rune {
		case 'r':
			a.buf.Redo()
		}
		return false
	}

	// Multi-key sequences resolve through the pending buffer.
	if a.pending != "" {
		return a.pendingRune(k.Rune)
	}

	switch k.Rune {
	case 'i':
		a.setMode(editor.ModeInsert)
	case 'v':
		a.setMode(editor.ModeVisual)
		a.buf.StartSelection()
	case ':':
		a.setMode(editor.ModeCommand)
		a.cmdline = ""
	case 'h':
		a.buf.MoveLeft()
	case 'j':
		a.buf.MoveDown()
	case 'k':
		a.buf.MoveUp()
	case 'l':
		a.buf.MoveRight()
	case '0':
		a.buf.LineStart()
	case '$':
		a.buf.LineEnd()
	case '^':
		a.buf.FirstNonBlank()
	case 'w':
		a.buf.WordForward()
	case 'b':
		a.buf.WordBackward()
	case 'G':
		a.buf.LastLine()
	case 'x':
		a.buf.DeleteAtCursor()
	case 'o':
		a.buf.OpenBelow()
		a.setMode(editor.ModeInsert)
	case 'O':
		a.buf.OpenAbove()
		a.setMode(editor.ModeInsert)
	case 'p':
		if a.yank != "" {
			a.buf.Paste(a.yank)
		}
	case 'u':
		a.buf.Undo()
	case 's':
		a.toggleSolution()
	case 'q':
		return a.quitOrWarn(false)
	case 'n':
		a.gotoExercise(a.idx + 1)
	case '[':
		a.gotoExercise(a.idx - 1)
	case ']':
		a.gotoExercise(a.idx + 1)
	case 'J':
		a.scrollOutput(1)
	case 'K':
		a.scrollOutput(-1)
	case 'g', 'd', 'y', 'c', 'r':
		a.pending = string(k.Rune)
	}
	return false
}

func (a *App) pendingRune(r rune) bool {
	seq := a.pending + string(r)
	switch seq {
	case "gg":
		a.buf.FirstLine()
	case "dd":
		a.yank = a.buf.DeleteLine()
	case "yy":
		a.yank = a.buf.YankLine()
	case "di", "da", "ci", "ca":
		a.pending = seq
		return false
	case "diw":
		a.yank = a.buf.DeleteInnerWord()
	case "daw":
		a.yank = a.buf.DeleteAroundWord()
	case "ciw":
		a.yank = a.buf.DeleteInnerWord()
		a.setMode(editor.ModeInsert)
	case "caw":
		a.yank = a.buf.DeleteAroundWord()
		a.setMode(editor.ModeInsert)
	default:
		if a.pending == "r" {
			a.buf.ReplaceCluster(string(r))
		}
	}
	if a.mode == editor.ModeNormal {
		a.pending = ""
	}
	return false
}

func (a *App) insertKey(k ui.KeyEvent) {
	switch k.Kind {
	case ui.KeyEsc:
		a.setMode(editor.ModeNormal)
		a.buf.Clamp()
	case ui.KeyEnter:
		indent := a.buf.IndentOf(a.buf.Cursor().Row)
		a.buf.InsertNewline()
		if indent != "" {
			a.buf.InsertString(indent)
		}
	case ui.KeyBackspace:
		a.buf.Backspace()
	case ui.KeyDelete:
		a.buf.DeleteAtCursor()
	case ui.KeyTab:
		a.buf.InsertString(strings.Repeat(" ", a.cfg.Editor.TabWidth))
	case ui.KeyUp:
		a.buf.MoveUp()
	case ui.KeyDown:
		a.buf.MoveDown()
	case ui.KeyLeft:
		a.buf.MoveLeft()
	case ui.KeyRight:
		a.buf.MoveRight()
	case ui.KeyHome:
		a.buf.LineStart()
	case ui.KeyEnd:
		a.buf.LineEnd()
	case ui.KeyRune:
		if k.Ctrl {
			switch k.Rune {
			case 'z':
				if k.Shift {
					a.buf.Redo()
				} else {
					a.buf.Undo()
				}
			}
			return
		}
		a.insertRune(k.Rune)
	}
}

func (a *App) insertRune(r rune) {
	// Typing a closer right before the same closer steps over it
	// instead of doubling it.
	if autoClosers[string(r)] && a.buf.ClusterAtCursor() == string(r) {
		a.buf.MoveRight()
		return
	}
	if closer, ok := autoPairs[r]; ok {
		a.buf.InsertRune(r)
		a.buf.InsertRune(closer)
		a.buf.MoveLeft()
		return
	}
	a.buf.InsertRune(r)
}

func (a *App) commandKey(k ui.KeyEvent) bool {
	switch k.Kind {
	case ui.KeyEsc:
		a.setMode(editor.ModeNormal)
	case ui.KeyBackspace:
		if a.cmdline == "" {
			a.setMode(editor.ModeNormal)
			return false
		}
		rs := []rune(a.cmdline)
		a.cmdline = string(rs[:len(rs)-1])
	case ui.KeyEnter:
		act := command.Parse(a.cmdline)
		a.setMode(editor.ModeNormal)
		return a.execute(act)
	case ui.KeyRune:
		if !k.Ctrl {
			a.cmdline += string(k.Rune)
		}
	}
	return false
}

func (a *App) visualKey(k ui.KeyEvent) {
	switch k.Kind {
	case ui.KeyEsc:
		a.buf.ClearSelection()
		a.setMode(editor.ModeNormal)
	case ui.KeyUp:
		a.buf.MoveUp()
	case ui.KeyDown:
		a.buf.MoveDown()
	case ui.KeyLeft:
		a.buf.MoveLeft()
	case ui.KeyRight:
		a.buf.MoveRight()
	case ui.KeyRune:
		switch k.Rune {
		case 'h':
			a.buf.MoveLeft()
		case 'j':
			a.buf.MoveDown()
		case 'k':
			a.buf.MoveUp()
		case 'l':
			a.buf.MoveRight()
		case 'w':
			a.buf.WordForward()
		case 'b':
			a.buf.WordBackward()
		case '0':
			a.buf.LineStart()
		case '$':
			a.buf.LineEnd()
		case 'y':
			a.yank = a.buf.YankSelection()
			a.setMode(editor.ModeNormal)
		case 'd', 'x':
			a.yank = a.buf.DeleteSelection()
			a.setMode(editor.ModeNormal)
		case 'v':
			a.buf.ClearSelection()
			a.setMode(editor.ModeNormal)
		}
	}
}

func (a *App) execute(act command.Action) bool {
	switch act.Kind {
	case command.KindSave:
		if err := a.save(); err != nil {
			a.view.FlashStatus("save failed: " + err.Error())
		} else {
			a.view.FlashStatus("saved")
			if a.cfg.Watch.RunOnSave {
				a.startRun("")
			}
		}
	case command.KindQuit:
		return a.quitOrWarn(act.Force)
	case command.KindSaveAndQuit:
		if err := a.save(); err != nil {
			a.view.FlashStatus("save failed: " + err.Error())
			return false
		}
		a.shutdown()
		return true
	case command.KindCheck:
		a.startRun(exercises.ModeCheck)
	case command.KindTest:
		a.startRun(exercises.ModeTest)
	case command.KindLint:
		a.startRun(exercises.ModeLint)
	case command.KindShowHint:
		a.hintOpen = !a.hintOpen
		md := a.desc().HintMD
		if md == "" {
			md = "No hint for this exercise."
		}
		a.view.SetHint(md, a.hintOpen)
	case command.KindToggleSolution:
		a.toggleSolution()
	case command.KindNext:
		a.gotoExercise(a.idx + 1)
	case command.KindPrevious:
		a.gotoExercise(a.idx - 1)
	case command.KindToggleAutoAdvance:
		a.autoAdvance = !a.autoAdvance
		a.view.FlashStatus("auto-advance " + onOff(a.autoAdvance))
	case command.KindToggleWatch:
		a.toggleWatch()
	case command.KindReload:
		if a.buf.Dirty() {
			a.view.FlashStatus("unsaved changes, :w first or :reset to discard")
			return false
		}
		if err := a.reload(); err != nil {
			a.view.FlashStatus("reload failed: " + err.Error())
		} else {
			a.view.FlashStatus("reloaded")
		}
	case command.KindReset:
		a.resetExercise()
	case command.KindHelp:
		a.helpOpen = !a.helpOpen
		a.view.SetHelpOpen(a.helpOpen)
		if a.helpOpen {
			if stats := a.statsLine(); stats != "" {
				a.view.FlashStatus(stats)
			}
		}
	default:
		a.view.FlashStatus("unknown command: :" + strings.TrimSpace(act.Raw))
	}
	return false
}

// quitOrWarn ends the session unless unsaved edits exist and force is
// unset. Both the q key and :q route through here.
func (a *App) quitOrWarn(force bool) bool {
	if a.buf.Dirty() && !force {
		a.view.FlashStatus("unsaved changes (:q! to discard, :wq to save)")
		return false
	}
	a.shutdown()
	return true
}

func (a *App) toggleSolution() {
	if a.solutionOpen {
		a.solutionOpen = false
		a.view.SetSolution("", false)
		return
	}
	text, err := a.desc().Solution()
	if err != nil {
		a.view.FlashStatus("no solution available")
		return
	}
	a.solutionOpen = true
	a.view.SetSolution(text, true)
}

func (a *App) toggleWatch() {
	if a.watching {
		a.watching = false
		if a.watch != nil {
			_ = a.watch.Close()
			a.watch = nil
		}
		a.view.FlashStatus("watching off")
		return
	}
	w, err := a.newWatcher()
	if err != nil {
		a.view.FlashStatus("watch failed: " + err.Error())
		return
	}
	a.watch = w
	a.watching = true
	a.view.FlashStatus("watching on")
}

func (a *App) resetExercise() {
	text, err := a.desc().Reset()
	if err != nil {
		a.view.FlashStatus("reset failed: " + err.Error())
		return
	}
	a.selfSave = true
	a.buf.Load(text)
	a.tracker.Reset(a.desc().Name)
	a.persistProgress()
	a.view.FlashStatus("reset to original")
}

func (a *App) gotoExercise(i int) {
	n := len(a.descs)
	if n == 0 {
		return
	}
	i = ((i % n) + n) % n
	if i == a.idx {
		return
	}
	// Switching always takes effect; unsaved edits are discarded.
	if err := a.switchExercise(i); err != nil {
		a.view.FlashStatus("switch failed: " + err.Error())
	}
}

func (a *App) scrollOutput(delta int) {
	a.outputScroll += delta
	if a.outputScroll < 0 {
		a.outputScroll = 0
	}
	if max := len(a.output) - 1; a.outputScroll > max {
		if max < 0 {
			max = 0
		}
		a.outputScroll = max
	}
}

func (a *App) closeOverlays() {
	if a.helpOpen {
		a.helpOpen = false
		a.view.SetHelpOpen(false)
	}
	if a.hintOpen {
		a.hintOpen = false
		a.view.SetHint("", false)
	}
	if a.solutionOpen {
		a.solutionOpen = false
		a.view.SetSolution("", false)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
