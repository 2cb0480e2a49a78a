package ui

import (
	tea "charm.land/bubbletea/v2"
)

// translateKey converts a Bubble Tea key press into the neutral KeyEvent
// the session controller consumes. ok is false for keys the editor has
// no use for (function keys, media keys).
func translateKey(msg tea.KeyPressMsg) (KeyEvent, bool) {
	k := msg.Key()
	ev := KeyEvent{
		Ctrl:  k.Mod&tea.ModCtrl != 0,
		Shift: k.Mod&tea.ModShift != 0,
		Alt:   k.Mod&tea.ModAlt != 0,
	}

	switch k.Code {
	case tea.KeyEsc:
		ev.Kind = KeyEsc
		return ev, true
	case tea.KeyEnter:
		ev.Kind = KeyEnter
		return ev, true
	case tea.KeyBackspace:
		ev.Kind = KeyBackspace
		return ev, true
	case tea.KeyTab:
		ev.Kind = KeyTab
		return ev, true
	case tea.KeyDelete:
		ev.Kind = KeyDelete
		return ev, true
	case tea.KeyUp:
		ev.Kind = KeyUp
		return ev, true
	case tea.KeyDown:
		ev.Kind = KeyDown
		return ev, true
	case tea.KeyLeft:
		ev.Kind = KeyLeft
		return ev, true
	case tea.KeyRight:
		ev.Kind = KeyRight
		return ev, true
	case tea.KeyPgUp:
		ev.Kind = KeyPageUp
		return ev, true
	case tea.KeyPgDown:
		ev.Kind = KeyPageDown
		return ev, true
	case tea.KeyHome:
		ev.Kind = KeyHome
		return ev, true
	case tea.KeyEnd:
		ev.Kind = KeyEnd
		return ev, true
	case tea.KeySpace:
		ev.Kind = KeyRune
		ev.Rune = ' '
		return ev, true
	}

	// Ctrl-chorded letters arrive with an empty Text; the code still
	// names the letter.
	if ev.Ctrl {
		if r := k.Code; r > 0 && r < 0x10FFFF {
			ev.Kind = KeyRune
			ev.Rune = r
			return ev, true
		}
		return KeyEvent{}, false
	}

	if k.Text != "" {
		runes := []rune(k.Text)
		if len(runes) == 1 {
			ev.Kind = KeyRune
			ev.Rune = runes[0]
			return ev, true
		}
	}
	return KeyEvent{}, false
}
