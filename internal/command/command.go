// Package command parses `:`-prefixed command strings into structured
// actions. Parsing is total: every input maps to exactly one action, and
// unrecognized input maps to KindUnknown rather than erroring.
package command

import "strings"

// Kind enumerates the closed set of command actions.
type Kind int

const (
	KindUnknown Kind = iota
	KindSave
	KindQuit
	KindSaveAndQuit
	KindCheck
	KindTest
	KindLint
	KindShowHint
	KindToggleSolution
	KindNext
	KindPrevious
	KindToggleAutoAdvance
	KindToggleWatch
	KindReload
	KindReset
	KindHelp
)

func (k Kind) String() string {
	switch k {
	case KindSave:
		return "save"
	case KindQuit:
		return "quit"
	case KindSaveAndQuit:
		return "save-and-quit"
	case KindCheck:
		return "check"
	case KindTest:
		return "test"
	case KindLint:
		return "lint"
	case KindShowHint:
		return "hint"
	case KindToggleSolution:
		return "solution"
	case KindNext:
		return "next"
	case KindPrevious:
		return "previous"
	case KindToggleAutoAdvance:
		return "auto"
	case KindToggleWatch:
		return "watch"
	case KindReload:
		return "reload"
	case KindReset:
		return "reset"
	case KindHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Action is the parsed form of one command string. Force is meaningful
// only for KindQuit (`q!`). Raw preserves the original input for
// surfacing unknown commands.
type Action struct {
	Kind  Kind
	Force bool
	Raw   string
}

// Parse maps a command string (without the leading `:`) to an Action.
// Multi-character aliases and their single-letter shorthands resolve to
// the same action.
func Parse(raw string) Action {
	switch strings.TrimSpace(raw) {
	case "w":
		return Action{Kind: KindSave, Raw: raw}
	case "q":
		return Action{Kind: KindQuit, Raw: raw}
	case "q!":
		return Action{Kind: KindQuit, Force: true, Raw: raw}
	case "wq", "x":
		return Action{Kind: KindSaveAndQuit, Raw: raw}
	case "c", "check":
		return Action{Kind: KindCheck, Raw: raw}
	case "t", "test":
		return Action{Kind: KindTest, Raw: raw}
	case "lint":
		return Action{Kind: KindLint, Raw: raw}
	case "h", "hint":
		return Action{Kind: KindShowHint, Raw: raw}
	case "s", "sol", "solution":
		return Action{Kind: KindToggleSolution, Raw: raw}
	case "n", "next":
		return Action{Kind: KindNext, Raw: raw}
	case "p", "prev":
		return Action{Kind: KindPrevious, Raw: raw}
	case "auto":
		return Action{Kind: KindToggleAutoAdvance, Raw: raw}
	case "watch":
		return Action{Kind: KindToggleWatch, Raw: raw}
	case "r", "reload":
		return Action{Kind: KindReload, Raw: raw}
	case "reset":
		return Action{Kind: KindReset, Raw: raw}
	case "help":
		return Action{Kind: KindHelp, Raw: raw}
	default:
		return Action{Kind: KindUnknown, Raw: raw}
	}
}
