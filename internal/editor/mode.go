package editor

// Mode is the editor's modal state. Exactly one mode is active at a time
// and transitions happen only through explicit user keys.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeCommand
	ModeVisual
)

func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "INSERT"
	case ModeCommand:
		return "COMMAND"
	case ModeVisual:
		return "VISUAL"
	default:
		return "NORMAL"
	}
}

// CanTransition reports whether a direct mode change is legal. Insert,
// Command and Visual are only reachable from Normal; every mode can drop
// back to Normal. Anything else has to pass through Normal first.
func CanTransition(from, to Mode) bool {
	if from == to {
		return true
	}
	if to == ModeNormal {
		return true
	}
	return from == ModeNormal
}
