package ui

// Controller receives translated terminal input. The session controller
// implements it; the view never mutates session state itself.
type Controller interface {
	OnKey(KeyEvent)
	OnResize(cols, rows int)
	OnQuit()
}

// View is the render surface the session controller talks to. All Set
// methods are safe to call from any goroutine.
type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetEditor(EditorState)
	SetOutput(OutputState)
	SetProgress(ProgressState)
	SetHint(markdown string, open bool)
	SetSolution(text string, open bool)
	SetHelpOpen(open bool)
	SetRunning(running bool)
	FlashStatus(msg string)
	RequestDraw()
}

// KeyKind names a key independently of the terminal backend, so the
// session controller needs no knowledge of the UI toolkit.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyEsc
	KeyEnter
	KeyBackspace
	KeyTab
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
)

// KeyEvent is one translated key press. Rune is set only for KeyRune.
type KeyEvent struct {
	Kind  KeyKind
	Rune  rune
	Ctrl  bool
	Shift bool
	Alt   bool
}

// EditorState is everything the editor pane needs for one frame.
type EditorState struct {
	Exercise  string
	Lines     []string
	CursorRow int
	CursorCol int
	Mode      string
	Dirty     bool

	CommandLine string
	PendingKeys string

	Selecting                bool
	SelStartRow, SelStartCol int
	SelEndRow, SelEndCol     int
}

// OutputState carries the latest toolchain output. Verdict is one of
// "success", "failure", "tool_error" or empty before the first run.
type OutputState struct {
	Lines   []string
	Verdict string
	Scroll  int
}

// ProgressState drives the progress bar and header.
type ProgressState struct {
	Course      string
	Exercise    string
	Index       int
	Total       int
	Done        int
	AutoAdvance bool
	Watching    bool
}
