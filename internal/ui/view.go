// Package ui renders the tutor: header, editor pane, output pane,
// status bar, and the hint/solution/help overlays. All session logic
// lives behind the Controller interface; the view only translates input
// and draws state it is handed.
package ui

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"

	"github.com/Rust-Frog/Rust-Progress-sub000/internal/syntax"
)

type applyMsg struct {
	fn func(*Root)
}

type drawMsg struct{}
type clockMsg time.Time
type animateMsg time.Time

type tutorKeyMap struct {
	Command  key.Binding
	Insert   key.Binding
	Visual   key.Binding
	NextPrev key.Binding
	Scroll   key.Binding
	Help     key.Binding
}

func (k tutorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Insert, k.Visual, k.Command, k.NextPrev, k.Scroll, k.Help}
}

func (k tutorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Insert, k.Visual, k.Command}, {k.NextPrev, k.Scroll, k.Help}}
}

var _ View = (*Root)(nil)

type Root struct {
	theme       Theme
	ctrl        Controller
	styleName   string
	motionLevel string

	mu      sync.Mutex
	program *tea.Program
	running bool

	cols int
	rows int

	editor        EditorState
	output        OutputState
	prog          ProgressState
	checking      bool
	checkingSince time.Time

	hintMD       string
	hintOpen     bool
	solutionText string
	solutionOpen bool
	helpOpen     bool
	statusFlash  string

	editorScroll int
	highlight    *syntaxCache

	help      help.Model
	keymap    tutorKeyMap
	courseBar progress.Model
	runSpin   spinner.Model
	markdown  *glamour.TermRenderer
	logger    *clog.Logger

	overlayPos float64
	overlayVel float64
	spring     harmonica.Spring

	drawPending atomic.Bool

	lastInputEvent string
}

type Options struct {
	StyleVariant string
	MotionLevel  string
	Language     syntax.Language
	Debug        bool
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "tutor-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	theme := ThemeForVariant(opts.StyleVariant)
	spring := harmonica.NewSpring(harmonica.FPS(60), 10.0, 0.8)
	switch opts.MotionLevel {
	case "reduced":
		spring = harmonica.NewSpring(harmonica.FPS(30), 9.0, 0.92)
	case "off":
		spring = harmonica.NewSpring(harmonica.FPS(60), 1000.0, 1.0)
	}
	courseBar := progress.New(
		progress.WithWidth(24),
		progress.WithColors(lipgloss.Color("#5EC2FF"), lipgloss.Color("#79E6A6"), lipgloss.Color("#F2D16B")),
		progress.WithScaled(true),
	)
	if opts.MotionLevel == "off" {
		courseBar.SetSpringOptions(1000.0, 1.0)
	}
	runSpin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Accent),
	)

	r := &Root{
		theme:       theme,
		styleName:   opts.StyleVariant,
		motionLevel: opts.MotionLevel,
		cols:        120,
		rows:        30,
		help:        h,
		courseBar:   courseBar,
		runSpin:     runSpin,
		markdown:    renderer,
		logger:      logger,
		spring:      spring,
		highlight:   newSyntaxCache(opts.Language),
	}
	r.keymap = tutorKeyMap{
		Insert:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "insert")),
		Visual:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "visual")),
		Command:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		NextPrev: key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "prev/next")),
		Scroll:   key.NewBinding(key.WithKeys("J", "K"), key.WithHelp("J/K", "scroll output")),
		Help:     key.NewBinding(key.WithKeys(":help"), key.WithHelp(":help", "help")),
	}
	return r
}

func (r *Root) Init() tea.Cmd {
	return tea.Batch(clockTickCmd(), animateTickCmd(), spinnerTickCmd(r.runSpin))
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.dispatchController(func(c Controller) { c.OnResize(msg.Width, msg.Height) })
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, r.animateIfNeeded()
	case drawMsg:
		r.drawPending.Store(false)
		return r, nil
	case clockMsg:
		return r, clockTickCmd()
	case animateMsg:
		target := 0.0
		if r.helpOpen {
			target = 1.0
		}
		r.overlayPos, r.overlayVel = r.spring.Update(r.overlayPos, r.overlayVel, target)
		if r.shouldAnimate(target) {
			return r, animateTickCmd()
		}
		if target == 0 {
			r.overlayPos, r.overlayVel = 0, 0
		} else {
			r.overlayPos, r.overlayVel = 1, 0
		}
		return r, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		r.runSpin, cmd = r.runSpin.Update(msg)
		return r, cmd
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) shouldAnimate(target float64) bool {
	if r.motionLevel == "off" {
		return false
	}
	dist := r.overlayPos - target
	if dist < 0 {
		dist = -dist
	}
	return dist > 0.005 || r.overlayVel > 0.005 || r.overlayVel < -0.005
}

func (r *Root) animateIfNeeded() tea.Cmd {
	if r.shouldAnimate(overlayTarget(r.helpOpen)) {
		return animateTickCmd()
	}
	return nil
}

func overlayTarget(open bool) float64 {
	if open {
		return 1
	}
	return 0
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			msg := "UI recovered from a rendering panic. Check logs."
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	if r.cols < 1 {
		r.cols = 120
	}
	if r.rows < 1 {
		r.rows = 30
	}

	base := r.renderSession()
	if overlay := r.renderOverlay(); overlay != "" {
		base = composeOverlay(base, overlay, r.cols, r.rows)
	}
	v := tea.NewView(base)
	v.AltScreen = true
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) SetEditor(es EditorState) {
	r.apply(func(m *Root) {
		m.editor = es
		m.highlight.update(es.Lines)
	})
}

func (r *Root) SetOutput(os OutputState) {
	r.apply(func(m *Root) {
		m.output = os
	})
}

func (r *Root) SetProgress(ps ProgressState) {
	r.apply(func(m *Root) {
		m.prog = ps
	})
}

func (r *Root) SetHint(markdown string, open bool) {
	r.apply(func(m *Root) {
		m.hintMD = markdown
		m.hintOpen = open
	})
}

func (r *Root) SetSolution(text string, open bool) {
	r.apply(func(m *Root) {
		m.solutionText = text
		m.solutionOpen = open
	})
}

func (r *Root) SetHelpOpen(open bool) {
	r.apply(func(m *Root) {
		m.helpOpen = open
		if m.motionLevel == "off" {
			m.overlayPos = overlayTarget(open)
			m.overlayVel = 0
		}
	})
}

func (r *Root) SetRunning(running bool) {
	r.apply(func(m *Root) {
		if running && !m.checking {
			m.checkingSince = time.Now()
		}
		m.checking = running
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

func (r *Root) RequestDraw() {
	r.mu.Lock()
	p := r.program
	running := r.running
	r.mu.Unlock()
	if !running || p == nil {
		return
	}
	if !r.drawPending.CompareAndSwap(false, true) {
		return
	}
	time.AfterFunc(16*time.Millisecond, func() {
		r.mu.Lock()
		p := r.program
		running := r.running
		r.mu.Unlock()
		if !running || p == nil {
			r.drawPending.Store(false)
			return
		}
		p.Send(drawMsg{})
	})
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) dispatchController(fn func(Controller)) {
	if r.ctrl == nil {
		return
	}
	go fn(r.ctrl)
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))
	r.statusFlash = ""

	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+q"))) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}

	ev, ok := translateKey(msg)
	if !ok {
		return r, nil
	}
	r.dispatchController(func(c Controller) { c.OnKey(ev) })
	return r, nil
}

func (r *Root) recordInputEvent(desc string) {
	r.lastInputEvent = desc
	if r.logger != nil {
		r.logger.Debug("input", "event", desc)
	}
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", fmt.Sprintf("%v", recovered),
		"messageType", msgType,
		"cols", r.cols,
		"rows", r.rows,
		"last_input", r.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}
