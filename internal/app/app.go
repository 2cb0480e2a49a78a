package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Rust-Frog/Rust-Progress-sub000/internal/editor"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/exercises"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/progress"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/runner"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/state"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/syntax"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/telemetry"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/ui"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/watcher"

	"github.com/google/uuid"
)

const progressFile = "progress.txt"

var _ ui.Controller = (*App)(nil)

// App is the session controller. It owns all session state and mutates
// it from a single loop goroutine; the UI and the runner hand work over
// through channels.
type App struct {
	cfg Config

	logger  *telemetry.JSONLogger
	store   state.Store
	tracker *progress.Tracker
	run     *runner.Runner
	watch   *watcher.Watcher
	view    ui.View

	course exercises.Course
	descs  []exercises.Descriptor

	sessionID string
	events    chan event
	loopDone  chan struct{}

	// Session state, loop-goroutine only past Run.
	idx          int
	buf          *editor.Buffer
	mode         editor.Mode
	cmdline      string
	pending      string
	yank         string
	output       []string
	verdict      string
	outputScroll int
	hintOpen     bool
	solutionOpen bool
	helpOpen     bool
	running      bool
	runGen       uint64
	runStarted   time.Time
	watching     bool
	autoAdvance  bool
	selfSave     bool
	persistDirty bool
	finished     bool
}

func New(cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewJSONLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	var store state.Store
	sqlStore, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db"))
	if err != nil {
		logger.Error("state.open_failed", map[string]any{"error": err.Error()})
	} else if err := sqlStore.EnsureSchema(context.Background()); err != nil {
		logger.Error("state.schema_failed", map[string]any{"error": err.Error()})
		_ = sqlStore.Close()
	} else {
		store = sqlStore
	}

	course, descs, err := exercises.NewLoader().LoadCourse(cfg.CourseDir)
	if err != nil {
		closeStore(store)
		_ = logger.Close()
		return nil, fmt.Errorf("load course: %w", err)
	}

	tracker, err := progress.Load(filepath.Join(cfg.DataDir, progressFile))
	if err != nil {
		closeStore(store)
		_ = logger.Close()
		return nil, fmt.Errorf("load progress: %w", err)
	}

	view := ui.New(ui.Options{
		StyleVariant: cfg.UI.StyleVariant,
		MotionLevel:  cfg.UI.MotionLevel,
		Language:     syntax.Go(),
	})

	a := newApp(cfg, view)
	a.logger = logger
	a.store = store
	a.tracker = tracker
	a.course = course
	a.descs = descs
	a.run = runner.New(cfg.Toolchain, time.Duration(cfg.RunTimeoutMS)*time.Millisecond, cfg.SuccessMarker)

	a.loadSettings()
	a.idx = a.startIndex()
	if cfg.Watch.Enabled {
		w, err := watcher.New(a.descs[a.idx].Path, time.Duration(cfg.Watch.DebounceMS)*time.Millisecond)
		if err != nil {
			logger.Error("watch.open_failed", map[string]any{"error": err.Error()})
		} else {
			a.watch = w
			a.watching = true
		}
	}
	return a, nil
}

// newApp builds an App around an already-constructed view with no side
// effects, so tests can drive handleEvent directly.
func newApp(cfg Config, view ui.View) *App {
	a := &App{
		cfg:         cfg,
		view:        view,
		sessionID:   uuid.NewString(),
		events:      make(chan event, 32),
		loopDone:    make(chan struct{}),
		buf:         editor.New(""),
		autoAdvance: cfg.AutoAdvance,
	}
	view.SetController(a)
	return a
}

// startIndex resumes at the tracked current exercise when it is still
// pending, otherwise at the first pending exercise.
func (a *App) startIndex() int {
	if cur := a.tracker.Current(); cur != "" {
		for i, d := range a.descs {
			if d.Name == cur && !a.tracker.IsDone(d.Name) {
				return i
			}
		}
	}
	for i, d := range a.descs {
		if !a.tracker.IsDone(d.Name) {
			return i
		}
	}
	return 0
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{
		"session":   a.sessionID,
		"course":    a.course.Name,
		"exercises": len(a.descs),
	})

	if err := a.loadExercise(a.idx); err != nil {
		return err
	}
	a.syncView()
	if a.course.WelcomeMD != "" && a.tracker.DoneCount() == 0 {
		a.view.SetHint(a.course.WelcomeMD, true)
		a.hintOpen = true
	}

	go a.loop(ctx)
	err := a.view.Run()
	<-a.loopDone
	return err
}

func (a *App) Close() {
	if a.watch != nil {
		_ = a.watch.Close()
	}
	if a.run != nil {
		a.run.Close()
	}
	closeStore(a.store)
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

func closeStore(s state.Store) {
	if s != nil {
		_ = s.Close()
	}
}

// Controller implementation. These run on the UI goroutine and only
// enqueue; the loop goroutine does the work.

func (a *App) OnKey(k ui.KeyEvent) { a.post(keyEvent{key: k}) }

func (a *App) OnResize(cols, rows int) { a.post(resizeEvent{cols: cols, rows: rows}) }

func (a *App) OnQuit() { a.post(quitEvent{}) }

func (a *App) post(ev event) {
	select {
	case a.events <- ev:
	default:
		// A full queue means the loop is wedged; dropping input is
		// better than deadlocking the UI goroutine.
	}
}

func (a *App) loop(ctx context.Context) {
	defer close(a.loopDone)

	for {
		// Re-read the watcher channels each pass; :watch can swap the
		// watcher out from under a long-lived select.
		var changed <-chan struct{}
		var werrs <-chan error
		if a.watch != nil {
			changed = a.watch.Changed()
			werrs = a.watch.Errors()
		}

		select {
		case <-ctx.Done():
			a.shutdown()
			return
		case ev := <-a.events:
			if a.handleEvent(ev) {
				return
			}
		case <-changed:
			if a.handleEvent(fileChangedEvent{}) {
				return
			}
		case err := <-werrs:
			if a.handleEvent(watchErrorEvent{err: err}) {
				return
			}
		case res := <-a.run.Results():
			if a.handleEvent(runResultEvent{result: res}) {
				return
			}
		}
	}
}

// handleEvent applies one event to the session state. It returns true
// when the session is over and the loop should exit. Tests call it
// directly to step the controller deterministically.
func (a *App) handleEvent(ev event) bool {
	quit := false
	switch e := ev.(type) {
	case keyEvent:
		quit = a.handleKey(e.key)
	case resizeEvent:
		// Geometry lives in the view; nothing to do here yet.
	case quitEvent:
		a.shutdown()
		quit = true
	case fileChangedEvent:
		a.onFileChanged()
	case watchErrorEvent:
		a.onWatchError(e.err)
	case runResultEvent:
		a.onRunResult(e.result)
	}
	if !quit {
		a.syncView()
	}
	return quit
}

func (a *App) desc() exercises.Descriptor { return a.descs[a.idx] }

func (a *App) onFileChanged() {
	if a.selfSave {
		a.selfSave = false
		return
	}
	if a.buf.Dirty() {
		a.view.FlashStatus("file changed on disk, unsaved edits kept (:r to reload)")
		return
	}
	if err := a.reload(); err != nil {
		a.logger.Error("watch.reload_failed", map[string]any{"error": err.Error()})
		a.view.FlashStatus("reload failed")
		return
	}
	a.logger.Info("watch.reloaded", map[string]any{"exercise": a.desc().Name})
	if a.watching && a.cfg.Watch.RunOnSave {
		a.startRun(exercises.ModeCheck)
	}
}

func (a *App) onWatchError(err error) {
	a.logger.Error("watch.error", map[string]any{"error": err.Error()})
	a.watching = false
	if a.watch != nil {
		_ = a.watch.Close()
		a.watch = nil
	}
	a.view.FlashStatus("file watching disabled: " + err.Error())
}

func (a *App) onRunResult(res runner.Result) {
	if res.Generation != a.runGen || res.Exercise != a.desc().Name {
		// A newer run superseded this one before its result arrived.
		return
	}
	a.running = false
	a.view.SetRunning(false)
	a.output = res.Lines
	a.verdict = res.Verdict.String()
	a.outputScroll = 0

	a.logger.Info("run.finished", map[string]any{
		"exercise": res.Exercise,
		"mode":     res.Mode,
		"verdict":  a.verdict,
		"ms":       res.Duration.Milliseconds(),
	})
	a.recordRun(res)

	if res.Verdict != runner.VerdictSuccess {
		return
	}
	if a.tracker.MarkDone(res.Exercise) {
		a.persistProgress()
	}
	if !a.autoAdvance {
		a.view.FlashStatus("passed")
		return
	}
	next, ok := a.nextPending()
	if !ok {
		a.finished = true
		banner := a.course.FinishedMD
		if banner == "" {
			banner = "All exercises complete."
		}
		a.view.SetHint(banner, true)
		a.hintOpen = true
		return
	}
	if err := a.switchExercise(next); err != nil {
		a.view.FlashStatus("advance failed: " + err.Error())
	}
}

func (a *App) recordRun(res runner.Result) {
	if a.store == nil {
		return
	}
	_, err := a.store.RecordRun(context.Background(), state.Run{
		SessionID:  a.sessionID,
		Exercise:   res.Exercise,
		Mode:       res.Mode,
		Verdict:    a.verdict,
		DurationMS: res.Duration.Milliseconds(),
	})
	if err != nil {
		a.logger.Error("state.record_failed", map[string]any{"error": err.Error()})
	}
}

// nextPending finds the next not-yet-done exercise after the current
// one, wrapping around. ok is false when everything is done.
func (a *App) nextPending() (int, bool) {
	n := len(a.descs)
	for off := 1; off <= n; off++ {
		i := (a.idx + off) % n
		if !a.tracker.IsDone(a.descs[i].Name) {
			return i, true
		}
	}
	return 0, false
}

func (a *App) loadExercise(i int) error {
	d := a.descs[i]
	text, err := os.ReadFile(d.Path)
	if err != nil {
		return fmt.Errorf("read exercise %s: %w", d.Name, err)
	}
	a.idx = i
	a.buf = editor.New(string(text))
	a.mode = editor.ModeNormal
	a.cmdline = ""
	a.pending = ""
	a.output = nil
	a.verdict = ""
	a.outputScroll = 0
	a.hintOpen = false
	a.solutionOpen = false
	a.view.SetHint("", false)
	a.view.SetSolution("", false)
	a.tracker.SetCurrent(d.Name)
	a.persistProgress()
	return nil
}

// switchExercise atomically replaces the buffer and descriptor, then
// points the watcher at the new file.
func (a *App) switchExercise(i int) error {
	if err := a.loadExercise(i); err != nil {
		return err
	}
	if a.watch != nil {
		if err := a.watch.Rewatch(a.descs[i].Path); err != nil {
			a.onWatchError(err)
		}
	}
	a.logger.Info("exercise.switched", map[string]any{"exercise": a.descs[i].Name, "index": i})
	return nil
}

func (a *App) newWatcher() (*watcher.Watcher, error) {
	return watcher.New(a.desc().Path, time.Duration(a.cfg.Watch.DebounceMS)*time.Millisecond)
}

func (a *App) reload() error {
	text, err := os.ReadFile(a.desc().Path)
	if err != nil {
		return err
	}
	a.buf.Load(string(text))
	return nil
}

func (a *App) save() error {
	if err := os.WriteFile(a.desc().Path, []byte(a.buf.Content()), 0o644); err != nil {
		return err
	}
	a.selfSave = true
	a.buf.MarkClean()
	a.logger.Info("exercise.saved", map[string]any{"exercise": a.desc().Name})
	return nil
}

func (a *App) startRun(mode string) {
	if a.run == nil {
		return
	}
	if a.buf.Dirty() {
		if err := a.save(); err != nil {
			a.view.FlashStatus("save failed: " + err.Error())
			return
		}
	}
	if mode == "" {
		mode = a.desc().Mode
	}
	a.running = true
	a.runStarted = time.Now()
	a.view.SetRunning(true)
	a.runGen = a.run.Start(a.desc().Name, mode, a.desc().Path)
}

// statsLine summarizes run history for the status bar. Empty when the
// stats store is unavailable.
func (a *App) statsLine() string {
	if a.store == nil {
		return ""
	}
	ctx := context.Background()
	sum, err := a.store.GetSummary(ctx)
	if err != nil {
		a.logger.Error("state.summary_failed", map[string]any{"error": err.Error()})
		return ""
	}
	attempts := 0
	if hist, err := a.store.ExerciseHistory(ctx, a.desc().Name, 0); err == nil {
		attempts = len(hist)
	}
	return fmt.Sprintf("%d runs, %d passes, %d exercises tried, %d attempts here",
		sum.Runs, sum.Passes, sum.Exercises, attempts)
}

// loadSettings applies per-user toggles saved by earlier sessions.
func (a *App) loadSettings() {
	if a.store == nil {
		return
	}
	settings, err := a.store.LoadSettings(context.Background())
	if err != nil {
		a.logger.Error("state.settings_failed", map[string]any{"error": err.Error()})
		return
	}
	if v, ok := settings["auto_advance"]; ok {
		a.autoAdvance = v == "on"
	}
}

func (a *App) saveSettings() {
	if a.store == nil {
		return
	}
	err := a.store.SaveSettings(context.Background(), map[string]string{
		"auto_advance": onOff(a.autoAdvance),
	})
	if err != nil {
		a.logger.Error("state.settings_failed", map[string]any{"error": err.Error()})
	}
}

// persistProgress writes the progress file, keeping a retry flag when
// the write fails so the next mutation tries again.
func (a *App) persistProgress() {
	if err := a.tracker.Persist(); err != nil {
		a.persistDirty = true
		a.logger.Error("progress.persist_failed", map[string]any{"error": err.Error()})
		return
	}
	a.persistDirty = false
}

func (a *App) shutdown() {
	if a.run != nil {
		a.run.Cancel()
	}
	a.persistProgress()
	a.saveSettings()
	a.logger.Info("app.stop", map[string]any{
		"session": a.sessionID,
		"done":    a.tracker.DoneCount(),
		"total":   len(a.descs),
	})
	a.view.Stop()
}

func (a *App) syncView() {
	es := ui.EditorState{
		Exercise:    a.desc().Name,
		Lines:       a.buf.Lines(),
		CursorRow:   a.buf.Cursor().Row,
		CursorCol:   a.buf.Cursor().Col,
		Mode:        a.mode.String(),
		Dirty:       a.buf.Dirty(),
		CommandLine: a.cmdline,
		PendingKeys: a.pending,
	}
	if start, end, ok := a.buf.SelectionBounds(); ok {
		es.Selecting = true
		es.SelStartRow, es.SelStartCol = start.Row, start.Col
		es.SelEndRow, es.SelEndCol = end.Row, end.Col
	}
	a.view.SetEditor(es)
	a.view.SetOutput(ui.OutputState{Lines: a.output, Verdict: a.verdict, Scroll: a.outputScroll})
	a.view.SetProgress(ui.ProgressState{
		Course:      a.course.Name,
		Exercise:    a.desc().Name,
		Index:       a.idx,
		Total:       len(a.descs),
		Done:        a.tracker.DoneCount(),
		AutoAdvance: a.autoAdvance,
		Watching:    a.watching,
	})
	a.view.RequestDraw()
}
