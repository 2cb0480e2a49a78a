package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Rust-Frog/Rust-Progress-sub000/internal/editor"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/exercises"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/progress"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/runner"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/ui"
)

// stubView records controller-to-view traffic without a terminal.
type stubView struct {
	ctrl     ui.Controller
	editor   ui.EditorState
	output   ui.OutputState
	progress ui.ProgressState
	hintMD   string
	hintOpen bool
	solText  string
	solOpen  bool
	helpOpen bool
	running  bool
	flashes  []string
	stopped  bool
}

func (v *stubView) Run() error                    { return nil }
func (v *stubView) Stop()                         { v.stopped = true }
func (v *stubView) SetController(c ui.Controller) { v.ctrl = c }
func (v *stubView) SetEditor(es ui.EditorState)   { v.editor = es }
func (v *stubView) SetOutput(o ui.OutputState)    { v.output = o }
func (v *stubView) SetProgress(ps ui.ProgressState) {
	v.progress = ps
}
func (v *stubView) SetHint(md string, open bool) { v.hintMD, v.hintOpen = md, open }
func (v *stubView) SetSolution(text string, open bool) {
	v.solText, v.solOpen = text, open
}
func (v *stubView) SetHelpOpen(open bool)   { v.helpOpen = open }
func (v *stubView) SetRunning(running bool) { v.running = running }
func (v *stubView) FlashStatus(msg string)  { v.flashes = append(v.flashes, msg) }
func (v *stubView) RequestDraw()            {}

func (v *stubView) lastFlash() string {
	if len(v.flashes) == 0 {
		return ""
	}
	return v.flashes[len(v.flashes)-1]
}

// testApp builds a controller over a two-exercise fixture course with a
// stub view and no live runner or watcher.
func testApp(t *testing.T) (*App, *stubView, string) {
	t.Helper()
	dir := t.TempDir()

	names := []string{"intro", "vars"}
	descs := make([]exercises.Descriptor, 0, len(names))
	for i, name := range names {
		path := filepath.Join(dir, name+".go")
		if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		orig := filepath.Join(dir, name+".orig.go")
		if err := os.WriteFile(orig, []byte("package main // original\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		descs = append(descs, exercises.Descriptor{
			Name:         name,
			Index:        i,
			Mode:         exercises.ModeCheck,
			HintMD:       "hint for " + name,
			Path:         path,
			OriginalPath: orig,
		})
	}

	cfg := DefaultConfig()
	cfg.Toolchain = "true"
	cfg.CourseDir = dir
	cfg.DataDir = dir
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	view := &stubView{}
	a := newApp(cfg, view)
	a.descs = descs
	a.course = exercises.Course{Name: "fixture", Root: dir}

	tracker, err := progress.Load(filepath.Join(dir, progressFile))
	if err != nil {
		t.Fatal(err)
	}
	a.tracker = tracker

	if err := a.loadExercise(0); err != nil {
		t.Fatal(err)
	}
	a.syncView()
	return a, view, dir
}

func key(r rune) event { return keyEvent{key: ui.KeyEvent{Kind: ui.KeyRune, Rune: r}} }

func keyKind(k ui.KeyKind) event { return keyEvent{key: ui.KeyEvent{Kind: k}} }

func typeString(t *testing.T, a *App, s string) {
	t.Helper()
	for _, r := range s {
		if a.handleEvent(key(r)) {
			t.Fatalf("unexpected quit while typing %q", s)
		}
	}
}

func TestInsertTypeSaveQuit(t *testing.T) {
	a, view, _ := testApp(t)

	a.handleEvent(key('i'))
	if a.mode != editor.ModeInsert {
		t.Fatalf("mode = %v", a.mode)
	}
	typeString(t, a, "// note")
	a.handleEvent(keyKind(ui.KeyEsc))
	if a.mode != editor.ModeNormal {
		t.Fatalf("mode = %v", a.mode)
	}
	if !view.editor.Dirty {
		t.Fatal("buffer should be dirty")
	}

	a.handleEvent(key(':'))
	typeString(t, a, "wq")
	if !a.handleEvent(keyKind(ui.KeyEnter)) {
		t.Fatal("wq should end the session")
	}
	if !view.stopped {
		t.Fatal("view not stopped")
	}

	data, err := os.ReadFile(a.desc().Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "// note"+"package main\n" {
		t.Fatalf("saved content %q", data)
	}
}

func TestQuitRefusedWhenDirty(t *testing.T) {
	a, view, _ := testApp(t)

	a.handleEvent(key('i'))
	typeString(t, a, "x")
	a.handleEvent(keyKind(ui.KeyEsc))

	a.handleEvent(key(':'))
	typeString(t, a, "q")
	if a.handleEvent(keyKind(ui.KeyEnter)) {
		t.Fatal("dirty :q must not quit")
	}
	if view.lastFlash() == "" {
		t.Fatal("expected a warning flash")
	}

	a.handleEvent(key(':'))
	typeString(t, a, "q!")
	if !a.handleEvent(keyKind(ui.KeyEnter)) {
		t.Fatal(":q! must quit")
	}
}

func TestSuccessMarksDoneAndAdvances(t *testing.T) {
	a, view, _ := testApp(t)

	a.handleEvent(runResultEvent{result: runner.Result{
		Exercise: "intro",
		Mode:     exercises.ModeCheck,
		Verdict:  runner.VerdictSuccess,
		Duration: 10 * time.Millisecond,
	}})

	if !a.tracker.IsDone("intro") {
		t.Fatal("intro not marked done")
	}
	if a.desc().Name != "vars" {
		t.Fatalf("did not advance, on %q", a.desc().Name)
	}
	if view.progress.Done != 1 {
		t.Fatalf("view done = %d", view.progress.Done)
	}
}

func TestFinishBannerWhenAllDone(t *testing.T) {
	a, view, _ := testApp(t)
	a.tracker.MarkDone("vars")

	a.handleEvent(runResultEvent{result: runner.Result{
		Exercise: "intro",
		Verdict:  runner.VerdictSuccess,
	}})

	if !a.finished {
		t.Fatal("session should be finished")
	}
	if !view.hintOpen {
		t.Fatal("finish banner not shown")
	}
}

func TestStaleResultIgnored(t *testing.T) {
	a, _, _ := testApp(t)

	a.handleEvent(runResultEvent{result: runner.Result{
		Exercise: "vars",
		Verdict:  runner.VerdictSuccess,
	}})

	if a.tracker.IsDone("vars") {
		t.Fatal("result for a non-current exercise must be dropped")
	}
	if a.desc().Name != "intro" {
		t.Fatal("must not advance on a stale result")
	}
}

func TestFailureShowsDiagnostics(t *testing.T) {
	a, view, _ := testApp(t)

	a.handleEvent(runResultEvent{result: runner.Result{
		Exercise: "intro",
		Verdict:  runner.VerdictFailure,
		Lines:    []string{"main.go:3: undefined: x"},
	}})

	if view.output.Verdict != "failure" {
		t.Fatalf("verdict %q", view.output.Verdict)
	}
	if len(view.output.Lines) != 1 {
		t.Fatalf("lines %v", view.output.Lines)
	}
	if a.tracker.IsDone("intro") {
		t.Fatal("failure must not mark done")
	}
}

func TestHintAliasesMatch(t *testing.T) {
	a, view, _ := testApp(t)

	a.handleEvent(key(':'))
	typeString(t, a, "h")
	a.handleEvent(keyKind(ui.KeyEnter))
	short := view.hintMD
	if !view.hintOpen || short == "" {
		t.Fatal(":h did not open the hint")
	}

	a.handleEvent(key(':'))
	typeString(t, a, "hint")
	a.handleEvent(keyKind(ui.KeyEnter))
	if view.hintOpen {
		t.Fatal(":hint should toggle the hint closed")
	}

	a.handleEvent(key(':'))
	typeString(t, a, "hint")
	a.handleEvent(keyKind(ui.KeyEnter))
	if view.hintMD != short {
		t.Fatalf(":hint rendered %q, :h rendered %q", view.hintMD, short)
	}
}

func TestUnknownCommandFlashes(t *testing.T) {
	a, view, _ := testApp(t)

	a.handleEvent(key(':'))
	typeString(t, a, "frobnicate")
	a.handleEvent(keyKind(ui.KeyEnter))
	if view.lastFlash() != "unknown command: :frobnicate" {
		t.Fatalf("flash %q", view.lastFlash())
	}
	if a.mode != editor.ModeNormal {
		t.Fatal("must drop back to normal mode")
	}
}

func TestReloadRefusedWhenDirty(t *testing.T) {
	a, view, _ := testApp(t)

	a.handleEvent(key('i'))
	typeString(t, a, "z")
	a.handleEvent(keyKind(ui.KeyEsc))

	a.handleEvent(key(':'))
	typeString(t, a, "r")
	a.handleEvent(keyKind(ui.KeyEnter))

	if view.editor.Lines[0] != "zpackage main" {
		t.Fatalf("edit lost: %q", view.editor.Lines[0])
	}
	if view.lastFlash() == "reloaded" {
		t.Fatal("dirty reload must be refused")
	}
}

func TestWatcherChangeReloadsCleanBuffer(t *testing.T) {
	a, view, _ := testApp(t)
	a.cfg.Watch.RunOnSave = false

	if err := os.WriteFile(a.desc().Path, []byte("package rewritten\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a.handleEvent(fileChangedEvent{})

	if view.editor.Lines[0] != "package rewritten" {
		t.Fatalf("buffer not reloaded: %q", view.editor.Lines[0])
	}
}

func TestWatcherChangeKeepsDirtyBuffer(t *testing.T) {
	a, view, _ := testApp(t)

	a.handleEvent(key('i'))
	typeString(t, a, "mine")
	a.handleEvent(keyKind(ui.KeyEsc))

	if err := os.WriteFile(a.desc().Path, []byte("package theirs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a.handleEvent(fileChangedEvent{})

	if view.editor.Lines[0] != "minepackage main" {
		t.Fatalf("dirty buffer clobbered: %q", view.editor.Lines[0])
	}
	if view.lastFlash() == "" {
		t.Fatal("expected a conflict flash")
	}
}

func TestSelfSaveSuppressesWatcherEcho(t *testing.T) {
	a, _, _ := testApp(t)
	a.cfg.Watch.RunOnSave = false

	a.handleEvent(key('i'))
	typeString(t, a, "v")
	a.handleEvent(keyKind(ui.KeyEsc))
	a.handleEvent(key(':'))
	typeString(t, a, "w")
	a.handleEvent(keyKind(ui.KeyEnter))

	if !a.selfSave {
		t.Fatal("save must arm the echo guard")
	}
	a.handleEvent(fileChangedEvent{})
	if a.selfSave {
		t.Fatal("guard must be consumed by one change event")
	}
	if a.buf.Dirty() {
		t.Fatal("echo must not dirty the buffer")
	}
}

func TestNavigationDiscardsUnsavedEdits(t *testing.T) {
	a, _, _ := testApp(t)

	a.handleEvent(key(']'))
	if a.desc().Name != "vars" {
		t.Fatal("clean buffer should switch")
	}
	a.handleEvent(key('['))
	if a.desc().Name != "intro" {
		t.Fatal("should switch back")
	}

	a.handleEvent(key('i'))
	typeString(t, a, "scratch")
	a.handleEvent(keyKind(ui.KeyEsc))
	a.handleEvent(key(']'))
	if a.desc().Name != "vars" {
		t.Fatal("dirty buffer must still switch")
	}
	a.handleEvent(key('['))
	if a.desc().Name != "intro" {
		t.Fatal("should switch back")
	}
	if a.buf.Dirty() {
		t.Fatal("switching must load the on-disk file")
	}
	if strings.Contains(a.buf.Content(), "scratch") {
		t.Fatal("unsaved edits must be discarded on switch")
	}

	a.handleEvent(key('n'))
	if a.desc().Name != "vars" {
		t.Fatal("n should advance to the next exercise")
	}
}

func TestSolutionKeyTogglesOverlay(t *testing.T) {
	a, view, dir := testApp(t)

	sol := filepath.Join(dir, "intro.sol.go")
	if err := os.WriteFile(sol, []byte("package main // solved\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a.descs[0].SolutionPath = sol

	a.handleEvent(key('s'))
	if !view.solOpen {
		t.Fatal("s should open the solution overlay")
	}
	if !strings.Contains(view.solText, "solved") {
		t.Fatalf("solution text %q", view.solText)
	}
	a.handleEvent(key('s'))
	if view.solOpen {
		t.Fatal("s should close the solution overlay")
	}
}

func TestQuitKeyWarnsWhenDirty(t *testing.T) {
	a, view, _ := testApp(t)

	a.handleEvent(key('i'))
	typeString(t, a, "note")
	a.handleEvent(keyKind(ui.KeyEsc))
	if a.handleEvent(key('q')) {
		t.Fatal("q must not quit over unsaved edits")
	}
	if view.lastFlash() == "" {
		t.Fatal("expected a warning flash")
	}
	if view.stopped {
		t.Fatal("view must keep running")
	}

	a.handleEvent(key(':'))
	typeString(t, a, "w")
	a.handleEvent(keyKind(ui.KeyEnter))
	if !a.handleEvent(key('q')) {
		t.Fatal("q should quit a clean session")
	}
	if !view.stopped {
		t.Fatal("view not stopped")
	}
}

func TestSupersededRunResultDropped(t *testing.T) {
	a, view, _ := testApp(t)

	a.running = true
	a.runGen = 2
	a.handleEvent(runResultEvent{result: runner.Result{
		Exercise:   "intro",
		Generation: 1,
		Verdict:    runner.VerdictSuccess,
	}})

	if a.tracker.IsDone("intro") {
		t.Fatal("a superseded run must not mark the exercise done")
	}
	if a.desc().Name != "intro" {
		t.Fatal("a superseded run must not advance")
	}
	if !a.running {
		t.Fatal("the newer run is still in flight")
	}

	a.handleEvent(runResultEvent{result: runner.Result{
		Exercise:   "intro",
		Generation: 2,
		Verdict:    runner.VerdictSuccess,
	}})
	if !a.tracker.IsDone("intro") {
		t.Fatal("the current run's result must be applied")
	}
	if view.running {
		t.Fatal("running indicator should clear")
	}
}

func TestResetRestoresOriginal(t *testing.T) {
	a, view, _ := testApp(t)

	a.handleEvent(key('i'))
	typeString(t, a, "broken")
	a.handleEvent(keyKind(ui.KeyEsc))
	a.tracker.MarkDone("intro")

	a.handleEvent(key(':'))
	typeString(t, a, "reset")
	a.handleEvent(keyKind(ui.KeyEnter))

	if view.editor.Lines[0] != "package main // original" {
		t.Fatalf("not restored: %q", view.editor.Lines[0])
	}
	if a.tracker.IsDone("intro") {
		t.Fatal("reset must clear done state")
	}
	data, _ := os.ReadFile(a.desc().Path)
	if string(data) != "package main // original\n" {
		t.Fatalf("file not rewritten: %q", data)
	}
}

func TestPendingSequences(t *testing.T) {
	a, view, _ := testApp(t)
	a.buf.Load("one two\nthree\n")

	typeString(t, a, "dd")
	if got := a.buf.Content(); got != "three\n" {
		t.Fatalf("dd left %q", got)
	}
	typeString(t, a, "p")
	if got := a.buf.Content(); got != "three\none two\n" {
		t.Fatalf("p left %q", got)
	}

	typeString(t, a, "gg")
	if a.buf.Cursor().Row != 0 {
		t.Fatal("gg should go to the first line")
	}
	if view.editor.PendingKeys != "" {
		t.Fatalf("pending not cleared: %q", view.editor.PendingKeys)
	}
}

func TestAutoPairAndIndent(t *testing.T) {
	a, _, _ := testApp(t)
	a.buf.Load("\n")

	a.handleEvent(key('i'))
	typeString(t, a, "if x {")
	if got := a.buf.Line(0); got != "if x {}" {
		t.Fatalf("auto-pair gave %q", got)
	}
	typeString(t, a, "}")
	if got := a.buf.Line(0); got != "if x {}" {
		t.Fatalf("typing the closer must step over it, got %q", got)
	}

	a.buf.Load("    indented\n")
	a.buf.LineEnd()
	a.handleEvent(keyKind(ui.KeyEnter))
	if got := a.buf.Line(1); got != "    " {
		t.Fatalf("auto-indent gave %q", got)
	}
}

func TestVisualDeleteYanks(t *testing.T) {
	a, _, _ := testApp(t)
	a.buf.Load("hello world\n")

	typeString(t, a, "v")
	if a.mode != editor.ModeVisual {
		t.Fatalf("mode = %v", a.mode)
	}
	typeString(t, a, "llll")
	typeString(t, a, "d")
	if a.mode != editor.ModeNormal {
		t.Fatal("delete must leave visual mode")
	}
	if a.yank != "hello" {
		t.Fatalf("yank %q", a.yank)
	}
	if got := a.buf.Line(0); got != " world" {
		t.Fatalf("line %q", got)
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing toolchain must fail")
	}

	cfg = DefaultConfig()
	cfg.Toolchain = "rustc-wrapper"
	cfg.DataDir = t.TempDir()
	cfg.UI.StyleVariant = "neon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("bad style variant must fail")
	}

	cfg = DefaultConfig()
	cfg.Toolchain = "rustc-wrapper"
	cfg.DataDir = t.TempDir()
	cfg.RunTimeoutMS = -5
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.RunTimeoutMS != 30000 {
		t.Fatalf("timeout not defaulted: %d", cfg.RunTimeoutMS)
	}
}
