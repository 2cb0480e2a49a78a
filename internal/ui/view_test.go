package ui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Rust-Frog/Rust-Progress-sub000/internal/syntax"
)

func TestTranslateKey(t *testing.T) {
	cases := []struct {
		name string
		msg  tea.KeyPressMsg
		want KeyEvent
		ok   bool
	}{
		{name: "rune", msg: tea.KeyPressMsg{Code: 'a', Text: "a"}, want: KeyEvent{Kind: KeyRune, Rune: 'a'}, ok: true},
		{name: "colon", msg: tea.KeyPressMsg{Code: ':', Text: ":"}, want: KeyEvent{Kind: KeyRune, Rune: ':'}, ok: true},
		{name: "space", msg: tea.KeyPressMsg{Code: tea.KeySpace}, want: KeyEvent{Kind: KeyRune, Rune: ' '}, ok: true},
		{name: "esc", msg: tea.KeyPressMsg{Code: tea.KeyEsc}, want: KeyEvent{Kind: KeyEsc}, ok: true},
		{name: "enter", msg: tea.KeyPressMsg{Code: tea.KeyEnter}, want: KeyEvent{Kind: KeyEnter}, ok: true},
		{name: "backspace", msg: tea.KeyPressMsg{Code: tea.KeyBackspace}, want: KeyEvent{Kind: KeyBackspace}, ok: true},
		{name: "arrow", msg: tea.KeyPressMsg{Code: tea.KeyLeft}, want: KeyEvent{Kind: KeyLeft}, ok: true},
		{name: "page down", msg: tea.KeyPressMsg{Code: tea.KeyPgDown}, want: KeyEvent{Kind: KeyPageDown}, ok: true},
		{name: "ctrl z", msg: tea.KeyPressMsg{Code: 'z', Mod: tea.ModCtrl}, want: KeyEvent{Kind: KeyRune, Rune: 'z', Ctrl: true}, ok: true},
		{name: "shift rune", msg: tea.KeyPressMsg{Code: 'g', Text: "G", Mod: tea.ModShift}, want: KeyEvent{Kind: KeyRune, Rune: 'G', Shift: true}, ok: true},
		{name: "function key dropped", msg: tea.KeyPressMsg{Code: tea.KeyF1}, want: KeyEvent{}, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := translateKey(tc.msg)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestClampScroll(t *testing.T) {
	cases := []struct {
		name                          string
		scroll, cursor, height, total int
		want                          int
	}{
		{name: "cursor visible", scroll: 0, cursor: 3, height: 10, total: 20, want: 0},
		{name: "cursor below window", scroll: 0, cursor: 15, height: 10, total: 20, want: 6},
		{name: "cursor above window", scroll: 12, cursor: 4, height: 10, total: 20, want: 4},
		{name: "short buffer", scroll: 5, cursor: 0, height: 10, total: 3, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := clampScroll(tc.scroll, tc.cursor, tc.height, tc.total)
			if got != tc.want {
				t.Fatalf("clampScroll = %d, want %d", got, tc.want)
			}
			if tc.cursor < got || tc.cursor >= got+tc.height {
				t.Fatalf("cursor %d not visible in [%d, %d)", tc.cursor, got, got+tc.height)
			}
		})
	}
}

func TestTrimForWidth(t *testing.T) {
	if got := trimForWidth("hello", 10); got != "hello" {
		t.Fatalf("got %q", got)
	}
	if got := trimForWidth("hello world", 6); got != "hello…" {
		t.Fatalf("got %q", got)
	}
	if got := trimForWidth("\x1b[31mred\x1b[0m", 10); got != "red" {
		t.Fatalf("ansi not stripped: %q", got)
	}
	if got := trimForWidth("anything", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestPadRune(t *testing.T) {
	if got := padRune("ab", 5); got != "ab   " {
		t.Fatalf("got %q", got)
	}
	if got := padRune("abcdef", 3); got != "abc" {
		t.Fatalf("got %q", got)
	}
}

func TestComposeOverlayCentersContent(t *testing.T) {
	base := strings.TrimRight(strings.Repeat("..........\n", 10), "\n")
	out := composeOverlay(base, "HI", 10, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines", len(lines))
	}
	for i, line := range lines {
		if len([]rune(line)) != 10 {
			t.Fatalf("line %d width %d", i, len([]rune(line)))
		}
	}
	if !strings.Contains(lines[4], "HI") {
		t.Fatalf("overlay not centered: %q", lines[4])
	}
	if strings.Contains(lines[0], "HI") || strings.Contains(lines[9], "HI") {
		t.Fatal("overlay leaked to edges")
	}
}

func TestSyntaxCacheReusesPrefix(t *testing.T) {
	c := newSyntaxCache(syntax.Go())
	lines := []string{"/* open", "still comment */", "func main() {}"}
	c.update(lines)

	spans := c.spansFor(1)
	if len(spans) == 0 || spans[0].Class != syntax.ClassComment {
		t.Fatalf("line inside block comment should be a comment, got %+v", spans)
	}

	// Editing the last line must not discard states for earlier lines.
	lines2 := []string{"/* open", "still comment */", "func main() { x() }"}
	c.update(lines2)
	if len(c.states) < 3 {
		t.Fatalf("prefix states discarded, have %d", len(c.states))
	}
	spans = c.spansFor(2)
	found := false
	for _, s := range spans {
		if s.Class == syntax.ClassKeyword {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected keyword span on code line, got %+v", spans)
	}
}

func TestSyntaxCacheInvalidatesOnEdit(t *testing.T) {
	c := newSyntaxCache(syntax.Go())
	c.update([]string{"/* open", "inside"})
	if spans := c.spansFor(1); len(spans) == 0 || spans[0].Class != syntax.ClassComment {
		t.Fatal("expected comment carry-over")
	}

	c.update([]string{"// closed", "inside"})
	spans := c.spansFor(1)
	for _, s := range spans {
		if s.Class == syntax.ClassComment {
			t.Fatalf("stale comment state survived edit: %+v", spans)
		}
	}
}

func TestRenderSessionSmoke(t *testing.T) {
	r := New(Options{StyleVariant: "midnight", MotionLevel: "off", Language: syntax.Go()})
	r.cols, r.rows = 120, 32
	r.editor = EditorState{
		Exercise:  "variables1",
		Lines:     []string{"func main() {", "	x := 5", "}"},
		CursorRow: 1,
		CursorCol: 5,
		Mode:      "NORMAL",
	}
	r.output = OutputState{Lines: []string{"declared and not used: x"}, Verdict: "failure"}
	r.prog = ProgressState{Course: "go-basics", Exercise: "variables1", Index: 0, Total: 5, Done: 2, Watching: true}

	out := r.renderSession()
	if !strings.Contains(out, "variables1") {
		t.Fatal("missing exercise name")
	}
	if !strings.Contains(out, "NORMAL") {
		t.Fatal("missing mode badge")
	}
	if len(strings.Split(out, "\n")) < 10 {
		t.Fatal("suspiciously short frame")
	}
}

func TestRenderSessionTooSmall(t *testing.T) {
	r := New(Options{StyleVariant: "midnight", MotionLevel: "off", Language: syntax.Go()})
	r.cols, r.rows = 40, 10
	out := r.renderSession()
	if !strings.Contains(out, "Resize") {
		t.Fatalf("expected resize prompt, got %q", out)
	}
}

func TestRenderOverlayPicksTopmost(t *testing.T) {
	r := New(Options{StyleVariant: "midnight", MotionLevel: "off", Language: syntax.Go()})
	r.cols, r.rows = 100, 30
	if r.renderOverlay() != "" {
		t.Fatal("no overlay expected")
	}
	r.hintOpen = true
	r.hintMD = "try let mut"
	if !strings.Contains(r.renderOverlay(), "Hint") {
		t.Fatal("expected hint overlay")
	}
	r.helpOpen = true
	r.overlayPos = 1
	if !strings.Contains(r.renderOverlay(), "Help") {
		t.Fatal("help should take precedence")
	}
}
