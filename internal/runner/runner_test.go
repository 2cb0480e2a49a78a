package runner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeToolchain materializes a fake toolchain script and an exercise
// file, returning both paths.
func writeToolchain(t *testing.T, script string) (tool, exercise string) {
	t.Helper()
	dir := t.TempDir()
	tool = filepath.Join(dir, "toolchain")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	exercise = filepath.Join(dir, "ex1.go")
	if err := os.WriteFile(exercise, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return tool, exercise
}

func waitResult(t *testing.T, r *Runner) Result {
	t.Helper()
	select {
	case res := <-r.Results():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("no result within 5s")
		return Result{}
	}
}

func TestSuccessViaMarker(t *testing.T) {
	tool, ex := writeToolchain(t, `echo "running $1 on $2"; echo PASS`)
	r := New(tool, 5*time.Second, "PASS")
	defer r.Close()
	r.Start("ex1", "check", ex)
	res := waitResult(t, r)
	if res.Verdict != VerdictSuccess {
		t.Fatalf("Verdict = %v, lines %v", res.Verdict, res.Lines)
	}
	if res.Exercise != "ex1" || res.Mode != "check" {
		t.Fatalf("result metadata = %+v", res)
	}
}

func TestSuccessViaEmptyOutput(t *testing.T) {
	tool, ex := writeToolchain(t, `exit 0`)
	r := New(tool, 5*time.Second, "PASS")
	defer r.Close()
	r.Start("ex1", "lint", ex)
	if res := waitResult(t, r); res.Verdict != VerdictSuccess {
		t.Fatalf("Verdict = %v", res.Verdict)
	}
}

func TestFailureCarriesDiagnostics(t *testing.T) {
	tool, ex := writeToolchain(t, `echo "error: undefined variable" >&2; echo "note: declared here" >&2; exit 1`)
	r := New(tool, 5*time.Second, "PASS")
	defer r.Close()
	r.Start("ex1", "check", ex)
	res := waitResult(t, r)
	if res.Verdict != VerdictFailure {
		t.Fatalf("Verdict = %v", res.Verdict)
	}
	if len(res.Lines) != 2 || !strings.Contains(res.Lines[0], "undefined variable") {
		t.Fatalf("Lines = %v", res.Lines)
	}
}

func TestToolErrorOnSilentFailure(t *testing.T) {
	tool, ex := writeToolchain(t, `exit 2`)
	r := New(tool, 5*time.Second, "PASS")
	defer r.Close()
	r.Start("ex1", "check", ex)
	if res := waitResult(t, r); res.Verdict != VerdictToolError {
		t.Fatalf("Verdict = %v", res.Verdict)
	}
}

func TestToolErrorOnUnrecognizedSuccessOutput(t *testing.T) {
	tool, ex := writeToolchain(t, `echo "something unrelated"; exit 0`)
	r := New(tool, 5*time.Second, "PASS")
	defer r.Close()
	r.Start("ex1", "check", ex)
	if res := waitResult(t, r); res.Verdict != VerdictToolError {
		t.Fatalf("Verdict = %v, lines %v", res.Verdict, res.Lines)
	}
}

func TestToolErrorOnMissingBinary(t *testing.T) {
	_, ex := writeToolchain(t, `exit 0`)
	r := New(filepath.Join(t.TempDir(), "no-such-toolchain"), 5*time.Second, "PASS")
	defer r.Close()
	r.Start("ex1", "check", ex)
	res := waitResult(t, r)
	if res.Verdict != VerdictToolError {
		t.Fatalf("Verdict = %v", res.Verdict)
	}
	if len(res.Lines) == 0 || !strings.Contains(res.Lines[0], "failed to start") {
		t.Fatalf("Lines = %v", res.Lines)
	}
}

func TestToolErrorOnTimeout(t *testing.T) {
	tool, ex := writeToolchain(t, `sleep 10`)
	r := New(tool, 200*time.Millisecond, "PASS")
	defer r.Close()
	r.Start("ex1", "check", ex)
	res := waitResult(t, r)
	if res.Verdict != VerdictToolError {
		t.Fatalf("Verdict = %v", res.Verdict)
	}
	if len(res.Lines) == 0 || !strings.Contains(res.Lines[0], "timed out") {
		t.Fatalf("Lines = %v", res.Lines)
	}
}

func TestNewRunSupersedesOldOne(t *testing.T) {
	tool, ex := writeToolchain(t, `if [ "$1" = "check" ]; then sleep 10; fi; echo PASS`)
	r := New(tool, 5*time.Second, "PASS")
	defer r.Close()
	r.Start("ex1", "check", ex)
	time.Sleep(50 * time.Millisecond)
	gen := r.Start("ex1", "test", ex)

	res := waitResult(t, r)
	if res.Generation != gen || res.Mode != "test" {
		t.Fatalf("got result %+v, want generation %d", res, gen)
	}
	if res.Verdict != VerdictSuccess {
		t.Fatalf("Verdict = %v", res.Verdict)
	}

	select {
	case stale := <-r.Results():
		t.Fatalf("superseded run still published %+v", stale)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestCancelSuppressesResult(t *testing.T) {
	tool, ex := writeToolchain(t, `sleep 10; echo PASS`)
	r := New(tool, 5*time.Second, "PASS")
	r.Start("ex1", "check", ex)
	time.Sleep(50 * time.Millisecond)
	r.Close()
	select {
	case res := <-r.Results():
		t.Fatalf("cancelled run published %+v", res)
	case <-time.After(200 * time.Millisecond):
	}
}
