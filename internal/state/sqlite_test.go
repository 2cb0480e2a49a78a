package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestRecordRunAndHistory(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	runs := []Run{
		{SessionID: "s1", Exercise: "intro1", Mode: "check", Verdict: "failure", DurationMS: 120},
		{SessionID: "s1", Exercise: "intro1", Mode: "check", Verdict: "success", DurationMS: 95},
		{SessionID: "s1", Exercise: "intro2", Mode: "test", Verdict: "failure", DurationMS: 240},
	}
	for _, run := range runs {
		run.StartTS = time.Now()
		if _, err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("record run: %v", err)
		}
	}

	history, err := store.ExerciseHistory(ctx, "intro1", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d history rows, want 2", len(history))
	}
	// Newest first.
	if history[0].Verdict != "success" || history[1].Verdict != "failure" {
		t.Fatalf("history order wrong: %+v", history)
	}
	if history[0].StartTS.IsZero() {
		t.Fatal("start timestamp not round-tripped")
	}
}

func TestGetSummary(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, run := range []Run{
		{SessionID: "s1", Exercise: "a", Mode: "check", Verdict: "success"},
		{SessionID: "s1", Exercise: "a", Mode: "check", Verdict: "failure"},
		{SessionID: "s1", Exercise: "b", Mode: "test", Verdict: "success"},
	} {
		if _, err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("record run: %v", err)
		}
	}

	got, err := store.GetSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := Summary{Runs: 3, Passes: 2, Exercises: 2}
	if got != want {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.SaveSettings(ctx, map[string]string{"auto_advance": "true", "watch": "false"}); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if err := store.SaveSettings(ctx, map[string]string{"watch": "true"}); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	got, err := store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if got["auto_advance"] != "true" || got["watch"] != "true" {
		t.Fatalf("settings = %v", got)
	}
}
