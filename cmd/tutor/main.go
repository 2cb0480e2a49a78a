package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rust-Frog/Rust-Progress-sub000/internal/app"
)

func main() {
	cfg := app.DefaultConfig()

	flag.StringVar(&cfg.CourseDir, "course", cfg.CourseDir, "directory containing course.yaml")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for progress and run history")
	flag.StringVar(&cfg.LogPath, "log", cfg.LogPath, "JSON log file path (empty disables logging)")
	flag.StringVar(&cfg.Toolchain, "toolchain", cfg.Toolchain, "toolchain command invoked as: toolchain <check|test|lint> <path>")
	flag.StringVar(&cfg.SuccessMarker, "marker", cfg.SuccessMarker, "output marker the toolchain prints on success")
	flag.IntVar(&cfg.RunTimeoutMS, "run-timeout-ms", cfg.RunTimeoutMS, "toolchain run timeout in milliseconds")
	flag.BoolVar(&cfg.Watch.Enabled, "watch", cfg.Watch.Enabled, "watch the active exercise file for external edits")
	flag.IntVar(&cfg.Watch.DebounceMS, "watch-debounce-ms", cfg.Watch.DebounceMS, "debounce window for file change events")
	flag.BoolVar(&cfg.AutoAdvance, "auto-advance", cfg.AutoAdvance, "advance to the next pending exercise on success")
	flag.IntVar(&cfg.Editor.TabWidth, "tab-width", cfg.Editor.TabWidth, "spaces inserted per Tab in insert mode")
	flag.StringVar(&cfg.UI.StyleVariant, "style", cfg.UI.StyleVariant, "ui style variant: midnight, paper, phosphor")
	flag.StringVar(&cfg.UI.MotionLevel, "motion", cfg.UI.MotionLevel, "ui motion level: off, reduced, full")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "tutor:", err)
		os.Exit(2)
	}

	a, err := app.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tutor:", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "tutor:", err)
		os.Exit(1)
	}
}
