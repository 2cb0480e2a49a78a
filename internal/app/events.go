package app

import (
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/runner"
	"github.com/Rust-Frog/Rust-Progress-sub000/internal/ui"
)

// event is one unit of work for the controller loop. Everything that can
// mutate session state arrives as an event, so the loop goroutine is the
// only writer.
type event interface{ isEvent() }

type keyEvent struct{ key ui.KeyEvent }

type resizeEvent struct{ cols, rows int }

type quitEvent struct{}

type fileChangedEvent struct{}

type watchErrorEvent struct{ err error }

type runResultEvent struct{ result runner.Result }

func (keyEvent) isEvent()         {}
func (resizeEvent) isEvent()      {}
func (quitEvent) isEvent()        {}
func (fileChangedEvent) isEvent() {}
func (watchErrorEvent) isEvent()  {}
func (runResultEvent) isEvent()   {}
