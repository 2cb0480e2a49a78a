package runner

import "time"

// Verdict classifies a finished toolchain invocation.
type Verdict int

const (
	// VerdictSuccess: the toolchain accepted the exercise.
	VerdictSuccess Verdict = iota
	// VerdictFailure: the toolchain rejected the exercise and produced
	// diagnostics the learner can act on.
	VerdictFailure
	// VerdictToolError: the toolchain itself misbehaved (spawn failure,
	// timeout, output that fits neither verdict). Never marks progress.
	VerdictToolError
)

func (v Verdict) String() string {
	switch v {
	case VerdictSuccess:
		return "success"
	case VerdictFailure:
		return "failure"
	default:
		return "tool_error"
	}
}

// Result is the outcome of one run. Generation orders results so the
// session controller can discard ones from superseded runs.
type Result struct {
	Exercise   string
	Mode       string
	Verdict    Verdict
	Lines      []string
	Duration   time.Duration
	Generation uint64
}
