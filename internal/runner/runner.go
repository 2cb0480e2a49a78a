// Package runner invokes the external toolchain against an exercise and
// classifies the outcome. At most one child process is alive at a time:
// starting a new run signals the previous child and supersedes its
// result.
package runner

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

const terminateGrace = 3 * time.Second

// Runner executes `<toolchain> <mode> <path>` child processes. Results
// arrive on the channel returned by Results; superseded runs never
// publish.
type Runner struct {
	toolchain string
	timeout   time.Duration
	marker    string

	results chan Result

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a runner. marker is the substring of toolchain output that
// confirms success on a zero exit status; exit 0 with empty output also
// counts as success.
func New(toolchain string, timeout time.Duration, marker string) *Runner {
	return &Runner{
		toolchain: toolchain,
		timeout:   timeout,
		marker:    marker,
		results:   make(chan Result, 8),
	}
}

// Results delivers one Result per non-superseded run.
func (r *Runner) Results() <-chan Result { return r.results }

// Start launches `<toolchain> <mode> <path>` for the exercise at path,
// cancelling any run still in flight. It returns the new run's
// generation immediately; the outcome arrives on Results.
func (r *Runner) Start(exercise, mode, path string) uint64 {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	r.cancel = cancel
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		res := r.execute(ctx, exercise, mode, path)
		res.Generation = gen

		r.mu.Lock()
		current := r.gen == gen
		r.mu.Unlock()
		if current {
			r.results <- res
		}
	}()
	return gen
}

// Cancel terminates any in-flight run without starting a new one. The
// cancelled run publishes no result.
func (r *Runner) Cancel() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.gen++
	r.mu.Unlock()
}

// Close cancels outstanding work and waits for the child to exit.
func (r *Runner) Close() {
	r.Cancel()
	r.wg.Wait()
}

func (r *Runner) execute(ctx context.Context, exercise, mode, path string) Result {
	start := time.Now()
	cmd := exec.CommandContext(ctx, r.toolchain, mode, path)
	cmd.Dir = filepath.Dir(path)
	// Give the child a chance to exit cleanly before the kill.
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = terminateGrace

	out, err := cmd.CombinedOutput()
	res := Result{
		Exercise: exercise,
		Mode:     mode,
		Duration: time.Since(start),
	}

	if err != nil && ctx.Err() == context.DeadlineExceeded {
		res.Verdict = VerdictToolError
		res.Lines = []string{"toolchain timed out after " + r.timeout.String()}
		return res
	}

	lines := splitOutput(out)
	if err == nil {
		if len(lines) == 0 || r.containsMarker(lines) {
			res.Verdict = VerdictSuccess
			res.Lines = lines
			return res
		}
		res.Verdict = VerdictToolError
		res.Lines = append([]string{"toolchain exited 0 without reporting a status"}, lines...)
		return res
	}

	if _, isExit := err.(*exec.ExitError); !isExit {
		// Spawn failure: binary missing, permission denied.
		res.Verdict = VerdictToolError
		res.Lines = []string{"failed to start toolchain: " + err.Error()}
		return res
	}
	if len(lines) == 0 {
		res.Verdict = VerdictToolError
		res.Lines = []string{"toolchain failed without diagnostics: " + err.Error()}
		return res
	}
	res.Verdict = VerdictFailure
	res.Lines = lines
	return res
}

func (r *Runner) containsMarker(lines []string) bool {
	if r.marker == "" {
		return false
	}
	for _, line := range lines {
		if strings.Contains(line, r.marker) {
			return true
		}
	}
	return false
}

func splitOutput(out []byte) []string {
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(trimmed, "\r\n", "\n"), "\n")
}
