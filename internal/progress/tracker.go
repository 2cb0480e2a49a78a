// Package progress persists exercise completion state as a small
// key-value record file. One line per entry: "<exercise>=done" for
// completed exercises plus a "current=<exercise>" pointer so a session
// resumes where the learner left off.
package progress

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const currentKey = "current"

// Tracker maps exercise identifiers to completion state. It is not
// goroutine-safe; the session controller is its only writer.
type Tracker struct {
	path    string
	done    map[string]bool
	current string
}

// Load reads the record at path. A missing file yields an empty
// tracker; a malformed line is skipped rather than failing the session.
func Load(path string) (*Tracker, error) {
	t := &Tracker{path: path, done: make(map[string]bool)}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("open progress record: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key == currentKey {
			t.current = value
			continue
		}
		if value == "done" {
			t.done[key] = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read progress record: %w", err)
	}
	return t, nil
}

// MarkDone records id as completed. Marking an already-done exercise is
// a no-op and reports false.
func (t *Tracker) MarkDone(id string) bool {
	if t.done[id] {
		return false
	}
	t.done[id] = true
	return true
}

// IsDone reports whether id has been completed.
func (t *Tracker) IsDone(id string) bool { return t.done[id] }

// DoneCount returns the number of completed exercises.
func (t *Tracker) DoneCount() int { return len(t.done) }

// Current returns the exercise pointer saved by the last session.
func (t *Tracker) Current() string { return t.current }

// SetCurrent updates the resume pointer.
func (t *Tracker) SetCurrent(id string) { t.current = id }

// Reset forgets completion of id, used when the learner resets an
// exercise to its original text.
func (t *Tracker) Reset(id string) { delete(t.done, id) }

// Persist writes the full record with write-temp-then-rename semantics
// so a crash mid-write never corrupts prior progress.
func (t *Tracker) Persist() error {
	var sb strings.Builder
	if t.current != "" {
		fmt.Fprintf(&sb, "%s=%s\n", currentKey, t.current)
	}
	ids := make([]string, 0, len(t.done))
	for id := range t.done {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&sb, "%s=done\n", id)
	}

	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".progress-*")
	if err != nil {
		return fmt.Errorf("create progress temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write progress temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync progress temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close progress temp: %w", err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace progress record: %w", err)
	}
	return nil
}
