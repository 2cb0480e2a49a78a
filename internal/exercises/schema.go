package exercises

import (
	"fmt"
	"regexp"
)

const (
	CourseKind             = "course"
	SupportedSchemaVersion = 1
)

// Verification modes map directly onto toolchain subcommands.
const (
	ModeCheck = "check"
	ModeTest  = "test"
	ModeLint  = "lint"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Course is the parsed course.yaml manifest. Exercise order in the
// manifest is the learning order.
type Course struct {
	Kind          string        `yaml:"kind"`
	SchemaVersion int           `yaml:"schema_version"`
	Name          string        `yaml:"name"`
	WelcomeMD     string        `yaml:"welcome_md"`
	FinishedMD    string        `yaml:"finished_md"`
	Exercises     []ExerciseRef `yaml:"exercises"`

	Root string `yaml:"-"`
}

// ExerciseRef is one manifest entry. Path is relative to the course
// root; Mode defaults to "check".
type ExerciseRef struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Mode   string `yaml:"mode"`
	HintMD string `yaml:"hint_md"`
}

func (c Course) Validate() error {
	if c.Kind != CourseKind {
		return fmt.Errorf("kind must be %q, got %q", CourseKind, c.Kind)
	}
	if c.SchemaVersion != SupportedSchemaVersion {
		return fmt.Errorf("unsupported schema_version %d (supported: %d)", c.SchemaVersion, SupportedSchemaVersion)
	}
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(c.Exercises) == 0 {
		return fmt.Errorf("course has no exercises")
	}
	seen := make(map[string]bool, len(c.Exercises))
	for i, ref := range c.Exercises {
		if !idPattern.MatchString(ref.Name) {
			return fmt.Errorf("exercises[%d]: invalid name %q", i, ref.Name)
		}
		if seen[ref.Name] {
			return fmt.Errorf("exercises[%d]: duplicate name %q", i, ref.Name)
		}
		seen[ref.Name] = true
		if ref.Path == "" {
			return fmt.Errorf("exercise %q: path is required", ref.Name)
		}
		switch ref.Mode {
		case "", ModeCheck, ModeTest, ModeLint:
		default:
			return fmt.Errorf("exercise %q: unknown mode %q", ref.Name, ref.Mode)
		}
	}
	return nil
}

// Descriptor is one resolved exercise: manifest metadata plus absolute
// paths into the course tree.
type Descriptor struct {
	Name   string
	Index  int
	Mode   string
	HintMD string

	// Path is the learner's working copy. SolutionPath and OriginalPath
	// are the read-only mirrors under solutions/ and originals/.
	Path         string
	SolutionPath string
	OriginalPath string
}
