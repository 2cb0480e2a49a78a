// Package exercises loads the course manifest and resolves each
// exercise's working file plus its solutions/ and originals/ mirrors.
package exercises

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	manifestName = "course.yaml"
	solutionsDir = "solutions"
	originalsDir = "originals"
)

type FSLoader struct{}

func NewLoader() *FSLoader { return &FSLoader{} }

// LoadCourse reads course.yaml under root and resolves every exercise.
// A missing working file is an error; missing solution or original
// mirrors are not, since a course may omit them per exercise.
func (l *FSLoader) LoadCourse(root string) (Course, []Descriptor, error) {
	path := filepath.Join(root, manifestName)
	b, err := os.ReadFile(path)
	if err != nil {
		return Course{}, nil, fmt.Errorf("read course manifest: %w", err)
	}
	var course Course
	if err := yaml.Unmarshal(b, &course); err != nil {
		return Course{}, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := course.Validate(); err != nil {
		return Course{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	course.Root = root

	descs := make([]Descriptor, 0, len(course.Exercises))
	for i, ref := range course.Exercises {
		d, err := resolve(root, i, ref)
		if err != nil {
			return Course{}, nil, err
		}
		descs = append(descs, d)
	}
	return course, descs, nil
}

func resolve(root string, index int, ref ExerciseRef) (Descriptor, error) {
	mode := ref.Mode
	if mode == "" {
		mode = ModeCheck
	}
	d := Descriptor{
		Name:   ref.Name,
		Index:  index,
		Mode:   mode,
		HintMD: ref.HintMD,
		Path:   filepath.Join(root, ref.Path),
	}
	if _, err := os.Stat(d.Path); err != nil {
		return Descriptor{}, fmt.Errorf("exercise %q: %w", ref.Name, err)
	}
	if p := filepath.Join(root, solutionsDir, ref.Path); fileExists(p) {
		d.SolutionPath = p
	}
	if p := filepath.Join(root, originalsDir, ref.Path); fileExists(p) {
		d.OriginalPath = p
	}
	return d, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Solution returns the reference solution text, or an error when the
// course ships none for this exercise.
func (d Descriptor) Solution() (string, error) {
	if d.SolutionPath == "" {
		return "", fmt.Errorf("exercise %q has no solution", d.Name)
	}
	b, err := os.ReadFile(d.SolutionPath)
	if err != nil {
		return "", fmt.Errorf("read solution: %w", err)
	}
	return string(b), nil
}

// Reset copies the pristine original over the learner's working file
// and returns the restored text.
func (d Descriptor) Reset() (string, error) {
	if d.OriginalPath == "" {
		return "", fmt.Errorf("exercise %q has no original to reset from", d.Name)
	}
	b, err := os.ReadFile(d.OriginalPath)
	if err != nil {
		return "", fmt.Errorf("read original: %w", err)
	}
	if err := os.WriteFile(d.Path, b, 0o644); err != nil {
		return "", fmt.Errorf("restore exercise: %w", err)
	}
	return string(b), nil
}
