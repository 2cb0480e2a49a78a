package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config controls runtime behavior for the tutor.
type Config struct {
	CourseDir     string
	DataDir       string
	LogPath       string
	Toolchain     string
	SuccessMarker string
	RunTimeoutMS  int
	Watch         WatchConfig
	Editor        EditorConfig
	AutoAdvance   bool
	UI            UIConfig
}

type WatchConfig struct {
	Enabled    bool
	DebounceMS int
	RunOnSave  bool
}

type EditorConfig struct {
	TabWidth int
}

type UIConfig struct {
	StyleVariant string
	MotionLevel  string
}

func DefaultConfig() Config {
	return Config{
		CourseDir:     ".",
		SuccessMarker: "PASS",
		RunTimeoutMS:  30000,
		AutoAdvance:   true,
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMS: 300,
			RunOnSave:  true,
		},
		Editor: EditorConfig{
			TabWidth: 4,
		},
		UI: UIConfig{
			StyleVariant: "midnight",
			MotionLevel:  "full",
		},
	}
}

func (c *Config) Validate() error {
	if c.Toolchain == "" {
		return errors.New("toolchain command is required")
	}
	if c.CourseDir == "" {
		c.CourseDir = "."
	}
	if c.SuccessMarker == "" {
		c.SuccessMarker = "PASS"
	}
	if c.RunTimeoutMS <= 0 {
		c.RunTimeoutMS = 30000
	}
	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = 300
	}
	if c.Editor.TabWidth <= 0 || c.Editor.TabWidth > 16 {
		c.Editor.TabWidth = 4
	}
	switch c.UI.StyleVariant {
	case "", "midnight", "paper", "phosphor":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "midnight"
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "tutor")
	}

	return nil
}
