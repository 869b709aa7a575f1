// Package scenario replays scripted navigation against a guarded history.
//
// A scenario starts a history at a given depth, then runs steps such as arming the
// guard, pressing back, or trying to close the application. Prompts are answered from
// the step's scripted answer; a step without one leaves the prompt unanswered, which
// rejects the exit. Scenarios are written in TOML or YAML:
//
//	name = "quiz back button"
//	depth = 4
//	disable_on_exit = true
//
//	[[steps]]
//	action = "enable"
//
//	[[steps]]
//	action = "back"
//	answer = false
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Action names a scripted step.
type Action string

const (
	ActionEnable      Action = "enable"       // SetEnabled(true)
	ActionDisable     Action = "disable"      // SetEnabled(false)
	ActionNavigate    Action = "navigate"     // Push a new screen onto the history
	ActionBack        Action = "back"         // Platform back button
	ActionForward     Action = "forward"      // Platform forward button
	ActionUIBack      Action = "ui-back"      // In-app back button (Guard.Back)
	ActionConfirmExit Action = "confirm-exit" // In-app exit button (Guard.ConfirmExit)
	ActionClose       Action = "close"        // Window or tab close attempt
)

var actions = map[Action]bool{
	ActionEnable:      true,
	ActionDisable:     true,
	ActionNavigate:    true,
	ActionBack:        true,
	ActionForward:     true,
	ActionUIBack:      true,
	ActionConfirmExit: true,
	ActionClose:       true,
}

// Scenario is a scripted run.
type Scenario struct {
	Name    string `toml:"name" yaml:"name"`
	Depth   int    `toml:"depth" yaml:"depth"`     // Starting depth (default 1)
	Message string `toml:"message" yaml:"message"` // Confirmation text; empty uses the localized default
	Locale  string `toml:"locale" yaml:"locale"`

	// DisableOnExit makes the exit callback turn the guard off, as an activity does
	// when the user abandons it.
	DisableOnExit bool `toml:"disable_on_exit" yaml:"disable_on_exit"`

	Steps []Step `toml:"steps" yaml:"steps"`
}

// Step is one scripted input.
type Step struct {
	Action Action `toml:"action" yaml:"action"`
	Answer *bool  `toml:"answer" yaml:"answer"` // Answer to a prompt this step raises
}

// Format is a scenario file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("scenario: unsupported file type %q", filepath.Ext(path))
}

// Load reads and validates a scenario file.
func Load(path string) (Scenario, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Scenario{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes and validates a scenario. Unknown keys are errors.
func Parse(data []byte, format Format) (Scenario, error) {
	var s Scenario

	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&s)
		if err != nil {
			return Scenario{}, fmt.Errorf("scenario: decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Scenario{}, fmt.Errorf("scenario: unknown keys %v", undecoded)
		}

	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return Scenario{}, fmt.Errorf("scenario: decode yaml: %w", err)
		}

	default:
		return Scenario{}, fmt.Errorf("scenario: unsupported format %q", format)
	}

	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Validate checks the starting depth and every step's action.
func (s Scenario) Validate() error {
	if s.Depth < 0 {
		return fmt.Errorf("scenario: depth must not be negative, got %d", s.Depth)
	}
	for i, step := range s.Steps {
		if !actions[step.Action] {
			return fmt.Errorf("scenario: step %d: unknown action %q", i+1, step.Action)
		}
	}
	return nil
}
