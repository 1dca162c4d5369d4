// Package definition loads machine definitions from YAML and builds
// ready-to-poll machines from them. A definition file names its
// states, events, and hooks; hook names are resolved against a
// Registry the host fills with Go functions before building.
package definition

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a machine definition.
type File struct {
	Initial     string          `yaml:"initial"`
	States      []StateDef      `yaml:"states"`
	Transitions []TransitionDef `yaml:"transitions,omitempty"`
	Timed       []TimedDef      `yaml:"timed_transitions,omitempty"`
}

// StateDef declares one state. The hook fields name Registry entries;
// empty means no hook.
type StateDef struct {
	Name    string `yaml:"name"`
	OnEnter string `yaml:"on_enter,omitempty"`
	OnTick  string `yaml:"on_tick,omitempty"`
	OnExit  string `yaml:"on_exit,omitempty"`
}

// TransitionDef declares an event-gated edge between two named states.
type TransitionDef struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Event  string `yaml:"event"`
	Action string `yaml:"action,omitempty"`
}

// TimedDef declares a time-gated edge between two named states.
type TimedDef struct {
	From   string   `yaml:"from"`
	To     string   `yaml:"to"`
	After  Duration `yaml:"after"`
	Action string   `yaml:"action,omitempty"`
}

// Duration wraps time.Duration so definition files can carry values
// like "90s" or "250ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Parse decodes and validates a definition from YAML bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses a definition file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	return Parse(data)
}

// Validate checks the definition's internal references. It does not
// consult a Registry; hook names are resolved at Build time.
func (f *File) Validate() error {
	if f.Initial == "" {
		return errors.New("initial state is required")
	}
	if len(f.States) == 0 {
		return errors.New("at least one state is required")
	}

	names := make(map[string]struct{}, len(f.States))
	for i, s := range f.States {
		if s.Name == "" {
			return fmt.Errorf("state %d has no name", i)
		}
		if _, dup := names[s.Name]; dup {
			return fmt.Errorf("duplicate state %q", s.Name)
		}
		names[s.Name] = struct{}{}
	}
	if _, ok := names[f.Initial]; !ok {
		return fmt.Errorf("initial state %q is not defined", f.Initial)
	}

	for i, t := range f.Transitions {
		if t.Event == "" {
			return fmt.Errorf("transition %d has no event", i)
		}
		if _, ok := names[t.From]; !ok {
			return fmt.Errorf("transition %d: unknown state %q", i, t.From)
		}
		if _, ok := names[t.To]; !ok {
			return fmt.Errorf("transition %d: unknown state %q", i, t.To)
		}
	}
	for i, t := range f.Timed {
		if _, ok := names[t.From]; !ok {
			return fmt.Errorf("timed transition %d: unknown state %q", i, t.From)
		}
		if _, ok := names[t.To]; !ok {
			return fmt.Errorf("timed transition %d: unknown state %q", i, t.To)
		}
		if t.After < 0 {
			return fmt.Errorf("timed transition %d: negative interval", i)
		}
	}
	return nil
}
