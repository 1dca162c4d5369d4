package definition

import (
	"fmt"
	"time"

	"github.com/comalice/microfsm"
)

// Result is a built machine plus the lookups a host needs to drive it.
type Result struct {
	Machine *microfsm.Machine

	// States maps definition names to the built states.
	States map[string]*microfsm.State

	// Events maps definition event names to the ids the machine was
	// wired with. Ids are assigned in first-appearance order starting
	// at 1.
	Events map[string]microfsm.EventID
}

// Build resolves f's hook names against reg and constructs a machine.
// Transitions are registered in the file's order, so when two entries
// share a source state and event the one written first wins, exactly
// as with handwritten registration. opts are passed through to
// microfsm.New.
func Build(f *File, reg *Registry, opts ...microfsm.Option) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	states := make(map[string]*microfsm.State, len(f.States))
	for _, sd := range f.States {
		s := &microfsm.State{Name: sd.Name}
		var err error
		if s.OnEnter, err = reg.hook(sd.OnEnter); err != nil {
			return nil, fmt.Errorf("state %q on_enter: %w", sd.Name, err)
		}
		if s.OnTick, err = reg.hook(sd.OnTick); err != nil {
			return nil, fmt.Errorf("state %q on_tick: %w", sd.Name, err)
		}
		if s.OnExit, err = reg.hook(sd.OnExit); err != nil {
			return nil, fmt.Errorf("state %q on_exit: %w", sd.Name, err)
		}
		states[sd.Name] = s
	}

	m, err := microfsm.New(states[f.Initial], opts...)
	if err != nil {
		return nil, err
	}

	events := make(map[string]microfsm.EventID)
	next := microfsm.EventID(1)
	for i, td := range f.Transitions {
		action, err := reg.hook(td.Action)
		if err != nil {
			return nil, fmt.Errorf("transition %d (%s -> %s): %w", i, td.From, td.To, err)
		}
		id, ok := events[td.Event]
		if !ok {
			id = next
			next++
			events[td.Event] = id
		}
		m.AddTransition(states[td.From], states[td.To], id, action)
	}
	for i, td := range f.Timed {
		action, err := reg.hook(td.Action)
		if err != nil {
			return nil, fmt.Errorf("timed transition %d (%s -> %s): %w", i, td.From, td.To, err)
		}
		m.AddTimedTransition(states[td.From], states[td.To], time.Duration(td.After), action)
	}

	return &Result{Machine: m, States: states, Events: events}, nil
}
