package microfsm

import "fmt"

// Hook is a unit of behavior attached to a state or a transition. A
// nil Hook is valid and means "do nothing"; callers only pay for the
// behavior they bind.
type Hook func()

// invoke runs the hook if one is bound.
func (h Hook) invoke() {
	if h != nil {
		h()
	}
}

// State is a node in the machine's transition graph. States are owned
// by the caller and identified by pointer: two distinct State values
// are two distinct states no matter what their fields hold, and the
// same *State registered in several transitions is the same state in
// all of them.
//
// All fields are optional. Name is purely diagnostic; it appears in
// debug logs and String output and plays no part in matching.
type State struct {
	Name string

	// OnEnter runs when the machine transitions into this state, and
	// once for the initial state during the first Poll.
	OnEnter Hook

	// OnTick runs on every Poll while this state is current.
	OnTick Hook

	// OnExit runs when the machine transitions out of this state.
	OnExit Hook
}

func (s *State) enter() { s.OnEnter.invoke() }
func (s *State) tick()  { s.OnTick.invoke() }
func (s *State) exit()  { s.OnExit.invoke() }

// String returns the state's name, or a pointer-derived placeholder
// for anonymous states.
func (s *State) String() string {
	if s == nil {
		return "<nil>"
	}
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("state@%p", s)
}
