package microfsm

import (
	"errors"
	"log/slog"
	"time"
)

// Machine is a poll-driven finite state machine. It owns its
// transition tables but not its states; those belong to the caller and
// are matched by pointer. All methods must be called from a single
// goroutine, and Trigger and Poll must not be called from inside a
// hook.
type Machine struct {
	current     *State
	initialized bool
	dispatching bool

	transitions []eventTransition
	timed       []timedTransition

	now    Clock
	logger *slog.Logger
}

// New returns a Machine resting in initial. The initial state's
// OnEnter hook does not run here; it runs during the first Poll.
func New(initial *State, opts ...Option) (*Machine, error) {
	if initial == nil {
		return nil, errors.New("initial state is nil")
	}
	m := &Machine{
		current: initial,
		now:     defaultClock,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// AddTransition registers an edge from from to to, taken when Trigger
// is called with event while from is current. action is optional and
// runs between from's OnExit and to's OnEnter. Registration order is
// significant: when several edges match the same state and event, the
// first one registered wins, always. A registration with a nil
// endpoint is discarded.
func (m *Machine) AddTransition(from, to *State, event EventID, action Hook) {
	if from == nil || to == nil {
		m.logger.Debug("discarding transition with nil endpoint", "event", event)
		return
	}
	m.transitions = append(m.transitions, eventTransition{
		transition: transition{from: from, to: to, action: action},
		event:      event,
	})
}

// AddTimedTransition registers an edge from from to to, taken during a
// Poll once from has been current for at least interval. The countdown
// starts when the machine enters from (or on the first Poll that sees
// from current, for edges registered before the machine started) and
// restarts from zero on every re-entry. interval is truncated to whole
// milliseconds on the clock's 32-bit counter, so it must stay under
// roughly 49.7 days; negative intervals clamp to zero. A registration
// with a nil endpoint is discarded.
func (m *Machine) AddTimedTransition(from, to *State, interval time.Duration, action Hook) {
	if from == nil || to == nil {
		m.logger.Debug("discarding timed transition with nil endpoint", "interval", interval)
		return
	}
	m.timed = append(m.timed, timedTransition{
		transition: transition{from: from, to: to, action: action},
		interval:   intervalMillis(interval),
	})
}

// Trigger delivers an external event. The registered edges are scanned
// in registration order and the first one matching the current state
// and event is taken; the rest are ignored. An event no edge matches
// is dropped, and so is any event delivered before the first Poll.
//
// Trigger panics if called from inside a hook.
func (m *Machine) Trigger(event EventID) {
	if m.dispatching {
		panic("microfsm: Trigger called from inside a hook")
	}
	m.dispatching = true
	defer func() { m.dispatching = false }()

	if !m.initialized {
		m.logger.Debug("event before first poll", "event", event)
		return
	}
	for i := 0; i < len(m.transitions); i++ {
		t := &m.transitions[i]
		if t.from == m.current && t.event == event {
			m.logger.Debug("transition", "event", event, "from", t.from.String(), "to", t.to.String())
			m.makeTransition(&t.transition)
			return
		}
	}
	m.logger.Debug("no transition for event", "event", event, "state", m.current.String())
}

// Poll advances the machine one step: on the very first call it runs
// the current state's OnEnter, then on every call it runs the current
// state's OnTick and evaluates timed edges. Expired edges fire inside
// Poll, so a host that stops polling stops all timed behavior.
//
// Poll panics if called from inside a hook.
func (m *Machine) Poll() {
	if m.dispatching {
		panic("microfsm: Poll called from inside a hook")
	}
	m.dispatching = true
	defer func() { m.dispatching = false }()

	if !m.initialized {
		m.initialized = true
		m.current.enter()
	}
	m.current.tick()
	m.checkTimedTransitions()
}

// CurrentState returns the state the machine is resting in. Before the
// first Poll this is the initial state, whose OnEnter has not yet run.
func (m *Machine) CurrentState() *State {
	return m.current
}

// SetCurrentState forces the machine into s without running exit,
// action, or enter hooks and without touching timer anchors. It exists
// so tests can drop a machine into a late state directly; hosts should
// move between states through transitions. A nil s is ignored.
func (m *Machine) SetCurrentState(s *State) {
	if s == nil {
		return
	}
	m.current = s
}

// makeTransition executes one edge: exit the source, run the edge's
// action, enter the destination, then swap the current state and
// restart the destination's countdowns. Hook panics are not
// intercepted; they leave the machine wherever the sequence had
// reached.
func (m *Machine) makeTransition(t *transition) {
	t.from.exit()
	t.action.invoke()
	t.to.enter()
	m.current = t.to
	m.rearmTimers()
}

// checkTimedTransitions arms and evaluates timed edges against the
// current state. An unarmed edge whose source is current starts its
// countdown now and is not eligible to fire until a later Poll. Firing
// an edge changes the current state mid-scan, so edges later in the
// table are evaluated against the new state; those were just re-armed,
// which means only zero-interval edges can chain within a single Poll.
func (m *Machine) checkTimedTransitions() {
	for i := 0; i < len(m.timed); i++ {
		t := &m.timed[i]
		if t.from != m.current {
			continue
		}
		if !t.armed {
			t.armed = true
			t.anchor = m.now()
			continue
		}
		if m.now()-t.anchor >= t.interval {
			m.logger.Debug("timed transition", "from", t.from.String(), "to", t.to.String(), "interval_ms", t.interval)
			m.makeTransition(&t.transition)
			m.timed[i].armed = false
		}
	}
}

// rearmTimers restarts the countdown of every timed edge leaving the
// state the machine just entered. Edges leaving other states are left
// untouched.
func (m *Machine) rearmTimers() {
	now := m.now()
	for i := 0; i < len(m.timed); i++ {
		t := &m.timed[i]
		if t.from == m.current {
			t.armed = true
			t.anchor = now
		}
	}
}
