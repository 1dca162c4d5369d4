package microfsm

// EventID identifies an external event. Values are chosen by the
// caller; the machine compares them for equality and nothing else.
type EventID int

// transition is the part every edge shares: the two endpoints and an
// optional action that runs between them. Records are created at
// registration time and never mutated afterwards.
type transition struct {
	from   *State
	to     *State
	action Hook
}

// eventTransition is an edge taken when Trigger is called with a
// matching event while from is current.
type eventTransition struct {
	transition
	event EventID
}

// timedTransition is an edge taken when from has been current for at
// least interval milliseconds. anchor and armed are the only mutable
// machine state outside Machine itself: anchor records the clock
// reading the countdown started from, and armed says whether anchor is
// meaningful. A record is armed when the machine first polls with from
// current (or immediately on transition into from) and disarmed only
// when it fires; leaving from keeps it armed, and the next transition
// into from re-anchors it.
type timedTransition struct {
	transition
	interval uint32
	anchor   uint32
	armed    bool
}
