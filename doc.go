// Package microfsm implements a small poll-driven finite state machine.
//
// A Machine holds a current state and two transition tables: one keyed
// by event, one keyed by elapsed time. The host program owns the
// control loop and drives the machine explicitly, calling Poll on every
// iteration and Trigger whenever an external event occurs. The machine
// never spawns goroutines, never sleeps, and never reads the wall clock
// behind the host's back; time enters only through the Clock it was
// configured with.
//
// # Lifecycle
//
// States are plain structs owned by the caller and identified by
// pointer. Build the state graph first, then hand the initial state to
// New and register transitions:
//
//	const eventStart microfsm.EventID = 1
//
//	idle := &microfsm.State{Name: "idle"}
//	work := &microfsm.State{Name: "work", OnEnter: startJob}
//
//	m, err := microfsm.New(idle)
//	if err != nil {
//		log.Fatal(err)
//	}
//	m.AddTransition(idle, work, eventStart, nil)
//	m.AddTimedTransition(work, idle, 5*time.Second, nil)
//
//	for {
//		m.Poll()
//		// ... other work ...
//	}
//
// The initial state's OnEnter hook does not run at construction time.
// It runs during the first Poll, so a machine that is built but never
// polled has no observable behavior.
//
// # Time
//
// Timed transitions measure elapsed time on a free-running uint32
// millisecond counter. Comparisons use modular subtraction, so the
// counter wrapping past zero (after roughly 49.7 days) does not disturb
// a pending interval. The default clock counts milliseconds since
// process start; tests substitute their own via WithClock.
//
// # Concurrency
//
// A Machine is not safe for concurrent use. Trigger and Poll must also
// not be called from inside a hook; doing so panics. Hosts that want a
// goroutine boundary in front of a machine can use the loop package.
package microfsm
