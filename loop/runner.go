// Package loop drives a machine on a fixed tick from a goroutine of
// its own, giving single-threaded machines a thread-safe front door.
// Events queued with Trigger from any goroutine are drained in FIFO
// order at the next tick, then the machine polls once. Hooks therefore
// always run on the loop goroutine.
package loop

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/comalice/microfsm"
)

// ErrQueueFull is returned by Trigger when the event queue has no room
// until the next tick drains it.
var ErrQueueFull = errors.New("event queue full")

// Config configures a Runner.
type Config struct {
	// PollInterval is the tick cadence. Default 10ms.
	PollInterval time.Duration

	// QueueSize caps the events queued between two ticks.
	// Default 1000.
	QueueSize int
}

// Runner owns the goroutine boundary in front of one machine. Create
// it with New, feed it with Trigger, and drive it either with Run or
// by calling Step from a loop the host already owns. Run and Step must
// not be mixed.
type Runner struct {
	machine  *microfsm.Machine
	interval time.Duration

	mu      sync.Mutex
	pending []microfsm.EventID
	tickNum uint64
}

// New wraps m. Nothing starts until Run or Step is called.
func New(m *microfsm.Machine, cfg Config) *Runner {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 10 * time.Millisecond
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	return &Runner{
		machine:  m,
		interval: cfg.PollInterval,
		pending:  make([]microfsm.EventID, 0, cfg.QueueSize),
	}
}

// Trigger queues an event for the next tick. It is safe to call from
// any goroutine. When the queue is full the event is dropped and
// ErrQueueFull returned; the caller decides whether that matters.
func (r *Runner) Trigger(e microfsm.EventID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) >= cap(r.pending) {
		return ErrQueueFull
	}
	r.pending = append(r.pending, e)
	return nil
}

// Run polls the machine once immediately, so the initial state's
// OnEnter runs before any tick, then ticks on the configured cadence
// until ctx is cancelled. Each tick drains queued events in FIFO order
// and polls once. Run returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	r.machine.Poll()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Step()
		}
	}
}

// Step runs one tick by hand: drain queued events, then poll. Hosts
// that already own a loop call Step from it instead of Run. Events
// queued before the machine's first poll are dropped by the machine
// itself; such hosts poll once before queuing.
func (r *Runner) Step() {
	for _, e := range r.collect() {
		r.machine.Trigger(e)
	}
	r.machine.Poll()

	r.mu.Lock()
	r.tickNum++
	r.mu.Unlock()
}

// Ticks reports how many ticks have run.
func (r *Runner) Ticks() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tickNum
}

// collect atomically takes the pending batch, leaving an empty queue
// with the same capacity.
func (r *Runner) collect() []microfsm.EventID {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := r.pending
	r.pending = make([]microfsm.EventID, 0, cap(r.pending))
	return events
}
