package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comalice/microfsm"
)

// TestStepDrainsInOrder tests that one tick applies queued events in
// FIFO order before polling.
func TestStepDrainsInOrder(t *testing.T) {
	const (
		EVENT_1 microfsm.EventID = 1
		EVENT_2 microfsm.EventID = 2
	)

	a := &microfsm.State{Name: "a"}
	b := &microfsm.State{Name: "b"}
	c := &microfsm.State{Name: "c"}

	m, err := microfsm.New(a)
	if err != nil {
		t.Fatalf("failed to create machine: %v", err)
	}
	m.AddTransition(a, b, EVENT_1, nil)
	m.AddTransition(b, c, EVENT_2, nil)
	m.Poll() // initialize before queueing

	r := New(m, Config{})
	if err := r.Trigger(EVENT_1); err != nil {
		t.Fatal(err)
	}
	if err := r.Trigger(EVENT_2); err != nil {
		t.Fatal(err)
	}

	r.Step()
	if m.CurrentState() != c {
		t.Errorf("expected c after draining both events, got %v", m.CurrentState())
	}
	if r.Ticks() != 1 {
		t.Errorf("expected 1 tick, got %d", r.Ticks())
	}
}

// TestStepPollsMachine tests that every Step polls exactly once.
func TestStepPollsMachine(t *testing.T) {
	var ticks int
	a := &microfsm.State{Name: "a", OnTick: func() { ticks++ }}

	m, err := microfsm.New(a)
	if err != nil {
		t.Fatalf("failed to create machine: %v", err)
	}

	r := New(m, Config{})
	r.Step()
	r.Step()
	r.Step()

	if ticks != 3 {
		t.Errorf("expected 3 machine ticks, got %d", ticks)
	}
	if r.Ticks() != 3 {
		t.Errorf("expected 3 runner ticks, got %d", r.Ticks())
	}
}

// TestTriggerBackpressure tests that a full queue rejects events
// instead of blocking or growing.
func TestTriggerBackpressure(t *testing.T) {
	a := &microfsm.State{Name: "a"}
	m, err := microfsm.New(a)
	if err != nil {
		t.Fatalf("failed to create machine: %v", err)
	}

	r := New(m, Config{QueueSize: 2})
	if err := r.Trigger(1); err != nil {
		t.Fatal(err)
	}
	if err := r.Trigger(2); err != nil {
		t.Fatal(err)
	}
	if err := r.Trigger(3); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	// Draining makes room again.
	m.Poll()
	r.Step()
	if err := r.Trigger(4); err != nil {
		t.Fatalf("expected room after drain, got %v", err)
	}
}

// TestRunEntersInitialState tests that Run polls once on entry, before
// any tick, and returns the context's error on cancellation.
func TestRunEntersInitialState(t *testing.T) {
	entered := make(chan struct{}, 1)
	a := &microfsm.State{Name: "a", OnEnter: func() { entered <- struct{}{} }}

	m, err := microfsm.New(a)
	if err != nil {
		t.Fatalf("failed to create machine: %v", err)
	}

	r := New(m, Config{PollInterval: time.Hour}) // ticks never fire
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("initial state was not entered")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestRunDrainsTriggeredEvents tests the full path: an event queued
// from the test goroutine reaches the machine on a later tick.
func TestRunDrainsTriggeredEvents(t *testing.T) {
	const EVENT_GO microfsm.EventID = 1

	reached := make(chan struct{}, 1)
	a := &microfsm.State{Name: "a"}
	b := &microfsm.State{Name: "b", OnEnter: func() { reached <- struct{}{} }}

	m, err := microfsm.New(a)
	if err != nil {
		t.Fatalf("failed to create machine: %v", err)
	}
	m.AddTransition(a, b, EVENT_GO, nil)

	r := New(m, Config{PollInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	if err := r.Trigger(EVENT_GO); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reached:
	case <-time.After(2 * time.Second):
		t.Fatal("queued event never reached the machine")
	}

	cancel()
	<-done
}
