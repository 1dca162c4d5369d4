// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"
	"strings"
	"time"

	"github.com/comalice/microfsm"
)

const tick microfsm.EventID = 1

// GenRing builds a machine whose n states form a cycle on a single
// event, already past its first poll.
func GenRing(n int) *microfsm.Machine {
	if n < 1 {
		n = 1
	}
	states := make([]*microfsm.State, n)
	for i := range states {
		states[i] = &microfsm.State{Name: fmt.Sprintf("s%d", i)}
	}
	m, err := microfsm.New(states[0])
	if err != nil {
		panic(err)
	}
	for i, s := range states {
		m.AddTransition(s, states[(i+1)%n], tick, nil)
	}
	m.Poll()
	return m
}

// GenTimedFan builds a machine whose initial state carries n armed
// countdowns that never fire, the steady-state cost of Poll.
func GenTimedFan(n int) *microfsm.Machine {
	if n < 1 {
		n = 1
	}
	hub := &microfsm.State{Name: "hub"}
	out := &microfsm.State{Name: "out"}
	m, err := microfsm.New(hub)
	if err != nil {
		panic(err)
	}
	for i := 0; i < n; i++ {
		m.AddTimedTransition(hub, out, time.Hour, nil)
	}
	m.Poll()
	return m
}

// GenDefinitionYAML renders an n-state ring as a definition document.
func GenDefinitionYAML(n int) []byte {
	if n < 1 {
		n = 1
	}
	var sb strings.Builder
	sb.WriteString("initial: s0\nstates:\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "  - name: s%d\n", i)
	}
	sb.WriteString("transitions:\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "  - from: s%d\n    to: s%d\n    event: tick\n", i, (i+1)%n)
	}
	return []byte(sb.String())
}
