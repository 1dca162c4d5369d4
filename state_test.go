package microfsm

import (
	"strings"
	"testing"
)

// A nil hook is a no-op; a bound hook runs every time it is invoked.
func TestHookInvoke(t *testing.T) {
	var unbound Hook
	unbound.invoke()

	calls := 0
	bound := Hook(func() { calls++ })
	bound.invoke()
	bound.invoke()
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

// String prefers the name and falls back to a pointer form for
// anonymous states.
func TestStateString(t *testing.T) {
	named := &State{Name: "idle"}
	if got := named.String(); got != "idle" {
		t.Errorf("expected %q, got %q", "idle", got)
	}

	anon := &State{}
	if got := anon.String(); !strings.HasPrefix(got, "state@0x") {
		t.Errorf("expected a state@0x prefix, got %q", got)
	}

	var none *State
	if got := none.String(); got != "<nil>" {
		t.Errorf("expected %q, got %q", "<nil>", got)
	}
}
