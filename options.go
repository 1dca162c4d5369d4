package microfsm

import "log/slog"

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithClock configures the Machine with a custom millisecond counter.
// Tests use this to drive time by hand.
func WithClock(c Clock) Option {
	return func(m *Machine) {
		m.now = c
	}
}

// WithLogger configures the Machine with a custom logger. The machine
// logs at Debug level only: transitions taken, timed fires, dropped
// events, and registrations it discarded.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = l
	}
}
