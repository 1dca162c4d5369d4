package microfsm

import "time"

// Clock supplies the machine's notion of elapsed time: a free-running
// millisecond counter that wraps modulo 2^32. The machine never
// compares two readings directly; it subtracts them with unsigned
// arithmetic, so any non-decreasing counter works, whatever its
// starting value and however often it wraps.
type Clock func() uint32

var processStart = time.Now()

// defaultClock counts milliseconds since process start. It wraps after
// roughly 49.7 days, which the machine's modular arithmetic absorbs.
func defaultClock() uint32 {
	return uint32(time.Since(processStart) / time.Millisecond)
}

// intervalMillis converts a duration to the clock's millisecond units,
// truncating sub-millisecond precision. Negative durations clamp to
// zero; durations past the counter's range wrap like the counter does.
func intervalMillis(d time.Duration) uint32 {
	if d < 0 {
		return 0
	}
	return uint32(d / time.Millisecond)
}
