// Package buttons converts raw digital pin samples into deduplicated
// power-on / power-off press events. The debounce state machine is pure
// (time is always injected via time.Time parameters); the Monitor wraps it
// with a GPIO poll loop and dispatcher callbacks.
package buttons

import "time"

// Button identifies one of the two monitored buttons.
type Button string

const (
	ButtonOn  Button = "ON"
	ButtonOff Button = "OFF"
)

// Sample is a single poll of both button pins. Levels are logical:
// true = HIGH (button held down).
type Sample struct {
	On   bool
	Off  bool
	Time time.Time
}

// Press is an accepted (debounced) button press.
type Press struct {
	Button Button
	Time   time.Time
	// Count is the total number of accepted presses for this button,
	// including this one. Monotonically non-decreasing while the
	// monitor runs.
	Count int
}

// PressCounts holds the per-button press counters for a monitor session.
type PressCounts struct {
	On  int
	Off int
}
