package buttons

import "time"

// lineState tracks edge and debounce state for a single pin.
type lineState struct {
	prev        bool
	lastTrigger time.Time
	count       int
}

// Debouncer detects debounced rising edges on the two button pins.
// A press is accepted when the pin transitions LOW to HIGH between
// consecutive samples and more than the debounce window has elapsed since
// that pin's last accepted press. The two pins keep independent timers.
type Debouncer struct {
	window time.Duration
	on     lineState
	off    lineState
	seeded bool
}

// NewDebouncer creates a Debouncer with the given debounce window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Seed records the current pin levels as the previous state without
// producing presses. A pin already HIGH at start must not trigger on the
// first processed sample.
func (d *Debouncer) Seed(on, off bool) {
	d.on.prev = on
	d.off.prev = off
	d.seeded = true
}

// Process takes one sample and returns any accepted presses, ON first.
// If the debouncer has not been seeded, the first sample seeds it and
// produces nothing.
func (d *Debouncer) Process(s Sample) []Press {
	if !d.seeded {
		d.Seed(s.On, s.Off)
		return nil
	}

	var presses []Press
	if p := d.processLine(&d.on, ButtonOn, s.On, s.Time); p != nil {
		presses = append(presses, *p)
	}
	if p := d.processLine(&d.off, ButtonOff, s.Off, s.Time); p != nil {
		presses = append(presses, *p)
	}
	return presses
}

// processLine handles edge detection and debounce for one pin.
// The previous level is updated unconditionally on every sample.
func (d *Debouncer) processLine(ls *lineState, b Button, level bool, now time.Time) *Press {
	rising := !ls.prev && level
	ls.prev = level
	if !rising {
		return nil
	}

	if !ls.lastTrigger.IsZero() && now.Sub(ls.lastTrigger) <= d.window {
		return nil
	}

	ls.lastTrigger = now
	ls.count++
	return &Press{Button: b, Time: now, Count: ls.count}
}

// Counts returns the per-button press counters.
func (d *Debouncer) Counts() PressCounts {
	return PressCounts{On: d.on.count, Off: d.off.count}
}
