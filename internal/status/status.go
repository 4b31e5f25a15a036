// Package status provides a thread-safe status tracker for the CEC test
// tool. It is read by HTTP handlers and serialized into MQTT system events.
package status

import (
	"sync"
	"time"
)

// Command counters for the two power actions, regardless of source.
type Counts struct {
	PowerOn  int
	PowerOff int
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	DebounceMs  int64
	CooldownMs  int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	PinOn       int
	PinOff      int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	LastAction    string // "POWER_ON" or "POWER_OFF", empty before first command
	LastSource    string // "button", "web"
	LastTime      time.Time
	LastOK        bool
	Counts        Counts
	CECReady      bool
	MQTTConnected bool
	StartTime     time.Time
	Now           time.Time
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordCommand records a dispatched power command and bumps its counter.
func (t *Tracker) RecordCommand(action, source string, at time.Time, ok bool) {
	t.mu.Lock()
	t.snap.LastAction = action
	t.snap.LastSource = source
	t.snap.LastTime = at
	t.snap.LastOK = ok
	switch action {
	case "POWER_ON":
		t.snap.Counts.PowerOn++
	case "POWER_OFF":
		t.snap.Counts.PowerOff++
	}
	t.mu.Unlock()
}

// SetCECReady sets whether the cec-client connection is believed healthy.
func (t *Tracker) SetCECReady(ready bool) {
	t.mu.Lock()
	t.snap.CECReady = ready
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
