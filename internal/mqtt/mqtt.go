// Package mqtt publishes CEC tool events to an MQTT broker, with
// abstraction for testing. Publishing is best-effort: the daemon never
// fails a power command because the broker is away.
package mqtt

import (
	"encoding/json"
	"time"
)

// Topic is the MQTT topic for power command events.
const Topic = "cec/tool/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "cec/tool/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a power command event to the broker.
	Publish(event Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Event represents a dispatched power command.
type Event struct {
	Timestamp time.Time
	Action    string // "POWER_ON" or "POWER_OFF"
	Source    string // "button" or "web"
	OK        bool   // whether cec-client accepted the command
}

// SystemEvent represents a system lifecycle event.
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g. "SIGTERM" (shutdown only)
	RawPayload []byte // pre-formatted JSON; if set, FormatSystemPayload returns it directly
	Retained   bool
}

// Payload is the MQTT message payload for power events.
type Payload struct {
	CEC CECPayload `json:"cec"`
}

// CECPayload contains the power event details.
type CECPayload struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Source    string `json:"source"`
	OK        bool   `json:"ok"`
}

// FormatPayload creates the JSON payload for a power event.
func FormatPayload(event Event) ([]byte, error) {
	payload := Payload{
		CEC: CECPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Action:    event.Action,
			Source:    event.Source,
			OK:        event.OK,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message payload for simple system events that
// don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full
// status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// NoopPublisher is used when MQTT is disabled (no broker configured).
type NoopPublisher struct{}

func (NoopPublisher) Publish(Event) error             { return nil }
func (NoopPublisher) PublishSystem(SystemEvent) error { return nil }
func (NoopPublisher) Close() error                    { return nil }
func (NoopPublisher) IsConnected() bool               { return false }
