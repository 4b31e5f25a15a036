package status

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		PollMs:      50,
		DebounceMs:  300,
		CooldownMs:  2000,
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":5000",
		PinOn:       17,
		PinOff:      27,
	}
}

func TestTrackerRecordCommand(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())

	at := start.Add(5 * time.Second)
	tr.RecordCommand("POWER_ON", "button", at, true)
	tr.RecordCommand("POWER_ON", "web", at.Add(time.Minute), true)
	tr.RecordCommand("POWER_OFF", "web", at.Add(2*time.Minute), false)

	snap := tr.Snapshot()
	if snap.LastAction != "POWER_OFF" {
		t.Errorf("LastAction: got %q, want POWER_OFF", snap.LastAction)
	}
	if snap.LastSource != "web" {
		t.Errorf("LastSource: got %q, want web", snap.LastSource)
	}
	if snap.LastOK {
		t.Error("LastOK: got true, want false")
	}
	if snap.Counts.PowerOn != 2 {
		t.Errorf("Counts.PowerOn: got %d, want 2", snap.Counts.PowerOn)
	}
	if snap.Counts.PowerOff != 1 {
		t.Errorf("Counts.PowerOff: got %d, want 1", snap.Counts.PowerOff)
	}
}

func TestTrackerFlags(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	tr.SetCECReady(true)
	tr.SetMQTTConnected(true)
	snap := tr.Snapshot()
	if !snap.CECReady || !snap.MQTTConnected {
		t.Errorf("flags: got CECReady=%v MQTTConnected=%v, want both true", snap.CECReady, snap.MQTTConnected)
	}

	tr.SetCECReady(false)
	tr.SetMQTTConnected(false)
	snap = tr.Snapshot()
	if snap.CECReady || snap.MQTTConnected {
		t.Errorf("flags: got CECReady=%v MQTTConnected=%v, want both false", snap.CECReady, snap.MQTTConnected)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{StartTime: start, Now: start.Add(90 * time.Second)}
	if got := snap.Uptime(); got != 90*time.Second {
		t.Errorf("Uptime: got %v, want 90s", got)
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())
	tr.RecordCommand("POWER_ON", "button", start.Add(time.Second), true)
	tr.SetCECReady(true)

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if sj.Status.LastAction != "POWER_ON" {
		t.Errorf("last_action: got %q, want POWER_ON", sj.Status.LastAction)
	}
	if sj.Status.LastSource != "button" {
		t.Errorf("last_source: got %q, want button", sj.Status.LastSource)
	}
	if !sj.Status.CECReady {
		t.Error("cec_ready: got false, want true")
	}
	if sj.Status.Counts.PowerOn != 1 {
		t.Errorf("command_counts.power_on: got %d, want 1", sj.Status.Counts.PowerOn)
	}
	if sj.Status.Config.PinOn != 17 || sj.Status.Config.PinOff != 27 {
		t.Errorf("config pins: got (%d, %d), want (17, 27)", sj.Status.Config.PinOn, sj.Status.Config.PinOff)
	}
	if sj.Status.Event != "" {
		t.Errorf("event should be empty for web JSON, got %q", sj.Status.Event)
	}
}

func TestFormatJSONBeforeFirstCommand(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	payload := FormatJSON(tr.Snapshot())
	var sj StatusJSON
	if err := json.Unmarshal(payload, &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sj.Status.LastAction != "NONE" {
		t.Errorf("last_action: got %q, want NONE", sj.Status.LastAction)
	}
	if strings.Contains(string(payload), "last_time") {
		t.Error("last_time should be omitted before the first command")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	var sj StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM"), &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sj.Status.Event != "SHUTDOWN" {
		t.Errorf("event: got %q, want SHUTDOWN", sj.Status.Event)
	}
	if sj.Status.Reason != "SIGTERM" {
		t.Errorf("reason: got %q, want SIGTERM", sj.Status.Reason)
	}
}
