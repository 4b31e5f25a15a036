package power

import (
	"errors"
	"testing"
	"time"

	"github.com/Dannykeren/cec-test-tool/internal/cec"
	"github.com/Dannykeren/cec-test-tool/internal/display"
	"github.com/Dannykeren/cec-test-tool/internal/mqtt"
	"github.com/Dannykeren/cec-test-tool/internal/status"
)

func newTestDispatcher() (*Dispatcher, *cec.FakeController, *display.Fake, *status.Tracker, *mqtt.FakePublisher) {
	ctrl := cec.NewFakeController()
	disp := display.NewFake()
	tracker := status.NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), status.Config{})
	pub := mqtt.NewFakePublisher()
	d := NewDispatcher(ctrl, disp, tracker, pub)
	d.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }
	return d, ctrl, disp, tracker, pub
}

func TestPowerOnFansOut(t *testing.T) {
	d, ctrl, disp, tracker, pub := newTestDispatcher()

	out, err := d.PowerOn(SourceButton)
	if err != nil {
		t.Fatalf("PowerOn: %v", err)
	}
	if out == "" {
		t.Error("expected cec-client output")
	}

	if cmds := ctrl.CommandLog(); len(cmds) != 1 || cmds[0] != "on 0" {
		t.Errorf("cec commands: %v, want [on 0]", cmds)
	}
	if disp.Last().Status != "POWER ON" {
		t.Errorf("display: got %q, want POWER ON", disp.Last().Status)
	}

	snap := tracker.Snapshot()
	if snap.LastAction != ActionPowerOn || snap.LastSource != "button" {
		t.Errorf("tracker: %q from %q", snap.LastAction, snap.LastSource)
	}
	if snap.Counts.PowerOn != 1 {
		t.Errorf("tracker count: got %d, want 1", snap.Counts.PowerOn)
	}
	if !snap.CECReady {
		t.Error("tracker: expected CECReady=true after a successful command")
	}

	if len(pub.Events) != 1 {
		t.Fatalf("published events: got %d, want 1", len(pub.Events))
	}
	e := pub.Events[0]
	if e.Action != ActionPowerOn || e.Source != "button" || !e.OK {
		t.Errorf("event: %+v", e)
	}
}

func TestPowerOffFansOut(t *testing.T) {
	d, ctrl, disp, _, _ := newTestDispatcher()

	if _, err := d.PowerOff(SourceWeb); err != nil {
		t.Fatalf("PowerOff: %v", err)
	}
	if cmds := ctrl.CommandLog(); len(cmds) != 1 || cmds[0] != "standby 0" {
		t.Errorf("cec commands: %v, want [standby 0]", cmds)
	}
	if disp.Last().Status != "POWER OFF" {
		t.Errorf("display: got %q, want POWER OFF", disp.Last().Status)
	}
}

func TestCECFailureStillRecordedAndPublished(t *testing.T) {
	d, ctrl, disp, tracker, pub := newTestDispatcher()
	ctrl.Err = errors.New("cec-client exited")

	_, err := d.PowerOn(SourceWeb)
	if err == nil {
		t.Fatal("expected CEC error to propagate")
	}

	if len(disp.Screens) != 0 {
		t.Error("display must not announce a command that failed")
	}

	snap := tracker.Snapshot()
	if snap.LastOK {
		t.Error("tracker: expected LastOK=false")
	}
	if snap.CECReady {
		t.Error("tracker: expected CECReady=false after a failure")
	}

	if len(pub.Events) != 1 || pub.Events[0].OK {
		t.Errorf("expected one failed event, got %+v", pub.Events)
	}
}

func TestRateLimitedCommandHasNoSideEffects(t *testing.T) {
	d, ctrl, disp, tracker, pub := newTestDispatcher()
	ctrl.Err = cec.ErrRateLimited

	_, err := d.PowerOn(SourceButton)
	if !errors.Is(err, cec.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	if len(disp.Screens) != 0 || len(pub.Events) != 0 {
		t.Error("rate limited command must not update display or publish")
	}
	if snap := tracker.Snapshot(); snap.Counts.PowerOn != 0 {
		t.Errorf("rate limited command must not be counted, got %d", snap.Counts.PowerOn)
	}
}

func TestPublishFailureDoesNotFailCommand(t *testing.T) {
	d, _, _, _, pub := newTestDispatcher()
	pub.PublishError = errors.New("broker down")

	if _, err := d.PowerOn(SourceWeb); err != nil {
		t.Fatalf("PowerOn should succeed despite publish failure: %v", err)
	}
}

func TestStatusScanCustomPassThrough(t *testing.T) {
	d, ctrl, disp, _, pub := newTestDispatcher()

	if _, err := d.Status(); err != nil {
		t.Fatalf("Status: %v", err)
	}
	if _, err := d.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if _, err := d.Custom("tx 10:36"); err != nil {
		t.Fatalf("Custom: %v", err)
	}

	want := []string{"pow", "scan", "tx 10:36"}
	cmds := ctrl.CommandLog()
	if len(cmds) != len(want) {
		t.Fatalf("cec commands: %v, want %v", cmds, want)
	}
	for i := range want {
		if cmds[i] != want[i] {
			t.Errorf("command %d: got %q, want %q", i, cmds[i], want[i])
		}
	}

	if len(disp.Screens) != 0 || len(pub.Events) != 0 {
		t.Error("queries must not touch display or publish events")
	}
}
