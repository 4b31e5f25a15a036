package buttons

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dannykeren/cec-test-tool/internal/gpio"
)

// driveLoop runs the monitor loop against a manual tick channel and a fixed
// 50ms clock so tests are deterministic.
func driveLoop(m *Monitor, ticks int) {
	n := 0
	m.now = func() time.Time {
		n++
		return t0.Add(time.Duration(n) * 50 * time.Millisecond)
	}

	tickCh := make(chan time.Time)
	go m.loop(tickCh)
	for i := 0; i < ticks; i++ {
		tickCh <- time.Time{} // value unused, tick() calls m.now
	}
	m.Stop()
}

func TestMonitorDispatchesOnPress(t *testing.T) {
	reader := gpio.NewFakeReader([]gpio.Sample{
		{On: false}, // seed read in Start
		{On: false},
		{On: true},
		{On: true},
		{On: false},
	})

	var onCalls, offCalls int32
	m := NewMonitor(reader, Config{
		TriggerOn:  func() error { atomic.AddInt32(&onCalls, 1); return nil },
		TriggerOff: func() error { atomic.AddInt32(&offCalls, 1); return nil },
	})

	// Seed manually (same read Start performs) and drive the loop.
	on, off, err := reader.Read()
	if err != nil {
		t.Fatalf("seed read: %v", err)
	}
	m.deb.Seed(on, off)

	driveLoop(m, 4)

	if got := atomic.LoadInt32(&onCalls); got != 1 {
		t.Errorf("TriggerOn calls: got %d, want 1", got)
	}
	if got := atomic.LoadInt32(&offCalls); got != 0 {
		t.Errorf("TriggerOff calls: got %d, want 0", got)
	}
}

func TestMonitorStartFailsOnSeedReadError(t *testing.T) {
	reader := gpio.NewFakeReader(nil)
	reader.ReadError = errors.New("permission denied")

	m := NewMonitor(reader, Config{})
	if err := m.Start(); err == nil {
		t.Fatal("expected Start to fail when the seed read fails")
	}
}

func TestMonitorStartFailsWithoutReader(t *testing.T) {
	m := NewMonitor(nil, Config{})
	if err := m.Start(); !errors.Is(err, ErrNoReader) {
		t.Fatalf("expected ErrNoReader, got %v", err)
	}
}

func TestMonitorSurvivesDispatchError(t *testing.T) {
	// ON pressed twice, well apart; the first dispatch fails. The loop
	// must keep processing and deliver the second press.
	reader := gpio.NewFakeReader([]gpio.Sample{
		{On: true},  // tick 1: edge
		{On: false}, // tick 2
		{On: false}, // ticks 3..7: let the window pass
		{On: false},
		{On: false},
		{On: false},
		{On: false},
		{On: true}, // tick 8: edge, 350ms after the first
	})

	var calls int32
	m := NewMonitor(reader, Config{
		TriggerOn: func() error {
			n := atomic.AddInt32(&calls, 1)
			if n == 1 {
				return errors.New("cec-client exited")
			}
			return nil
		},
	})
	m.deb.Seed(false, false)

	driveLoop(m, 8)

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("TriggerOn calls: got %d, want 2", got)
	}
	if counts := m.deb.Counts(); counts.On != 2 {
		t.Errorf("press count: got %d, want 2 (counter increments even when dispatch fails)", counts.On)
	}
}

func TestMonitorSurvivesDispatchPanic(t *testing.T) {
	reader := gpio.NewFakeReader([]gpio.Sample{
		{On: true},
		{On: false},
		{On: false},
		{On: false},
		{On: false},
		{On: false},
		{On: false},
		{On: true},
	})

	var calls int32
	m := NewMonitor(reader, Config{
		TriggerOn: func() error {
			if atomic.AddInt32(&calls, 1) == 1 {
				panic("dispatcher blew up")
			}
			return nil
		},
	})
	m.deb.Seed(false, false)

	driveLoop(m, 8)

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("TriggerOn calls: got %d, want 2", got)
	}
}

func TestMonitorSurvivesReadError(t *testing.T) {
	reader := gpio.NewFakeReader([]gpio.Sample{{On: false}})

	var calls int32
	m := NewMonitor(reader, Config{
		TriggerOn: func() error { atomic.AddInt32(&calls, 1); return nil },
	})
	m.deb.Seed(false, false)

	m.now = time.Now
	tickCh := make(chan time.Time)
	go m.loop(tickCh)

	// A tick with a failing read is skipped, not fatal.
	reader.ReadError = errors.New("flaky read")
	tickCh <- time.Time{}

	// Read recovers; a fresh edge still dispatches.
	reader.ReadError = nil
	reader.Samples = []gpio.Sample{{On: true}}
	reader.Reset()
	tickCh <- time.Time{}

	m.Stop()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("TriggerOn calls: got %d, want 1", got)
	}
}

func TestMonitorStopWithinOneTick(t *testing.T) {
	reader := gpio.NewFakeReader([]gpio.Sample{
		{On: false},
		{On: true},
		{On: false},
		{On: true},
	})

	var calls int32
	m := NewMonitor(reader, Config{
		Poll:     10 * time.Millisecond,
		Debounce: time.Millisecond,
		TriggerOn: func() error {
			atomic.AddInt32(&calls, 1)
			return nil
		},
	})

	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		m.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Stop did not return within 100ms")
	}

	// No dispatches after Stop even though the scripted levels keep
	// toggling.
	after := atomic.LoadInt32(&calls)
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != after {
		t.Errorf("dispatch after Stop: count went from %d to %d", after, got)
	}
}
