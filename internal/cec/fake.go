package cec

import "sync"

// FakeController records issued commands and returns scripted responses.
type FakeController struct {
	mu sync.Mutex

	// Commands lists every operation in order ("on 0", "standby 0",
	// "pow", "scan", or the raw Transmit command).
	Commands []string

	// Response is returned by every operation.
	Response string

	// Err, if set, is returned by every operation.
	Err error

	// Closed tracks whether Close was called.
	Closed bool
}

// NewFakeController creates a FakeController for testing.
func NewFakeController() *FakeController {
	return &FakeController{Response: "TRAFFIC: fake\n"}
}

func (f *FakeController) record(command string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	f.Commands = append(f.Commands, command)
	return f.Response, nil
}

// PowerOn records the power on command.
func (f *FakeController) PowerOn() (string, error) { return f.record(cmdPowerOn) }

// PowerOff records the standby command.
func (f *FakeController) PowerOff() (string, error) { return f.record(cmdStandby) }

// PowerStatus records the power status query.
func (f *FakeController) PowerStatus() (string, error) { return f.record(cmdPowerStatus) }

// Scan records the scan command.
func (f *FakeController) Scan() (string, error) { return f.record(cmdScan) }

// Transmit records the raw command.
func (f *FakeController) Transmit(command string) (string, error) { return f.record(command) }

// Close marks the controller as closed.
func (f *FakeController) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// CommandLog returns a copy of the recorded commands.
func (f *FakeController) CommandLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Commands))
	copy(out, f.Commands)
	return out
}
