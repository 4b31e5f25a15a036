// Package cec drives a TV over HDMI-CEC by talking to the external
// cec-client binary (libCEC) through a persistent stdin/stdout pipe.
// The protocol itself is cec-client's problem; this package only issues
// its text commands and collects the text replies.
package cec

import "errors"

// Controller issues power commands to the CEC bus. Each call blocks until
// cec-client produces a response (or the response timeout passes) and
// returns the raw textual output.
type Controller interface {
	// PowerOn sends "on 0" (power on the TV, logical address 0).
	PowerOn() (string, error)

	// PowerOff sends "standby 0".
	PowerOff() (string, error)

	// PowerStatus sends "pow" and returns the reported power state.
	PowerStatus() (string, error)

	// Scan sends "scan" and returns the CEC bus information.
	Scan() (string, error)

	// Transmit sends a raw cec-client console command.
	Transmit(command string) (string, error)

	// Close terminates the cec-client process.
	Close() error
}

// ErrRateLimited is returned when a power or custom command is issued
// within the cooldown of the previous accepted command. The cooldown
// prevents command loops between the TV and the adapter.
var ErrRateLimited = errors.New("cec: rate limited, wait before sending another command")

// cec-client console commands.
const (
	cmdPowerOn     = "on 0"
	cmdStandby     = "standby 0"
	cmdPowerStatus = "pow"
	cmdScan        = "scan"
)
