// Package power coordinates the side effects of a power command: the CEC
// bus write, the status tracker, the panel display, and the MQTT event.
// Both the physical buttons and the web API dispatch through here.
package power

import (
	"errors"
	"log"
	"time"

	"github.com/Dannykeren/cec-test-tool/internal/cec"
	"github.com/Dannykeren/cec-test-tool/internal/display"
	"github.com/Dannykeren/cec-test-tool/internal/mqtt"
	"github.com/Dannykeren/cec-test-tool/internal/status"
)

// Source identifies what initiated a power command.
type Source string

const (
	SourceButton Source = "button"
	SourceWeb    Source = "web"
)

// Action names used in tracker records and MQTT events.
const (
	ActionPowerOn  = "POWER_ON"
	ActionPowerOff = "POWER_OFF"
)

// Dispatcher owns the fan-out for power commands. The CEC error is the
// returned error; display and MQTT failures are logged and swallowed —
// a dead panel or broker must not break the TV.
type Dispatcher struct {
	cec       cec.Controller
	display   display.Display
	tracker   *status.Tracker
	publisher mqtt.Publisher
	now       func() time.Time
}

// NewDispatcher creates a Dispatcher around the given collaborators.
func NewDispatcher(ctrl cec.Controller, disp display.Display, tracker *status.Tracker, pub mqtt.Publisher) *Dispatcher {
	return &Dispatcher{
		cec:       ctrl,
		display:   disp,
		tracker:   tracker,
		publisher: pub,
		now:       time.Now,
	}
}

// PowerOn sends the power on command and returns the cec-client output.
func (d *Dispatcher) PowerOn(src Source) (string, error) {
	return d.dispatch(ActionPowerOn, src, d.cec.PowerOn, d.display.ShowPowerOn)
}

// PowerOff sends the standby command and returns the cec-client output.
func (d *Dispatcher) PowerOff(src Source) (string, error) {
	return d.dispatch(ActionPowerOff, src, d.cec.PowerOff, d.display.ShowPowerOff)
}

// Status queries the TV power state. No side effects.
func (d *Dispatcher) Status() (string, error) {
	return d.cec.PowerStatus()
}

// Scan queries the CEC bus for devices. No side effects.
func (d *Dispatcher) Scan() (string, error) {
	return d.cec.Scan()
}

// Custom sends a raw cec-client command. Rate limited by the controller,
// no display or event side effects.
func (d *Dispatcher) Custom(command string) (string, error) {
	return d.cec.Transmit(command)
}

func (d *Dispatcher) dispatch(action string, src Source, cmd func() (string, error), show func()) (string, error) {
	out, err := cmd()
	if errors.Is(err, cec.ErrRateLimited) {
		// Nothing was sent; don't count it or tell anyone about it.
		log.Printf("power: %s from %s rate limited", action, src)
		return out, err
	}

	at := d.now()
	ok := err == nil
	log.Printf("power: %s from %s ok=%v", action, src, ok)

	d.tracker.RecordCommand(action, string(src), at, ok)
	d.tracker.SetCECReady(ok)

	if ok {
		show()
	}

	event := mqtt.Event{Timestamp: at, Action: action, Source: string(src), OK: ok}
	if pubErr := d.publisher.Publish(event); pubErr != nil {
		log.Printf("power: publish %s event: %v", action, pubErr)
	}

	return out, err
}
