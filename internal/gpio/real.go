//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the button pins from actual hardware using the Linux
// GPIO character device.
type RealReader struct {
	chip   *gpiocdev.Chip
	onPin  *gpiocdev.Line
	offPin *gpiocdev.Line
}

// NewRealReader requests the two button lines on actual Raspberry Pi hardware.
// Both lines are configured as inputs with pull-down resistors; the buttons
// connect the pin to 3.3V, so an idle line reads low.
func NewRealReader(pinOn, pinOff int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	onLine, err := chip.RequestLine(pinOn, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request ON pin %d: %w", pinOn, err)
	}

	offLine, err := chip.RequestLine(pinOff, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		onLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request OFF pin %d: %w", pinOff, err)
	}

	return &RealReader{
		chip:   chip,
		onPin:  onLine,
		offPin: offLine,
	}, nil
}

// Read returns the current levels of the ON and OFF button pins.
func (r *RealReader) Read() (bool, bool, error) {
	onRaw, err := r.onPin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read ON pin: %w", err)
	}

	offRaw, err := r.offPin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read OFF pin: %w", err)
	}

	return onRaw != 0, offRaw != 0, nil
}

// Close releases GPIO resources. Pins are left configured as inputs with
// pull-down, matching the Pi boot defaults.
func (r *RealReader) Close() error {
	var errs []error

	if r.onPin != nil {
		if err := r.onPin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close ON pin: %w", err))
		}
	}
	if r.offPin != nil {
		if err := r.offPin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close OFF pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
