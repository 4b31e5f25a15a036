// Package gpio provides GPIO input reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the levels of the two button input lines.
type Reader interface {
	// Read returns the current levels of the ON and OFF button pins.
	// The buttons are wired between the pin and 3.3V (active high),
	// so true means the button is held down.
	Read() (onHigh, offHigh bool, err error)

	// Close releases GPIO resources.
	Close() error
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinOn  = 17 // power ON button, physical pin 11
	DefaultPinOff = 27 // power OFF button, physical pin 13
)
