// Package display mirrors tool status on a small panel display attached to
// the Pi. Rendering goes through the Linux framebuffer; builds without the
// screen tag (and machines without a panel) fall back to a no-op.
package display

// Display shows short status screens. Draw methods are best-effort and
// never fail the caller; a broken panel must not break power commands.
type Display interface {
	// ShowStatus draws the standard layout: header, rule, title line,
	// large status line.
	ShowStatus(title, status string)

	// ShowPowerOn shows that the power on command was sent.
	ShowPowerOn()

	// ShowPowerOff shows that the power off command was sent.
	ShowPowerOff()

	// ShowAddress shows the web interface URL.
	ShowAddress(addr string)

	// Clear blanks the display.
	Clear()

	// Close blanks the display and releases resources.
	Close() error
}

// header is the first line of every status screen.
const header = "CEC Test Tool"

// Noop is used when no display hardware is available.
type Noop struct{}

func (Noop) ShowStatus(title, status string) {}
func (Noop) ShowPowerOn()                    {}
func (Noop) ShowPowerOff()                   {}
func (Noop) ShowAddress(addr string)         {}
func (Noop) Clear()                          {}
func (Noop) Close() error                    { return nil }
