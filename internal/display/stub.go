//go:build !screen

package display

import "errors"

// ScreenSupported returns whether screen support is compiled in.
func ScreenSupported() bool {
	return false
}

// ErrScreenNotCompiled is returned by NewFramebuffer in builds without the
// screen tag.
var ErrScreenNotCompiled = errors.New("display: built without screen support (use -tags screen)")

// Framebuffer is a stub when screen support is not compiled in.
type Framebuffer struct{}

// NewFramebuffer returns an error when screen support is not compiled in.
func NewFramebuffer() (*Framebuffer, error) {
	return nil, ErrScreenNotCompiled
}

func (d *Framebuffer) ShowStatus(title, status string) {}
func (d *Framebuffer) ShowPowerOn()                    {}
func (d *Framebuffer) ShowPowerOff()                   {}
func (d *Framebuffer) ShowAddress(addr string)         {}
func (d *Framebuffer) Clear()                          {}
func (d *Framebuffer) Close() error                    { return nil }
