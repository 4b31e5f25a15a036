//go:build screen

package display

import (
	"encoding/binary"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/d21d3q/framebuffer"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// ScreenSupported returns whether screen support is compiled in.
func ScreenSupported() bool {
	return true
}

const fontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"

// Logical canvas size. The layout was designed for a 128x64 OLED; it is
// drawn at that size and scaled to whatever panel is attached.
const (
	canvasWidth  = 128
	canvasHeight = 64
)

// Framebuffer implements Display on a Linux framebuffer panel (16bpp
// RGB565 — the common SPI/HDMI hats).
type Framebuffer struct {
	dc              *gg.Context
	canvas          *image.RGBA
	scaled          *image.RGBA
	pixBuffer       []byte
	backBuffer      []byte
	width           int
	height          int
	lineLengthBytes int
	initialized     bool
}

// NewFramebuffer opens /dev/fb0 and prepares the drawing context.
func NewFramebuffer() (*Framebuffer, error) {
	d := &Framebuffer{}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Framebuffer) init() error {
	fb, err := framebuffer.OpenFrameBuffer("/dev/fb0", os.O_RDWR)
	if err != nil {
		return fmt.Errorf("open framebuffer: %w", err)
	}

	varInfo, err := fb.VarScreenInfo()
	if err != nil {
		return fmt.Errorf("get variable screen info: %w", err)
	}
	fixedInfo, err := fb.FixScreenInfo()
	if err != nil {
		return fmt.Errorf("get fixed screen info: %w", err)
	}

	d.pixBuffer, err = fb.Pixels()
	if err != nil {
		return fmt.Errorf("get pixel data: %w", err)
	}

	d.width = int(varInfo.XRes)
	d.height = int(varInfo.YRes)
	d.lineLengthBytes = int(fixedInfo.LineLength)
	d.backBuffer = make([]byte, d.height*d.lineLengthBytes)

	log.Printf("display: framebuffer %dx%d, %d bpp, stride %d bytes",
		d.width, d.height, varInfo.BitsPerPixel, d.lineLengthBytes)

	d.canvas = image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	d.scaled = image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	d.dc = gg.NewContextForRGBA(d.canvas)
	d.initialized = true

	d.blank()
	d.flush()
	return nil
}

// ShowStatus draws the standard status layout: header, rule, small title
// line, large status line.
func (d *Framebuffer) ShowStatus(title, status string) {
	if !d.initialized {
		return
	}
	d.blank()

	d.setFontSize(16)
	d.dc.SetRGB(1, 1, 1)
	d.dc.DrawString(header, 0, 14)

	d.dc.SetLineWidth(1)
	d.dc.DrawLine(0, 18, canvasWidth, 18)
	d.dc.Stroke()

	d.setFontSize(10)
	d.dc.DrawString(title, 0, 32)

	d.setFontSize(16)
	d.dc.DrawString(status, 0, 52)

	d.flush()
}

// ShowPowerOn shows that the power on command was sent.
func (d *Framebuffer) ShowPowerOn() {
	d.ShowStatus("Command sent:", "POWER ON")
}

// ShowPowerOff shows that the power off command was sent.
func (d *Framebuffer) ShowPowerOff() {
	d.ShowStatus("Command sent:", "POWER OFF")
}

// ShowAddress shows the web interface URL.
func (d *Framebuffer) ShowAddress(addr string) {
	d.ShowStatus("Web Interface:", addr)
}

// Clear blanks the display.
func (d *Framebuffer) Clear() {
	if !d.initialized {
		return
	}
	d.blank()
	d.flush()
}

// Close blanks the display and marks it unusable.
func (d *Framebuffer) Close() error {
	if !d.initialized {
		return nil
	}
	d.blank()
	d.flush()
	d.initialized = false
	return nil
}

func (d *Framebuffer) blank() {
	d.dc.SetRGB(0, 0, 0)
	d.dc.DrawRectangle(0, 0, canvasWidth, canvasHeight)
	d.dc.Fill()
}

func (d *Framebuffer) setFontSize(size int) {
	if err := d.dc.LoadFontFace(fontPath, float64(size)); err != nil {
		log.Printf("display: failed to load font: %v", err)
	}
}

// flush scales the logical canvas to the panel, converts to RGB565, and
// copies to the framebuffer in one pass to avoid tearing.
func (d *Framebuffer) flush() {
	draw.ApproxBiLinear.Scale(d.scaled, d.scaled.Bounds(), d.canvas, d.canvas.Bounds(), draw.Over, nil)

	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			r, g, b, _ := d.scaled.At(x, y).RGBA()
			r5 := uint16(r >> (16 - 5))
			g6 := uint16(g >> (16 - 6))
			b5 := uint16(b >> (16 - 5))
			pixel16 := (r5 << 11) | (g6 << 5) | b5
			fbIdx := (y * d.lineLengthBytes) + (x * 2)
			if fbIdx+1 < len(d.backBuffer) {
				binary.LittleEndian.PutUint16(d.backBuffer[fbIdx:], pixel16)
			}
		}
	}
	copy(d.pixBuffer, d.backBuffer)
}
