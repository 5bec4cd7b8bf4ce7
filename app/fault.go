package app

import (
	"fmt"
	"image/color"
	"sync"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"

	"handdrawn/hal"
)

// faultConsole prints host failures over the face, in a terminal drawn straight
// into the framebuffer. Banded panels have no frame memory and get nothing.
type faultConsole struct {
	fb hal.Framebuffer
	d  *fbDisplay
	t  *tinyterm.Terminal
}

func newFaultConsole(fb hal.Framebuffer) *faultConsole {
	return &faultConsole{fb: fb, d: &fbDisplay{fb: fb}}
}

func (c *faultConsole) available() bool {
	return c.fb != nil && c.fb.Buffer() != nil && c.fb.Format() == hal.PixelFormatRGB565
}

// Show clears the screen and prints lines, then presents the framebuffer.
func (c *faultConsole) Show(lines ...string) error {
	if !c.available() {
		return nil
	}

	if l, ok := c.fb.(sync.Locker); ok {
		l.Lock()
		c.print(lines)
		l.Unlock()
	} else {
		c.print(lines)
	}
	return c.fb.Present()
}

func (c *faultConsole) print(lines []string) {
	w, h := c.d.Size()
	_ = c.d.FillRectangle(0, 0, w, h, color.RGBA{A: 255})

	c.t = tinyterm.NewTerminal(c.d)
	c.t.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: 10,
		FontOffset: 6,
	})
	for i, line := range lines {
		if i > 0 {
			fmt.Fprint(c.t, "\r\n")
		}
		fmt.Fprint(c.t, line)
	}
}

var _ tinyterm.Displayer = (*fbDisplay)(nil)

// fbDisplay adapts an RGB565 framebuffer to the tinyterm displayer. The caller
// holds the framebuffer lock, so Display does not present.
type fbDisplay struct {
	fb hal.Framebuffer
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if buf == nil || ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	off := iy*d.fb.StrideBytes() + ix*2
	if off+1 >= len(buf) {
		return
	}
	pixel := hal.RGB565(c.R, c.G, c.B)
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplay) Display() error { return nil }

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	buf := d.fb.Buffer()
	if buf == nil {
		return nil
	}
	w, h := d.fb.Width(), d.fb.Height()
	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := hal.RGB565(c.R, c.G, c.B)
	lo, hi := byte(pixel), byte(pixel>>8)
	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

// SetScroll is a no-op: the console never holds more lines than fit, so the
// terminal's row wrap is enough.
func (d *fbDisplay) SetScroll(line int16) {}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
