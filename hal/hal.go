package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// Backlight drives the panel backlight. Level 0 is off, 255 is full brightness;
// backends with coarse control round to the nearest supported step.
type Backlight interface {
	SetLevel(level uint8)
	Level() uint8
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb, stored little-endian.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Snapshotter is implemented by framebuffers that can copy their pixels while
// another goroutine draws into them.
type Snapshotter interface {
	SnapshotRGB565(dst []byte) int
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// HAL provides the only contact point between the watch face and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Backlight() Backlight
}

// PanelWidth and PanelHeight are the geometry of every display backend: a 240x240
// ST7789 panel as found on the PineTime.
const (
	PanelWidth  = 240
	PanelHeight = 240
)

// Banded is implemented by panels whose frame does not fit in RAM. Such a
// Framebuffer returns nil from Buffer; the compositor renders the screen one band
// of rows at a time into Band and hands each band to FlushBand.
type Banded interface {
	BandRows() int
	Band() []byte
	FlushBand(y, rows int) error
}
