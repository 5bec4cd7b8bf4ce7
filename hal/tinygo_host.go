//go:build tinygo && !baremetal

package hal

import (
	"fmt"
	"runtime"
)

type tinyGoHostHAL struct {
	logger    *tinyGoHostLogger
	backlight *tinyGoHostBacklight
	fb        *tinyGoHostFramebuffer
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no panel.
func New() HAL {
	l := &tinyGoHostLogger{}
	return &tinyGoHostHAL{
		logger:    l,
		backlight: &tinyGoHostBacklight{logger: l, level: 255},
		fb:        newTinyGoHostFramebuffer(PanelWidth, PanelHeight),
	}
}

func (h *tinyGoHostHAL) Logger() Logger       { return h.logger }
func (h *tinyGoHostHAL) Display() Display     { return tinyGoHostDisplay{fb: h.fb} }
func (h *tinyGoHostHAL) Backlight() Backlight { return h.backlight }

type tinyGoHostDisplay struct {
	fb Framebuffer
}

func (d tinyGoHostDisplay) Framebuffer() Framebuffer { return d.fb }

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostBacklight struct {
	level  uint8
	logger *tinyGoHostLogger
}

func (b *tinyGoHostBacklight) SetLevel(level uint8) {
	b.level = level
	b.logger.WriteLineString(fmt.Sprintf("backlight: %d (tinygo/%s)", level, runtime.GOOS))
}

func (b *tinyGoHostBacklight) Level() uint8 { return b.level }

type tinyGoHostFramebuffer struct {
	w      int
	h      int
	stride int
	buf    []byte
}

func newTinyGoHostFramebuffer(w, h int) *tinyGoHostFramebuffer {
	stride := w * 2
	return &tinyGoHostFramebuffer{
		w:      w,
		h:      h,
		stride: stride,
		buf:    make([]byte, stride*h),
	}
}

func (f *tinyGoHostFramebuffer) Width() int          { return f.w }
func (f *tinyGoHostFramebuffer) Height() int         { return f.h }
func (f *tinyGoHostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *tinyGoHostFramebuffer) StrideBytes() int    { return f.stride }
func (f *tinyGoHostFramebuffer) Buffer() []byte      { return f.buf }

func (f *tinyGoHostFramebuffer) ClearRGB(r, g, b uint8) {
	pixel := RGB565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *tinyGoHostFramebuffer) Present() error {
	// No-op by default for tinygo host targets.
	return nil
}
