package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"gotest.tools/assert"

	"handdrawn/face"
	"handdrawn/hal"
)

type testLogger struct{ lines []string }

func (l *testLogger) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *testLogger) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

type testBacklight struct{ level uint8 }

func (b *testBacklight) SetLevel(level uint8) { b.level = level }
func (b *testBacklight) Level() uint8         { return b.level }

type testFramebuffer struct {
	buf      []byte
	presents int
}

func (f *testFramebuffer) Width() int              { return hal.PanelWidth }
func (f *testFramebuffer) Height() int             { return hal.PanelHeight }
func (f *testFramebuffer) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *testFramebuffer) StrideBytes() int        { return hal.PanelWidth * 2 }
func (f *testFramebuffer) Buffer() []byte          { return f.buf }
func (f *testFramebuffer) ClearRGB(r, g, b uint8)  {}
func (f *testFramebuffer) Present() error          { f.presents++; return nil }

type testHAL struct {
	log *testLogger
	bl  *testBacklight
	fb  *testFramebuffer
}

func newTestHAL() *testHAL {
	return &testHAL{
		log: &testLogger{},
		bl:  &testBacklight{},
		fb:  &testFramebuffer{buf: make([]byte, hal.PanelWidth*hal.PanelHeight*2)},
	}
}

func (h *testHAL) Logger() hal.Logger       { return h.log }
func (h *testHAL) Display() hal.Display     { return h }
func (h *testHAL) Backlight() hal.Backlight { return h.bl }
func (h *testHAL) Framebuffer() hal.Framebuffer {
	if h.fb == nil {
		return nil
	}
	return h.fb
}

func newTestApp(t *testing.T, h *testHAL, clk clockwork.Clock, mutate func(*Config)) *App {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Location = time.UTC
	cfg.Clock = clk
	cfg.Schedule = "@every 1h"
	if mutate != nil {
		mutate(&cfg)
	}
	a, err := NewWithConfig(h, cfg)
	assert.NilError(t, err)
	t.Cleanup(a.Close)
	return a
}

// slotMatches reports whether the framebuffer shows glyph at the slot's origin.
func slotMatches(fb *testFramebuffer, id face.SlotID, glyph []byte) bool {
	x, y := id.Origin()
	rowBytes := face.GlyphWidth * face.BytesPerPixel
	for row := 0; row < face.GlyphHeight; row++ {
		off := (y+row)*hal.PanelWidth*2 + x*2
		if !bytes.Equal(fb.buf[off:off+rowBytes], glyph[row*rowBytes:(row+1)*rowBytes]) {
			return false
		}
	}
	return true
}

func TestStepInitializesAndShowsTime(t *testing.T) {
	h := newTestHAL()
	clk := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 9, 5, 0, 0, time.UTC))
	a := newTestApp(t, h, clk, nil)

	assert.Equal(t, h.bl.level, uint8(255))
	assert.NilError(t, a.Step())

	st := a.Status()
	assert.Assert(t, st.Initialized)
	assert.Equal(t, st.Time, "09:05")
	assert.Equal(t, st.Digits, [face.SlotCount]int{0, 9, 0, 5})
	assert.Equal(t, st.Updates, uint64(1))
	assert.Equal(t, st.Failures, uint64(0))
	assert.Equal(t, st.Origins[face.BottomRight], [2]int{120, 120})
	assert.Equal(t, h.fb.presents, 1)

	c := face.DefaultCatalog()
	for i, d := range st.Digits {
		assert.Assert(t, slotMatches(h.fb, face.SlotID(i), c.Digit(d).Data()), "slot %d", i)
	}

	// Nothing changed: no new frame.
	assert.NilError(t, a.Step())
	assert.Equal(t, h.fb.presents, 1)
}

func TestTriggerAppliesNewTime(t *testing.T) {
	h := newTestHAL()
	clk := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 23, 58, 0, 0, time.UTC))
	a := newTestApp(t, h, clk, nil)
	assert.NilError(t, a.Step())

	clk.Advance(time.Minute)
	a.Trigger()
	assert.NilError(t, a.Step())

	st := a.Status()
	assert.Equal(t, st.Time, "23:59")
	assert.Equal(t, st.Digits, [face.SlotCount]int{2, 3, 5, 9})
	assert.Equal(t, st.Updates, uint64(2))
	assert.Equal(t, a.Display().Objects(), face.SlotCount)
	assert.Equal(t, h.fb.presents, 2)
}

func TestInitFailureRetriesOnTimeEvent(t *testing.T) {
	h := newTestHAL()
	clk := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	a := newTestApp(t, h, clk, func(c *Config) { c.MaxObjects = 3 })

	assert.NilError(t, a.Step())
	st := a.Status()
	assert.Assert(t, !st.Initialized)
	assert.Equal(t, st.Failures, uint64(1))
	assert.Assert(t, strings.Contains(st.LastError, "widget creation failed"), st.LastError)
	assert.Assert(t, errors.Is(a.Err(), face.ErrWidgetCreation), "err = %v", a.Err())
	assert.Equal(t, st.Digits, [face.SlotCount]int{-1, -1, -1, -1})
	assert.Equal(t, a.Display().Objects(), 0)

	// The fault console was presented instead of the face.
	assert.Equal(t, h.fb.presents, 1)

	// No time event, no retry.
	assert.NilError(t, a.Step())
	assert.Equal(t, a.Status().Failures, uint64(1))

	a.Trigger()
	assert.NilError(t, a.Step())
	assert.Equal(t, a.Status().Failures, uint64(2))

	found := false
	for _, line := range h.log.lines {
		if strings.Contains(line, "init failed") {
			found = true
		}
	}
	assert.Assert(t, found, "log = %q", h.log.lines)
}

func TestNewWithConfigErrors(t *testing.T) {
	_, err := NewWithConfig(nil, DefaultConfig())
	assert.Assert(t, errors.Is(err, ErrNoHAL))

	h := newTestHAL()
	h.fb = nil
	_, err = NewWithConfig(h, DefaultConfig())
	assert.Assert(t, errors.Is(err, ErrNoFramebuffer))

	cfg := DefaultConfig()
	cfg.Schedule = "not a schedule"
	_, err = NewWithConfig(newTestHAL(), cfg)
	assert.ErrorContains(t, err, "clock: schedule")
}

func TestFaultConsoleDraws(t *testing.T) {
	fb := &testFramebuffer{buf: make([]byte, hal.PanelWidth*hal.PanelHeight*2)}
	for i := range fb.buf {
		fb.buf[i] = 0x55
	}
	c := newFaultConsole(fb)
	assert.NilError(t, c.Show("face update failed", "slot: top-left"))
	assert.Equal(t, fb.presents, 1)

	// The screen was cleared before printing.
	last := fb.buf[len(fb.buf)-2:]
	assert.DeepEqual(t, last, []byte{0, 0})

	// Text landed in the top rows.
	top := fb.buf[:60*hal.PanelWidth*2]
	assert.Assert(t, bytes.IndexByte(top, 0xff) >= 0, "no text drawn")
}
