//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"testing"

	"github.com/nsf/termbox-go"
)

func TestHostFramebuffer(t *testing.T) {
	fb := newHostFramebuffer(4, 2)
	fb.ClearRGB(255, 0, 0)

	snap := make([]byte, len(fb.buf))
	if n := fb.SnapshotRGB565(snap); n != 16 {
		t.Fatalf("SnapshotRGB565() = %d, want 16", n)
	}
	if p := pixelAt(snap, 4, 3, 1); p != 0xF800 {
		t.Fatalf("pixel = %#04x, want 0xf800", p)
	}

	var hooked int
	fb.present = func() error { hooked++; return nil }
	_ = fb.Present()
	_ = fb.Present()
	if fb.presentCount() != 2 || hooked != 2 {
		t.Fatalf("presents = %d, hook calls = %d, want 2, 2", fb.presentCount(), hooked)
	}
}

func TestHostBacklight(t *testing.T) {
	h := New()
	if got := h.Backlight().Level(); got != 255 {
		t.Fatalf("Level() = %d, want 255", got)
	}
	h.Backlight().SetLevel(40)
	if got := h.Backlight().Level(); got != 40 {
		t.Fatalf("Level() = %d, want 40", got)
	}
	if fb := h.Display().Framebuffer(); fb.Width() != PanelWidth || fb.Height() != PanelHeight {
		t.Fatalf("framebuffer = %dx%d, want %dx%d", fb.Width(), fb.Height(), PanelWidth, PanelHeight)
	}
}

func TestRunHeadlessTicks(t *testing.T) {
	var steps int
	newApp := func(h HAL) (StepFunc, error) {
		return func() error { steps++; return nil }, nil
	}
	err := RunHeadless(context.Background(), newApp, HeadlessConfig{Hz: 1000, Ticks: 5})
	if err != nil {
		t.Fatalf("RunHeadless() error = %v", err)
	}
	if steps != 5 {
		t.Fatalf("steps = %d, want 5", steps)
	}
}

func TestRunHeadlessStepError(t *testing.T) {
	boom := errors.New("boom")
	newApp := func(h HAL) (StepFunc, error) {
		return func() error { return boom }, nil
	}
	err := RunHeadless(context.Background(), newApp, HeadlessConfig{Hz: 1000})
	if !errors.Is(err, boom) {
		t.Fatalf("RunHeadless() error = %v, want %v", err, boom)
	}
}

func TestRunHeadlessCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunHeadless(ctx, func(HAL) (StepFunc, error) { return nil, nil }, HeadlessConfig{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RunHeadless() error = %v, want %v", err, context.Canceled)
	}
}

func TestTerminalScale(t *testing.T) {
	cases := []struct {
		cols, rows, want int
	}{
		{80, 24, 5},
		{300, 200, 1},
		{120, 60, 2},
	}
	for _, tc := range cases {
		if got := terminalScale(240, 240, tc.cols, tc.rows); got != tc.want {
			t.Fatalf("terminalScale(240, 240, %d, %d) = %d, want %d", tc.cols, tc.rows, got, tc.want)
		}
	}
}

func TestXterm256(t *testing.T) {
	if got := xterm256(0xFFFF, 255); got != termbox.Attribute(232) {
		t.Fatalf("xterm256(white) = %d, want 232", got)
	}
	if got := xterm256(0xFFFF, 0); got != termbox.Attribute(17) {
		t.Fatalf("xterm256(white, off) = %d, want 17", got)
	}
	if got := xterm256(0xF800, 255); got != termbox.Attribute(16+36*5+1) {
		t.Fatalf("xterm256(red) = %d, want %d", got, 16+36*5+1)
	}
}

func TestHandleTerminalEvent(t *testing.T) {
	if err := handleTerminalEvent(termbox.Event{Type: termbox.EventKey, Ch: 'q'}); !errors.Is(err, errTerminalQuit) {
		t.Fatalf("handleTerminalEvent(q) = %v, want %v", err, errTerminalQuit)
	}
	if err := handleTerminalEvent(termbox.Event{Type: termbox.EventKey, Ch: 'x'}); err != nil {
		t.Fatalf("handleTerminalEvent(x) = %v, want nil", err)
	}
}
