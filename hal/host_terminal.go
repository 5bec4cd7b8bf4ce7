//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"time"

	"github.com/nsf/termbox-go"
)

// TerminalConfig controls the terminal preview runner.
type TerminalConfig struct {
	Hz int
}

var errTerminalQuit = errors.New("terminal: quit")

// RunTerminal renders the panel as half-block characters in a 256-color terminal.
// Esc, q or Ctrl-C quit.
func RunTerminal(ctx context.Context, newApp func(HAL) (StepFunc, error), cfg TerminalConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 10
	}

	h := New().(*hostHAL)
	step, err := newApp(h)
	if err != nil {
		return err
	}

	if err := termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()
	termbox.SetOutputMode(termbox.Output256)
	termbox.SetInputMode(termbox.InputEsc)

	events := make(chan termbox.Event, 8)
	go func() {
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt {
				close(events)
				return
			}
			events <- ev
		}
	}()
	defer termbox.Interrupt()

	t := time.NewTicker(time.Second / time.Duration(cfg.Hz))
	defer t.Stop()

	scratch := make([]byte, len(h.fb.buf))
	var drawn uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := handleTerminalEvent(ev); err != nil {
				if errors.Is(err, errTerminalQuit) {
					return nil
				}
				return err
			}
			drawn = 0
		case <-t.C:
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			if n := h.fb.presentCount(); n != drawn {
				drawn = n
				h.fb.SnapshotRGB565(scratch)
				if err := drawTerminal(scratch, h.fb.width, h.fb.height, h.backlight.Level()); err != nil {
					return err
				}
			}
		}
	}
}

func handleTerminalEvent(ev termbox.Event) error {
	switch ev.Type {
	case termbox.EventError:
		return ev.Err
	case termbox.EventKey:
		if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' {
			return errTerminalQuit
		}
	}
	return nil
}

// drawTerminal samples the panel so it fits the terminal. Each cell shows two
// vertically stacked samples using the upper half block.
func drawTerminal(buf []byte, width, height int, level uint8) error {
	cols, rows := termbox.Size()
	scale := terminalScale(width, height, cols, rows)

	_ = termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for cy := 0; cy*2*scale < height && cy < rows; cy++ {
		for cx := 0; cx*scale < width && cx < cols; cx++ {
			x := cx * scale
			top := pixelAt(buf, width, x, cy*2*scale)
			bottom := top
			if y := (cy*2 + 1) * scale; y < height {
				bottom = pixelAt(buf, width, x, y)
			}
			termbox.SetCell(cx, cy, '▀', xterm256(top, level), xterm256(bottom, level))
		}
	}
	return termbox.Flush()
}

func terminalScale(width, height, cols, rows int) int {
	scale := 1
	for scale < width && (width/scale > cols || height/(2*scale) > rows) {
		scale++
	}
	return scale
}

func pixelAt(buf []byte, width, x, y int) uint16 {
	off := (y*width + x) * 2
	if off < 0 || off+1 >= len(buf) {
		return 0
	}
	return uint16(buf[off]) | uint16(buf[off+1])<<8
}

// xterm256 maps an RGB565 pixel onto the 6x6x6 color cube. termbox attributes in
// 256-color mode are the palette index plus one.
func xterm256(p uint16, level uint8) termbox.Attribute {
	r, g, b := RGB888(p)
	cube := func(c uint8) int {
		v := int(c) * int(level) / 255
		return (v*5 + 127) / 255
	}
	return termbox.Attribute(16+36*cube(r)+6*cube(g)+cube(b)) + 1
}
