//go:build linux && !tinygo

package hal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// SPIConfig describes an ST7789 240x240 panel wired to a Linux SPI bus.
// Pin names are periph.io GPIO names such as "GPIO25".
type SPIConfig struct {
	Port      string
	DC        string
	Reset     string
	Backlight string
	Hz        int64
	// StepHz is the number of steps per second of the control loop.
	StepHz int
}

// RunSPI drives a physical panel. The control loop is the same as RunHeadless; every
// Present streams the framebuffer to the panel.
func RunSPI(ctx context.Context, newApp func(HAL) (StepFunc, error), cfg SPIConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 32_000_000
	}
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("spi: periph host init failed: %w", err)
	}

	panel, err := openST7789(cfg)
	if err != nil {
		return err
	}
	defer panel.Close()

	fb := newHostFramebuffer(PanelWidth, PanelHeight)
	fb.present = func() error { return panel.blit(fb.buf, fb.width, fb.height) }

	h := newHostHAL(&hostLogger{}, fb)
	bl := &spiBacklight{pin: panel.bl}
	bl.SetLevel(255)

	return runHeadless(ctx, &spiHAL{hostHAL: h, bl: bl}, newApp, HeadlessConfig{Hz: cfg.StepHz})
}

type spiHAL struct {
	*hostHAL
	bl *spiBacklight
}

func (h *spiHAL) Backlight() Backlight { return h.bl }

type spiBacklight struct {
	mu    sync.Mutex
	pin   gpio.PinOut
	level uint8
}

// SetLevel switches the backlight pin; any non-zero level is fully on.
func (b *spiBacklight) SetLevel(level uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.level = level
	if b.pin == nil {
		return
	}
	if level > 0 {
		_ = b.pin.Out(gpio.High)
	} else {
		_ = b.pin.Out(gpio.Low)
	}
}

func (b *spiBacklight) Level() uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}

type st7789 struct {
	port spi.PortCloser
	conn spi.Conn
	dc   gpio.PinOut
	rst  gpio.PinOut
	bl   gpio.PinOut

	txBuf []byte
}

func openST7789(cfg SPIConfig) (*st7789, error) {
	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("spi: failed to open SPI port %q: %w", cfg.Port, err)
	}
	conn, err := port.Connect(physic.Frequency(cfg.Hz)*physic.Hertz, spi.Mode3, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("spi: failed to connect SPI: %w", err)
	}

	d := &st7789{port: port, conn: conn, txBuf: make([]byte, 4096)}
	if d.dc, err = outPin(cfg.DC, gpio.Low); err != nil {
		_ = port.Close()
		return nil, err
	}
	if d.rst, err = outPin(cfg.Reset, gpio.High); err != nil {
		_ = port.Close()
		return nil, err
	}
	if cfg.Backlight != "" {
		if d.bl, err = outPin(cfg.Backlight, gpio.Low); err != nil {
			_ = port.Close()
			return nil, err
		}
	}

	d.reset()
	if err := d.init(); err != nil {
		_ = port.Close()
		return nil, err
	}
	return d, nil
}

func outPin(name string, level gpio.Level) (gpio.PinOut, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("spi: gpio %q not found", name)
	}
	if err := p.Out(level); err != nil {
		return nil, fmt.Errorf("spi: gpio %q Out failed: %w", name, err)
	}
	return p, nil
}

func (d *st7789) Close() error {
	if d.bl != nil {
		_ = d.bl.Out(gpio.Low)
	}
	_ = d.cmd(0x28) // DISPOFF
	_ = d.cmd(0x10) // SLPIN
	return d.port.Close()
}

func (d *st7789) reset() {
	_ = d.rst.Out(gpio.Low)
	time.Sleep(10 * time.Millisecond)
	_ = d.rst.Out(gpio.High)
	time.Sleep(120 * time.Millisecond)
}

func (d *st7789) init() error {
	steps := []struct {
		cmd   byte
		data  []byte
		delay time.Duration
	}{
		{0x01, nil, 150 * time.Millisecond}, // SWRESET
		{0x11, nil, 120 * time.Millisecond}, // SLPOUT
		{0x3A, []byte{0x55}, 0},             // COLMOD: 16bpp
		{0x36, []byte{0x00}, 0},             // MADCTL: RGB, top to bottom
		{0x21, nil, 0},                      // INVON
		{0x13, nil, 10 * time.Millisecond},  // NORON
		{0x29, nil, 10 * time.Millisecond},  // DISPON
	}
	for _, s := range steps {
		if err := d.cmd(s.cmd, s.data...); err != nil {
			return fmt.Errorf("spi: st7789 command 0x%02X: %w", s.cmd, err)
		}
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
	}
	return nil
}

func (d *st7789) cmd(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	return d.conn.Tx(data, nil)
}

func (d *st7789) setWindow(x0, y0, x1, y1 uint16) error {
	if err := d.cmd(0x2A, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.cmd(0x2B, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	return d.cmd(0x2C)
}

// blit streams a little-endian RGB565 buffer to the panel, which expects big-endian.
func (d *st7789) blit(buf []byte, w, h int) error {
	if w <= 0 || h <= 0 || len(buf) < w*h*2 {
		return fmt.Errorf("spi: invalid framebuffer")
	}
	if err := d.setWindow(0, 0, uint16(w-1), uint16(h-1)); err != nil {
		return err
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	total := w * h * 2
	for off := 0; off < total; {
		n := swapRGB565(d.txBuf, buf[off:total])
		if err := d.conn.Tx(d.txBuf[:n], nil); err != nil {
			return fmt.Errorf("spi: pixel write: %w", err)
		}
		off += n
	}
	return nil
}
