//go:build tinygo && baremetal && pinetime

package hal

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/st7789"
)

// bandRows keeps the render band at 11.5 KiB; a full 240x240 frame would not fit
// in the nRF52832's 64 KiB of RAM.
const bandRows = 24

type pineTimeHAL struct {
	logger    *printLogger
	backlight *pinBacklight
	fb        *panelFramebuffer
}

// New returns the PineTime HAL: ST7789 panel on SPI0 and the three backlight pins.
func New() HAL {
	machine.SPI0.Configure(machine.SPIConfig{
		Frequency: 8_000_000,
		SCK:       machine.SPI0_SCK_PIN,
		SDO:       machine.SPI0_SDO_PIN,
		Mode:      3,
	})

	lcd := st7789.New(machine.SPI0,
		machine.LCD_RESET,
		machine.LCD_RS,
		machine.LCD_CS,
		machine.LCD_BACKLIGHT_HIGH)
	lcd.Configure(st7789.Config{
		Rotation:   drivers.Rotation0,
		RowOffset:  80,
		FrameRate:  st7789.FRAMERATE_111,
		VSyncLines: st7789.MAX_VSYNC_SCANLINES,
	})

	bl := newPinBacklight(machine.LCD_BACKLIGHT_LOW, machine.LCD_BACKLIGHT_MID, machine.LCD_BACKLIGHT_HIGH)
	bl.SetLevel(255)

	return &pineTimeHAL{
		logger:    &printLogger{},
		backlight: bl,
		fb: &panelFramebuffer{
			lcd:  &lcd,
			band: make([]byte, PanelWidth*2*bandRows),
		},
	}
}

func (h *pineTimeHAL) Logger() Logger       { return h.logger }
func (h *pineTimeHAL) Display() Display     { return tinyGoDisplay{fb: h.fb} }
func (h *pineTimeHAL) Backlight() Backlight { return h.backlight }

// panelFramebuffer has no frame memory; it implements Banded instead.
type panelFramebuffer struct {
	lcd  *st7789.Device
	band []byte
}

func (f *panelFramebuffer) Width() int          { return PanelWidth }
func (f *panelFramebuffer) Height() int         { return PanelHeight }
func (f *panelFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *panelFramebuffer) StrideBytes() int    { return PanelWidth * 2 }
func (f *panelFramebuffer) Buffer() []byte      { return nil }
func (f *panelFramebuffer) Present() error      { return nil }

func (f *panelFramebuffer) ClearRGB(r, g, b uint8) {
	f.lcd.FillScreen(color.RGBA{R: r, G: g, B: b, A: 255})
}

func (f *panelFramebuffer) BandRows() int { return bandRows }
func (f *panelFramebuffer) Band() []byte  { return f.band }

// FlushBand byte-swaps the band in place (the panel is big-endian) and sends it.
func (f *panelFramebuffer) FlushBand(y, rows int) error {
	n := PanelWidth * 2 * rows
	swapRGB565(f.band[:n], f.band[:n])
	return f.lcd.DrawRGBBitmap8(0, int16(y), f.band[:n], PanelWidth, int16(rows))
}
