//go:build tinygo && baremetal && !pinetime

package hal

type stubHAL struct {
	logger *printLogger
	bl     stubBacklight
}

// New returns a HAL without a panel for boards that have no backend yet; the app
// logs ErrNoFramebuffer and idles.
func New() HAL {
	return &stubHAL{logger: &printLogger{}}
}

func (h *stubHAL) Logger() Logger       { return h.logger }
func (h *stubHAL) Display() Display     { return tinyGoDisplay{} }
func (h *stubHAL) Backlight() Backlight { return &h.bl }

type stubBacklight struct{ level uint8 }

func (b *stubBacklight) SetLevel(level uint8) { b.level = level }
func (b *stubBacklight) Level() uint8         { return b.level }
