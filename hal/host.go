//go:build !tinygo

package hal

import (
	"sync"

	appLog "handdrawn/internal/log"
)

type hostHAL struct {
	logger    *hostLogger
	backlight *hostBacklight
	fb        *hostFramebuffer
}

// New returns a host HAL implementation with an in-memory panel.
func New() HAL {
	logger := &hostLogger{}
	return newHostHAL(logger, newHostFramebuffer(PanelWidth, PanelHeight))
}

func newHostHAL(logger *hostLogger, fb *hostFramebuffer) *hostHAL {
	return &hostHAL{
		logger:    logger,
		backlight: &hostBacklight{level: 255},
		fb:        fb,
	}
}

func (h *hostHAL) Logger() Logger       { return h.logger }
func (h *hostHAL) Display() Display     { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Backlight() Backlight { return h.backlight }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

// hostLogger forwards HAL log lines to the process logger.
type hostLogger struct{}

func (l *hostLogger) WriteLineString(s string) {
	appLog.Info(s, "src", "hal")
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	appLog.Info(string(b), "src", "hal")
}

type hostBacklight struct {
	mu    sync.Mutex
	level uint8
}

func (b *hostBacklight) SetLevel(level uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.level == level {
		return
	}
	b.level = level
	appLog.Debug("backlight", "level", level)
}

func (b *hostBacklight) Level() uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}
