package app

import (
	"errors"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"handdrawn/clock"
	"handdrawn/face"
	"handdrawn/gfx"
	"handdrawn/hal"
)

var (
	ErrNoHAL         = errors.New("app: nil HAL")
	ErrNoFramebuffer = errors.New("app: HAL has no framebuffer")
)

// Config tunes the application. The zero value is usable, except that a zero
// Backlight turns the panel dark; DefaultConfig sets it to full.
type Config struct {
	// Location is the zone the face shows; nil means time.Local.
	Location *time.Location
	// Schedule is a cron expression for updates; empty means every minute.
	Schedule string
	// Clock supplies wall-clock time; nil means the real clock.
	Clock clockwork.Clock

	Background color.RGBA
	Backlight  uint8

	// MaxObjects sizes the image object pool; 0 means gfx.DefaultMaxObjects.
	MaxObjects int
}

func DefaultConfig() Config {
	return Config{
		Background: color.RGBA{A: 255},
		Backlight:  255,
	}
}

// Status is a snapshot of the face for monitoring. Digits holds -1 for a slot
// that shows no digit.
type Status struct {
	Initialized bool                   `json:"initialized"`
	Time        string                 `json:"time"`
	Digits      [face.SlotCount]int    `json:"digits"`
	Updates     uint64                 `json:"updates"`
	Failures    uint64                 `json:"failures"`
	LastError   string                 `json:"last_error,omitempty"`
	Schedule    string                 `json:"schedule"`
	NextUpdate  time.Time              `json:"next_update"`
	Slots       [face.SlotCount]string `json:"slots"`
	Origins     [face.SlotCount][2]int `json:"origins"`
}

// App owns the display, the time source and the face, and advances them one
// frame per Step. Step must be called from a single goroutine; Status may be
// called from any.
type App struct {
	log   hal.Logger
	fb    hal.Framebuffer
	disp  *gfx.Display
	src   *clock.Source
	state *face.State
	fault *faultConsole

	steps   uint64
	faulted bool

	mu      sync.Mutex
	status  Status
	lastErr error
}

// New initializes the app with default config and returns its step function.
func New(h hal.HAL) func() error {
	a, err := NewWithConfig(h, DefaultConfig())
	if err != nil {
		if h != nil && h.Logger() != nil {
			h.Logger().WriteLineString("app: " + err.Error())
		}
		return func() error { return err }
	}
	return a.Step
}

// Run drives the app forever at 10 Hz (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	step := New(h)
	for {
		_ = step()
		time.Sleep(100 * time.Millisecond)
	}
}

// NewWithConfig builds the app on h and starts its time source. The face itself is
// created on the first Step.
func NewWithConfig(h hal.HAL, cfg Config) (*App, error) {
	if h == nil {
		return nil, ErrNoHAL
	}
	var fb hal.Framebuffer
	if d := h.Display(); d != nil {
		fb = d.Framebuffer()
	}
	if fb == nil {
		return nil, ErrNoFramebuffer
	}

	opts := []gfx.Option{gfx.WithBackground(cfg.Background.R, cfg.Background.G, cfg.Background.B)}
	if cfg.MaxObjects > 0 {
		opts = append(opts, gfx.WithMaxObjects(cfg.MaxObjects))
	}

	src, err := clock.New(cfg.Clock, cfg.Location, cfg.Schedule)
	if err != nil {
		return nil, err
	}

	a := &App{
		log:   h.Logger(),
		fb:    fb,
		disp:  gfx.NewDisplay(fb.Width(), fb.Height(), opts...),
		src:   src,
		fault: newFaultConsole(fb),
	}
	a.status.Schedule = src.Schedule()
	for i := range a.status.Digits {
		a.status.Digits[i] = -1
	}

	if bl := h.Backlight(); bl != nil {
		bl.SetLevel(cfg.Backlight)
	}
	src.Start()
	return a, nil
}

// Close stops the time source.
func (a *App) Close() {
	a.src.Stop()
}

// Step advances one frame: it (re)creates the face if needed, applies the latest
// scheduled time and presents the screen if it changed.
func (a *App) Step() error {
	var (
		t    face.Time
		tick bool
	)
	select {
	case t = <-a.src.Events():
		tick = true
	default:
	}

	switch {
	case a.state == nil && (a.steps == 0 || tick):
		a.initialize()
	case a.state != nil && tick:
		a.apply(t)
	}
	a.steps++

	if a.faulted {
		return nil
	}
	return a.disp.Refresh(a.fb)
}

// Status returns a copy of the current status.
func (a *App) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Err returns the error of the last failed init or update, or nil once an update
// succeeds.
func (a *App) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Trigger requests an update on the next Step. Safe to call from any goroutine.
func (a *App) Trigger() { a.src.Trigger() }

// Display exposes the compositor, mainly for previews.
func (a *App) Display() *gfx.Display { return a.disp }

func (a *App) initialize() {
	state, err := face.Initialize(a.disp, a.disp.ActiveScreen())
	if err != nil {
		a.fail("init", err)
		return
	}
	a.state = state
	a.logf("face: initialized slots=%d objects=%d", face.SlotCount, a.disp.Objects())

	a.mu.Lock()
	a.status.Initialized = true
	for _, s := range state.Slots() {
		a.status.Slots[s.ID] = s.ID.String()
		a.status.Origins[s.ID] = [2]int{s.X, s.Y}
	}
	a.mu.Unlock()

	a.apply(a.src.Now())
}

func (a *App) apply(t face.Time) {
	if err := a.state.OnTimeChanged(t); err != nil {
		a.fail("update", err)
		a.recordDigits()
		return
	}
	if a.faulted {
		a.faulted = false
		a.disp.Invalidate()
	}

	a.mu.Lock()
	a.status.Time = t.String()
	a.status.Updates++
	a.status.LastError = ""
	a.lastErr = nil
	a.status.NextUpdate = a.src.NextFire()
	a.mu.Unlock()
	a.recordDigits()

	a.logf("face: updated time=%s digits=%v", t, t.Digits())
}

// recordDigits reads back what each slot shows, so a partial update is visible.
func (a *App) recordDigits() {
	var digits [face.SlotCount]int
	for i := range digits {
		d, ok := a.state.Bound(face.SlotID(i))
		if !ok {
			d = -1
		}
		digits[i] = d
	}
	a.mu.Lock()
	a.status.Digits = digits
	a.mu.Unlock()
}

func (a *App) fail(op string, err error) {
	a.faulted = true

	a.mu.Lock()
	a.status.Failures++
	a.status.LastError = err.Error()
	a.lastErr = err
	failures := a.status.Failures
	a.mu.Unlock()

	a.logf("face: %s failed failures=%d err=%v", op, failures, err)

	var se *face.SlotError
	lines := []string{"face " + op + " failed"}
	if errors.As(err, &se) {
		lines = append(lines, fmt.Sprintf("slot: %s", se.Slot), fmt.Sprintf("kind: %s", se.Kind))
	}
	lines = append(lines, err.Error(), fmt.Sprintf("failures: %d", failures))
	if ferr := a.fault.Show(lines...); ferr != nil {
		a.logf("face: fault console: %v", ferr)
	}
}

func (a *App) logf(format string, args ...any) {
	if a.log == nil {
		return
	}
	a.log.WriteLineString(fmt.Sprintf(format, args...))
}
