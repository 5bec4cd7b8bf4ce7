//go:build tinygo && baremetal

package hal

import "machine"

type tinyGoDisplay struct {
	fb Framebuffer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return d.fb }

// printLogger writes to the debug console (semihosting or RTT, depending on target).
type printLogger struct{}

func (l *printLogger) WriteLineString(s string) { println(s) }
func (l *printLogger) WriteLineBytes(b []byte)  { println(string(b)) }

// pinBacklight drives a three-step backlight made of active-low enable pins, lowest
// step first.
type pinBacklight struct {
	pins  []machine.Pin
	level uint8
}

func newPinBacklight(pins ...machine.Pin) *pinBacklight {
	for _, p := range pins {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}
	return &pinBacklight{pins: pins}
}

func (b *pinBacklight) SetLevel(level uint8) {
	b.level = level
	on := 0
	if len(b.pins) > 0 && level > 0 {
		on = (int(level)*len(b.pins) + 254) / 255
	}
	for i, p := range b.pins {
		if i < on {
			p.Low()
		} else {
			p.High()
		}
	}
}

func (b *pinBacklight) Level() uint8 { return b.level }
