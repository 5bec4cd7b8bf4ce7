// Package face draws a 24-hour clock as four hand-drawn digit bitmaps.
//
// The hour tens and units sit on the top row, the minute tens and units on the
// bottom row. The face owns no pixels: it creates four image objects on a Host once,
// then re-points them at catalog bitmaps whenever the time changes.
package face

import (
	"fmt"
	"time"

	"handdrawn/gfx"
)

// Time is an hour (0-23) and minute (0-59).
type Time struct {
	Hour   int
	Minute int
}

// TimeOf returns the wall-clock hour and minute of t in t's location.
func TimeOf(t time.Time) Time {
	return Time{Hour: t.Hour(), Minute: t.Minute()}
}

func (t Time) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

// Digits returns the four displayed digits in slot order.
func (t Time) Digits() [SlotCount]int {
	return [SlotCount]int{
		TopLeft:     t.Hour / 10,
		TopRight:    t.Hour % 10,
		BottomLeft:  t.Minute / 10,
		BottomRight: t.Minute % 10,
	}
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// State is an initialized face: its catalog, its slots and the host they live on.
type State struct {
	host    Host
	catalog *Catalog
	slots   [SlotCount]Slot
}

// Initialize creates the four slots on screen, bound to the shared catalog.
// Every slot shows digit 0 until the first OnTimeChanged.
//
// On error nothing is left on the host.
func Initialize(host Host, screen gfx.Screen) (*State, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	slots, err := createSlots(host, screen, catalog)
	if err != nil {
		return nil, err
	}
	return &State{host: host, catalog: catalog, slots: slots}, nil
}

// OnTimeChanged re-points all four slots at the digits of t, top-left first. Each
// slot gets exactly one SetSource call, whether or not its digit changed.
//
// The first rejected call stops the update and is returned as a *SlotError of kind
// KindRebind; slots before it keep their new digit.
func (s *State) OnTimeChanged(t Time) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %d:%d", ErrTimeOutOfRange, t.Hour, t.Minute)
	}
	digits := t.Digits()
	for i, slot := range s.slots {
		if err := s.host.SetSource(slot.Image, s.catalog.Digit(digits[i])); err != nil {
			return &SlotError{Kind: KindRebind, Slot: slot.ID, Err: err}
		}
	}
	return nil
}

// Bound returns the digit the slot currently shows, as reported by the host.
func (s *State) Bound(id SlotID) (int, bool) {
	if int(id) >= SlotCount {
		return 0, false
	}
	src, err := s.host.Source(s.slots[id].Image)
	if err != nil || src == nil {
		return 0, false
	}
	return s.catalog.IndexOf(src)
}

// Slots returns the slot set in update order.
func (s *State) Slots() [SlotCount]Slot { return s.slots }

// Catalog returns the bitmaps the slots are bound to.
func (s *State) Catalog() *Catalog { return s.catalog }
