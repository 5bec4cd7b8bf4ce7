package face

import (
	"errors"
	"fmt"

	"handdrawn/gfx"
)

// SlotID names one of the four digit positions, in update order.
type SlotID uint8

const (
	TopLeft SlotID = iota
	TopRight
	BottomLeft
	BottomRight
)

// SlotCount is the number of digit slots on the face.
const SlotCount = 4

func (s SlotID) String() string {
	switch s {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	default:
		return fmt.Sprintf("SlotID(%d)", uint8(s))
	}
}

var slotOrigins = [SlotCount]struct{ x, y int }{
	TopLeft:     {40, 20},
	TopRight:    {120, 20},
	BottomLeft:  {40, 120},
	BottomRight: {120, 120},
}

// Origin returns the top-left pixel of the slot on a 240x240 screen.
func (s SlotID) Origin() (x, y int) {
	if int(s) >= SlotCount {
		return 0, 0
	}
	o := slotOrigins[s]
	return o.x, o.y
}

// Slot is a fixed position on the screen and the host object drawn there.
type Slot struct {
	ID    SlotID
	X, Y  int
	Image gfx.Image
}

// createSlots creates, positions and binds the four slot objects, or none of them.
func createSlots(host Host, screen gfx.Screen, catalog *Catalog) ([SlotCount]Slot, error) {
	var slots [SlotCount]Slot
	created := 0

	fail := func(err error) ([SlotCount]Slot, error) {
		var errs []error
		for i := created - 1; i >= 0; i-- {
			if derr := host.Delete(slots[i].Image); derr != nil {
				errs = append(errs, fmt.Errorf("face: rollback slot %s: %w", slots[i].ID, derr))
			}
		}
		if len(errs) > 0 {
			err = errors.Join(append([]error{err}, errs...)...)
		}
		return [SlotCount]Slot{}, err
	}

	initial := catalog.Digit(0)
	for i := range slots {
		id := SlotID(i)
		x, y := id.Origin()

		img, err := host.CreateImage(screen)
		if err != nil {
			return fail(&SlotError{Kind: KindWidgetCreation, Slot: id, Err: err})
		}
		slots[i] = Slot{ID: id, X: x, Y: y, Image: img}
		created++

		if err := host.SetPos(img, x, y); err != nil {
			return fail(&SlotError{Kind: KindPositioning, Slot: id, Err: err})
		}
		if err := host.SetSource(img, initial); err != nil {
			return fail(&SlotError{Kind: KindRebind, Slot: id, Err: err})
		}
	}
	return slots, nil
}
