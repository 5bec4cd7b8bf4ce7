package face

import (
	"errors"
	"fmt"

	"handdrawn/gfx"
	"handdrawn/hal"
)

var errInjected = errors.New("injected host failure")

// recordingHost wraps a real gfx.Display, logs every call and fails the n-th call
// of a given method when asked to.
type recordingHost struct {
	*gfx.Display

	calls []string

	failCreateAt int // 1-based; 0 never fails
	failPosAt    int
	failSourceAt int

	creates, positions, sources int
}

func newRecordingHost() *recordingHost {
	return &recordingHost{Display: gfx.NewDisplay(hal.PanelWidth, hal.PanelHeight)}
}

func (h *recordingHost) CreateImage(parent gfx.Screen) (gfx.Image, error) {
	h.creates++
	h.calls = append(h.calls, "create")
	if h.creates == h.failCreateAt {
		return gfx.Image{}, errInjected
	}
	return h.Display.CreateImage(parent)
}

func (h *recordingHost) SetPos(img gfx.Image, x, y int) error {
	h.positions++
	h.calls = append(h.calls, fmt.Sprintf("pos %d,%d", x, y))
	if h.positions == h.failPosAt {
		return errInjected
	}
	return h.Display.SetPos(img, x, y)
}

func (h *recordingHost) SetSource(img gfx.Image, src gfx.Source) error {
	h.sources++
	h.calls = append(h.calls, "source")
	if h.sources == h.failSourceAt {
		return errInjected
	}
	return h.Display.SetSource(img, src)
}

func (h *recordingHost) Delete(img gfx.Image) error {
	h.calls = append(h.calls, "delete")
	return h.Display.Delete(img)
}

func (h *recordingHost) reset() {
	h.calls = nil
	h.creates, h.positions, h.sources = 0, 0, 0
	h.failCreateAt, h.failPosAt, h.failSourceAt = 0, 0, 0
}

func (h *recordingHost) count(call string) int {
	n := 0
	for _, c := range h.calls {
		if c == call {
			n++
		}
	}
	return n
}
