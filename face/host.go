package face

import "handdrawn/gfx"

// Host is the graphics toolkit the face draws with. *gfx.Display implements it.
//
// Image handles are owned by the host; the face only keeps them to re-point the
// objects at other sources.
type Host interface {
	ActiveScreen() gfx.Screen
	CreateImage(parent gfx.Screen) (gfx.Image, error)
	SetPos(img gfx.Image, x, y int) error
	SetSource(img gfx.Image, src gfx.Source) error

	// Source reports what img currently renders; nil if nothing was bound yet.
	Source(img gfx.Image) (gfx.Source, error)
	Delete(img gfx.Image) error
}

var _ Host = (*gfx.Display)(nil)
