// Package gfx is a small retained-mode image toolkit for RGB565 displays.
//
// A Display owns a fixed pool of image objects placed on its active screen. Callers
// hold only opaque handles: an object lives until Delete, and a handle to a deleted
// object is rejected from then on, even if its pool slot is reused. Each image object
// renders an ImageDescriptor by reference; rebinding an object never copies pixels.
// Pixels are copied once per frame by Refresh, which composites all objects into a
// hal.Framebuffer.
//
// Display is not safe for concurrent use; drive it from a single control loop.
package gfx

import (
	"errors"
	"fmt"

	"handdrawn/hal"
)

var (
	ErrPoolExhausted     = errors.New("gfx: image object pool exhausted")
	ErrStaleObject       = errors.New("gfx: stale image object")
	ErrInvalidScreen     = errors.New("gfx: invalid screen")
	ErrOutOfBounds       = errors.New("gfx: position out of bounds")
	ErrNilSource         = errors.New("gfx: nil image source")
	ErrUnsupportedFormat = errors.New("gfx: unsupported color format")
	ErrFramebufferFormat = errors.New("gfx: incompatible framebuffer")
)

// DefaultMaxObjects is the object pool size used when no option overrides it.
const DefaultMaxObjects = 16

// Screen identifies a drawing surface of a Display.
type Screen struct {
	id uint8
}

func (s Screen) Valid() bool { return s.id != 0 }

// Image is a non-owning handle to an image object.
type Image struct {
	index uint16
	gen   uint16
}

func (i Image) Valid() bool { return i.gen != 0 }

func (i Image) String() string {
	return fmt.Sprintf("image#%d.%d", i.index, i.gen)
}

type object struct {
	inUse bool
	gen   uint16
	x     int
	y     int
	src   *ImageDescriptor
}

// Display is the object store and compositor for one screen.
type Display struct {
	width  int
	height int
	bg     uint16

	screen  Screen
	objects []object
	order   []uint16

	dirty bool
}

// Option configures a Display.
type Option func(*Display)

// WithMaxObjects sets the size of the image object pool.
func WithMaxObjects(n int) Option {
	return func(d *Display) {
		if n >= 0 {
			d.objects = make([]object, n)
		}
	}
}

// WithBackground sets the color behind all image objects.
func WithBackground(r, g, b uint8) Option {
	return func(d *Display) {
		d.bg = hal.RGB565(r, g, b)
	}
}

// NewDisplay returns a display of the given size with an empty object pool.
func NewDisplay(width, height int, opts ...Option) *Display {
	d := &Display{
		width:   width,
		height:  height,
		screen:  Screen{id: 1},
		objects: make([]object, DefaultMaxObjects),
		dirty:   true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Display) Width() int  { return d.width }
func (d *Display) Height() int { return d.height }

// ActiveScreen returns the screen new objects are placed on.
func (d *Display) ActiveScreen() Screen { return d.screen }

// Objects returns the number of live image objects.
func (d *Display) Objects() int { return len(d.order) }

// CreateImage allocates an image object on parent. The object starts with no source
// at position (0, 0).
func (d *Display) CreateImage(parent Screen) (Image, error) {
	if parent != d.screen {
		return Image{}, ErrInvalidScreen
	}
	for i := range d.objects {
		obj := &d.objects[i]
		if obj.inUse {
			continue
		}
		gen := obj.gen + 1
		if gen == 0 {
			gen = 1
		}
		*obj = object{inUse: true, gen: gen}
		d.order = append(d.order, uint16(i))
		d.dirty = true
		return Image{index: uint16(i), gen: gen}, nil
	}
	return Image{}, ErrPoolExhausted
}

// SetPos moves an object. The origin must lie on the screen; the object itself is
// clipped at the right and bottom edges.
func (d *Display) SetPos(img Image, x, y int) error {
	obj, err := d.lookup(img)
	if err != nil {
		return err
	}
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return fmt.Errorf("%w: (%d,%d) on %dx%d", ErrOutOfBounds, x, y, d.width, d.height)
	}
	if obj.x != x || obj.y != y {
		obj.x, obj.y = x, y
		d.dirty = true
	}
	return nil
}

// Pos returns the position of an object.
func (d *Display) Pos(img Image) (x, y int, err error) {
	obj, err := d.lookup(img)
	if err != nil {
		return 0, 0, err
	}
	return obj.x, obj.y, nil
}

// SetSource points an existing object at src.
func (d *Display) SetSource(img Image, src Source) error {
	obj, err := d.lookup(img)
	if err != nil {
		return err
	}
	desc, ok := src.(*ImageDescriptor)
	if !ok || desc == nil {
		return ErrNilSource
	}
	if desc.header.Format != ColorFormatTrueColor {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, desc.header.Format)
	}
	if obj.src != desc {
		obj.src = desc
		d.dirty = true
	}
	return nil
}

// Source returns the descriptor an object renders, or nil if it has none yet.
func (d *Display) Source(img Image) (Source, error) {
	obj, err := d.lookup(img)
	if err != nil {
		return nil, err
	}
	if obj.src == nil {
		return nil, nil
	}
	return obj.src, nil
}

// Delete releases an object. Its handle, and any copy of it, becomes stale.
func (d *Display) Delete(img Image) error {
	if _, err := d.lookup(img); err != nil {
		return err
	}
	obj := &d.objects[img.index]
	obj.inUse = false
	obj.src = nil
	for i, idx := range d.order {
		if idx == img.index {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.dirty = true
	return nil
}

// Invalidate forces the next Refresh to redraw.
func (d *Display) Invalidate() { d.dirty = true }

// Dirty reports whether the screen changed since the last Refresh.
func (d *Display) Dirty() bool { return d.dirty }

func (d *Display) lookup(img Image) (*object, error) {
	if !img.Valid() || int(img.index) >= len(d.objects) {
		return nil, ErrStaleObject
	}
	obj := &d.objects[img.index]
	if !obj.inUse || obj.gen != img.gen {
		return nil, fmt.Errorf("%w: %s", ErrStaleObject, img)
	}
	return obj, nil
}
