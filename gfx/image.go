package gfx

import "fmt"

// ColorFormat tags the pixel encoding of an image descriptor.
type ColorFormat uint8

const (
	// ColorFormatTrueColor is 16bpp RGB565, little-endian, matching the framebuffer.
	ColorFormatTrueColor ColorFormat = iota + 1
)

func (f ColorFormat) String() string {
	switch f {
	case ColorFormatTrueColor:
		return "true-color"
	default:
		return fmt.Sprintf("ColorFormat(%d)", uint8(f))
	}
}

// BytesPerPixel returns the storage size of one pixel, or 0 for unknown formats.
func (f ColorFormat) BytesPerPixel() int {
	switch f {
	case ColorFormatTrueColor:
		return 2
	default:
		return 0
	}
}

// ImageHeader describes the geometry and encoding of a bitmap.
type ImageHeader struct {
	Format ColorFormat
	Width  int
	Height int
}

// DataSize returns the number of pixel bytes an image with this header holds.
func (h ImageHeader) DataSize() int {
	return h.Width * h.Height * h.Format.BytesPerPixel()
}

// Source is something an image object can render.
//
// The interface is sealed: only *ImageDescriptor implements it, so a source always
// carries a validated header.
type Source interface {
	Header() ImageHeader
	imageSource()
}

// ImageDescriptor is an immutable bitmap: a header plus a reference to raw pixels.
//
// Descriptors are referenced, never copied, by image objects. Pixels are held as a
// string, so a descriptor built from embedded data points at read-only program
// memory and nothing can write through it.
type ImageDescriptor struct {
	header ImageHeader
	data   string
}

// NewImageDescriptor validates data against the header and returns a descriptor
// holding its own copy of data.
func NewImageDescriptor(h ImageHeader, data []byte) (*ImageDescriptor, error) {
	if err := validate(h, len(data)); err != nil {
		return nil, err
	}
	return &ImageDescriptor{header: h, data: string(data)}, nil
}

// NewStaticImageDescriptor is NewImageDescriptor for pixels that already live in
// read-only memory, such as a //go:embed string. The pixels are referenced, not
// copied.
func NewStaticImageDescriptor(h ImageHeader, data string) (*ImageDescriptor, error) {
	if err := validate(h, len(data)); err != nil {
		return nil, err
	}
	return &ImageDescriptor{header: h, data: data}, nil
}

func validate(h ImageHeader, n int) error {
	if h.Format.BytesPerPixel() == 0 {
		return fmt.Errorf("gfx: image format %s: %w", h.Format, ErrUnsupportedFormat)
	}
	if h.Width <= 0 || h.Height <= 0 {
		return fmt.Errorf("gfx: invalid image size %dx%d", h.Width, h.Height)
	}
	if n != h.DataSize() {
		return fmt.Errorf("gfx: image data is %d bytes, want %d", n, h.DataSize())
	}
	return nil
}

func (d *ImageDescriptor) Header() ImageHeader { return d.header }
func (d *ImageDescriptor) Width() int          { return d.header.Width }
func (d *ImageDescriptor) Height() int         { return d.header.Height }
func (d *ImageDescriptor) DataSize() int       { return len(d.data) }

// Pixels returns a read-only view of the raw pixel buffer.
func (d *ImageDescriptor) Pixels() string { return d.data }

// Data returns a copy of the raw pixel buffer.
func (d *ImageDescriptor) Data() []byte { return []byte(d.data) }

func (d *ImageDescriptor) imageSource() {}
