package face

import (
	_ "embed"
	"fmt"

	"handdrawn/gfx"
)

const (
	GlyphWidth    = 80
	GlyphHeight   = 100
	BytesPerPixel = 2
	GlyphDataSize = GlyphWidth * GlyphHeight * BytesPerPixel
	DigitCount    = 10
)

// Raw RGB565 little-endian pixels, regenerated by cmd/mkglyphs. Embedded as
// strings so they stay in read-only program memory.
var (
	//go:embed bitmaps/0.bin
	glyph0 string
	//go:embed bitmaps/1.bin
	glyph1 string
	//go:embed bitmaps/2.bin
	glyph2 string
	//go:embed bitmaps/3.bin
	glyph3 string
	//go:embed bitmaps/4.bin
	glyph4 string
	//go:embed bitmaps/5.bin
	glyph5 string
	//go:embed bitmaps/6.bin
	glyph6 string
	//go:embed bitmaps/7.bin
	glyph7 string
	//go:embed bitmaps/8.bin
	glyph8 string
	//go:embed bitmaps/9.bin
	glyph9 string
)

// GlyphHeader returns the header shared by every catalog entry.
func GlyphHeader() gfx.ImageHeader {
	return gfx.ImageHeader{
		Format: gfx.ColorFormatTrueColor,
		Width:  GlyphWidth,
		Height: GlyphHeight,
	}
}

// Catalog holds one image descriptor per decimal digit, indexed by digit value.
type Catalog struct {
	glyphs [DigitCount]*gfx.ImageDescriptor
}

var catalog = buildCatalog([DigitCount]string{
	glyph0, glyph1, glyph2, glyph3, glyph4,
	glyph5, glyph6, glyph7, glyph8, glyph9,
})

// DefaultCatalog returns the catalog of embedded digits. It is built once at
// program start and shared by every caller.
func DefaultCatalog() *Catalog { return catalog }

// buildCatalog wraps the bitmaps without copying them. A mis-sized bitmap is a
// build defect and panics.
func buildCatalog(bitmaps [DigitCount]string) *Catalog {
	c := &Catalog{}
	for d, data := range bitmaps {
		desc, err := gfx.NewStaticImageDescriptor(GlyphHeader(), data)
		if err != nil {
			panic(fmt.Sprintf("face: bitmaps/%d.bin: %v", d, err))
		}
		c.glyphs[d] = desc
	}
	return c
}

// Digit returns the descriptor for d, or nil if d is not in 0..9.
func (c *Catalog) Digit(d int) *gfx.ImageDescriptor {
	if d < 0 || d >= DigitCount {
		return nil
	}
	return c.glyphs[d]
}

// IndexOf finds the digit whose descriptor is src. Only the identical descriptor
// matches; a copy with equal pixels does not.
func (c *Catalog) IndexOf(src gfx.Source) (int, bool) {
	desc, ok := src.(*gfx.ImageDescriptor)
	if !ok || desc == nil {
		return 0, false
	}
	for d, g := range c.glyphs {
		if g == desc {
			return d, true
		}
	}
	return 0, false
}
