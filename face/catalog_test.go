package face

import (
	"runtime"
	"testing"
	"unsafe"

	"gotest.tools/assert"

	"handdrawn/gfx"
)

func TestCatalogEntries(t *testing.T) {
	c := DefaultCatalog()
	for d := 0; d < DigitCount; d++ {
		g := c.Digit(d)
		assert.Assert(t, g != nil, "digit %d", d)
		assert.Equal(t, g.Width(), GlyphWidth)
		assert.Equal(t, g.Height(), GlyphHeight)
		assert.Equal(t, g.DataSize(), GlyphDataSize)
		assert.Equal(t, g.Header().Format, gfx.ColorFormatTrueColor)
		assert.Equal(t, GlyphDataSize, 16000)
	}
}

func TestCatalogEntriesDistinct(t *testing.T) {
	c := DefaultCatalog()
	for a := 0; a < DigitCount; a++ {
		for b := a + 1; b < DigitCount; b++ {
			assert.Assert(t, c.Digit(a) != c.Digit(b))
			assert.Assert(t, c.Digit(a).Pixels() != c.Digit(b).Pixels(),
				"digits %d and %d have identical pixels", a, b)
		}
	}
}

func TestCatalogDigitOutOfRange(t *testing.T) {
	c := DefaultCatalog()
	assert.Assert(t, c.Digit(-1) == nil)
	assert.Assert(t, c.Digit(DigitCount) == nil)
}

func TestCatalogIndexOf(t *testing.T) {
	c := DefaultCatalog()
	for d := 0; d < DigitCount; d++ {
		got, ok := c.IndexOf(c.Digit(d))
		assert.Assert(t, ok)
		assert.Equal(t, got, d)
	}

	// Equal pixels are not enough: lookup is by identity.
	copyOf, err := gfx.NewImageDescriptor(GlyphHeader(), c.Digit(3).Data())
	assert.NilError(t, err)
	_, ok := c.IndexOf(copyOf)
	assert.Assert(t, !ok)

	_, ok = c.IndexOf(nil)
	assert.Assert(t, !ok)
}

func TestCatalogReferencesEmbeddedPixels(t *testing.T) {
	embedded := [DigitCount]string{
		glyph0, glyph1, glyph2, glyph3, glyph4,
		glyph5, glyph6, glyph7, glyph8, glyph9,
	}
	c := DefaultCatalog()
	for d, data := range embedded {
		assert.Assert(t, unsafe.StringData(c.Digit(d).Pixels()) == unsafe.StringData(data), "digit %d", d)
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	built := buildCatalog(embedded)
	runtime.ReadMemStats(&after)
	allocated := after.TotalAlloc - before.TotalAlloc
	assert.Assert(t, built.Digit(9) != nil)
	assert.Assert(t, allocated < GlyphDataSize, "building a catalog allocated %d bytes", allocated)
}

func TestCatalogBuiltOnce(t *testing.T) {
	assert.Assert(t, DefaultCatalog() == DefaultCatalog())
	allocs := testing.AllocsPerRun(10, func() { _ = DefaultCatalog() })
	assert.Equal(t, allocs, 0.0)

	// Every face, including one re-created after a failure, shares the same
	// descriptors.
	var states []*State
	for i := 0; i < 2; i++ {
		d := gfx.NewDisplay(240, 240)
		s, err := Initialize(d, d.ActiveScreen())
		assert.NilError(t, err)
		states = append(states, s)
	}
	assert.Assert(t, states[0].Catalog() == states[1].Catalog())
	for d := 0; d < DigitCount; d++ {
		assert.Assert(t, states[0].Catalog().Digit(d) == states[1].Catalog().Digit(d))
	}
}

func TestCatalogPixelsCannotBeWritten(t *testing.T) {
	g := DefaultCatalog().Digit(8)
	before := g.Pixels()

	data := g.Data()
	for i := range data {
		data[i] ^= 0xFF
	}
	assert.Equal(t, g.Pixels(), before)
	assert.Equal(t, DefaultCatalog().Digit(8).Pixels(), glyph8)
}
