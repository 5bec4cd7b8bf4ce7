package gfx

import (
	"errors"
	"testing"

	"handdrawn/hal"
)

type testFramebuffer struct {
	w, h     int
	buf      []byte
	presents int
}

func newTestFramebuffer(w, h int) *testFramebuffer {
	return &testFramebuffer{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *testFramebuffer) Width() int              { return f.w }
func (f *testFramebuffer) Height() int             { return f.h }
func (f *testFramebuffer) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *testFramebuffer) StrideBytes() int        { return f.w * 2 }
func (f *testFramebuffer) Buffer() []byte          { return f.buf }
func (f *testFramebuffer) ClearRGB(r, g, b uint8)  {}
func (f *testFramebuffer) Present() error          { f.presents++; return nil }

func (f *testFramebuffer) pixel(x, y int) uint16 {
	off := y*f.w*2 + x*2
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}

// bandedFramebuffer collects flushed bands into a full frame.
type bandedFramebuffer struct {
	*testFramebuffer
	rows    int
	band    []byte
	flushes int
}

func (f *bandedFramebuffer) Buffer() []byte { return nil }
func (f *bandedFramebuffer) BandRows() int  { return f.rows }
func (f *bandedFramebuffer) Band() []byte   { return f.band }

func (f *bandedFramebuffer) FlushBand(y, rows int) error {
	f.flushes++
	copy(f.buf[y*f.w*2:], f.band[:rows*f.w*2])
	return nil
}

func TestRenderComposites(t *testing.T) {
	d := NewDisplay(8, 6, WithBackground(0, 0, 255))
	fb := newTestFramebuffer(8, 6)

	a, _ := d.CreateImage(d.ActiveScreen())
	b, _ := d.CreateImage(d.ActiveScreen())
	_ = d.SetPos(a, 1, 1)
	_ = d.SetSource(a, testDescriptor(t, 3, 3, 0xAAAA))
	_ = d.SetPos(b, 3, 2)
	_ = d.SetSource(b, testDescriptor(t, 10, 10, 0x5555))

	if err := d.Refresh(fb); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	bg := hal.RGB565(0, 0, 255)
	cases := []struct {
		x, y int
		want uint16
	}{
		{0, 0, bg},
		{1, 1, 0xAAAA},
		{2, 1, 0xAAAA},
		{3, 1, 0xAAAA},
		{4, 1, bg},
		{3, 2, 0x5555}, // later objects draw on top
		{7, 5, 0x5555}, // clipped at the screen edge
		{1, 4, bg},
	}
	for _, tc := range cases {
		if got := fb.pixel(tc.x, tc.y); got != tc.want {
			t.Fatalf("pixel(%d,%d) = %#04x, want %#04x", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestRenderSkipsUnboundAndDeleted(t *testing.T) {
	d := NewDisplay(4, 4)
	fb := newTestFramebuffer(4, 4)
	a, _ := d.CreateImage(d.ActiveScreen())
	_ = d.SetSource(a, testDescriptor(t, 4, 4, 0xFFFF))
	_, _ = d.CreateImage(d.ActiveScreen())
	_ = d.Delete(a)

	if err := d.Refresh(fb); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	for i, v := range fb.buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %#x, want 0", i, v)
		}
	}
}

func TestRefreshBanded(t *testing.T) {
	const w, h = 6, 10
	full := NewDisplay(w, h)
	banded := NewDisplay(w, h)
	for _, d := range []*Display{full, banded} {
		img, _ := d.CreateImage(d.ActiveScreen())
		_ = d.SetPos(img, 2, 3)
		_ = d.SetSource(img, testDescriptor(t, 3, 5, 0x0F0F))
	}

	want := newTestFramebuffer(w, h)
	if err := full.Refresh(want); err != nil {
		t.Fatalf("Refresh(full) error = %v", err)
	}

	got := &bandedFramebuffer{testFramebuffer: newTestFramebuffer(w, h), rows: 4, band: make([]byte, w*2*4)}
	if err := banded.Refresh(got); err != nil {
		t.Fatalf("Refresh(banded) error = %v", err)
	}
	if got.flushes != 3 {
		t.Fatalf("flushes = %d, want 3", got.flushes)
	}
	if got.presents != 0 {
		t.Fatalf("presents = %d, want 0 for a banded panel", got.presents)
	}
	for i := range want.buf {
		if got.buf[i] != want.buf[i] {
			t.Fatalf("banded frame differs at byte %d: %#x, want %#x", i, got.buf[i], want.buf[i])
		}
	}
}

func TestRefreshRejectsSmallFramebuffer(t *testing.T) {
	d := NewDisplay(240, 240)
	if err := d.Refresh(newTestFramebuffer(100, 100)); !errors.Is(err, ErrFramebufferFormat) {
		t.Fatalf("Refresh() error = %v, want %v", err, ErrFramebufferFormat)
	}
	if !d.Dirty() {
		t.Fatal("failed Refresh cleared the dirty flag")
	}
}
