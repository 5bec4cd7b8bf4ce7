package gfx

import (
	"fmt"
	"sync"

	"handdrawn/hal"
)

// Refresh composites the screen into fb and presents it, if anything changed since
// the previous successful Refresh.
func (d *Display) Refresh(fb hal.Framebuffer) error {
	if !d.dirty {
		return nil
	}
	if b, ok := fb.(hal.Banded); ok {
		if err := d.renderBanded(fb, b); err != nil {
			return err
		}
		d.dirty = false
		return nil
	}
	if err := d.Render(fb); err != nil {
		return err
	}
	if err := fb.Present(); err != nil {
		return fmt.Errorf("gfx: present: %w", err)
	}
	d.dirty = false
	return nil
}

// Render draws the background and every object, in creation order, into fb.
//
// Framebuffers implementing sync.Locker are locked for the duration of the draw.
func (d *Display) Render(fb hal.Framebuffer) error {
	if err := d.checkFramebuffer(fb); err != nil {
		return err
	}
	if l, ok := fb.(sync.Locker); ok {
		l.Lock()
		defer l.Unlock()
	}
	buf := fb.Buffer()
	stride := fb.StrideBytes()
	if buf == nil || stride < d.width*2 || len(buf) < stride*(d.height-1)+d.width*2 {
		return ErrFramebufferFormat
	}
	d.renderRows(buf, stride, 0, d.height)
	return nil
}

func (d *Display) renderBanded(fb hal.Framebuffer, b hal.Banded) error {
	if err := d.checkFramebuffer(fb); err != nil {
		return err
	}
	band := b.Band()
	stride := fb.StrideBytes()
	rows := b.BandRows()
	if rows <= 0 || stride < d.width*2 || len(band) < stride*rows {
		return ErrFramebufferFormat
	}
	for y := 0; y < d.height; y += rows {
		n := rows
		if y+n > d.height {
			n = d.height - y
		}
		d.renderRows(band, stride, y, n)
		if err := b.FlushBand(y, n); err != nil {
			return fmt.Errorf("gfx: flush rows %d-%d: %w", y, y+n-1, err)
		}
	}
	return nil
}

func (d *Display) checkFramebuffer(fb hal.Framebuffer) error {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return ErrFramebufferFormat
	}
	if fb.Width() < d.width || fb.Height() < d.height {
		return fmt.Errorf("%w: %dx%d smaller than screen %dx%d",
			ErrFramebufferFormat, fb.Width(), fb.Height(), d.width, d.height)
	}
	return nil
}

// renderRows composites screen rows [y0, y0+rows) into dst, whose first row is y0.
func (d *Display) renderRows(dst []byte, stride, y0, rows int) {
	lo, hi := byte(d.bg), byte(d.bg>>8)
	for r := 0; r < rows; r++ {
		row := dst[r*stride : r*stride+d.width*2]
		for i := 0; i < len(row); i += 2 {
			row[i] = lo
			row[i+1] = hi
		}
	}

	for _, idx := range d.order {
		obj := &d.objects[idx]
		if obj.src == nil {
			continue
		}
		d.blit(dst, stride, y0, rows, obj)
	}
}

// blit copies the part of obj that falls on rows [y0, y0+rows), clipped to the screen.
func (d *Display) blit(dst []byte, stride, y0, rows int, obj *object) {
	src := obj.src
	w := src.header.Width
	if obj.x+w > d.width {
		w = d.width - obj.x
	}
	top := obj.y
	if top < y0 {
		top = y0
	}
	bottom := obj.y + src.header.Height
	if bottom > d.height {
		bottom = d.height
	}
	if bottom > y0+rows {
		bottom = y0 + rows
	}
	if w <= 0 || top >= bottom {
		return
	}
	srcStride := src.header.Width * 2
	for y := top; y < bottom; y++ {
		off := (y-y0)*stride + obj.x*2
		s := (y - obj.y) * srcStride
		copy(dst[off:off+w*2], src.data[s:s+w*2])
	}
}
