//go:build !tinygo

package hal

import "sync"

// hostFramebuffer is an in-memory RGB565 panel. It implements sync.Locker so a
// compositor can draw while the window or web preview takes snapshots.
type hostFramebuffer struct {
	mu       sync.Mutex
	width    int
	height   int
	stride   int
	buf      []byte
	presents uint64
	present  func() error
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

func (f *hostFramebuffer) Lock()   { f.mu.Lock() }
func (f *hostFramebuffer) Unlock() { f.mu.Unlock() }

// Present counts frames and forwards to the backend hook, if any. The hook runs
// with the framebuffer locked.
func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presents++
	if f.present != nil {
		return f.present()
	}
	return nil
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pixel := RGB565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *hostFramebuffer) SnapshotRGB565(dst []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copy(dst, f.buf)
}

func (f *hostFramebuffer) presentCount() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presents
}
