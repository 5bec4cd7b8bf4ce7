package hal

// RGB565 packs an 8-bit-per-channel color into rrrrrggggggbbbbb.
func RGB565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

// RGB888 expands an RGB565 pixel to 8 bits per channel.
func RGB888(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// swapRGB565 converts little-endian pixels in src to the big-endian order most SPI
// panels expect. dst and src may be the same slice.
func swapRGB565(dst, src []byte) int {
	n := len(src) &^ 1
	if len(dst) < n {
		n = len(dst) &^ 1
	}
	for i := 0; i < n; i += 2 {
		lo, hi := src[i], src[i+1]
		dst[i] = hi
		dst[i+1] = lo
	}
	return n
}
