package main

import "handdrawn/face"

// Stroke half-thickness in pixels. Segment ends are bevelled by shortening each
// stroke by its distance from the centre line.
const halfThickness = 5

// Segment bits, abcdefg order.
const (
	segA = 1 << iota
	segB
	segC
	segD
	segE
	segF
	segG
)

var digitSegments = [face.DigitCount]uint8{
	segA | segB | segC | segD | segE | segF,        // 0
	segB | segC,                                    // 1
	segA | segB | segD | segE | segG,               // 2
	segA | segB | segC | segD | segG,               // 3
	segB | segC | segF | segG,                      // 4
	segA | segC | segD | segF | segG,               // 5
	segA | segC | segD | segE | segF | segG,        // 6
	segA | segB | segC,                             // 7
	segA | segB | segC | segD | segE | segF | segG, // 8
	segA | segB | segC | segD | segF | segG,        // 9
}

type hSegment struct {
	bit    uint8
	cy     int
	x0, x1 int
}

type vSegment struct {
	bit    uint8
	cx     int
	y0, y1 int
}

var hSegments = []hSegment{
	{segA, 10, 14, 66},
	{segG, 50, 14, 66},
	{segD, 90, 14, 66},
}

var vSegments = []vSegment{
	{segF, 12, 12, 49},
	{segB, 68, 12, 49},
	{segE, 12, 51, 88},
	{segC, 68, 51, 88},
}

const (
	lit   = 0xFFFF
	unlit = 0x0000
)

// glyph renders digit d as face.GlyphWidth x face.GlyphHeight RGB565 pixels,
// little-endian, row-major.
func glyph(d int) []byte {
	mask := digitSegments[d]
	out := make([]byte, face.GlyphDataSize)
	for y := 0; y < face.GlyphHeight; y++ {
		for x := 0; x < face.GlyphWidth; x++ {
			p := uint16(unlit)
			if segmentAt(mask, x, y) {
				p = lit
			}
			off := (y*face.GlyphWidth + x) * face.BytesPerPixel
			out[off] = byte(p)
			out[off+1] = byte(p >> 8)
		}
	}
	return out
}

func segmentAt(mask uint8, x, y int) bool {
	for _, s := range hSegments {
		if mask&s.bit == 0 {
			continue
		}
		dy := abs(y - s.cy)
		if dy < halfThickness && x >= s.x0+dy && x < s.x1-dy {
			return true
		}
	}
	for _, s := range vSegments {
		if mask&s.bit == 0 {
			continue
		}
		dx := abs(x - s.cx)
		if dx < halfThickness && y >= s.y0+dx && y < s.y1-dx {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
