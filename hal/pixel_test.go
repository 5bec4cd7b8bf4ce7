package hal

import "testing"

func TestRGB565(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    uint16
	}{
		{0, 0, 0, 0x0000},
		{255, 255, 255, 0xFFFF},
		{255, 0, 0, 0xF800},
		{0, 255, 0, 0x07E0},
		{0, 0, 255, 0x001F},
	}
	for _, tc := range cases {
		if got := RGB565(tc.r, tc.g, tc.b); got != tc.want {
			t.Fatalf("RGB565(%d,%d,%d) = %#04x, want %#04x", tc.r, tc.g, tc.b, got, tc.want)
		}
		r, g, b := RGB888(tc.want)
		if RGB565(r, g, b) != tc.want {
			t.Fatalf("RGB888(%#04x) = %d,%d,%d does not round-trip", tc.want, r, g, b)
		}
	}
}

func TestSwapRGB565(t *testing.T) {
	src := []byte{0x34, 0x12, 0x78, 0x56, 0x9A}
	dst := make([]byte, 4)
	if n := swapRGB565(dst, src); n != 4 {
		t.Fatalf("swapRGB565() = %d, want 4", n)
	}
	want := []byte{0x12, 0x34, 0x56, 0x78}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = % x, want % x", dst, want)
		}
	}

	swapRGB565(src, src)
	if src[0] != 0x12 || src[1] != 0x34 || src[4] != 0x9A {
		t.Fatalf("in-place swap = % x", src)
	}
}
