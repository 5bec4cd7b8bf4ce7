package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"handdrawn/face"
	"handdrawn/hal"
)

func main() {
	var (
		outDir    = flag.String("out", "face/bitmaps", "Directory for the 0.bin .. 9.bin files.")
		sheetPath = flag.String("sheet", "", "Also write a PNG contact sheet of all digits.")
		scale     = flag.Int("scale", 1, "Contact sheet scale factor.")
		check     = flag.Bool("check", false, "Compare existing files instead of writing them.")
	)
	flag.Parse()

	if *check {
		if err := checkGlyphs(*outDir); err != nil {
			fatalf("check: %v", err)
		}
		return
	}
	if err := writeGlyphs(*outDir); err != nil {
		fatalf("write: %v", err)
	}
	if *sheetPath != "" {
		if err := writeSheet(*sheetPath, *scale); err != nil {
			fatalf("sheet: %v", err)
		}
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func glyphPath(dir string, d int) string {
	return filepath.Join(dir, fmt.Sprintf("%d.bin", d))
}

func writeGlyphs(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for d := 0; d < face.DigitCount; d++ {
		if err := os.WriteFile(glyphPath(dir, d), glyph(d), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func checkGlyphs(dir string) error {
	for d := 0; d < face.DigitCount; d++ {
		got, err := os.ReadFile(glyphPath(dir, d))
		if err != nil {
			return err
		}
		if !bytes.Equal(got, glyph(d)) {
			return fmt.Errorf("%s is stale; rerun mkglyphs", glyphPath(dir, d))
		}
	}
	return nil
}

func writeSheet(path string, scale int) error {
	if scale < 1 || scale > 8 {
		return fmt.Errorf("scale out of range: %d", scale)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, sheet(scale)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// sheet lays the ten digits out left to right.
func sheet(scale int) *image.RGBA {
	w, h := face.GlyphWidth, face.GlyphHeight
	img := image.NewRGBA(image.Rect(0, 0, w*face.DigitCount*scale, h*scale))
	for d := 0; d < face.DigitCount; d++ {
		data := glyph(d)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				off := (y*w + x) * 2
				r, g, b := hal.RGB888(uint16(data[off]) | uint16(data[off+1])<<8)
				c := color.RGBA{R: r, G: g, B: b, A: 255}
				for sy := 0; sy < scale; sy++ {
					for sx := 0; sx < scale; sx++ {
						img.SetRGBA((d*w+x)*scale+sx, y*scale+sy, c)
					}
				}
			}
		}
	}
	return img
}
