package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Decode decodes data in the format named by ext (".tga", ".bmp" or ".png").
// Level textures mark transparency with magenta; colorKey clears those
// pixels.
func Decode(data []byte, ext string, colorKey bool) (*image.RGBA, error) {
	var img image.Image
	var err error
	switch strings.ToLower(ext) {
	case ".tga":
		img, err = DecodeTGA(data)
	case ".bmp":
		img, err = bmp.Decode(bytes.NewReader(data))
	case ".png":
		img, err = png.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported image format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return ImageToRGBA(img, colorKey), nil
}

// DecodeFile reads and decodes the image at path.
func DecodeFile(path string, colorKey bool) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data, filepath.Ext(path), colorKey)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// IsMagentaKey reports whether a color is the magenta transparency key.
// The tolerance absorbs rounding in 16-bit and paletted sources.
func IsMagentaKey(r, g, b uint8) bool {
	return r >= 250 && g <= 10 && b >= 250
}

// ApplyMagentaKey turns magenta pixels into transparent black in place.
// Black keeps filtered edges from picking up a pink fringe.
func ApplyMagentaKey(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			p := img.Pix[off+x*4 : off+x*4+4]
			if IsMagentaKey(p[0], p[1], p[2]) {
				p[0], p[1], p[2], p[3] = 0, 0, 0, 0
			}
		}
	}
}

// ImageToRGBA converts img to a zero-origin *image.RGBA. An *image.RGBA at
// the origin is reused, so colorKey modifies it in place.
func ImageToRGBA(img image.Image, colorKey bool) *image.RGBA {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Bounds().Min != (image.Point{}) {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	if colorKey {
		ApplyMagentaKey(rgba)
	}
	return rgba
}
