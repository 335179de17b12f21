package atlas

import (
	"image"

	"golang.org/x/image/draw"
)

// squeeze resamples src to half its height and stacks the result twice, so a
// texture scrolled vertically by half its height loops without a visible
// seam. The source is tiled three times before filtering so the filter wraps
// around at the top and bottom edges.
func squeeze(src *image.RGBA) *image.RGBA {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	half := h / 2
	if half == 0 {
		return src
	}

	tall := image.NewRGBA(image.Rect(0, 0, w, 3*h))
	for i := 0; i < 3; i++ {
		draw.Draw(tall, image.Rect(0, i*h, w, (i+1)*h), src, src.Bounds().Min, draw.Src)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, 3*half))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), tall, tall.Bounds(), draw.Src, nil)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	rowLen := w * 4
	for y := 0; y < h; y++ {
		// Middle third of the scaled strip, repeated; an odd last row
		// repeats the row above it.
		sy := half + min(y, 2*half-1)%half
		srcOff := scaled.PixOffset(0, sy)
		copy(out.Pix[y*out.Stride:y*out.Stride+rowLen], scaled.Pix[srcOff:srcOff+rowLen])
	}
	return out
}
