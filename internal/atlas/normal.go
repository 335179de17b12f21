package atlas

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/Faultbox/texcomp/pkg/level"
	"github.com/Faultbox/texcomp/pkg/math"
)

type bumpParams struct {
	strength  float32
	threshold float32 // gradients below this are treated as flat
}

var bumpTable = map[level.BumpLevel]bumpParams{
	level.BumpLevel1: {strength: 1.5, threshold: 0.06},
	level.BumpLevel2: {strength: 3.0, threshold: 0.04},
	level.BumpLevel3: {strength: 5.0, threshold: 0.02},
}

// Sobel kernels scaled by 1/8 so the signed response fits a biased byte.
var (
	sobelX = [9]float64{
		-1.0 / 8, 0, 1.0 / 8,
		-2.0 / 8, 0, 2.0 / 8,
		-1.0 / 8, 0, 1.0 / 8,
	}
	sobelY = [9]float64{
		-1.0 / 8, -2.0 / 8, -1.0 / 8,
		0, 0, 0,
		1.0 / 8, 2.0 / 8, 1.0 / 8,
	}
)

// normalMap derives a tangent-space normal map from the luminance of src.
// BumpNone yields a flat normal.
func normalMap(src *image.RGBA, lvl level.BumpLevel) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	params, ok := bumpTable[lvl]
	if !ok {
		fill(out, out.Bounds(), flatNormal)
		return out
	}

	gray := imaging.Grayscale(src)
	opts := &imaging.ConvolveOptions{Bias: 128}
	gx := imaging.Convolve3x3(gray, sobelX, opts)
	gy := imaging.Convolve3x3(gray, sobelY, opts)

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			off := gx.PixOffset(x, y)
			dx := (float32(gx.Pix[off]) - 128) / 127
			dy := (float32(gy.Pix[off]) - 128) / 127
			if dx > -params.threshold && dx < params.threshold {
				dx = 0
			}
			if dy > -params.threshold && dy < params.threshold {
				dy = 0
			}
			n := math.Vec3{X: -dx * params.strength, Y: -dy * params.strength, Z: 1}.Normalize()
			r, g, bl := n.EncodeNormal()
			o := out.PixOffset(x, y)
			out.Pix[o] = r
			out.Pix[o+1] = g
			out.Pix[o+2] = bl
			out.Pix[o+3] = 255
		}
	}
	return out
}
