// Package texture decodes source images into RGBA pixels.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

const tgaHeaderSize = 18

// ErrTruncatedTGA is returned when pixel data ends early.
var ErrTruncatedTGA = errors.New("tga data truncated")

// tgaReader walks TGA pixel data in file order.
type tgaReader struct {
	data          []byte
	pos           int
	bytesPerPixel int
}

func (r *tgaReader) pixel() (color.RGBA, bool) {
	if r.pos+r.bytesPerPixel > len(r.data) {
		return color.RGBA{}, false
	}
	p := r.data[r.pos:]
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.bytesPerPixel == 4 {
		c.A = p[3]
	}
	r.pos += r.bytesPerPixel
	return c, true
}

// DecodeTGA decodes an uncompressed or RLE true-color TGA image with 24 or
// 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: header", ErrTruncatedTGA)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped tga not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported tga type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported tga bit depth %d", bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: id field", ErrTruncatedTGA)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	r := &tgaReader{data: data[offset:], bytesPerPixel: bpp / 8}
	set := func(i int, c color.RGBA) {
		x, y := i%width, i/width
		if !topToBottom {
			y = height - 1 - y
		}
		img.SetRGBA(x, y, c)
	}

	total := width * height
	if imageType == TGATypeUncompressed {
		for i := 0; i < total; i++ {
			c, ok := r.pixel()
			if !ok {
				return nil, fmt.Errorf("%w: pixel %d of %d", ErrTruncatedTGA, i, total)
			}
			set(i, c)
		}
		return img, nil
	}

	for i := 0; i < total; {
		if r.pos >= len(r.data) {
			return nil, fmt.Errorf("%w: pixel %d of %d", ErrTruncatedTGA, i, total)
		}
		packet := r.data[r.pos]
		r.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			c, ok := r.pixel()
			if !ok {
				return nil, fmt.Errorf("%w: run at pixel %d", ErrTruncatedTGA, i)
			}
			for n := 0; n < count && i < total; n++ {
				set(i, c)
				i++
			}
			continue
		}
		for n := 0; n < count && i < total; n++ {
			c, ok := r.pixel()
			if !ok {
				return nil, fmt.Errorf("%w: raw packet at pixel %d", ErrTruncatedTGA, i)
			}
			set(i, c)
			i++
		}
	}
	return img, nil
}
