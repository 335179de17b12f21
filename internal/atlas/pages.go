// Package atlas rasterizes packed texture regions into fixed-size pages and
// consolidates pages into larger atlas images.
package atlas

import (
	"image"
	"image/color"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/texcomp/internal/packer"
	"github.com/Faultbox/texcomp/pkg/level"
)

// Reporter receives data-quality warnings.
type Reporter interface {
	Warn(msg string, fields ...zap.Field)
}

// Placement is one source region and where it goes in the page set.
type Placement struct {
	Name    string
	Source  *image.RGBA
	Area    image.Rectangle // region of Source, in Source coordinates
	Page    int
	Pos     image.Point // top-left of the unpadded region within the page
	Padding packer.Padding

	// Squeeze resamples the region to half height and stacks it twice.
	Squeeze bool

	Bump      level.BumpLevel
	BumpImage *image.RGBA
}

// Pages holds the rasterized color pages and, when requested, the matching
// normal map pages.
type Pages struct {
	Color  []*image.RGBA
	Normal []*image.RGBA
}

// Builder rasterizes placements.
type Builder struct {
	PageSize int
	Normals  bool
	Workers  int
	Reporter Reporter
}

var (
	flatNormal = color.RGBA{R: 128, G: 128, B: 255, A: 255}
	black      = color.RGBA{A: 255}
)

// BuildPages draws every placement into pageCount pages. Placements never
// overlap, so they are drawn concurrently.
func (b *Builder) BuildPages(placements []Placement, pageCount int) Pages {
	pages := Pages{Color: make([]*image.RGBA, pageCount)}
	for i := range pages.Color {
		pages.Color[i] = image.NewRGBA(image.Rect(0, 0, b.PageSize, b.PageSize))
	}
	if b.Normals {
		pages.Normal = make([]*image.RGBA, pageCount)
		for i := range pages.Normal {
			pages.Normal[i] = image.NewRGBA(image.Rect(0, 0, b.PageSize, b.PageSize))
			fill(pages.Normal[i], pages.Normal[i].Bounds(), flatNormal)
		}
	}

	var g errgroup.Group
	g.SetLimit(b.workers())
	for i := range placements {
		p := &placements[i]
		if p.Page < 0 || p.Page >= pageCount {
			continue
		}
		g.Go(func() error {
			b.drawPlacement(pages, p)
			return nil
		})
	}
	_ = g.Wait()

	return pages
}

func (b *Builder) workers() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (b *Builder) warn(msg string, fields ...zap.Field) {
	if b.Reporter != nil {
		b.Reporter.Warn(msg, fields...)
	}
}

func (b *Builder) drawPlacement(pages Pages, p *Placement) {
	if p.Source == nil || !p.Area.In(p.Source.Bounds()) || p.Area.Empty() {
		b.warn("texture region has no pixel data, skipped",
			zap.String("texture", p.Name), zap.Stringer("area", p.Area))
		return
	}

	src := crop(p.Source, p.Area)
	if p.Squeeze {
		src = squeeze(src)
	}
	drawPadded(pages.Color[p.Page], src, p.Pos, p.Padding)

	if pages.Normal == nil {
		return
	}

	var nrm *image.RGBA
	switch {
	case p.BumpImage != nil:
		if p.BumpImage.Bounds().Size() != p.Source.Bounds().Size() {
			b.warn("bump image size does not match texture, using black dummy",
				zap.String("texture", p.Name),
				zap.Stringer("texture_size", p.Source.Bounds().Size()),
				zap.Stringer("bump_size", p.BumpImage.Bounds().Size()))
			nrm = image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
			fill(nrm, nrm.Bounds(), black)
		} else {
			off := p.BumpImage.Bounds().Min.Sub(p.Source.Bounds().Min)
			nrm = crop(p.BumpImage, p.Area.Add(off))
			if p.Squeeze {
				nrm = squeeze(nrm)
			}
		}
	default:
		nrm = normalMap(src, p.Bump)
	}
	drawPadded(pages.Normal[p.Page], nrm, p.Pos, p.Padding)
}

// crop copies r out of img into a new image with origin (0,0).
func crop(img *image.RGBA, r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	rowLen := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		srcOff := img.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+rowLen], img.Pix[srcOff:srcOff+rowLen])
	}
	return out
}

// drawPadded copies src to dst at pos and replicates its edge pixels outward
// into the padding. Corner padding takes the nearest source corner.
func drawPadded(dst, src *image.RGBA, pos image.Point, pad packer.Padding) {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return
	}
	db := dst.Bounds()
	for dy := -pad.Top; dy < h+pad.Bottom; dy++ {
		ty := pos.Y + dy
		if ty < db.Min.Y || ty >= db.Max.Y {
			continue
		}
		sy := clampInt(dy, 0, h-1)
		for dx := -pad.Left; dx < w+pad.Right; dx++ {
			tx := pos.X + dx
			if tx < db.Min.X || tx >= db.Max.X {
				continue
			}
			sx := clampInt(dx, 0, w-1)
			so := src.PixOffset(sx, sy)
			do := dst.PixOffset(tx, ty)
			copy(dst.Pix[do:do+4], src.Pix[so:so+4])
		}
	}
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
