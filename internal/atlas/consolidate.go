package atlas

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Atlas is a grid of pages composited into one image.
type Atlas struct {
	Color   *image.RGBA
	Normal  *image.RGBA // nil when normal maps are disabled
	Columns int
	Rows    int
	Pages   int
}

// Size returns the atlas dimensions in pixels.
func (a *Atlas) Size() image.Point {
	return a.Color.Bounds().Size()
}

// Slot is where a page ended up.
type Slot struct {
	Atlas  int
	Offset image.Point
}

// GridFor returns a near-square grid for n pages, at most limit × limit.
func GridFor(n, limit int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	if limit < 1 {
		limit = 1
	}
	if n >= limit*limit {
		return limit, limit
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return cols, rows
}

// Consolidate packs pages into atlases of at most maxSize pixels per side,
// filling each atlas row by row. A new atlas opens once the current grid,
// sized for the pages still remaining, is full.
func Consolidate(pages Pages, pageSize, maxSize int) ([]*Atlas, []Slot) {
	limit := maxSize / pageSize
	slots := make([]Slot, len(pages.Color))

	var atlases []*Atlas
	next := 0
	for next < len(pages.Color) {
		cols, rows := GridFor(len(pages.Color)-next, limit)
		a := &Atlas{
			Color:   image.NewRGBA(image.Rect(0, 0, cols*pageSize, rows*pageSize)),
			Columns: cols,
			Rows:    rows,
		}
		if pages.Normal != nil {
			a.Normal = image.NewRGBA(a.Color.Bounds())
			fill(a.Normal, a.Normal.Bounds(), flatNormal)
		}

		for cell := 0; cell < cols*rows && next < len(pages.Color); cell++ {
			off := image.Pt((cell%cols)*pageSize, (cell/cols)*pageSize)
			r := image.Rectangle{Min: off, Max: off.Add(image.Pt(pageSize, pageSize))}
			draw.Draw(a.Color, r, pages.Color[next], image.Point{}, draw.Src)
			if a.Normal != nil {
				draw.Draw(a.Normal, r, pages.Normal[next], image.Point{}, draw.Src)
			}
			slots[next] = Slot{Atlas: len(atlases), Offset: off}
			a.Pages++
			next++
		}
		atlases = append(atlases, a)
	}
	return atlases, slots
}
