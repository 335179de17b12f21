package packer

import "image"

// Placement is where a rectangle landed.
type Placement struct {
	Page int
	Pos  image.Point
}

// Packer places rectangles into a growing sequence of tiles. Every placement
// tries the already opened tiles in order before opening a new one.
type Packer struct {
	tileSize int
	tiles    []*Tree
}

// New creates a packer for tiles of tileSize × tileSize pixels.
func New(tileSize int) *Packer {
	return &Packer{tileSize: tileSize}
}

// Place finds room for a w × h rectangle. It fails only when the rectangle
// is larger than a tile or empty.
func (p *Packer) Place(w, h int) (Placement, bool) {
	if w <= 0 || h <= 0 || w > p.tileSize || h > p.tileSize {
		return Placement{}, false
	}
	for i, t := range p.tiles {
		if pos, ok := t.Insert(w, h); ok {
			return Placement{Page: i, Pos: pos}, true
		}
	}
	t := NewTree(p.tileSize)
	p.tiles = append(p.tiles, t)
	pos, ok := t.Insert(w, h)
	if !ok {
		return Placement{}, false
	}
	return Placement{Page: len(p.tiles) - 1, Pos: pos}, true
}

// PageCount returns the number of opened tiles.
func (p *Packer) PageCount() int {
	return len(p.tiles)
}

// Usage returns the occupied fraction of every opened tile.
func (p *Packer) Usage() []float64 {
	out := make([]float64, len(p.tiles))
	for i, t := range p.tiles {
		out[i] = t.Used()
	}
	return out
}
