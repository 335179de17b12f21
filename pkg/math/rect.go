package math

import (
	"image"
	"math"
)

// Rect2 is an axis-aligned rectangle with Start inclusive and End exclusive.
type Rect2 struct {
	Start, End Vec2
}

// NewRect2 returns the rectangle spanning start to end.
func NewRect2(start, end Vec2) Rect2 {
	return Rect2{Start: start, End: end}
}

// BoundingRect returns the smallest rectangle containing all points.
func BoundingRect(points ...Vec2) Rect2 {
	if len(points) == 0 {
		return Rect2{}
	}
	r := Rect2{Start: points[0], End: points[0]}
	for _, p := range points[1:] {
		r.Start = r.Start.Min(p)
		r.End = r.End.Max(p)
	}
	return r
}

// Width returns the horizontal extent.
func (r Rect2) Width() float32 { return r.End.X - r.Start.X }

// Height returns the vertical extent.
func (r Rect2) Height() float32 { return r.End.Y - r.Start.Y }

// Size returns width and height as a vector.
func (r Rect2) Size() Vec2 { return r.End.Sub(r.Start) }

// Area returns width * height.
func (r Rect2) Area() float32 { return r.Width() * r.Height() }

// IsEmpty reports whether the rectangle has no extent.
func (r Rect2) IsEmpty() bool {
	return r.End.X <= r.Start.X || r.End.Y <= r.Start.Y
}

// Contains reports whether other lies entirely inside r.
func (r Rect2) Contains(other Rect2) bool {
	return other.Start.X >= r.Start.X && other.Start.Y >= r.Start.Y &&
		other.End.X <= r.End.X && other.End.Y <= r.End.Y
}

// ContainsPoint reports whether p lies inside r, edges included.
func (r Rect2) ContainsPoint(p Vec2) bool {
	return p.X >= r.Start.X && p.Y >= r.Start.Y && p.X <= r.End.X && p.Y <= r.End.Y
}

// Intersects reports whether the interiors of r and other overlap.
func (r Rect2) Intersects(other Rect2) bool {
	return r.Start.X < other.End.X && other.Start.X < r.End.X &&
		r.Start.Y < other.End.Y && other.Start.Y < r.End.Y
}

// Union returns the smallest rectangle containing both.
func (r Rect2) Union(other Rect2) Rect2 {
	return Rect2{Start: r.Start.Min(other.Start), End: r.End.Max(other.End)}
}

// Offset returns r translated by d.
func (r Rect2) Offset(d Vec2) Rect2 {
	return Rect2{Start: r.Start.Add(d), End: r.End.Add(d)}
}

// Round expands r outward to whole pixels.
func (r Rect2) Round() Rect2 {
	floor := func(f float32) float32 { return float32(math.Floor(float64(f))) }
	ceil := func(f float32) float32 { return float32(math.Ceil(float64(f))) }
	return Rect2{
		Start: Vec2{floor(r.Start.X), floor(r.Start.Y)},
		End:   Vec2{ceil(r.End.X), ceil(r.End.Y)},
	}
}

// Intersect returns the overlapping region, which may be empty.
func (r Rect2) Intersect(other Rect2) Rect2 {
	out := Rect2{Start: r.Start.Max(other.Start), End: r.End.Min(other.End)}
	if out.IsEmpty() {
		return Rect2{}
	}
	return out
}

// ToImage converts r to an integer image rectangle. Call Round first when r
// may have fractional edges.
func (r Rect2) ToImage() image.Rectangle {
	return image.Rect(int(r.Start.X), int(r.Start.Y), int(r.End.X), int(r.End.Y))
}

// RectFromImage converts an image rectangle to a Rect2.
func RectFromImage(r image.Rectangle) Rect2 {
	return Rect2{
		Start: Vec2{float32(r.Min.X), float32(r.Min.Y)},
		End:   Vec2{float32(r.Max.X), float32(r.Max.Y)},
	}
}
