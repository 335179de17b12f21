package math

import (
	"image"
	"testing"
)

func TestBoundingRect(t *testing.T) {
	r := BoundingRect(Vec2{10, 5}, Vec2{2, 30}, Vec2{7, 7})
	want := Rect2{Start: Vec2{2, 5}, End: Vec2{10, 30}}
	if r != want {
		t.Errorf("BoundingRect() = %v, want %v", r, want)
	}
	if (BoundingRect() != Rect2{}) {
		t.Error("expected empty rect for no points")
	}
}

func TestRect2Contains(t *testing.T) {
	outer := NewRect2(Vec2{0, 0}, Vec2{64, 64})

	tests := []struct {
		name  string
		inner Rect2
		want  bool
	}{
		{"same", outer, true},
		{"inside", NewRect2(Vec2{8, 8}, Vec2{32, 32}), true},
		{"touching edge", NewRect2(Vec2{32, 0}, Vec2{64, 64}), true},
		{"overflow", NewRect2(Vec2{32, 32}, Vec2{65, 40}), false},
		{"outside", NewRect2(Vec2{100, 100}, Vec2{120, 120}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRect2Intersects(t *testing.T) {
	a := NewRect2(Vec2{0, 0}, Vec2{10, 10})
	if !a.Intersects(NewRect2(Vec2{5, 5}, Vec2{15, 15})) {
		t.Error("expected overlapping rects to intersect")
	}
	if a.Intersects(NewRect2(Vec2{10, 0}, Vec2{20, 10})) {
		t.Error("expected rects sharing only an edge not to intersect")
	}
}

func TestRect2UnionAndIntersect(t *testing.T) {
	a := NewRect2(Vec2{0, 0}, Vec2{10, 10})
	b := NewRect2(Vec2{5, 5}, Vec2{20, 15})

	if got := a.Union(b); got != NewRect2(Vec2{0, 0}, Vec2{20, 15}) {
		t.Errorf("Union() = %v", got)
	}
	if got := a.Intersect(b); got != NewRect2(Vec2{5, 5}, Vec2{10, 10}) {
		t.Errorf("Intersect() = %v", got)
	}
	if got := a.Intersect(NewRect2(Vec2{50, 50}, Vec2{60, 60})); !got.IsEmpty() {
		t.Errorf("expected empty intersection, got %v", got)
	}
}

func TestRect2Round(t *testing.T) {
	r := NewRect2(Vec2{0.4, 1.6}, Vec2{31.2, 63.9}).Round()
	want := NewRect2(Vec2{0, 1}, Vec2{32, 64})
	if r != want {
		t.Errorf("Round() = %v, want %v", r, want)
	}
	if r.ToImage() != image.Rect(0, 1, 32, 64) {
		t.Errorf("ToImage() = %v", r.ToImage())
	}
	if RectFromImage(image.Rect(0, 1, 32, 64)) != want {
		t.Error("expected RectFromImage to invert ToImage")
	}
}
