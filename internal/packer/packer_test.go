package packer

import (
	"image"
	"testing"
)

func TestTreeInsertNoOverlap(t *testing.T) {
	tree := NewTree(256)
	var placed []image.Rectangle

	sizes := [][2]int{{128, 128}, {64, 64}, {64, 64}, {128, 32}, {32, 128}, {64, 64}, {16, 16}}
	for _, s := range sizes {
		pos, ok := tree.Insert(s[0], s[1])
		if !ok {
			t.Fatalf("expected %v to fit", s)
		}
		r := image.Rect(pos.X, pos.Y, pos.X+s[0], pos.Y+s[1])
		if !r.In(image.Rect(0, 0, 256, 256)) {
			t.Errorf("rect %v outside tile", r)
		}
		for _, other := range placed {
			if r.Overlaps(other) {
				t.Errorf("rect %v overlaps %v", r, other)
			}
		}
		placed = append(placed, r)
	}
}

func TestTreeFull(t *testing.T) {
	tree := NewTree(64)
	for i := 0; i < 4; i++ {
		if _, ok := tree.Insert(32, 32); !ok {
			t.Fatalf("expected quarter %d to fit", i)
		}
	}
	if _, ok := tree.Insert(1, 1); ok {
		t.Error("expected full tile to reject insert")
	}
	if tree.Used() != 1 {
		t.Errorf("expected full usage, got %f", tree.Used())
	}
}

func TestPackerFirstFit(t *testing.T) {
	p := New(256)

	a, ok := p.Place(256, 128)
	if !ok || a.Page != 0 {
		t.Fatalf("expected first rect on page 0, got %+v", a)
	}
	b, ok := p.Place(256, 256)
	if !ok || b.Page != 1 {
		t.Fatalf("expected full-tile rect on page 1, got %+v", b)
	}
	// Fits in the remaining half of page 0.
	c, ok := p.Place(128, 128)
	if !ok || c.Page != 0 {
		t.Errorf("expected rect to reuse page 0, got %+v", c)
	}
	if p.PageCount() != 2 {
		t.Errorf("expected 2 pages, got %d", p.PageCount())
	}
	if len(p.Usage()) != 2 {
		t.Errorf("expected usage for 2 pages, got %d", len(p.Usage()))
	}
}

func TestPackerRejectsOversized(t *testing.T) {
	p := New(256)
	if _, ok := p.Place(257, 10); ok {
		t.Error("expected oversized rect to be rejected")
	}
	if _, ok := p.Place(0, 10); ok {
		t.Error("expected empty rect to be rejected")
	}
	if p.PageCount() != 0 {
		t.Errorf("expected no pages opened, got %d", p.PageCount())
	}
}

func TestComputePadding(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		topmost  bool
		expected Padding
	}{
		{"small", 64, 64, false, Padding{8, 8, 8, 8}},
		{"exact fit", 240, 240, false, Padding{8, 8, 8, 8}},
		{"reduced even", 250, 64, false, Padding{3, 8, 3, 8}},
		{"reduced odd", 249, 64, false, Padding{3, 8, 4, 8}},
		{"full tile", 256, 256, false, Padding{0, 0, 0, 0}},
		{"topmost", 64, 64, true, Padding{8, 0, 8, 8}},
		{"topmost reduced", 64, 251, true, Padding{8, 0, 8, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePadding(tt.w, tt.h, 8, 256, tt.topmost)
			if got != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestComputePaddingBounds(t *testing.T) {
	for _, padding := range []int{0, 1, 8, 16} {
		for w := 1; w <= 256; w += 7 {
			for h := 1; h <= 256; h += 13 {
				p := ComputePadding(w, h, padding, 256, false)
				for _, side := range []int{p.Left, p.Top, p.Right, p.Bottom} {
					if side < 0 || side > padding {
						t.Fatalf("padding %d for %dx%d out of range: %+v", padding, w, h, p)
					}
				}
				if w+p.Horizontal() > 256 || h+p.Vertical() > 256 {
					t.Fatalf("padded %dx%d exceeds tile: %+v", w, h, p)
				}
			}
		}
	}
}
