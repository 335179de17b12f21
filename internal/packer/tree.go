// Package packer places rectangles into fixed-size square tiles.
package packer

import "image"

// node is a rectangle-tree cell. A leaf is either free or holds exactly one
// placed rectangle; an inner node has been split into two children.
type node struct {
	rect        image.Rectangle
	left, right *node
	used        bool
}

func (n *node) insert(w, h int) *node {
	if n.left != nil {
		if r := n.left.insert(w, h); r != nil {
			return r
		}
		return n.right.insert(w, h)
	}

	if n.used {
		return nil
	}
	rw, rh := n.rect.Dx(), n.rect.Dy()
	if w > rw || h > rh {
		return nil
	}
	if w == rw && h == rh {
		n.used = true
		return n
	}

	// Split along the axis with more leftover space so the remaining free
	// cell stays as large as possible.
	if rw-w > rh-h {
		n.left = &node{rect: image.Rect(n.rect.Min.X, n.rect.Min.Y, n.rect.Min.X+w, n.rect.Max.Y)}
		n.right = &node{rect: image.Rect(n.rect.Min.X+w, n.rect.Min.Y, n.rect.Max.X, n.rect.Max.Y)}
	} else {
		n.left = &node{rect: image.Rect(n.rect.Min.X, n.rect.Min.Y, n.rect.Max.X, n.rect.Min.Y+h)}
		n.right = &node{rect: image.Rect(n.rect.Min.X, n.rect.Min.Y+h, n.rect.Max.X, n.rect.Max.Y)}
	}
	return n.left.insert(w, h)
}

// Tree packs rectangles into one square tile.
type Tree struct {
	root *node
	size int
	used int
}

// NewTree creates an empty tile of size × size pixels.
func NewTree(size int) *Tree {
	return &Tree{
		root: &node{rect: image.Rect(0, 0, size, size)},
		size: size,
	}
}

// Insert places a w × h rectangle and returns its top-left corner.
func (t *Tree) Insert(w, h int) (image.Point, bool) {
	if w <= 0 || h <= 0 {
		return image.Point{}, false
	}
	n := t.root.insert(w, h)
	if n == nil {
		return image.Point{}, false
	}
	t.used += w * h
	return n.rect.Min, true
}

// Used returns the fraction of the tile area that is occupied.
func (t *Tree) Used() float64 {
	return float64(t.used) / float64(t.size*t.size)
}
