package packer

// Padding is the number of replicated edge pixels around a rectangle.
type Padding struct {
	Left, Top, Right, Bottom int
}

// Horizontal returns Left + Right.
func (p Padding) Horizontal() int { return p.Left + p.Right }

// Vertical returns Top + Bottom.
func (p Padding) Vertical() int { return p.Top + p.Bottom }

// ComputePadding returns the padding for a w × h rectangle in a tile of
// tileSize. When the full padding does not fit, the leftover space is split
// between both sides, the extra pixel going right or bottom. Topmost
// rectangles get no top padding. Every side ends up in [0, padding].
func ComputePadding(w, h, padding, tileSize int, topmostUnpadded bool) Padding {
	if padding < 0 {
		padding = 0
	}
	var p Padding
	p.Left, p.Right = split(tileSize-w, padding, padding)
	if topmostUnpadded {
		_, p.Bottom = split(tileSize-h, 0, padding)
	} else {
		p.Top, p.Bottom = split(tileSize-h, padding, padding)
	}
	return p
}

// split fits a+b into avail, shrinking both sides evenly.
func split(avail, a, b int) (int, int) {
	if avail <= 0 {
		return 0, 0
	}
	if a+b <= avail {
		return a, b
	}
	first := min(a, avail/2)
	second := min(b, avail-first)
	// Give back any room the second side could not use.
	first = min(a, avail-second)
	return first, second
}
