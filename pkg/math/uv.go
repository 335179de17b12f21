package math

// NoRotation is returned by MatchRotation when no cyclic rotation matches.
const NoRotation = -1

// MatchRotation compares two coordinate lists of equal length (3 for
// triangles, 4 for quads) under every cyclic rotation of vertex order.
// The returned rotation r satisfies in[(i+r)%n] ≈ stored[i] for every i.
// The first full match wins.
func MatchRotation(in, stored []Vec2, eps float32) (int, bool) {
	n := len(in)
	if n == 0 || n != len(stored) {
		return NoRotation, false
	}
	for r := 0; r < n; r++ {
		match := true
		for i := 0; i < n; i++ {
			if !in[(i+r)%n].ApproxEqual(stored[i], eps) {
				match = false
				break
			}
		}
		if match {
			return r, true
		}
	}
	return NoRotation, false
}

// Rotate returns coords cyclically shifted so that out[i] = coords[(i+r)%n].
// MatchRotation(Rotate(c, r), c) yields (n-r)%n.
func Rotate(coords []Vec2, r int) []Vec2 {
	n := len(coords)
	out := make([]Vec2, n)
	if n == 0 {
		return out
	}
	r = ((r % n) + n) % n
	for i := range coords {
		out[i] = coords[(i+r)%n]
	}
	return out
}

// Reverse returns coords in reversed vertex order, which is the UV layout of a
// mirrored face.
func Reverse(coords []Vec2) []Vec2 {
	out := make([]Vec2, len(coords))
	for i, c := range coords {
		out[len(coords)-1-i] = c
	}
	return out
}
