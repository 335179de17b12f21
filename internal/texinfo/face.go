package texinfo

import "fmt"

// RotateFace reorders face vertex indices by the rotation AddTexture
// returned, so that vertex i of the result uses texture corner i.
// It panics unless the face has 3 or 4 vertices and 0 <= rotation < len.
func RotateFace(vertices []int, rotation int) []int {
	n := len(vertices)
	if n != 3 && n != 4 {
		panic(fmt.Sprintf("texinfo: face has %d vertices, want 3 or 4", n))
	}
	if rotation < 0 || rotation >= n {
		panic(fmt.Sprintf("texinfo: rotation %d out of range for %d vertices", rotation, n))
	}
	out := make([]int, n)
	for i := range vertices {
		out[i] = vertices[(i+rotation)%n]
	}
	return out
}

// TriangleAsQuad emits a triangle as a degenerate quad by repeating the
// last vertex. It panics unless given exactly 3 vertices.
func TriangleAsQuad(vertices []int) [4]int {
	if len(vertices) != 3 {
		panic(fmt.Sprintf("texinfo: triangle has %d vertices, want 3", len(vertices)))
	}
	return [4]int{vertices[0], vertices[1], vertices[2], vertices[2]}
}
