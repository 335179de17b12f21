package level

import (
	"fmt"

	"github.com/Faultbox/texcomp/pkg/math"
)

// AnimationType selects how the runtime plays an animated set.
type AnimationType uint8

// Animation types.
const (
	AnimationFrames AnimationType = iota
	AnimationPFrames
	AnimationUVRotate
	AnimationVideo
)

// ParseAnimationType converts a manifest name to an AnimationType.
func ParseAnimationType(s string) (AnimationType, error) {
	switch s {
	case "", "frames":
		return AnimationFrames, nil
	case "pframes":
		return AnimationPFrames, nil
	case "uvrotate":
		return AnimationUVRotate, nil
	case "video":
		return AnimationVideo, nil
	}
	return 0, fmt.Errorf("unknown animation type %q", s)
}

// AnimatedFrame is one frame of an animated set.
type AnimatedFrame struct {
	Texture   *Texture
	TexCoords [4]math.Vec2
	// Repeat is how many consecutive runtime frames show this frame. Values
	// below 1 count as 1.
	Repeat int
}

// AnimatedSet is a declared texture animation.
type AnimatedSet struct {
	Name     string
	Type     AnimationType
	Fps      float32
	UVRotate int8
	Frames   []AnimatedFrame
}

// IsUVRotate reports whether the set scrolls its texture instead of
// switching frames.
func (s *AnimatedSet) IsUVRotate() bool {
	return s.Type == AnimationUVRotate
}

// Trivial reports whether the set gives no reuse benefit: a single frame that
// does not scroll.
func (s *AnimatedSet) Trivial() bool {
	return len(s.Frames) <= 1 && !s.IsUVRotate()
}
