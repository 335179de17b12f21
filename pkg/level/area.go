package level

import (
	"fmt"

	"github.com/Faultbox/texcomp/pkg/math"
)

// BlendMode is the runtime blending applied to a surface.
type BlendMode uint8

// Blend modes, in runtime encoding order.
const (
	BlendNormal BlendMode = iota
	BlendAlphaTest
	BlendAdditive
	BlendNoZTest
	BlendSubtract
	BlendWireframe
	BlendExclude
	BlendScreen
	BlendLighten
	BlendAlphaBlend
)

var blendModeNames = []string{
	"normal", "alpha_test", "additive", "no_z_test", "subtract",
	"wireframe", "exclude", "screen", "lighten", "alpha_blend",
}

// String returns the blend mode name used in manifests.
func (b BlendMode) String() string {
	if int(b) < len(blendModeNames) {
		return blendModeNames[b]
	}
	return fmt.Sprintf("BlendMode(%d)", b)
}

// ParseBlendMode converts a manifest name to a BlendMode.
func ParseBlendMode(s string) (BlendMode, error) {
	if s == "" {
		return BlendNormal, nil
	}
	for i, name := range blendModeNames {
		if name == s {
			return BlendMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown blend mode %q", s)
}

// BumpLevel is the strength tier of a derived normal map.
type BumpLevel uint8

// Bump levels.
const (
	BumpNone BumpLevel = iota
	BumpLevel1
	BumpLevel2
	BumpLevel3
)

// Destination is the class of geometry a texture is used by. Each class is
// packed into its own set of atlases.
type Destination uint8

// Destinations.
const (
	DestinationRoom Destination = iota
	DestinationMoveable
	DestinationStatic
)

// String returns the destination name.
func (d Destination) String() string {
	switch d {
	case DestinationRoom:
		return "room"
	case DestinationMoveable:
		return "moveable"
	case DestinationStatic:
		return "static"
	default:
		return fmt.Sprintf("Destination(%d)", d)
	}
}

// ParseDestination converts a manifest name to a Destination.
func ParseDestination(s string) (Destination, error) {
	switch s {
	case "", "room":
		return DestinationRoom, nil
	case "moveable":
		return DestinationMoveable, nil
	case "static":
		return DestinationStatic, nil
	}
	return 0, fmt.Errorf("unknown destination %q", s)
}

// TextureArea is one texture request: a quad or triangle of UV coordinates
// in source image pixels.
type TextureArea struct {
	Texture     *Texture
	TexCoords   [4]math.Vec2
	BlendMode   BlendMode
	DoubleSided bool

	// ParentArea optionally names the region that several requests share,
	// so they group into one parent. The zero value means no hint.
	ParentArea math.Rect2
}

// Coords returns the 3 or 4 coordinates in use.
func (a TextureArea) Coords(isForTriangle bool) []math.Vec2 {
	if isForTriangle {
		return []math.Vec2{a.TexCoords[0], a.TexCoords[1], a.TexCoords[2]}
	}
	return []math.Vec2{a.TexCoords[0], a.TexCoords[1], a.TexCoords[2], a.TexCoords[3]}
}

// BoundingBox returns the bounds of the coordinates in use.
func (a TextureArea) BoundingBox(isForTriangle bool) math.Rect2 {
	return math.BoundingRect(a.Coords(isForTriangle)...)
}

// IsValid reports whether the area references pixel data.
func (a TextureArea) IsValid() bool {
	return a.Texture != nil && a.Texture.Image != nil
}
