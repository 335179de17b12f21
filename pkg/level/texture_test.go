package level

import (
	"image"
	"image/color"
	"testing"

	"github.com/Faultbox/texcomp/pkg/math"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestTextureKeyIsContentBased(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	a := NewTexture(LevelTexture, "a.png", solidImage(16, 16, red))
	b := NewTexture(LevelTexture, "copy_of_a.png", solidImage(16, 16, red))
	c := NewTexture(CatalogTexture, "a.png", solidImage(16, 16, red))
	d := NewTexture(LevelTexture, "a.png", solidImage(16, 8, red))

	if !a.Equal(b) {
		t.Error("expected identical pixels of the same kind to be equal")
	}
	if a.Equal(c) {
		t.Error("expected different kinds not to be equal")
	}
	if a.Equal(d) {
		t.Error("expected different dimensions not to be equal")
	}
	if a.Key() != b.Key() {
		t.Errorf("expected keys to match, got %v and %v", a.Key(), b.Key())
	}
}

func TestTextureKeyIncludesBump(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	plain := NewTexture(LevelTexture, "rock", solidImage(16, 16, red))
	leveled := NewTexture(LevelTexture, "rock_bumpy", solidImage(16, 16, red))
	leveled.SetBump(BumpLevel3, nil)
	mapped := NewTexture(LevelTexture, "rock_mapped", solidImage(16, 16, red))
	mapped.SetBump(BumpNone, solidImage(16, 16, color.RGBA{128, 128, 255, 255}))

	if plain.Equal(leveled) {
		t.Error("expected different bump levels not to be equal")
	}
	if plain.Equal(mapped) {
		t.Error("expected a bump image to change identity")
	}
	if mapped.BumpHash == 0 {
		t.Error("expected bump hash to be set")
	}

	mapped.SetBump(BumpNone, nil)
	if !plain.Equal(mapped) || mapped.BumpImage != nil {
		t.Errorf("expected clearing the bump image to restore identity, got %+v", mapped.Key())
	}
}

func TestTextureEqualNil(t *testing.T) {
	var a *Texture
	if !a.Equal(nil) {
		t.Error("expected nil textures to be equal")
	}
	b := NewTexture(LevelTexture, "b", solidImage(1, 1, color.RGBA{}))
	if b.Equal(nil) {
		t.Error("expected texture not to equal nil")
	}
}

func TestParseBlendMode(t *testing.T) {
	tests := []struct {
		in      string
		want    BlendMode
		wantErr bool
	}{
		{"", BlendNormal, false},
		{"normal", BlendNormal, false},
		{"additive", BlendAdditive, false},
		{"alpha_blend", BlendAlphaBlend, false},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseBlendMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBlendMode(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBlendMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && tt.in != "" && got.String() != tt.in {
			t.Errorf("expected String() %q, got %q", tt.in, got.String())
		}
	}
}

func TestParseNames(t *testing.T) {
	kinds := map[string]SourceKind{"": LevelTexture, "level": LevelTexture, "imported": ImportedTexture, "catalog": CatalogTexture}
	for in, want := range kinds {
		got, err := ParseSourceKind(in)
		if err != nil || got != want {
			t.Errorf("ParseSourceKind(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseSourceKind("wad"); err == nil {
		t.Error("expected error for unknown kind")
	}

	dests := map[string]Destination{"": DestinationRoom, "moveable": DestinationMoveable, "static": DestinationStatic}
	for in, want := range dests {
		got, err := ParseDestination(in)
		if err != nil || got != want {
			t.Errorf("ParseDestination(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseAnimationType("uvrotate"); err != nil {
		t.Errorf("ParseAnimationType(uvrotate) error = %v", err)
	}
	if _, err := ParseAnimationType("spin"); err == nil {
		t.Error("expected error for unknown animation type")
	}
}

func TestTextureAreaBoundingBox(t *testing.T) {
	area := TextureArea{
		TexCoords: [4]math.Vec2{{X: 10, Y: 10}, {X: 40, Y: 10}, {X: 40, Y: 30}, {X: 200, Y: 200}},
	}
	quad := area.BoundingBox(false)
	if quad.End != (math.Vec2{X: 200, Y: 200}) {
		t.Errorf("expected quad bounds to include 4th vertex, got %v", quad)
	}
	tri := area.BoundingBox(true)
	if tri != math.NewRect2(math.Vec2{X: 10, Y: 10}, math.Vec2{X: 40, Y: 30}) {
		t.Errorf("expected triangle bounds to ignore 4th vertex, got %v", tri)
	}
}

func TestAnimatedSetTrivial(t *testing.T) {
	single := &AnimatedSet{Type: AnimationFrames, Frames: make([]AnimatedFrame, 1)}
	if !single.Trivial() {
		t.Error("expected single-frame set to be trivial")
	}
	scroll := &AnimatedSet{Type: AnimationUVRotate, Frames: make([]AnimatedFrame, 1)}
	if scroll.Trivial() {
		t.Error("expected uv-rotate set not to be trivial")
	}
	multi := &AnimatedSet{Type: AnimationFrames, Frames: make([]AnimatedFrame, 4)}
	if multi.Trivial() {
		t.Error("expected multi-frame set not to be trivial")
	}
}
