// Package level describes the inputs a level compiler hands to the texture
// compiler: source textures, texture area requests and animated sets.
package level

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/OneOfOne/xxhash"
)

// SourceKind tags where a texture came from.
type SourceKind uint8

// Source kinds.
const (
	LevelTexture    SourceKind = iota // Texture authored for the level itself
	ImportedTexture                   // Texture of imported geometry
	CatalogTexture                    // Texture from an object catalog (wad)
)

// String returns the kind name.
func (k SourceKind) String() string {
	switch k {
	case LevelTexture:
		return "level"
	case ImportedTexture:
		return "imported"
	case CatalogTexture:
		return "catalog"
	default:
		return fmt.Sprintf("SourceKind(%d)", k)
	}
}

// ParseSourceKind converts a manifest name to a SourceKind.
func ParseSourceKind(s string) (SourceKind, error) {
	switch s {
	case "", "level":
		return LevelTexture, nil
	case "imported":
		return ImportedTexture, nil
	case "catalog":
		return CatalogTexture, nil
	}
	return 0, fmt.Errorf("unknown texture kind %q", s)
}

// TextureKey identifies a texture by kind, content and bump data. It is
// comparable and used as a map key.
type TextureKey struct {
	Kind     SourceKind
	Hash     uint64
	Bump     BumpLevel
	BumpHash uint64 // zero without a bump image
}

// Texture is a source image referenced by texture areas.
type Texture struct {
	Kind  SourceKind
	Name  string
	Image *image.RGBA
	Hash  uint64

	// BumpLevel selects derived normal map strength when no BumpImage is set.
	BumpLevel BumpLevel
	// BumpImage is an explicit normal map with the same dimensions as Image.
	BumpImage *image.RGBA
	// BumpHash is the content hash of BumpImage, set by SetBump.
	BumpHash uint64
}

// NewTexture wraps img and computes its content hash.
func NewTexture(kind SourceKind, name string, img *image.RGBA) *Texture {
	return &Texture{
		Kind:  kind,
		Name:  name,
		Image: img,
		Hash:  HashImage(kind, img),
	}
}

// SetBump sets the normal map inputs of t. A nil img keeps the level-based
// normals.
func (t *Texture) SetBump(lvl BumpLevel, img *image.RGBA) {
	t.BumpLevel = lvl
	t.BumpImage = img
	t.BumpHash = 0
	if img != nil {
		t.BumpHash = HashImage(t.Kind, img)
	}
}

// Key returns the identity of the texture.
func (t *Texture) Key() TextureKey {
	return TextureKey{Kind: t.Kind, Hash: t.Hash, Bump: t.BumpLevel, BumpHash: t.BumpHash}
}

// Equal reports whether two textures have the same kind, content and bump
// data. Textures that differ only in bump data produce different records.
func (t *Texture) Equal(other *Texture) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Key() == other.Key()
}

// Size returns the image dimensions.
func (t *Texture) Size() image.Point {
	if t.Image == nil {
		return image.Point{}
	}
	return t.Image.Bounds().Size()
}

// HashImage hashes kind, dimensions and pixel rows of img with XXH64.
func HashImage(kind SourceKind, img *image.RGBA) uint64 {
	h := xxhash.New64()
	var hdr [9]byte
	hdr[0] = byte(kind)
	if img == nil {
		h.Write(hdr[:])
		return h.Sum64()
	}
	b := img.Bounds()
	binary.LittleEndian.PutUint32(hdr[1:], uint32(b.Dx()))
	binary.LittleEndian.PutUint32(hdr[5:], uint32(b.Dy()))
	h.Write(hdr[:])
	HashPixels(h, img, b)
	return h.Sum64()
}

// HashPixels feeds the rows of r in img to w.
func HashPixels(w io.Writer, img *image.RGBA, r image.Rectangle) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	rowLen := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		w.Write(img.Pix[off : off+rowLen])
	}
}
