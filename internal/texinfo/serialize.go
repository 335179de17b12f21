package texinfo

import (
	"io"

	"go.uber.org/zap"

	"github.com/Faultbox/texcomp/internal/atlas"
	"github.com/Faultbox/texcomp/pkg/formats"
	"github.com/Faultbox/texcomp/pkg/level"
	"github.com/Faultbox/texcomp/pkg/math"
)

// ObjectTexture is the final record for one texture index.
type ObjectTexture struct {
	Index       int
	Category    Category
	Atlas       int
	Destination level.Destination
	BlendMode   level.BlendMode
	BumpLevel   level.BumpLevel
	IsTriangle  bool
	Animated    bool
	RequireSort bool
	DoubleSided bool

	// TexCoords are in atlas pixels, UV normalized by the atlas size.
	TexCoords [4]math.Vec2
	UV        [4]math.Vec2

	// Dummy marks a record whose texture could not be placed.
	Dummy bool
}

func (o ObjectTexture) vertexCount() int {
	if o.IsTriangle {
		return 3
	}
	return 4
}

// Record converts o to its stream form.
func (o ObjectTexture) Record() formats.TexInfoRecord {
	var attrs uint16
	if o.Animated {
		attrs |= formats.AttrAnimated
	}
	if o.RequireSort {
		attrs |= formats.AttrRequireSort
	}
	if o.DoubleSided {
		attrs |= formats.AttrDoubleSided
	}
	tile := uint16(o.Atlas) & formats.TileIndexMask
	if o.IsTriangle {
		tile |= formats.TileTriangleFlag
	}
	rec := formats.TexInfoRecord{
		Attributes:  attrs,
		Tile:        tile,
		Flags:       formats.EncodeFlags(uint8(o.BlendMode), uint8(o.BumpLevel)),
		Destination: uint8(o.Destination),
	}
	for i := 0; i < o.vertexCount(); i++ {
		rec.UV[i] = [2]float32{o.UV[i].X, o.UV[i].Y}
	}
	return rec
}

// AnimationFrame is one runtime frame of an animated texture.
type AnimationFrame struct {
	TexInfoIndex int
	UV           [4]math.Vec2
}

// AnimatedTexture is a realized animated set.
type AnimatedTexture struct {
	Set    *level.AnimatedSet
	Frames []AnimationFrame
}

// Record converts a to its stream form.
func (a AnimatedTexture) Record() formats.AnimatedSequenceRecord {
	rec := formats.AnimatedSequenceRecord{
		Type:     uint8(a.Set.Type),
		Fps:      a.Set.Fps,
		UVRotate: a.Set.UVRotate,
		Frames:   make([]formats.AnimatedFrameRecord, len(a.Frames)),
	}
	for i, f := range a.Frames {
		rec.Frames[i].TexInfo = int32(f.TexInfoIndex)
		for j, uv := range f.UV {
			rec.Frames[i].UV[j] = [2]float32{uv.X, uv.Y}
		}
	}
	return rec
}

// Layout is the result of LayOutAllData.
type Layout struct {
	// ObjectTextures is indexed by texture index.
	ObjectTextures []ObjectTexture
	Animations     []AnimatedTexture
	Atlases        map[Category][]*atlas.Atlas
	PageCounts     map[Category]int
	// PageUsage is the occupied fraction of each packed page.
	PageUsage map[Category][]float64
}

// MeanUsage returns the average page occupancy of cat, or zero without
// pages.
func (l *Layout) MeanUsage(cat Category) float64 {
	usage := l.PageUsage[cat]
	if len(usage) == 0 {
		return 0
	}
	var sum float64
	for _, u := range usage {
		sum += u
	}
	return sum / float64(len(usage))
}

// WriteTextureInfos writes the object texture table.
func (l *Layout) WriteTextureInfos(w *formats.Writer) {
	w.WriteInt32(int32(len(l.ObjectTextures)))
	for _, o := range l.ObjectTextures {
		o.Record().Write(w)
	}
}

// WriteAnimatedTextures writes the animated sequence table.
func (l *Layout) WriteAnimatedTextures(w *formats.Writer) {
	w.WriteInt32(int32(len(l.Animations)))
	for _, a := range l.Animations {
		a.Record().Write(w)
	}
}

// WriteTo writes the complete texinfo stream.
func (l *Layout) WriteTo(out io.Writer) (int64, error) {
	w := formats.NewWriter(out)
	formats.WriteTexInfoHeader(w)
	l.WriteTextureInfos(w)
	l.WriteAnimatedTextures(w)
	return w.Len(), w.Err()
}

// buildObjectTextures emits one record per issued index.
func (m *Manager) buildObjectTextures(layout *Layout) {
	objs := make([]ObjectTexture, m.nextIndex)
	present := make([]bool, m.nextIndex)
	for _, cat := range Categories {
		for _, p := range m.parentsOf(cat) {
			for _, c := range p.children {
				if c.index < 0 || c.index >= len(objs) || present[c.index] {
					continue
				}
				present[c.index] = true
				objs[c.index] = m.objectTexture(cat, p, c)
			}
		}
	}
	for i := range objs {
		if !present[i] {
			objs[i] = ObjectTexture{Index: i, Dummy: true}
		}
	}
	layout.ObjectTextures = objs
}

func (m *Manager) objectTexture(cat Category, p *parentArea, c *childArea) ObjectTexture {
	o := ObjectTexture{
		Index:       c.index,
		Category:    cat,
		Atlas:       p.atlas,
		Destination: p.destination,
		BlendMode:   p.blendMode,
		BumpLevel:   p.texture.BumpLevel,
		IsTriangle:  c.isTriangle && !c.asQuad,
		Animated:    cat == CategoryAnimated,
		RequireSort: c.requireSort,
		DoubleSided: c.doubleSided,
	}
	if !p.placed || p.atlasSize.X == 0 || p.atlasSize.Y == 0 {
		o.Dummy = true
		return o
	}

	rels := c.relCoord
	if c.asQuad {
		rels[3] = rels[2]
	}
	origin := math.Vec2{X: float32(p.atlasOrigin.X), Y: float32(p.atlasOrigin.Y)}
	size := math.Vec2{X: float32(p.atlasSize.X), Y: float32(p.atlasSize.Y)}
	for i := 0; i < o.vertexCount(); i++ {
		rel := rels[i]
		if p.squeeze {
			// Squeezed content occupies the top half of the parent.
			rel.Y *= 0.5
		}
		px := origin.Add(rel)
		o.TexCoords[i] = px
		o.UV[i] = math.Vec2{X: px.X / size.X, Y: px.Y / size.Y}
	}
	m.validate(o, p, c.vertexCount())
	return o
}

// validate checks the first n coordinates of o. The repeated vertex of a
// triangle written as a quad is not checked.
func (m *Manager) validate(o ObjectTexture, p *parentArea, n int) {
	for i := 0; i < n; i++ {
		if o.TexCoords[i].X < 0 || o.TexCoords[i].Y < 0 {
			m.reporter.Warn("texture coordinate is negative",
				zap.Int("index", o.Index),
				zap.String("texture", p.texture.Name),
				zap.Int("vertex", i))
			break
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if o.TexCoords[i] == o.TexCoords[j] {
				m.reporter.Warn("texture coordinates coincide",
					zap.Int("index", o.Index),
					zap.String("texture", p.texture.Name),
					zap.Int("first", i),
					zap.Int("second", j))
				return
			}
		}
	}
}

func (m *Manager) buildAnimations(layout *Layout, order *animationOrder) {
	for _, so := range order.sequences {
		a := AnimatedTexture{Set: so.seq.set}
		for _, c := range so.frames {
			f := AnimationFrame{TexInfoIndex: c.index}
			if c.index >= 0 && c.index < len(layout.ObjectTextures) {
				f.UV = layout.ObjectTextures[c.index].UV
			}
			a.Frames = append(a.Frames, f)
		}
		layout.Animations = append(layout.Animations, a)
	}
}
