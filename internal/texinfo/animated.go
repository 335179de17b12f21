package texinfo

import (
	"go.uber.org/zap"

	"github.com/Faultbox/texcomp/pkg/level"
	"github.com/Faultbox/texcomp/pkg/math"
)

// Animated frames match with a wider margin than ordinary textures.
const animLookupMargin float32 = 0.5

// variant is one way a face can map an animated frame: the full quad or a
// triangle cut from it, optionally mirrored.
type variant struct {
	cut    int // 0 for the quad, otherwise 1 + the dropped vertex
	mirror bool
}

var variants = func() []variant {
	var out []variant
	for cut := 0; cut <= 4; cut++ {
		out = append(out, variant{cut: cut}, variant{cut: cut, mirror: true})
	}
	return out
}()

func (v variant) isTriangle() bool {
	return v.cut > 0
}

func (v variant) apply(coords [4]math.Vec2) []math.Vec2 {
	out := make([]math.Vec2, 0, 4)
	for i, c := range coords {
		if v.cut > 0 && i == v.cut-1 {
			continue
		}
		out = append(out, c)
	}
	if v.mirror {
		out = math.Reverse(out)
	}
	return out
}

type animatedFrame struct {
	child  *childArea
	repeat int
}

// animatedSequence is an animated set compiled through the grouping engine
// for one variant.
type animatedSequence struct {
	set         *level.AnimatedSet
	variant     variant
	blendMode   level.BlendMode
	destination level.Destination
	doubleSided bool

	parents arena
	frames  []animatedFrame
}

func (m *Manager) buildReferences(sets []*level.AnimatedSet) {
	for _, set := range sets {
		if set == nil || set.Trivial() {
			continue
		}
		if !m.validSet(set) {
			continue
		}
		for _, v := range variants {
			m.references = append(m.references,
				m.buildSequence(set, v, level.BlendNormal, level.DestinationRoom, false))
		}
	}
}

func (m *Manager) validSet(set *level.AnimatedSet) bool {
	if len(set.Frames) == 0 {
		m.reporter.Warn("animated set has no frames", zap.String("set", set.Name))
		return false
	}
	for i, f := range set.Frames {
		if f.Texture == nil || f.Texture.Image == nil {
			m.reporter.Warn("animated frame has no pixel data",
				zap.String("set", set.Name), zap.Int("frame", i))
			return false
		}
	}
	return true
}

// buildSequence replays the frames of set through the grouping engine.
// Indices are issued only while the manager is generating.
func (m *Manager) buildSequence(set *level.AnimatedSet, v variant, blend level.BlendMode, dest level.Destination, doubleSided bool) *animatedSequence {
	s := &animatedSequence{
		set:         set,
		variant:     v,
		blendMode:   blend,
		destination: dest,
		doubleSided: doubleSided,
	}
	for _, f := range set.Frames {
		r := &request{
			texture:     f.Texture,
			coords:      v.apply(f.TexCoords),
			isTriangle:  v.isTriangle(),
			blendMode:   blend,
			destination: dest,
			squeeze:     set.IsUVRotate(),
			doubleSided: doubleSided,
		}
		child, _ := m.group(&s.parents, r)
		child.asQuad = r.isTriangle && set.IsUVRotate()
		s.frames = append(s.frames, animatedFrame{child: child, repeat: max(f.Repeat, 1)})
	}
	return s
}

// match finds the frame whose coordinates r reproduces under some rotation.
func (s *animatedSequence) match(r *request) (*childArea, int, bool) {
	if s.variant.isTriangle() != r.isTriangle {
		return nil, 0, false
	}
	for _, f := range s.frames {
		p := s.parents.get(f.child.parent)
		if p == nil || !p.texture.Equal(r.texture) {
			continue
		}
		if rotation, ok := math.MatchRotation(r.coords, f.child.coords(), animLookupMargin); ok {
			return f.child, rotation, true
		}
	}
	return nil, 0, false
}

func (s *animatedSequence) accepts(r *request) bool {
	return s.blendMode == r.blendMode &&
		s.destination == r.destination &&
		s.doubleSided == r.doubleSided
}

// lookupAnimated resolves r against the realized sequences, realizing a
// reference sequence on first use.
func (m *Manager) lookupAnimated(r *request) (Result, bool) {
	for _, s := range m.actual {
		if !s.accepts(r) {
			continue
		}
		if child, rotation, ok := s.match(r); ok {
			return animatedResult(s, child, rotation, r), true
		}
	}

	for _, ref := range m.references {
		if _, _, ok := ref.match(r); !ok {
			continue
		}
		s := m.realize(ref, r)
		if child, rotation, ok := s.match(r); ok {
			return animatedResult(s, child, rotation, r), true
		}
	}
	return Result{}, false
}

func (m *Manager) realize(ref *animatedSequence, r *request) *animatedSequence {
	s := m.buildSequence(ref.set, ref.variant, r.blendMode, r.destination, r.doubleSided)
	m.actual = append(m.actual, s)
	m.log.Debug("animated sequence realized",
		zap.String("set", ref.set.Name),
		zap.Int("cut", ref.variant.cut),
		zap.Bool("mirror", ref.variant.mirror),
		zap.Stringer("destination", r.destination))
	return s
}

func animatedResult(s *animatedSequence, child *childArea, rotation int, r *request) Result {
	return Result{
		TexInfoIndex:  child.index,
		Rotation:      rotation,
		Animated:      true,
		ConvertToQuad: r.isTriangle && s.set.IsUVRotate(),
	}
}
