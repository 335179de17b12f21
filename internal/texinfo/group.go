package texinfo

import (
	"github.com/Faultbox/texcomp/pkg/math"
)

// Coordinates closer than this are the same pixel position.
const coordEpsilon float32 = 0.01

// group finds or creates the child serving r in a and returns it together
// with the rotation of r against the stored coordinates.
func (m *Manager) group(a *arena, r *request) (*childArea, int) {
	parents := a.live()

	for _, p := range parents {
		if !p.sameKey(r) {
			continue
		}
		for _, c := range p.children {
			if !c.sameAttributes(r) {
				continue
			}
			if rotation, ok := math.MatchRotation(r.coords, c.coords(), coordEpsilon); ok {
				return c, rotation
			}
		}
	}

	bounds := r.bounds()
	child := r.newChild(m.allocIndex())

	for _, p := range parents {
		if p.sameKey(r) && p.area.Contains(bounds) && m.fitsTile(p.area) {
			p.adopt(child)
			p.mark(r)
			return child, 0
		}
	}

	if !m.settings.FastMode {
		if p := m.mergeContained(a, parents, r, bounds); p != nil {
			p.adopt(child)
			return child, 0
		}
		if p := m.growOverlapping(a, parents, r, bounds); p != nil {
			p.adopt(child)
			return child, 0
		}
	}

	p := a.insert(newParent(r))
	p.setArea(bounds)
	p.adopt(child)
	return child, 0
}

func newParent(r *request) *parentArea {
	return &parentArea{
		texture:         r.texture,
		blendMode:       r.blendMode,
		destination:     r.destination,
		squeeze:         r.squeeze,
		topmostUnpadded: r.topmost,
		requireSort:     r.requireSort,
	}
}

func (p *parentArea) mark(r *request) {
	p.topmostUnpadded = p.topmostUnpadded || r.topmost
	p.requireSort = p.requireSort || r.requireSort
}

func (p *parentArea) sameParentKey(o *parentArea) bool {
	return p.texture.Equal(o.texture) &&
		p.blendMode == o.blendMode &&
		p.destination == o.destination &&
		p.squeeze == o.squeeze
}

// moveChildren transfers every child of from to p and discards from.
func (a *arena) moveChildren(p, from *parentArea) {
	for _, c := range from.children {
		p.adopt(c)
	}
	from.children = nil
	p.topmostUnpadded = p.topmostUnpadded || from.topmostUnpadded
	p.requireSort = p.requireSort || from.requireSort
	a.discard(from.id)
}

// mergeContained replaces every parent inside bounds with one parent
// covering bounds. It returns nil when no parent is contained or bounds do
// not fit one tile, so placeable parents never end up inside an oversized one.
func (m *Manager) mergeContained(a *arena, parents []*parentArea, r *request, bounds math.Rect2) *parentArea {
	if !m.fitsTile(bounds) {
		return nil
	}
	var merged *parentArea
	for _, p := range parents {
		if !p.sameKey(r) || !bounds.Contains(p.area) {
			continue
		}
		if merged == nil {
			merged = a.insert(newParent(r))
			merged.setArea(bounds)
		}
		a.moveChildren(merged, p)
	}
	return merged
}

// growOverlapping extends an intersecting parent to the union with bounds
// when the union still fits in one tile.
func (m *Manager) growOverlapping(a *arena, parents []*parentArea, r *request, bounds math.Rect2) *parentArea {
	for _, p := range parents {
		if !p.sameKey(r) || !p.area.Intersects(bounds) {
			continue
		}
		u := p.area.Union(bounds)
		if !m.fitsTile(u) {
			continue
		}
		if !p.setArea(u) {
			continue
		}
		p.mark(r)
		m.absorb(a, p)
		return p
	}
	return nil
}

// absorb moves the children of every parent that p now covers into p.
func (m *Manager) absorb(a *arena, p *parentArea) {
	for _, o := range a.live() {
		if o == p || !o.sameParentKey(p) || !p.area.Contains(o.area) {
			continue
		}
		a.moveChildren(p, o)
	}
}

func (m *Manager) fitsTile(r math.Rect2) bool {
	limit := float32(m.settings.TileSize)
	return r.Width() <= limit && r.Height() <= limit
}
