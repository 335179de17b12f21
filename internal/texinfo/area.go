package texinfo

import (
	"image"

	"github.com/Faultbox/texcomp/internal/packer"
	"github.com/Faultbox/texcomp/pkg/level"
	"github.com/Faultbox/texcomp/pkg/math"
)

// parentID is a stable handle into an arena.
type parentID int

// childArea is one submitted quad or triangle, stored relative to its parent.
type childArea struct {
	index       int
	parent      parentID
	absCoord    [4]math.Vec2
	relCoord    [4]math.Vec2
	isTriangle  bool
	requireSort bool
	doubleSided bool

	// asQuad serializes a triangle as the quad {a, b, c, c}.
	asQuad bool
}

func (c *childArea) vertexCount() int {
	if c.isTriangle {
		return 3
	}
	return 4
}

func (c *childArea) coords() []math.Vec2 {
	return c.absCoord[:c.vertexCount()]
}

// parentArea is a rectangle of one source image backing one or more children.
type parentArea struct {
	id          parentID
	texture     *level.Texture
	area        math.Rect2
	areaSet     bool
	blendMode   level.BlendMode
	destination level.Destination
	squeeze     bool

	topmostUnpadded bool
	requireSort     bool
	children        []*childArea

	// Set during layout.
	alias       *parentArea // canonical parent with identical pixels
	placed      bool
	page        int
	pos         image.Point // unpadded top-left within the page
	padding     packer.Padding
	atlas       int
	atlasOrigin image.Point // unpadded top-left within the atlas
	atlasSize   image.Point
}

// setArea grows the parent to r. A rectangle that does not contain the
// current area is ignored, so the area never shrinks.
func (p *parentArea) setArea(r math.Rect2) bool {
	if p.areaSet && !r.Contains(p.area) {
		return false
	}
	p.area = r
	p.areaSet = true
	for _, c := range p.children {
		p.updateRelative(c)
	}
	return true
}

func (p *parentArea) updateRelative(c *childArea) {
	for i := range c.absCoord {
		c.relCoord[i] = c.absCoord[i].Sub(p.area.Start)
	}
}

func (p *parentArea) sameKey(r *request) bool {
	return p.texture.Equal(r.texture) &&
		p.blendMode == r.blendMode &&
		p.destination == r.destination &&
		p.squeeze == r.squeeze
}

func (p *parentArea) adopt(c *childArea) {
	c.parent = p.id
	p.children = append(p.children, c)
	p.updateRelative(c)
}

// imageRect returns the area as integer pixels.
func (p *parentArea) imageRect() image.Rectangle {
	return p.area.ToImage()
}

// canonical returns the parent whose placement this parent shares.
func (p *parentArea) canonical() *parentArea {
	if p.alias != nil {
		return p.alias
	}
	return p
}

// arena owns parents. Discarded parents leave a nil slot so handles held by
// children stay valid.
type arena struct {
	slots []*parentArea
}

func (a *arena) insert(p *parentArea) *parentArea {
	p.id = parentID(len(a.slots))
	a.slots = append(a.slots, p)
	return p
}

func (a *arena) get(id parentID) *parentArea {
	if id < 0 || int(id) >= len(a.slots) {
		return nil
	}
	return a.slots[id]
}

func (a *arena) discard(id parentID) {
	a.slots[id] = nil
}

// live returns the parents still in use, in creation order.
func (a *arena) live() []*parentArea {
	out := make([]*parentArea, 0, len(a.slots))
	for _, p := range a.slots {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// request is a normalized AddTexture call.
type request struct {
	texture     *level.Texture
	coords      []math.Vec2
	isTriangle  bool
	blendMode   level.BlendMode
	destination level.Destination
	squeeze     bool
	requireSort bool
	doubleSided bool
	topmost     bool
	hint        math.Rect2
}

func newRequest(area level.TextureArea, dest level.Destination, isForTriangle bool) *request {
	return &request{
		texture:     area.Texture,
		coords:      area.Coords(isForTriangle),
		isTriangle:  isForTriangle,
		blendMode:   area.BlendMode,
		destination: dest,
		doubleSided: area.DoubleSided,
		hint:        area.ParentArea,
	}
}

// bounds is the pixel rectangle the request needs, including the group hint.
func (r *request) bounds() math.Rect2 {
	b := math.BoundingRect(r.coords...).Round()
	if !r.hint.IsEmpty() {
		b = b.Union(r.hint.Round())
	}
	// Degenerate faces still take one pixel.
	if b.End.X <= b.Start.X {
		b.End.X = b.Start.X + 1
	}
	if b.End.Y <= b.Start.Y {
		b.End.Y = b.Start.Y + 1
	}
	return b
}

func (r *request) newChild(index int) *childArea {
	c := &childArea{
		index:       index,
		isTriangle:  r.isTriangle,
		requireSort: r.requireSort,
		doubleSided: r.doubleSided,
	}
	copy(c.absCoord[:], r.coords)
	return c
}

func (c *childArea) sameAttributes(r *request) bool {
	return c.isTriangle == r.isTriangle &&
		c.requireSort == r.requireSort &&
		c.doubleSided == r.doubleSided
}
