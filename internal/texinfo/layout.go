package texinfo

import (
	"encoding/binary"
	"fmt"
	"image"
	"runtime"
	"sort"

	"github.com/OneOfOne/xxhash"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/texcomp/internal/atlas"
	"github.com/Faultbox/texcomp/internal/packer"
	"github.com/Faultbox/texcomp/pkg/level"
)

// Category is a group of parents packed into their own atlases.
type Category uint8

// Categories, in layout and serialization order.
const (
	CategoryRooms Category = iota
	CategoryMoveables
	CategoryStatics
	CategoryAnimated
)

// Categories lists every category in layout order.
var Categories = []Category{CategoryRooms, CategoryMoveables, CategoryStatics, CategoryAnimated}

func (c Category) String() string {
	switch c {
	case CategoryRooms:
		return "rooms"
	case CategoryMoveables:
		return "moveables"
	case CategoryStatics:
		return "statics"
	case CategoryAnimated:
		return "animated"
	default:
		return fmt.Sprintf("Category(%d)", c)
	}
}

func categoryFor(d level.Destination) Category {
	switch d {
	case level.DestinationMoveable:
		return CategoryMoveables
	case level.DestinationStatic:
		return CategoryStatics
	default:
		return CategoryRooms
	}
}

// animationOrder is the frame order of every realized sequence, taken
// before deduplication touches any parent. Only snapshotAnimationOrder
// creates one.
type animationOrder struct {
	sequences []sequenceOrder
}

type sequenceOrder struct {
	seq    *animatedSequence
	frames []*childArea // repeats expanded
}

func (m *Manager) snapshotAnimationOrder() *animationOrder {
	order := &animationOrder{}
	for _, s := range m.actual {
		so := sequenceOrder{seq: s}
		for _, f := range s.frames {
			for range f.repeat {
				so.frames = append(so.frames, f.child)
			}
		}
		order.sequences = append(order.sequences, so)
	}
	return order
}

// LayOutAllData packs every parent, rasterizes the atlases and builds the
// object texture table. It runs once; later calls return the first layout.
func (m *Manager) LayOutAllData() (*Layout, error) {
	if m.phase == phaseLaidOut {
		return m.layout, nil
	}

	order := m.snapshotAnimationOrder()
	if err := m.sortOutAlpha(); err != nil {
		return nil, fmt.Errorf("classify alpha: %w", err)
	}
	aliased := m.deduplicate(order)

	layout := &Layout{
		Atlases:    make(map[Category][]*atlas.Atlas, len(Categories)),
		PageCounts: make(map[Category]int, len(Categories)),
		PageUsage:  make(map[Category][]float64, len(Categories)),
	}
	for _, cat := range Categories {
		if err := m.layOutCategory(cat, layout); err != nil {
			return nil, fmt.Errorf("lay out %s: %w", cat, err)
		}
	}
	m.buildObjectTextures(layout)
	m.buildAnimations(layout, order)

	m.phase = phaseLaidOut
	m.layout = layout

	m.log.Info("textures laid out",
		zap.Int("object_textures", len(layout.ObjectTextures)),
		zap.Int("animated_sequences", len(layout.Animations)),
		zap.Int("duplicates", aliased),
		zap.Int("room_pages", layout.PageCounts[CategoryRooms]),
		zap.Int("moveable_pages", layout.PageCounts[CategoryMoveables]),
		zap.Int("static_pages", layout.PageCounts[CategoryStatics]),
		zap.Int("animated_pages", layout.PageCounts[CategoryAnimated]))
	return layout, nil
}

func (m *Manager) workers() int {
	if m.settings.Workers > 0 {
		return m.settings.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// parentsOf returns the live parents packed into cat.
func (m *Manager) parentsOf(cat Category) []*parentArea {
	if cat == CategoryAnimated {
		var out []*parentArea
		for _, s := range m.actual {
			out = append(out, s.parents.live()...)
		}
		return out
	}
	var out []*parentArea
	for _, p := range m.textures.live() {
		if categoryFor(p.destination) == cat {
			out = append(out, p)
		}
	}
	return out
}

func (m *Manager) allParents() []*parentArea {
	var out []*parentArea
	for _, cat := range Categories {
		out = append(out, m.parentsOf(cat)...)
	}
	return out
}

// sortOutAlpha switches opaque-blended parents to alpha test when their
// pixels carry transparency.
func (m *Manager) sortOutAlpha() error {
	var g errgroup.Group
	g.SetLimit(m.workers())
	for _, p := range m.allParents() {
		if p.blendMode != level.BlendNormal {
			continue
		}
		g.Go(func() error {
			if hasAlpha(p.texture.Image, p.imageRect()) {
				p.blendMode = level.BlendAlphaTest
			}
			return nil
		})
	}
	return g.Wait()
}

func hasAlpha(img *image.RGBA, r image.Rectangle) bool {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		for x := 0; x < r.Dx(); x++ {
			if img.Pix[off+x*4+3] < 255 {
				return true
			}
		}
	}
	return false
}

type dedupKey struct {
	cat  Category
	w, h int
	hash uint64
}

// deduplicate aliases every parent whose pixels repeat an earlier parent of
// the same category. It runs sequentially so the first parent always wins.
func (m *Manager) deduplicate(order *animationOrder) int {
	if order == nil {
		panic("texinfo: deduplicate before snapshotAnimationOrder")
	}
	seen := make(map[dedupKey]*parentArea)
	aliased := 0
	for _, cat := range Categories {
		for _, p := range m.parentsOf(cat) {
			r := p.imageRect()
			k := dedupKey{cat: cat, w: r.Dx(), h: r.Dy(), hash: p.contentHash()}
			if first, ok := seen[k]; ok {
				p.alias = first
				aliased++
				continue
			}
			seen[k] = p
		}
	}
	return aliased
}

func (p *parentArea) contentHash() uint64 {
	h := xxhash.New64()
	var hdr [4]byte
	if p.squeeze {
		hdr[0] = 1
	}
	if p.topmostUnpadded {
		hdr[1] = 1
	}
	hdr[2] = byte(p.texture.BumpLevel)
	if p.texture.BumpImage != nil {
		hdr[3] = 1
	}
	h.Write(hdr[:])
	r := p.imageRect()
	var size [8]byte
	binary.LittleEndian.PutUint32(size[0:], uint32(r.Dx()))
	binary.LittleEndian.PutUint32(size[4:], uint32(r.Dy()))
	h.Write(size[:])
	level.HashPixels(h, p.texture.Image, r)
	if p.texture.BumpImage != nil {
		level.HashPixels(h, p.texture.BumpImage, r)
	}
	return h.Sum64()
}

func (m *Manager) paddingFor(forceMinimumPadding bool) int {
	if forceMinimumPadding {
		return 1
	}
	return m.settings.Padding
}

// sortForPacking orders parents so that unsorted geometry packs first, then
// larger padded areas, then taller ones.
func (m *Manager) sortForPacking(parents []*parentArea, padding int) {
	type key struct{ area, height int }
	keys := make(map[*parentArea]key, len(parents))
	for _, p := range parents {
		r := p.imageRect()
		pad := packer.ComputePadding(r.Dx(), r.Dy(), padding, m.settings.TileSize, p.topmostUnpadded)
		keys[p] = key{
			area:   (r.Dx() + pad.Horizontal()) * (r.Dy() + pad.Vertical()),
			height: r.Dy(),
		}
	}
	sort.SliceStable(parents, func(i, j int) bool {
		a, b := parents[i], parents[j]
		if a.requireSort != b.requireSort {
			return !a.requireSort
		}
		ka, kb := keys[a], keys[b]
		if ka.area != kb.area {
			return ka.area > kb.area
		}
		return ka.height > kb.height
	})
}

// placeTexturesInMap assigns each parent a page, a position and its padding
// and returns the page count with the occupied fraction of every page.
// Parents that do not fit a tile are left unplaced with a warning.
func (m *Manager) placeTexturesInMap(parents []*parentArea, forceMinimumPadding bool) (int, []float64) {
	padding := m.paddingFor(forceMinimumPadding)
	pk := packer.New(m.settings.TileSize)
	for _, p := range parents {
		r := p.imageRect()
		p.padding = packer.ComputePadding(r.Dx(), r.Dy(), padding, m.settings.TileSize, p.topmostUnpadded)
		pl, ok := pk.Place(r.Dx()+p.padding.Horizontal(), r.Dy()+p.padding.Vertical())
		if !ok {
			p.placed = false
			m.reporter.Warn("texture does not fit in a tile",
				zap.String("texture", p.texture.Name),
				zap.Int("width", r.Dx()),
				zap.Int("height", r.Dy()),
				zap.Int("tile_size", m.settings.TileSize))
			continue
		}
		p.placed = true
		p.page = pl.Page
		p.pos = pl.Pos.Add(image.Pt(p.padding.Left, p.padding.Top))
	}
	return pk.PageCount(), pk.Usage()
}

func (m *Manager) layOutCategory(cat Category, layout *Layout) error {
	parents := m.parentsOf(cat)
	if len(parents) == 0 {
		return nil
	}

	var canonical []*parentArea
	for _, p := range parents {
		if p.alias == nil {
			canonical = append(canonical, p)
		}
	}
	forceMinimum := cat == CategoryAnimated
	m.sortForPacking(canonical, m.paddingFor(forceMinimum))
	pageCount, usage := m.placeTexturesInMap(canonical, forceMinimum)

	placements := make([]atlas.Placement, 0, len(canonical))
	for _, p := range canonical {
		if !p.placed {
			continue
		}
		placements = append(placements, atlas.Placement{
			Name:      p.texture.Name,
			Source:    p.texture.Image,
			Area:      p.imageRect(),
			Page:      p.page,
			Pos:       p.pos,
			Padding:   p.padding,
			Squeeze:   p.squeeze,
			Bump:      p.texture.BumpLevel,
			BumpImage: p.texture.BumpImage,
		})
	}

	b := atlas.Builder{
		PageSize: m.settings.TileSize,
		Normals:  m.settings.NormalMaps,
		Workers:  m.settings.Workers,
		Reporter: m.reporter,
	}
	pages := b.BuildPages(placements, pageCount)
	atlases, slots := atlas.Consolidate(pages, m.settings.TileSize, m.settings.MaxAtlasSize)
	layout.Atlases[cat] = atlases
	layout.PageCounts[cat] = pageCount
	layout.PageUsage[cat] = usage

	var g errgroup.Group
	g.SetLimit(m.workers())
	for _, p := range parents {
		g.Go(func() error {
			return p.remap(slots, atlases)
		})
	}
	return g.Wait()
}

// remap moves p into atlas space, taking the placement of its canonical
// parent.
func (p *parentArea) remap(slots []atlas.Slot, atlases []*atlas.Atlas) error {
	c := p.canonical()
	if p.alias != nil {
		p.placed = c.placed
		p.page = c.page
		p.pos = c.pos
		p.padding = c.padding
	}
	if !c.placed {
		return nil
	}
	if c.page < 0 || c.page >= len(slots) {
		return fmt.Errorf("parent %d: page %d outside %d slots", p.id, c.page, len(slots))
	}
	slot := slots[c.page]
	p.atlas = slot.Atlas
	p.atlasOrigin = slot.Offset.Add(c.pos)
	p.atlasSize = atlases[slot.Atlas].Size()
	return nil
}
