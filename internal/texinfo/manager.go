// Package texinfo compiles texture requests into packed atlases and the
// object texture table that faces reference by index.
package texinfo

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/texcomp/internal/report"
	"github.com/Faultbox/texcomp/pkg/level"
)

// ErrAlreadyLaidOut is returned by AddTexture once LayOutAllData has run.
var ErrAlreadyLaidOut = errors.New("texinfo: textures already laid out")

// Reporter receives data-quality warnings.
type Reporter interface {
	Warn(msg string, fields ...zap.Field)
}

// Settings control grouping and packing.
type Settings struct {
	TileSize     int
	Padding      int
	MaxAtlasSize int

	// FastMode skips merging and growing parents across requests.
	FastMode bool
	// RemapAnimatedTextures enables matching faces against animated sets.
	RemapAnimatedTextures bool
	NormalMaps            bool

	// Workers limits the parallel layout passes. Zero means GOMAXPROCS.
	Workers int
}

// DefaultSettings returns the stock settings.
func DefaultSettings() Settings {
	return Settings{
		TileSize:              256,
		Padding:               8,
		MaxAtlasSize:          4096,
		RemapAnimatedTextures: true,
		NormalMaps:            true,
	}
}

// Result is what a face needs to reference a texture.
type Result struct {
	// TexInfoIndex is the stable object texture index.
	TexInfoIndex int
	// Rotation is how far the face's vertex order is shifted against the
	// stored coordinates. See RotateFace.
	Rotation int
	Animated bool
	// ConvertToQuad asks the face builder to emit a triangle as a quad,
	// which scrolling animations require.
	ConvertToQuad bool
}

type phase uint8

const (
	phaseAccumulating phase = iota
	phaseLaidOut
)

// Manager accumulates texture requests and lays them out once. It is not
// safe for concurrent use.
type Manager struct {
	settings Settings
	log      *zap.Logger
	reporter Reporter

	phase      phase
	generating bool
	nextIndex  int
	dummy      int

	textures   arena
	references []*animatedSequence
	actual     []*animatedSequence

	layout *Layout
}

// NewManager creates a manager and precomputes the lookup tables for the
// given animated sets. A nil logger discards output; a nil reporter logs
// warnings through log.
func NewManager(settings Settings, sets []*level.AnimatedSet, log *zap.Logger, rep Reporter) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	if rep == nil {
		rep = report.New(log)
	}
	m := &Manager{
		settings: settings,
		log:      log,
		reporter: rep,
		dummy:    -1,
	}

	if settings.RemapAnimatedTextures {
		m.buildReferences(sets)
	}
	m.generating = true

	m.log.Debug("texture manager ready",
		zap.Int("animated_sets", len(sets)),
		zap.Int("reference_sequences", len(m.references)),
		zap.Bool("fast_mode", settings.FastMode))
	return m
}

// AddTexture registers a texture request and returns the index a face
// should reference. Requests without pixel data get a dummy index and a
// warning.
func (m *Manager) AddTexture(area level.TextureArea, destination level.Destination, isForTriangle, requireSort, topmostAndUnpadded bool) (Result, error) {
	if m.phase != phaseAccumulating {
		return Result{}, ErrAlreadyLaidOut
	}
	if !area.IsValid() {
		m.reporter.Warn("texture area has no pixel data",
			zap.Stringer("destination", destination))
		return Result{TexInfoIndex: m.dummyIndex()}, nil
	}

	r := newRequest(area, destination, isForTriangle)
	r.requireSort = requireSort
	r.topmost = topmostAndUnpadded

	if res, ok := m.lookupAnimated(r); ok {
		return res, nil
	}

	child, rotation := m.group(&m.textures, r)
	return Result{TexInfoIndex: child.index, Rotation: rotation}, nil
}

// TextureCount returns the number of object texture indices issued so far.
func (m *Manager) TextureCount() int {
	return m.nextIndex
}

func (m *Manager) allocIndex() int {
	if !m.generating {
		return -1
	}
	i := m.nextIndex
	m.nextIndex++
	return i
}

func (m *Manager) dummyIndex() int {
	if m.dummy < 0 {
		m.dummy = m.allocIndex()
	}
	return m.dummy
}
