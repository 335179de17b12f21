package manifest

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/multierr"

	"github.com/Faultbox/texcomp/internal/report"
	"github.com/Faultbox/texcomp/pkg/level"
)

const sampleManifest = `
name: cave
textures:
  - name: rock
    path: textures/rock.tga
    bump_level: 2
  - name: water
    path: textures/water.png
    kind: catalog
    bump_map: textures/water_n.png
animated_sets:
  - name: falls
    type: uvrotate
    fps: 12
    uv_rotate: 4
    frames:
      - texture: water
        uv: [[0, 0], [64, 0], [64, 64], [0, 64]]
        repeat: 2
faces:
  - texture: rock
    uv: [[0, 0], [32, 0], [32, 32], [0, 32]]
    vertices: [10, 11, 12, 13]
  - texture: rock
    uv: [[0, 0], [32, 0], [0, 32]]
    blend: additive
    destination: static
    double_sided: true
    require_sort: true
    parent_area: [0, 0, 64, 64]
`

type fakeLoader struct {
	mu    sync.Mutex
	paths []string
	fail  string
}

func (f *fakeLoader) Load(path string) (*image.RGBA, error) {
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()
	if path == f.fail {
		return nil, errors.New("boom")
	}
	return image.NewRGBA(image.Rect(0, 0, 64, 64)), nil
}

func TestParseAndResolve(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	loader := &fakeLoader{}
	lvl, err := m.Resolve(context.Background(), loader, 2, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(loader.paths) != 3 {
		t.Errorf("expected 3 loads, got %d", len(loader.paths))
	}

	rock := lvl.Textures["rock"]
	if rock == nil || rock.BumpLevel != level.BumpLevel2 || rock.Kind != level.LevelTexture {
		t.Errorf("unexpected rock texture: %+v", rock)
	}
	water := lvl.Textures["water"]
	if water == nil || water.BumpImage == nil || water.BumpHash == 0 || water.Kind != level.CatalogTexture {
		t.Errorf("unexpected water texture: %+v", water)
	}

	if len(lvl.AnimatedSets) != 1 {
		t.Fatalf("expected 1 animated set, got %d", len(lvl.AnimatedSets))
	}
	set := lvl.AnimatedSets[0]
	if !set.IsUVRotate() || set.UVRotate != 4 || set.Fps != 12 {
		t.Errorf("unexpected set: %+v", set)
	}
	if set.Frames[0].Repeat != 2 || set.Frames[0].TexCoords[2].X != 64 {
		t.Errorf("unexpected frame: %+v", set.Frames[0])
	}

	if len(lvl.Faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(lvl.Faces))
	}
	quad, tri := lvl.Faces[0], lvl.Faces[1]
	if quad.IsTriangle || len(quad.Vertices) != 4 || quad.Destination != level.DestinationRoom {
		t.Errorf("unexpected quad face: %+v", quad)
	}
	if !tri.IsTriangle || tri.Area.BlendMode != level.BlendAdditive || tri.Destination != level.DestinationStatic {
		t.Errorf("unexpected triangle face: %+v", tri)
	}
	if !tri.Area.DoubleSided || !tri.RequireSort {
		t.Error("expected double sided, require sort triangle")
	}
	if tri.Area.ParentArea.Width() != 64 {
		t.Errorf("expected parent area width 64, got %v", tri.Area.ParentArea.Width())
	}
}

func TestResolveLoadError(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, err = m.Resolve(context.Background(), &fakeLoader{fail: "textures/rock.tga"}, 0, nil)
	if err == nil || !strings.Contains(err.Error(), "rock") {
		t.Errorf("expected rock load error, got %v", err)
	}
}

func TestResolveMissingBumpMap(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	rep := report.New(nil)
	lvl, err := m.Resolve(context.Background(), &fakeLoader{fail: "textures/water_n.png"}, 0, rep)
	if err != nil {
		t.Fatalf("expected missing bump map not to fail, got %v", err)
	}
	water := lvl.Textures["water"]
	if water.BumpImage != nil || water.BumpHash != 0 {
		t.Errorf("expected no bump image, got %+v", water)
	}
	if rep.Count() != 1 {
		t.Errorf("expected 1 warning, got %d", rep.Count())
	}
}

func TestParseUnknownField(t *testing.T) {
	if _, err := Parse([]byte("textures:\n  - name: a\n    colour: red\n")); err == nil {
		t.Error("expected error for unknown field, got nil")
	}
}

func TestParseEmpty(t *testing.T) {
	m, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(m.Faces) != 0 {
		t.Errorf("expected no faces, got %d", len(m.Faces))
	}
}

func TestValidate(t *testing.T) {
	bad := `
textures:
  - name: a
    path: a.png
    bump_level: 7
  - name: a
    kind: wad
animated_sets:
  - name: s
    type: spin
    frames:
      - texture: missing
        uv: [[0, 0], [1, 0], [1, 1]]
faces:
  - texture: a
    uv: [[0, 0], [1, 0]]
    blend: glow
    destination: sky
    vertices: [1]
    parent_area: [0, 0]
`
	m, err := Parse([]byte(bad))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	err = m.Validate()
	if err == nil {
		t.Fatal("expected validation errors, got nil")
	}
	// bump level, duplicate name, missing path, kind, set type,
	// frame texture, frame coords, face coords, vertices, parent area,
	// blend, destination.
	if n := len(multierr.Errors(err)); n != 12 {
		t.Errorf("expected 12 errors, got %d: %v", n, err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.yaml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Name != "cave" {
		t.Errorf("expected name cave, got %q", m.Name)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}
