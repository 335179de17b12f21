package atlas

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/texcomp/internal/packer"
	"github.com/Faultbox/texcomp/pkg/level"
)

type recordingReporter struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingReporter) Warn(msg string, _ ...zap.Field) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

func quadrantImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(1, 1, color.RGBA{255, 255, 255, 255})
	return img
}

func TestDrawPaddedReplicatesEdges(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	src := quadrantImage()
	drawPadded(dst, src, image.Pt(3, 3), packer.Padding{Left: 2, Top: 3, Right: 1, Bottom: 2})

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{3, 3, src.RGBAAt(0, 0)}, // content
		{4, 4, src.RGBAAt(1, 1)},
		{1, 0, src.RGBAAt(0, 0)}, // top-left corner
		{5, 0, src.RGBAAt(1, 0)}, // top-right corner
		{1, 6, src.RGBAAt(0, 1)}, // bottom-left corner
		{5, 6, src.RGBAAt(1, 1)}, // bottom-right corner
		{3, 1, src.RGBAAt(0, 0)}, // top edge
		{1, 4, src.RGBAAt(0, 1)}, // left edge
	}
	for _, tt := range tests {
		if got := dst.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d): expected %v, got %v", tt.x, tt.y, tt.want, got)
		}
	}
	// Outside the padded region nothing is written.
	if got := dst.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("expected untouched pixel, got %v", got)
	}
	if got := dst.RGBAAt(6, 3); got != (color.RGBA{}) {
		t.Errorf("expected untouched pixel right of padding, got %v", got)
	}
}

func TestSqueezeDuplicatesHalves(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			src.SetRGBA(x, y, color.RGBA{uint8(y * 30), uint8(x * 60), 0, 255})
		}
	}

	out := squeeze(src)
	if out.Bounds() != src.Bounds() {
		t.Fatalf("expected same bounds, got %v", out.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if out.RGBAAt(x, y) != out.RGBAAt(x, y+4) {
				t.Errorf("row %d and %d differ at x=%d", y, y+4, x)
			}
		}
	}
}

func TestSqueezeTinyImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 1))
	if squeeze(src) != src {
		t.Error("expected single-row image to be returned unchanged")
	}
}

func TestNormalMapFlat(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	fill(src, src.Bounds(), color.RGBA{90, 90, 90, 255})

	for _, lvl := range []level.BumpLevel{level.BumpNone, level.BumpLevel1, level.BumpLevel3} {
		n := normalMap(src, lvl)
		if got := n.RGBAAt(4, 4); got != flatNormal {
			t.Errorf("level %d: expected flat normal, got %v", lvl, got)
		}
	}
}

func TestNormalMapEdge(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	fill(src, image.Rect(0, 0, 4, 8), color.RGBA{0, 0, 0, 255})
	fill(src, image.Rect(4, 0, 8, 8), color.RGBA{255, 255, 255, 255})

	n := normalMap(src, level.BumpLevel1)
	edge := n.RGBAAt(3, 4)
	if edge.R >= 128 {
		t.Errorf("expected normal tilted away from the bright side, got %v", edge)
	}
	if edge.G != 128 {
		t.Errorf("expected no vertical tilt, got %v", edge)
	}
	if far := n.RGBAAt(0, 4); far != flatNormal {
		t.Errorf("expected flat normal away from edge, got %v", far)
	}
}

func TestBuildPages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	fill(src, src.Bounds(), color.RGBA{10, 20, 30, 255})
	badBump := image.NewRGBA(image.Rect(0, 0, 8, 8))
	rep := &recordingReporter{}

	b := &Builder{PageSize: 32, Normals: true, Workers: 2, Reporter: rep}
	pages := b.BuildPages([]Placement{
		{Name: "a", Source: src, Area: image.Rect(0, 0, 8, 8), Page: 0, Pos: image.Pt(2, 2),
			Padding: packer.Padding{Left: 2, Top: 2, Right: 2, Bottom: 2}},
		{Name: "b", Source: src, Area: image.Rect(0, 0, 8, 8), Page: 1, Pos: image.Pt(0, 0),
			BumpImage: badBump},
		{Name: "missing", Area: image.Rect(0, 0, 4, 4), Page: 1, Pos: image.Pt(16, 16)},
	}, 2)

	if len(pages.Color) != 2 || len(pages.Normal) != 2 {
		t.Fatalf("expected 2 color and 2 normal pages, got %d and %d", len(pages.Color), len(pages.Normal))
	}
	if got := pages.Color[0].RGBAAt(0, 0); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("expected padding pixel to hold source color, got %v", got)
	}
	if got := pages.Normal[0].RGBAAt(5, 5); got != flatNormal {
		t.Errorf("expected flat normal for bump level none, got %v", got)
	}
	if got := pages.Normal[1].RGBAAt(3, 3); got != black {
		t.Errorf("expected black dummy for mismatched bump image, got %v", got)
	}
	if got := pages.Color[1].RGBAAt(17, 17); got != (color.RGBA{}) {
		t.Errorf("expected nothing drawn for missing pixel data, got %v", got)
	}
	if len(rep.msgs) != 2 {
		t.Errorf("expected 2 warnings, got %d: %v", len(rep.msgs), rep.msgs)
	}
}

func TestBuildPagesWithoutNormals(t *testing.T) {
	b := &Builder{PageSize: 16}
	pages := b.BuildPages(nil, 3)
	if len(pages.Color) != 3 {
		t.Errorf("expected 3 pages, got %d", len(pages.Color))
	}
	if pages.Normal != nil {
		t.Error("expected no normal pages")
	}
}

func TestGridFor(t *testing.T) {
	tests := []struct {
		n, limit   int
		cols, rows int
	}{
		{0, 16, 0, 0},
		{1, 16, 1, 1},
		{2, 16, 2, 1},
		{5, 16, 3, 2},
		{16, 16, 4, 4},
		{17, 16, 5, 4},
		{256, 16, 16, 16},
		{300, 16, 16, 16},
		{44, 16, 7, 7},
	}
	for _, tt := range tests {
		cols, rows := GridFor(tt.n, tt.limit)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("GridFor(%d, %d) = %dx%d, want %dx%d", tt.n, tt.limit, cols, rows, tt.cols, tt.rows)
		}
		if cols > tt.limit || rows > tt.limit {
			t.Errorf("GridFor(%d) exceeds limit", tt.n)
		}
	}
}

func TestConsolidate(t *testing.T) {
	const pageSize = 4
	var pages Pages
	for i := 0; i < 20; i++ {
		p := image.NewRGBA(image.Rect(0, 0, pageSize, pageSize))
		fill(p, p.Bounds(), color.RGBA{uint8(i), 0, 0, 255})
		pages.Color = append(pages.Color, p)
	}

	atlases, slots := Consolidate(pages, pageSize, 16)
	if len(atlases) != 2 {
		t.Fatalf("expected 2 atlases, got %d", len(atlases))
	}
	if atlases[0].Size() != image.Pt(16, 16) || atlases[0].Pages != 16 {
		t.Errorf("expected full 16x16 first atlas, got %v with %d pages", atlases[0].Size(), atlases[0].Pages)
	}
	if atlases[1].Size() != image.Pt(8, 8) || atlases[1].Pages != 4 {
		t.Errorf("expected 8x8 second atlas, got %v with %d pages", atlases[1].Size(), atlases[1].Pages)
	}
	if atlases[0].Normal != nil {
		t.Error("expected no normal atlas")
	}

	for i, s := range slots {
		got := atlases[s.Atlas].Color.RGBAAt(s.Offset.X+1, s.Offset.Y+1)
		if got.R != uint8(i) {
			t.Errorf("page %d: expected marker %d at slot %+v, got %d", i, i, s, got.R)
		}
	}
	if slots[5] != (Slot{Atlas: 0, Offset: image.Pt(4, 4)}) {
		t.Errorf("expected page 5 at row 1 col 1, got %+v", slots[5])
	}
	if slots[17] != (Slot{Atlas: 1, Offset: image.Pt(4, 0)}) {
		t.Errorf("expected page 17 at second atlas col 1, got %+v", slots[17])
	}
}
