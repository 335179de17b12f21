package manifest

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/texcomp/internal/report"
	"github.com/Faultbox/texcomp/pkg/level"
	"github.com/Faultbox/texcomp/pkg/math"
)

// ImageLoader loads a source image by manifest path.
type ImageLoader interface {
	Load(path string) (*image.RGBA, error)
}

// Reporter receives data-quality warnings.
type Reporter interface {
	Warn(msg string, fields ...zap.Field)
}

// Face is a resolved face request.
type Face struct {
	Area        level.TextureArea
	Destination level.Destination
	IsTriangle  bool
	RequireSort bool
	Topmost     bool
	Vertices    []int
}

// Level is a manifest with every texture loaded.
type Level struct {
	Name         string
	Textures     map[string]*level.Texture
	AnimatedSets []*level.AnimatedSet
	Faces        []Face
}

// Resolve loads every texture through loader, using up to workers
// concurrent loads, and converts the manifest to compiler inputs. The
// manifest must be valid. A bump map that fails to load is reported to rep
// and the texture falls back to level-based normals; a nil rep discards the
// warning.
func (m *Manifest) Resolve(ctx context.Context, loader ImageLoader, workers int, rep Reporter) (*Level, error) {
	if rep == nil {
		rep = report.New(nil)
	}
	textures, err := m.loadTextures(ctx, loader, workers, rep)
	if err != nil {
		return nil, err
	}

	lvl := &Level{
		Name:     m.Name,
		Textures: make(map[string]*level.Texture, len(textures)),
	}
	for i, t := range textures {
		lvl.Textures[m.Textures[i].Name] = t
	}

	for _, s := range m.AnimatedSets {
		typ, _ := level.ParseAnimationType(s.Type)
		set := &level.AnimatedSet{
			Name:     s.Name,
			Type:     typ,
			Fps:      s.Fps,
			UVRotate: s.UVRotate,
		}
		for _, f := range s.Frames {
			set.Frames = append(set.Frames, level.AnimatedFrame{
				Texture:   lvl.Textures[f.Texture],
				TexCoords: coords(f.UV),
				Repeat:    f.Repeat,
			})
		}
		lvl.AnimatedSets = append(lvl.AnimatedSets, set)
	}

	for _, f := range m.Faces {
		blend, _ := level.ParseBlendMode(f.Blend)
		dest, _ := level.ParseDestination(f.Destination)
		face := Face{
			Area: level.TextureArea{
				Texture:     lvl.Textures[f.Texture],
				TexCoords:   coords(f.UV),
				BlendMode:   blend,
				DoubleSided: f.DoubleSided,
			},
			Destination: dest,
			IsTriangle:  len(f.UV) == 3,
			RequireSort: f.RequireSort,
			Topmost:     f.Topmost,
			Vertices:    f.Vertices,
		}
		if len(f.ParentArea) == 4 {
			face.Area.ParentArea = math.NewRect2(
				math.Vec2{X: f.ParentArea[0], Y: f.ParentArea[1]},
				math.Vec2{X: f.ParentArea[2], Y: f.ParentArea[3]})
		}
		lvl.Faces = append(lvl.Faces, face)
	}
	return lvl, nil
}

func (m *Manifest) loadTextures(ctx context.Context, loader ImageLoader, workers int, rep Reporter) ([]*level.Texture, error) {
	out := make([]*level.Texture, len(m.Textures))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, ts := range m.Textures {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			kind, err := level.ParseSourceKind(ts.Kind)
			if err != nil {
				return fmt.Errorf("texture %q: %w", ts.Name, err)
			}
			img, err := loader.Load(ts.Path)
			if err != nil {
				return fmt.Errorf("texture %q: %w", ts.Name, err)
			}
			t := level.NewTexture(kind, ts.Name, img)
			var bump *image.RGBA
			if ts.BumpMap != "" {
				bump, err = loader.Load(ts.BumpMap)
				if err != nil {
					rep.Warn("bump map not loaded",
						zap.String("texture", ts.Name),
						zap.String("path", ts.BumpMap),
						zap.Error(err))
					bump = nil
				}
			}
			t.SetBump(level.BumpLevel(ts.BumpLevel), bump)
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func coords(points []Point) [4]math.Vec2 {
	var out [4]math.Vec2
	for i := 0; i < len(points) && i < 4; i++ {
		out[i] = math.Vec2{X: points[i][0], Y: points[i][1]}
	}
	return out
}
