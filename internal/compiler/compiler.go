// Package compiler runs a manifest through the texture compiler and writes
// the results.
package compiler

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/texcomp/internal/assets"
	"github.com/Faultbox/texcomp/internal/config"
	"github.com/Faultbox/texcomp/internal/manifest"
	"github.com/Faultbox/texcomp/internal/report"
	"github.com/Faultbox/texcomp/internal/texinfo"
)

// Output file names.
const (
	TexInfoFile = "texinfo.bin"
	FacesFile   = "faces.yaml"
)

// FaceResult is what a face builder needs for one manifest face.
type FaceResult struct {
	Face          int   `yaml:"face"`
	TexInfo       int   `yaml:"texinfo"`
	Rotation      int   `yaml:"rotation"`
	Animated      bool  `yaml:"animated,omitempty"`
	ConvertToQuad bool  `yaml:"convert_to_quad,omitempty"`
	Vertices      []int `yaml:"vertices,omitempty"`
}

// Result is a compiled level.
type Result struct {
	Level    *manifest.Level
	Layout   *texinfo.Layout
	Faces    []FaceResult
	Warnings []report.Warning
}

// Settings converts the compiler section of cfg.
func Settings(cfg *config.Config) texinfo.Settings {
	c := cfg.Compiler
	return texinfo.Settings{
		TileSize:              c.TileSize,
		Padding:               c.Padding,
		MaxAtlasSize:          c.MaxAtlasSize,
		FastMode:              c.FastMode,
		RemapAnimatedTextures: c.RemapAnimatedTextures,
		NormalMaps:            c.NormalMaps,
		Workers:               c.Workers,
	}
}

// Compile loads the manifest at path, submits every face and lays out the
// textures. Image paths resolve relative to the manifest.
func Compile(ctx context.Context, cfg *config.Config, path string, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	rep := report.New(log)
	lib := assets.NewLibrary(filepath.Dir(path), cfg.Compiler.ColorKey, log)
	lvl, err := m.Resolve(ctx, lib, cfg.Compiler.Workers, rep)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	hits, _ := lib.Stats()
	log.Info("manifest loaded",
		zap.String("level", lvl.Name),
		zap.Int("textures", len(lvl.Textures)),
		zap.Int("animated_sets", len(lvl.AnimatedSets)),
		zap.Int("faces", len(lvl.Faces)),
		zap.Int("images_decoded", lib.Cached()),
		zap.Int("images_shared", hits))

	mgr := texinfo.NewManager(Settings(cfg), lvl.AnimatedSets, log, rep)

	faces := make([]FaceResult, 0, len(lvl.Faces))
	for i, f := range lvl.Faces {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := mgr.AddTexture(f.Area, f.Destination, f.IsTriangle, f.RequireSort, f.Topmost)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		faces = append(faces, faceResult(i, f, res))
	}

	layout, err := mgr.LayOutAllData()
	if err != nil {
		return nil, err
	}

	return &Result{
		Level:    lvl,
		Layout:   layout,
		Faces:    faces,
		Warnings: rep.Warnings(),
	}, nil
}

func faceResult(i int, f manifest.Face, res texinfo.Result) FaceResult {
	fr := FaceResult{
		Face:          i,
		TexInfo:       res.TexInfoIndex,
		Rotation:      res.Rotation,
		Animated:      res.Animated,
		ConvertToQuad: res.ConvertToQuad,
	}
	if len(f.Vertices) == 0 {
		return fr
	}
	fr.Vertices = texinfo.RotateFace(f.Vertices, res.Rotation)
	if res.ConvertToQuad && len(fr.Vertices) == 3 {
		q := texinfo.TriangleAsQuad(fr.Vertices)
		fr.Vertices = q[:]
	}
	return fr
}

// WriteOptions select the optional outputs.
type WriteOptions struct {
	Atlases bool
	Faces   bool
	Workers int
}

// Write stores the texinfo stream and the selected outputs in dir and
// returns the paths written.
func (r *Result) Write(ctx context.Context, dir string, opts WriteOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	infoPath := filepath.Join(dir, TexInfoFile)
	if err := r.writeTexInfo(infoPath); err != nil {
		return nil, err
	}
	written := []string{infoPath}

	if opts.Faces {
		path := filepath.Join(dir, FacesFile)
		data, err := yaml.Marshal(r.Faces)
		if err != nil {
			return nil, fmt.Errorf("encoding faces: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	if opts.Atlases {
		paths, err := r.writeAtlases(ctx, dir, opts.Workers)
		if err != nil {
			return nil, err
		}
		written = append(written, paths...)
	}
	return written, nil
}

func (r *Result) writeTexInfo(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if _, err := r.Layout.WriteTo(w); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// AtlasFileName returns the image name of an atlas.
func AtlasFileName(cat texinfo.Category, index int, normal bool) string {
	if normal {
		return fmt.Sprintf("%s_%d_normal.png", cat, index)
	}
	return fmt.Sprintf("%s_%d.png", cat, index)
}

func (r *Result) writeAtlases(ctx context.Context, dir string, workers int) ([]string, error) {
	var paths []string
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, cat := range texinfo.Categories {
		for i, a := range r.Layout.Atlases[cat] {
			color := filepath.Join(dir, AtlasFileName(cat, i, false))
			paths = append(paths, color)
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return imaging.Save(a.Color, color)
			})
			if a.Normal == nil {
				continue
			}
			normal := filepath.Join(dir, AtlasFileName(cat, i, true))
			paths = append(paths, normal)
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return imaging.Save(a.Normal, normal)
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("writing atlases: %w", err)
	}
	return paths, nil
}
