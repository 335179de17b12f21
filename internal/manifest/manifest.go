// Package manifest reads the YAML description of a level's textures,
// animated sets and faces.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/texcomp/pkg/level"
)

// Point is a texture coordinate in source image pixels.
type Point [2]float32

// Manifest is the parsed manifest file.
type Manifest struct {
	Name         string            `yaml:"name"`
	Textures     []TextureSpec     `yaml:"textures"`
	AnimatedSets []AnimatedSetSpec `yaml:"animated_sets"`
	Faces        []FaceSpec        `yaml:"faces"`
}

// TextureSpec declares a source image.
type TextureSpec struct {
	Name      string `yaml:"name"`
	Path      string `yaml:"path"`
	Kind      string `yaml:"kind"`       // level, imported or catalog
	BumpLevel int    `yaml:"bump_level"` // 0-3
	BumpMap   string `yaml:"bump_map"`
}

// AnimatedSetSpec declares an animated texture set.
type AnimatedSetSpec struct {
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type"`
	Fps      float32     `yaml:"fps"`
	UVRotate int8        `yaml:"uv_rotate"`
	Frames   []FrameSpec `yaml:"frames"`
}

// FrameSpec is one frame of an animated set.
type FrameSpec struct {
	Texture string  `yaml:"texture"`
	UV      []Point `yaml:"uv"`
	Repeat  int     `yaml:"repeat"`
}

// FaceSpec is one textured face.
type FaceSpec struct {
	Texture     string    `yaml:"texture"`
	UV          []Point   `yaml:"uv"`
	Blend       string    `yaml:"blend"`
	Destination string    `yaml:"destination"`
	DoubleSided bool      `yaml:"double_sided"`
	RequireSort bool      `yaml:"require_sort"`
	Topmost     bool      `yaml:"topmost"`
	ParentArea  []float32 `yaml:"parent_area"` // x0, y0, x1, y1
	Vertices    []int     `yaml:"vertices"`
}

// Parse decodes a manifest. Unknown fields are errors.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Validate checks references and enumerations. All problems are reported
// together.
func (m *Manifest) Validate() error {
	var err error
	names := make(map[string]bool, len(m.Textures))
	for i, t := range m.Textures {
		switch {
		case t.Name == "":
			err = multierr.Append(err, fmt.Errorf("texture %d: missing name", i))
		case names[t.Name]:
			err = multierr.Append(err, fmt.Errorf("texture %q: duplicate name", t.Name))
		}
		names[t.Name] = true
		if t.Path == "" {
			err = multierr.Append(err, fmt.Errorf("texture %q: missing path", t.Name))
		}
		if _, kerr := level.ParseSourceKind(t.Kind); kerr != nil {
			err = multierr.Append(err, fmt.Errorf("texture %q: %w", t.Name, kerr))
		}
		if t.BumpLevel < int(level.BumpNone) || t.BumpLevel > int(level.BumpLevel3) {
			err = multierr.Append(err, fmt.Errorf("texture %q: bump level %d out of range", t.Name, t.BumpLevel))
		}
	}

	for _, s := range m.AnimatedSets {
		if _, terr := level.ParseAnimationType(s.Type); terr != nil {
			err = multierr.Append(err, fmt.Errorf("animated set %q: %w", s.Name, terr))
		}
		if len(s.Frames) == 0 {
			err = multierr.Append(err, fmt.Errorf("animated set %q: no frames", s.Name))
		}
		for i, f := range s.Frames {
			if !names[f.Texture] {
				err = multierr.Append(err, fmt.Errorf("animated set %q frame %d: unknown texture %q", s.Name, i, f.Texture))
			}
			if len(f.UV) != 4 {
				err = multierr.Append(err, fmt.Errorf("animated set %q frame %d: expected 4 coordinates, got %d", s.Name, i, len(f.UV)))
			}
		}
	}

	for i, f := range m.Faces {
		if !names[f.Texture] {
			err = multierr.Append(err, fmt.Errorf("face %d: unknown texture %q", i, f.Texture))
		}
		if len(f.UV) != 3 && len(f.UV) != 4 {
			err = multierr.Append(err, fmt.Errorf("face %d: expected 3 or 4 coordinates, got %d", i, len(f.UV)))
		}
		if len(f.Vertices) != 0 && len(f.Vertices) != len(f.UV) {
			err = multierr.Append(err, fmt.Errorf("face %d: %d vertices for %d coordinates", i, len(f.Vertices), len(f.UV)))
		}
		if len(f.ParentArea) != 0 && len(f.ParentArea) != 4 {
			err = multierr.Append(err, fmt.Errorf("face %d: parent area needs 4 values", i))
		}
		if _, berr := level.ParseBlendMode(f.Blend); berr != nil {
			err = multierr.Append(err, fmt.Errorf("face %d: %w", i, berr))
		}
		if _, derr := level.ParseDestination(f.Destination); derr != nil {
			err = multierr.Append(err, fmt.Errorf("face %d: %w", i, derr))
		}
	}
	return err
}
