// Package config handles compiler configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Config holds all compiler settings.
type Config struct {
	Compiler CompilerConfig `yaml:"compiler"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CompilerConfig holds texture packing settings.
type CompilerConfig struct {
	TileSize              int  `yaml:"tile_size"`      // Page edge in pixels, power of two
	Padding               int  `yaml:"padding"`        // Replicated edge pixels per side
	MaxAtlasSize          int  `yaml:"max_atlas_size"` // Atlas edge limit in pixels
	FastMode              bool `yaml:"fast_mode"`
	RemapAnimatedTextures bool `yaml:"remap_animated_textures"`
	NormalMaps            bool `yaml:"normal_maps"`
	ColorKey              bool `yaml:"color_key"` // Magenta is transparent in source images
	Workers               int  `yaml:"workers"`   // 0 uses every CPU
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	WriteAtlases bool   `yaml:"write_atlases"`
	WriteFaces   bool   `yaml:"write_faces"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Compiler: CompilerConfig{
			TileSize:              256,
			Padding:               8,
			MaxAtlasSize:          4096,
			FastMode:              false,
			RemapAnimatedTextures: true,
			NormalMaps:            true,
			ColorKey:              true,
			Workers:               0,
		},
		Output: OutputConfig{
			Dir:          "out",
			WriteAtlases: true,
			WriteFaces:   true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that the packing settings are usable.
func (c *Config) Validate() error {
	var err error
	cc := c.Compiler
	if cc.TileSize <= 0 || cc.TileSize&(cc.TileSize-1) != 0 {
		err = multierr.Append(err, fmt.Errorf("compiler.tile_size %d is not a power of two", cc.TileSize))
	}
	if cc.Padding < 0 || (cc.TileSize > 0 && cc.Padding >= cc.TileSize/2) {
		err = multierr.Append(err, fmt.Errorf("compiler.padding %d must be in [0, tile_size/2)", cc.Padding))
	}
	if cc.TileSize > 0 && (cc.MaxAtlasSize < cc.TileSize || cc.MaxAtlasSize%cc.TileSize != 0) {
		err = multierr.Append(err, fmt.Errorf("compiler.max_atlas_size %d is not a multiple of tile_size %d", cc.MaxAtlasSize, cc.TileSize))
	}
	if cc.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("compiler.workers %d is negative", cc.Workers))
	}
	if c.Output.Dir == "" {
		err = multierr.Append(err, fmt.Errorf("output.dir is empty"))
	}
	return err
}
