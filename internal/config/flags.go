package config

import "flag"

// Flags are command-line overrides. Zero values, and -1 for Padding and
// Workers, leave the loaded value alone.
type Flags struct {
	Config   string
	Debug    bool
	Fast     bool
	Padding  int
	TileSize int
	Workers  int
	Out      string
	NoAtlas  bool
}

// Register adds the flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Fast, "fast", false, "Skip merging overlapping texture areas")
	fs.IntVar(&f.Padding, "padding", -1, "Edge padding in pixels")
	fs.IntVar(&f.TileSize, "tile-size", 0, "Page size in pixels")
	fs.IntVar(&f.Workers, "workers", -1, "Parallel workers (0 = all CPUs)")
	fs.StringVar(&f.Out, "out", "", "Output directory")
	fs.BoolVar(&f.NoAtlas, "no-atlas", false, "Do not write atlas images")
}

// NewFlags returns flags with no overrides set.
func NewFlags() *Flags {
	return &Flags{Padding: -1, Workers: -1}
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Fast {
		cfg.Compiler.FastMode = true
	}
	if f.Padding >= 0 {
		cfg.Compiler.Padding = f.Padding
	}
	if f.TileSize > 0 {
		cfg.Compiler.TileSize = f.TileSize
	}
	if f.Workers >= 0 {
		cfg.Compiler.Workers = f.Workers
	}
	if f.Out != "" {
		cfg.Output.Dir = f.Out
	}
	if f.NoAtlas {
		cfg.Output.WriteAtlases = false
	}
}
