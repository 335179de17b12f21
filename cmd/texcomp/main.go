// texcomp compiles level texture areas into packed atlases and a texture
// info stream.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/texcomp/internal/compiler"
	"github.com/Faultbox/texcomp/internal/config"
	"github.com/Faultbox/texcomp/internal/logger"
	"github.com/Faultbox/texcomp/internal/texinfo"
	"github.com/Faultbox/texcomp/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "compile", "c":
		cmdCompile(args)
	case "info":
		cmdInfo(args)
	case "init-config":
		cmdInitConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`texcomp - level texture atlas compiler

Usage:
  texcomp <command> [options]

Commands:
  compile [flags] <level.yaml>  Compile a level manifest
  info <texinfo.bin>            Show texture info stream contents
  init-config [path]            Write the default config file

Compile flags:
  -config <file>     Config file (default ./texcomp.yaml or user config dir)
  -out <dir>         Output directory
  -fast              Skip merging overlapping texture areas
  -padding <n>       Edge padding in pixels
  -tile-size <n>     Page size in pixels
  -workers <n>       Parallel workers (0 = all CPUs)
  -no-atlas          Do not write atlas images
  -debug             Enable debug logging

Examples:
  texcomp compile -out build levels/cave.yaml
  texcomp info build/texinfo.bin
  texcomp init-config ./texcomp.yaml`)
}

func cmdCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	flags := config.NewFlags()
	flags.Register(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: texcomp compile [flags] <level.yaml>")
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	res, err := compiler.Compile(ctx, cfg, fs.Arg(0), logger.Log)
	if err != nil {
		logger.Error("compile failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	written, err := res.Write(ctx, cfg.Output.Dir, compiler.WriteOptions{
		Atlases: cfg.Output.WriteAtlases,
		Faces:   cfg.Output.WriteFaces,
		Workers: cfg.Compiler.Workers,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Level:           %s\n", res.Level.Name)
	fmt.Printf("Faces:           %d\n", len(res.Faces))
	fmt.Printf("Object textures: %d\n", len(res.Layout.ObjectTextures))
	fmt.Printf("Animations:      %d\n", len(res.Layout.Animations))
	for _, cat := range texinfo.Categories {
		atlases := res.Layout.Atlases[cat]
		if len(atlases) == 0 {
			continue
		}
		fmt.Printf("  %-10s %d pages in %d atlases, %.0f%% used\n",
			cat, res.Layout.PageCounts[cat], len(atlases), res.Layout.MeanUsage(cat)*100)
	}
	fmt.Printf("Warnings:        %d\n", len(res.Warnings))
	fmt.Printf("Time:            %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Println()
	for _, path := range written {
		fmt.Printf("Wrote %s\n", path)
	}
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: texcomp info <texinfo.bin>")
		os.Exit(1)
	}

	info, err := formats.ParseTexInfoFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:       %s\n", args[0])
	fmt.Printf("Version:    %d\n", info.Version)
	fmt.Printf("Records:    %d\n", len(info.Records))
	fmt.Printf("Sequences:  %d\n", len(info.Sequences))

	var animated, triangles int
	perAtlas := make(map[int]int)
	for _, r := range info.Records {
		perAtlas[r.Atlas()]++
		if r.IsTriangle() {
			triangles++
		}
		if r.Attributes&formats.AttrAnimated != 0 {
			animated++
		}
	}
	fmt.Printf("Triangles:  %d\n", triangles)
	fmt.Printf("Animated:   %d\n", animated)

	if len(perAtlas) > 0 {
		fmt.Println()
		fmt.Println("Records by atlas:")
		atlases := make([]int, 0, len(perAtlas))
		for a := range perAtlas {
			atlases = append(atlases, a)
		}
		sort.Ints(atlases)
		for _, a := range atlases {
			fmt.Printf("  %-4d %d\n", a, perAtlas[a])
		}
	}

	for i, s := range info.Sequences {
		if i == 0 {
			fmt.Println()
			fmt.Println("Sequences:")
		}
		fmt.Printf("  %-4d type=%d fps=%.1f frames=%d\n", i, s.Type, s.Fps, len(s.Frames))
	}
}

func cmdInitConfig(args []string) {
	cfg := config.Default()

	var err error
	path := "the user config directory"
	if len(args) > 0 {
		path = args[0]
		err = cfg.SaveTo(path)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote default config to %s\n", path)
}
