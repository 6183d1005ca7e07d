package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"handpose/internal/asset"
	"handpose/internal/batch"
	"handpose/internal/bindpose"
	"handpose/internal/config"
	"handpose/internal/hand"
	"handpose/internal/render"
	"handpose/internal/replay"
	"handpose/internal/shape"
	"handpose/internal/skeleton"
	"handpose/internal/viewmatrix"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	recording := flag.String("recording", "", "Recording to replay (JSON lines)")
	outputDir := flag.String("output", "", "Output directory (default: <base>/renders)")
	shapesDir := flag.String("shapes", "", "Directory of captured shapes to match")
	format := flag.String("format", "", "Image format: webp or tga (default: webp)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error")
	testN := flag.Int("test", 0, "Render only the first N frames")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Recording: *recording,
		OutputDir: *outputDir,
		ShapesDir: *shapesDir,
		Format:    *format,
		Workers:   *workers,
		LogLevel:  *logLevel,
	})
	logger := cfg.Logger(os.Stderr)

	if cfg.Recording == "" {
		fmt.Fprintln(os.Stderr, "Error: no recording. Use -recording flag or config file.")
		os.Exit(1)
	}

	rec, err := replay.Open(cfg.Recording)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading recording: %v\n", err)
		os.Exit(1)
	}

	var bind [2]*skeleton.PoseArray
	for h, path := range map[hand.Handedness]string{hand.Left: cfg.BindPoseLeft, hand.Right: cfg.BindPoseRight} {
		if path == "" {
			continue
		}
		bp, err := asset.LoadBindPose(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading bind pose: %v\n", err)
			os.Exit(1)
		}
		if bp.Handedness != h {
			fmt.Fprintf(os.Stderr, "Error: %s is a %s bind pose, want %s\n", path, bp.Handedness, h)
			os.Exit(1)
		}
		bind[h] = &bp.Poses
	}

	var matcher *shape.Matcher
	if cfg.ShapesDir != "" {
		shapes, err := asset.LoadShapes(cfg.ShapesDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading shapes: %v\n", err)
			os.Exit(1)
		}
		matcher, err = shape.NewMatcher(shapes...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading shapes: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Shapes: %d loaded\n", len(shapes))
	}

	view, err := viewmatrix.Named(cfg.View)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Replay every tick so the pipelines see the full stream; keep one scene
	// per FrameStep.
	tracker := batch.NewTracker(batch.TrackerConfig{
		Source:         rec,
		Cache:          bindpose.NewCache(logger),
		BindPoses:      bind,
		Matcher:        matcher,
		FallbackLength: cfg.FallbackLength,
		Logger:         logger,
	})
	var scenes []render.Scene
	for rec.Next() {
		fr, _ := rec.Current()
		sc := tracker.Step(fr.Index, fr.Time)
		if fr.Index%cfg.FrameStep == 0 {
			scenes = append(scenes, sc)
		}
		if *testN > 0 && len(scenes) >= *testN {
			break
		}
	}

	if len(scenes) == 0 {
		fmt.Println("No frames to render.")
		os.Exit(0)
	}

	fmt.Printf("Hand skeleton renderer → %s\n", cfg.Format)
	fmt.Printf("Frames: %d of %d, Workers: %d\n", len(scenes), len(rec.Frames), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	opts := render.DefaultOptions()
	opts.Size = cfg.RenderSize
	opts.Supersample = cfg.Supersample
	opts.View = view

	results := batch.Run(batch.Config{
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
		Options:   opts,
		Workers:   cfg.Workers,
		Progress:  os.Stdout,
	}, scenes)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	failed := batch.Failed(results)
	fmt.Printf("Rendered: %d/%d\n", len(results)-len(failed), len(results))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		limit := min(20, len(failed))
		for _, e := range failed[:limit] {
			fmt.Printf("  frame %d: %s\n", e.Index, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	m := batch.NewManifest(cfg.Recording, cfg.Format, scenes, results)
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, m); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s (run %s)\n", manifestPath, m.RunID)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
