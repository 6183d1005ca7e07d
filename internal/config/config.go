package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the input paths, render settings and pipeline tuning shared
// by the command line tools.
type Config struct {
	// Paths
	BaseDir       string `json:"base_dir" toml:"base_dir"`
	Recording     string `json:"recording" toml:"recording"`
	BindPoseLeft  string `json:"bind_pose_left" toml:"bind_pose_left"`
	BindPoseRight string `json:"bind_pose_right" toml:"bind_pose_right"`
	ShapesDir     string `json:"shapes_dir" toml:"shapes_dir"`
	OutputDir     string `json:"output_dir" toml:"output_dir"`

	// Render settings
	RenderSize  int    `json:"render_size" toml:"render_size"`
	Supersample int    `json:"supersample" toml:"supersample"`
	Format      string `json:"format" toml:"format"` // webp or tga
	View        string `json:"view" toml:"view"`     // default or top
	FrameStep   int    `json:"frame_step" toml:"frame_step"`
	Workers     int    `json:"workers" toml:"workers"`

	// Pipeline
	FallbackLength float64 `json:"fallback_length" toml:"fallback_length"`
	LogLevel       string  `json:"log_level" toml:"log_level"`
}

// Load reads a config file, TOML for .toml and JSON otherwise.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Recording != "" {
		c.Recording = flags.Recording
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.ShapesDir != "" {
		c.ShapesDir = flags.ShapesDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	if c.BaseDir == "" {
		c.BaseDir, _ = os.Getwd()
	}

	// Resolve relative paths against base dir
	c.Recording = c.abs(c.Recording)
	c.BindPoseLeft = c.abs(c.BindPoseLeft)
	c.BindPoseRight = c.abs(c.BindPoseRight)
	c.ShapesDir = c.abs(c.ShapesDir)
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.BaseDir, "renders")
	} else {
		c.OutputDir = c.abs(c.OutputDir)
	}

	// Defaults for render settings
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	c.Format = strings.ToLower(c.Format)
	if c.Format != "tga" {
		c.Format = "webp"
	}
	if c.View == "" {
		c.View = "default"
	}
	if c.FrameStep <= 0 {
		c.FrameStep = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.FallbackLength <= 0 {
		c.FallbackLength = 0.01
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) abs(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Recording string
	OutputDir string
	ShapesDir string
	Format    string
	Workers   int
	LogLevel  string
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
