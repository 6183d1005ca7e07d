package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_TOMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "handpose.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
recording = "rec/session.jsonl"
render_size = 512
format = "TGA"
fallback_length = 0.02
`), 0o644))
	jsonPath := filepath.Join(dir, "handpose.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"recording": "rec/session.jsonl", "render_size": 512, "format": "TGA", "fallback_length": 0.02}`), 0o644))

	a, err := Load(tomlPath)
	require.NoError(t, err)
	b, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 512, a.RenderSize)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestResolve_Defaults(t *testing.T) {
	c := Config{BaseDir: "/data", Recording: "rec.jsonl", ShapesDir: "/abs/shapes"}
	c.Resolve(Flags{})

	assert.Equal(t, filepath.Join("/data", "rec.jsonl"), c.Recording)
	assert.Equal(t, "/abs/shapes", c.ShapesDir)
	assert.Equal(t, filepath.Join("/data", "renders"), c.OutputDir)
	assert.Equal(t, 256, c.RenderSize)
	assert.Equal(t, 2, c.Supersample)
	assert.Equal(t, "webp", c.Format)
	assert.Equal(t, "default", c.View)
	assert.Equal(t, 1, c.FrameStep)
	assert.Equal(t, runtime.NumCPU(), c.Workers)
	assert.Equal(t, 0.01, c.FallbackLength)
	assert.Equal(t, "", c.BindPoseLeft)
}

func TestResolve_FlagsOverride(t *testing.T) {
	c := Config{BaseDir: "/data", Format: "webp", Workers: 3, LogLevel: "info"}
	c.Resolve(Flags{Format: "TGA", Workers: 8, OutputDir: "out", LogLevel: "debug"})
	assert.Equal(t, "tga", c.Format)
	assert.Equal(t, 8, c.Workers)
	assert.Equal(t, filepath.Join("/data", "out"), c.OutputDir)

	var buf bytes.Buffer
	c.Logger(&buf).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}
