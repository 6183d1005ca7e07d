package batch

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handpose/internal/hand"
	"handpose/internal/render"
	"handpose/internal/skeleton"
)

func scenes(n int) []render.Scene {
	out := make([]render.Scene, n)
	for i := range out {
		inst := skeleton.NewInstance(hand.Left)
		out[i] = render.Scene{
			Index: i,
			Time:  float64(i) / 10,
			Hands: []render.HandFrame{{Pose: skeleton.Capture(inst), Matches: []string{"open"}}},
		}
	}
	return out
}

func testOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Size = 16
	opts.Supersample = 1
	opts.Label = false
	return opts
}

func TestRun_WritesEveryFrame(t *testing.T) {
	dir := t.TempDir()
	sc := scenes(7)
	var progress bytes.Buffer
	results := Run(Config{
		OutputDir: dir,
		Format:    render.FormatTGA,
		Options:   testOptions(),
		Workers:   3,
		Progress:  &progress,
	}, sc)

	require.Len(t, results, len(sc))
	assert.Empty(t, Failed(results))
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, FrameName(i, render.FormatTGA), r.Image)
		assert.FileExists(t, filepath.Join(dir, r.Image))
	}
}

func TestRun_ReportsErrors(t *testing.T) {
	results := Run(Config{
		OutputDir: t.TempDir(),
		Format:    "bmp",
		Options:   testOptions(),
		Workers:   2,
	}, scenes(2))

	failed := Failed(results)
	require.Len(t, failed, 2)
	assert.Contains(t, failed[0].Error, "unknown format")
}

func TestFrameName(t *testing.T) {
	assert.Equal(t, "frame_000042.webp", FrameName(42, ""))
	assert.Equal(t, "frame_000001.tga", FrameName(1, "tga"))
}

func TestManifest(t *testing.T) {
	sc := scenes(2)
	results := []Result{
		{Index: 0, Image: FrameName(0, "webp"), Success: true},
		{Index: 1, Image: FrameName(1, "webp"), Error: "disk full"},
	}
	m := NewManifest("rec.jsonl", "webp", sc, results)
	_, err := uuid.Parse(m.RunID)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, WriteManifest(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, m.RunID, got.RunID)
	require.Len(t, got.Frames, 2)
	assert.Equal(t, "frame_000000.webp", got.Frames[0].Image)
	assert.Empty(t, got.Frames[1].Image)
	assert.Equal(t, "disk full", got.Frames[1].Error)
	assert.Equal(t, []HandEntry{{Hand: "left", State: "not_tracking", Matches: []string{"open"}}}, got.Frames[0].Hands)
}
