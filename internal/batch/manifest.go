package batch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"handpose/internal/render"
)

// Manifest describes one batch run.
type Manifest struct {
	RunID     string          `json:"run_id"`
	Created   time.Time       `json:"created"`
	Recording string          `json:"recording,omitempty"`
	Format    string          `json:"format"`
	Frames    []ManifestEntry `json:"frames"`
}

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index int         `json:"index"`
	Time  float64     `json:"time"`
	Image string      `json:"image,omitempty"`
	Error string      `json:"error,omitempty"`
	Hands []HandEntry `json:"hands"`
}

// HandEntry is the per-hand summary of a frame.
type HandEntry struct {
	Hand       string   `json:"hand"`
	State      string   `json:"state"`
	Confidence float64  `json:"confidence"`
	Matches    []string `json:"matches,omitempty"`
}

// NewManifest builds a manifest for scenes and their render results, paired
// by index.
func NewManifest(recording, format string, scenes []render.Scene, results []Result) Manifest {
	m := Manifest{
		RunID:     uuid.NewString(),
		Created:   time.Now().UTC(),
		Recording: recording,
		Format:    format,
		Frames:    make([]ManifestEntry, len(scenes)),
	}
	for i, sc := range scenes {
		e := ManifestEntry{Index: sc.Index, Time: sc.Time, Hands: make([]HandEntry, len(sc.Hands))}
		if i < len(results) {
			if results[i].Success {
				e.Image = results[i].Image
			} else {
				e.Error = results[i].Error
			}
		}
		for j := range sc.Hands {
			p := &sc.Hands[j].Pose
			e.Hands[j] = HandEntry{
				Hand:       p.Hand.String(),
				State:      p.State.String(),
				Confidence: p.Conf,
				Matches:    sc.Hands[j].Matches,
			}
		}
		m.Frames[i] = e
	}
	return m
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
