package batch

import (
	"log/slog"

	"handpose/internal/armature"
	"handpose/internal/bindpose"
	"handpose/internal/hand"
	"handpose/internal/ingest"
	"handpose/internal/render"
	"handpose/internal/sensor"
	"handpose/internal/shape"
	"handpose/internal/skeleton"
)

// Tracker runs both hands through ingestion, segment derivation and shape
// matching once per tick and captures the result as a render scene.
type Tracker struct {
	pipelines [2]*ingest.Pipeline
	instances [2]*skeleton.Instance
	derivers  [2]*armature.Deriver
	matcher   *shape.Matcher
	logger    *slog.Logger
}

// TrackerConfig wires a Tracker. Matcher and the custom bind poses are
// optional.
type TrackerConfig struct {
	Source         sensor.Source
	Cache          *bindpose.Cache
	BindPoses      [2]*skeleton.PoseArray
	Matcher        *shape.Matcher
	FallbackLength float64
	Logger         *slog.Logger
}

// NewTracker creates one pipeline, instance and deriver per hand.
func NewTracker(cfg TrackerConfig) *Tracker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cache := cfg.Cache
	if cache == nil {
		cache = bindpose.NewCache(logger)
	}

	t := &Tracker{matcher: cfg.Matcher, logger: logger}
	for _, h := range hand.Both {
		opts := []ingest.Option{ingest.WithLogger(logger)}
		if cfg.BindPoses[h] != nil {
			opts = append(opts, ingest.WithBindPose(cfg.BindPoses[h]))
		}
		t.pipelines[h] = ingest.New(h, cfg.Source, cache, opts...)
		t.instances[h] = skeleton.NewInstance(h)
		d := armature.NewDeriver()
		if cfg.FallbackLength > 0 {
			d.FallbackLength = cfg.FallbackLength
		}
		t.derivers[h] = d
	}
	return t
}

// Instance returns the live skeleton of a hand.
func (t *Tracker) Instance(h hand.Handedness) *skeleton.Instance { return t.instances[h] }

// Step ticks both hands and returns the frame as a scene.
func (t *Tracker) Step(index int, time float64) render.Scene {
	sc := render.Scene{Index: index, Time: time, Hands: make([]render.HandFrame, 0, 2)}
	for _, h := range hand.Both {
		inst := t.instances[h]
		t.pipelines[h].Tick(inst)

		hf := render.HandFrame{Pose: skeleton.Capture(inst)}
		segs, err := t.derivers[h].Derive(&hf.Pose)
		if err != nil {
			t.logger.Warn("derive segments", "hand", h, "err", err)
		}
		hf.Segments = segs
		for f := hand.Finger(0); int(f) < hand.FingerCount; f++ {
			hf.Pinching[f] = inst.Finger(f).Pinching
		}

		if t.matcher != nil && inst.IsTracking() {
			names, err := t.matcher.Matching(inst)
			if err != nil {
				t.logger.Warn("match shapes", "hand", h, "err", err)
			}
			hf.Matches = names
		}
		sc.Hands = append(sc.Hands, hf)
	}
	return sc
}
