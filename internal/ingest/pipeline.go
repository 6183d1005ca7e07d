// Package ingest turns per-tick vendor hand snapshots into canonical relative
// poses on a skeleton.Instance.
package ingest

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/stat"

	"handpose/internal/bindpose"
	"handpose/internal/convert"
	"handpose/internal/hand"
	"handpose/internal/mathutil"
	"handpose/internal/sensor"
	"handpose/internal/skeleton"
)

// Pipeline drives one instance. It is not safe for concurrent use; run one
// pipeline per hand on the tick goroutine.
type Pipeline struct {
	hand   hand.Handedness
	src    sensor.Source
	cache  *bindpose.Cache
	custom *skeleton.PoseArray
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithBindPose supplies an authored bind pose. Its positions replace the
// cached ones; rotations still come from the live vendor data.
func WithBindPose(bind *skeleton.PoseArray) Option {
	return func(p *Pipeline) { p.custom = bind }
}

// New returns a pipeline for hand h reading from src.
func New(h hand.Handedness, src sensor.Source, cache *bindpose.Cache, opts ...Option) *Pipeline {
	p := &Pipeline{
		hand:   h,
		src:    src,
		cache:  cache,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = bindpose.NewCache(p.logger)
	}
	return p
}

// Handedness returns the hand the pipeline serves.
func (p *Pipeline) Handedness() hand.Handedness { return p.hand }

// Tick ingests one vendor snapshot into inst and returns its resulting state.
// Vendor failures never escape: the instance goes NotTracking with its last
// pose frozen and the next tick retries.
func (p *Pipeline) Tick(inst *skeleton.Instance) skeleton.State {
	bind := p.custom
	if bind == nil {
		if !p.cache.EnsureInitialized(p.src, p.hand) {
			return p.lose(inst, "bind pose unavailable")
		}
		bind, _ = p.cache.Get(p.hand)
	}
	if inst.BindPose() != bind {
		inst.SetBindPose(bind)
	}

	st, err := p.src.HandState(p.hand)
	if err != nil {
		return p.lose(inst, err.Error())
	}
	if !st.Tracked() {
		return p.lose(inst, "hand not tracked")
	}

	frame := p.frame(inst, bind, st)
	from := inst.State()
	inst.Commit(frame)
	if from != skeleton.Tracking {
		p.logger.Info("hand tracking", "hand", p.hand, "from", from, "to", skeleton.Tracking,
			"confidence", frame.Confidence)
	}
	return skeleton.Tracking
}

func (p *Pipeline) lose(inst *skeleton.Instance, reason string) skeleton.State {
	if inst.State() != skeleton.NotTracking {
		p.logger.Info("hand lost", "hand", p.hand, "from", inst.State(), "to", skeleton.NotTracking,
			"reason", reason)
	}
	inst.MarkNotTracking()
	return skeleton.NotTracking
}

// frame builds the next frame in scratch space, starting from the current
// poses so that rejected writes keep the previous value.
func (p *Pipeline) frame(inst *skeleton.Instance, bind *skeleton.PoseArray, st sensor.HandState) skeleton.Frame {
	h := p.hand
	poses := inst.Poses()

	poses.SetPosition(hand.Root, convert.Position(st.RootPose.Position, h))
	if !poses.SetRotation(hand.Root, convert.RootRotation(st.RootPose.Orientation, h)) {
		p.logger.Debug("rejected rotation", "hand", h, "bone", hand.Root)
	}

	for _, id := range hand.AllBones()[1:] {
		poses.SetPosition(id, bind[id].Position)

		m := convert.Source(id)
		var rot mgl64.Quat
		if m.Merged {
			rot = convert.ComposeChainedRotation(st.BoneRotations[m.Vendor], st.BoneRotations[m.Second], h)
		} else {
			rot = convert.Rotation(st.BoneRotations[m.Vendor], h)
		}
		if !poses.SetRotation(id, rot) {
			p.logger.Debug("rejected rotation", "hand", h, "bone", id)
		}
	}

	pointer, _ := inst.Pointer()
	f := skeleton.Frame{
		Poses:   poses,
		Pointer: pointer,
		Scale:   inst.Scale(),
	}
	if st.Status.Has(sensor.StatusInputStateValid) {
		pos, rot := convert.Pose(st.PointerPose, h)
		if rot, ok := mathutil.NormalizeQuat(rot); ok && mathutil.IsValidVec3(pos) {
			f.Pointer = skeleton.Pose{Position: pos, Rotation: rot}
			f.PointerValid = true
		}
	}
	if s := float64(st.HandScale); s > 0 && !math.IsInf(s, 0) {
		f.Scale = s
	}

	f.Fingers, f.Confidence = fingers(st)
	return f
}

// fingers maps per-finger vendor data and aggregates confidence as the mean
// of the hand score and the mean finger score. Malformed finger arrays zero
// every finger.
func fingers(st sensor.HandState) ([hand.FingerCount]skeleton.FingerState, float64) {
	var out [hand.FingerCount]skeleton.FingerState
	handScore := st.HandConfidence.Score()
	if len(st.FingerConfidences) != hand.FingerCount || len(st.PinchStrength) != hand.FingerCount {
		return out, stat.Mean([]float64{handScore, 0}, nil)
	}

	scores := make([]float64, hand.FingerCount)
	for i := range out {
		scores[i] = st.FingerConfidences[i].Score()
		out[i] = skeleton.FingerState{
			Pinching:      st.Pinches&(1<<i) != 0,
			PinchStrength: clamp01(float64(st.PinchStrength[i])),
			Confidence:    scores[i],
		}
	}
	return out, stat.Mean([]float64{handScore, stat.Mean(scores, nil)}, nil)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
