package skeleton

import (
	"fmt"

	"handpose/internal/hand"
)

// State is the tracking state of an instance.
type State int

const (
	NotTracking State = iota
	Tracking
)

func (s State) String() string {
	switch s {
	case NotTracking:
		return "not_tracking"
	case Tracking:
		return "tracking"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// FingerState is the per-finger tracking output.
type FingerState struct {
	Pinching      bool
	PinchStrength float64 // [0,1]
	Confidence    float64 // [0,1]
}

// Frame is one complete ingestion result, committed in a single step.
type Frame struct {
	Poses        PoseArray
	Confidence   float64
	Fingers      [hand.FingerCount]FingerState
	Pointer      Pose
	PointerValid bool
	Scale        float64
}

// Instance is one tracked hand. It is created once per hand and never
// destroyed; when tracking is lost it keeps its last pose. Only the ingestion
// pipeline driving it writes to it.
type Instance struct {
	handedness hand.Handedness
	state      State
	bind       *PoseArray
	frame      Frame
	ticks      uint64
}

// NewInstance returns a not-tracking instance in the identity pose.
func NewInstance(h hand.Handedness) *Instance {
	return &Instance{
		handedness: h,
		frame:      Frame{Poses: NewPoseArray(), Pointer: Identity(), Scale: 1},
	}
}

func (s *Instance) Handedness() hand.Handedness { return s.handedness }
func (s *Instance) State() State                { return s.state }
func (s *Instance) IsTracking() bool            { return s.state == Tracking }

// Confidence is the aggregated tracking confidence in [0,1].
func (s *Instance) Confidence() float64 { return s.frame.Confidence }

// Finger returns the state of one finger.
func (s *Instance) Finger(f hand.Finger) FingerState {
	if f < 0 || int(f) >= hand.FingerCount {
		return FingerState{}
	}
	return s.frame.Fingers[f]
}

// Pointer returns the canonical pointer (UI ray) pose and whether the vendor
// reported it valid on the last tracked tick.
func (s *Instance) Pointer() (Pose, bool) { return s.frame.Pointer, s.frame.PointerValid }

// Scale is the vendor-reported hand scale.
func (s *Instance) Scale() float64 { return s.frame.Scale }

// Ticks counts committed frames.
func (s *Instance) Ticks() uint64 { return s.ticks }

// BindPose returns the shared bind pose, nil until one is attached. Callers
// must not modify it.
func (s *Instance) BindPose() *PoseArray { return s.bind }

// SetBindPose attaches a shared, read-only bind pose.
func (s *Instance) SetBindPose(bind *PoseArray) { s.bind = bind }

// Poses returns a copy of the relative pose array.
func (s *Instance) Poses() PoseArray { return s.frame.Poses }

// RelativePose returns id's pose relative to its parent.
func (s *Instance) RelativePose(id hand.BoneID) Pose {
	if !id.Valid() {
		return Identity()
	}
	return s.frame.Poses[id]
}

// Valid reports whether s is non-nil.
func (s *Instance) Valid() bool { return s != nil }

// Bones lists the bones the instance carries: always the full set.
func (s *Instance) Bones() []hand.BoneID { return hand.AllBones() }

// AbsolutePose composes id's relative pose with its parent chain. The second
// value reports whether id is a canonical bone.
func (s *Instance) AbsolutePose(id hand.BoneID) (Pose, bool) {
	if !id.Valid() {
		return Pose{}, false
	}
	return s.frame.Poses.AbsolutePose(id), true
}

// AbsolutePoses computes every absolute pose in one pass.
func (s *Instance) AbsolutePoses() PoseArray { return s.frame.Poses.Absolute() }

// Commit replaces the current frame and marks the instance tracking.
func (s *Instance) Commit(f Frame) {
	s.frame = f
	s.state = Tracking
	s.ticks++
}

// MarkNotTracking freezes the last frame.
func (s *Instance) MarkNotTracking() { s.state = NotTracking }
