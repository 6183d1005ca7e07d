// Package synthetic generates vendor-format hand data from a fixed reference
// rig: a rest skeleton per hand and a time-driven open/close motion. It backs
// the recording generator and tests that need realistic vendor input.
package synthetic

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"handpose/internal/convert"
	"handpose/internal/hand"
	"handpose/internal/sensor"
)

// Right-hand rest offsets in canonical space, relative to the vendor parent
// and expressed in the corrected root frame. The left hand mirrors X.
var restOffsets = [sensor.BoneCount]mgl64.Vec3{
	sensor.WristRoot:   {0, 0, 0},
	sensor.ForearmStub: {0, 0, -0.05},
	sensor.Thumb0:      {-0.02, -0.01, 0.02},
	sensor.Thumb1:      {-0.015, 0, 0.02},
	sensor.Thumb2:      {0, 0, 0.035},
	sensor.Thumb3:      {0, 0, 0.03},
	sensor.Index1:      {-0.02, 0, 0.09},
	sensor.Index2:      {0, 0, 0.04},
	sensor.Index3:      {0, 0, 0.025},
	sensor.Middle1:     {0, 0, 0.095},
	sensor.Middle2:     {0, 0, 0.045},
	sensor.Middle3:     {0, 0, 0.028},
	sensor.Ring1:       {0.02, 0, 0.088},
	sensor.Ring2:       {0, 0, 0.04},
	sensor.Ring3:       {0, 0, 0.026},
	sensor.Pinky0:      {0.025, 0, 0.03},
	sensor.Pinky1:      {0.015, 0, 0.05},
	sensor.Pinky2:      {0, 0, 0.03},
	sensor.Pinky3:      {0, 0, 0.02},
	sensor.ThumbTip:    {0, 0, 0.025},
	sensor.IndexTip:    {0, 0, 0.02},
	sensor.MiddleTip:   {0, 0, 0.022},
	sensor.RingTip:     {0, 0, 0.02},
	sensor.PinkyTip:    {0, 0, 0.018},
}

// restRotation is the right-hand rest rotation of a vendor bone. Only the
// joints that the canonical skeleton merges carry one.
func restRotation(id sensor.BoneID) mgl64.Quat {
	switch id {
	case sensor.Thumb0:
		return mgl64.QuatRotate(-0.4, mgl64.Vec3{0, 1, 0})
	case sensor.Thumb1:
		return mgl64.QuatRotate(0.25, mgl64.Vec3{1, 0, 0})
	case sensor.Pinky0:
		return mgl64.QuatRotate(0.15, mgl64.Vec3{0, 1, 0})
	case sensor.Pinky1:
		return mgl64.QuatRotate(-0.1, mgl64.Vec3{0, 0, 1})
	}
	return mgl64.QuatIdent()
}

// RestLocal returns the canonical rest offset and rotation of a vendor bone
// for hand h.
func RestLocal(id sensor.BoneID, h hand.Handedness) (mgl64.Vec3, mgl64.Quat) {
	p, q := restOffsets[id], restRotation(id)
	if h == hand.Left {
		p = mgl64.Vec3{-p[0], p[1], p[2]}
		q = mgl64.Quat{W: q.W, V: mgl64.Vec3{q.V[0], -q.V[1], -q.V[2]}}
	}
	return p, q
}

// toVendor undoes the canonical conversion for one bone local.
func toVendor(pos mgl64.Vec3, rot mgl64.Quat, h hand.Handedness) sensor.Posef {
	return sensor.Posef{
		Orientation: convert.ToVendorRotation(rot, h),
		Position:    convert.ToVendorPosition(pos, h),
	}
}

// Skeleton returns the reference vendor rest skeleton for h.
func Skeleton(h hand.Handedness) sensor.Skeleton {
	sk := sensor.Skeleton{Bones: make([]sensor.Bone, sensor.BoneCount)}
	for i := range sk.Bones {
		id := sensor.BoneID(i)
		b := sensor.Bone{ID: id, Parent: sensor.ParentOf(id), Pose: sensor.PosefIdentity}
		if id != sensor.WristRoot {
			pos, rot := RestLocal(id, h)
			b.Pose = toVendor(pos, rot, h)
		}
		sk.Bones[i] = b
	}
	return sk
}

// Motion drives the live state: fingers curl and open once per Period.
type Motion struct {
	Period   float64 // seconds per close/open cycle
	MaxCurl  float64 // radians per joint at full close
	DropRate int     // every DropRate-th frame is untracked; 0 never drops
	Position mgl64.Vec3
}

// DefaultMotion is a two second grip cycle in front of the viewer.
var DefaultMotion = Motion{Period: 2, MaxCurl: 1.2, Position: mgl64.Vec3{0, 1.2, 0.3}}

// Curl returns the per-joint curl angle at time t.
func (m Motion) Curl(t float64) float64 {
	if m.Period <= 0 {
		return 0
	}
	return m.MaxCurl * (1 - math.Cos(2*math.Pi*t/m.Period)) / 2
}

// State builds the vendor hand state of h at time t.
func (m Motion) State(h hand.Handedness, t float64) sensor.HandState {
	curl := m.Curl(t)
	bend := mgl64.QuatRotate(curl, mgl64.Vec3{1, 0, 0})

	st := sensor.HandState{
		Status:            sensor.StatusHandTracked | sensor.StatusInputStateValid,
		HandScale:         1,
		HandConfidence:    sensor.ConfidenceHigh,
		FingerConfidences: make([]sensor.Confidence, sensor.FingerCount),
		PinchStrength:     make([]float32, sensor.FingerCount),
		SampleTime:        t,
	}

	// root: canonical wrist pose is m.Position with no rotation; the vendor
	// reports it before the root correction is applied
	root := convert.RootCorrection(h).Inverse()
	st.RootPose = sensor.Posef{
		Orientation: convert.ToVendorRotation(root, h),
		Position:    convert.ToVendorPosition(m.Position, h),
	}
	st.PointerPose = sensor.Posef{
		Orientation: sensor.QuatfIdentity,
		Position:    convert.ToVendorPosition(m.Position.Add(mgl64.Vec3{0, 0, 0.1}), h),
	}

	for i := range st.BoneRotations {
		id := sensor.BoneID(i)
		if id == sensor.WristRoot {
			st.BoneRotations[i] = sensor.QuatfIdentity
			continue
		}
		pos, rot := RestLocal(id, h)
		if curls(id) {
			rot = rot.Mul(bend)
		}
		st.BoneRotations[i] = toVendor(pos, rot, h).Orientation
	}

	strength := curl / math.Max(m.MaxCurl, 1e-9)
	for f := range st.FingerConfidences {
		st.FingerConfidences[f] = sensor.ConfidenceHigh
		if f == int(hand.Thumb) {
			continue
		}
		st.PinchStrength[f] = float32(strength)
		if strength > 0.8 {
			st.Pinches |= 1 << f
		}
	}
	return st
}

func curls(id sensor.BoneID) bool {
	switch id {
	case sensor.Index1, sensor.Index2, sensor.Index3,
		sensor.Middle1, sensor.Middle2, sensor.Middle3,
		sensor.Ring1, sensor.Ring2, sensor.Ring3,
		sensor.Pinky1, sensor.Pinky2, sensor.Pinky3,
		sensor.Thumb2, sensor.Thumb3:
		return true
	}
	return false
}

// Source is a sensor.Source replaying Motion on a fixed timestep. Each
// HandState call advances that hand by one frame.
type Source struct {
	Motion Motion
	Step   float64 // seconds per frame

	mu    sync.Mutex
	frame [2]int
}

// NewSource returns a source stepping motion at fps frames per second.
func NewSource(motion Motion, fps float64) *Source {
	if fps <= 0 {
		fps = 60
	}
	return &Source{Motion: motion, Step: 1 / fps}
}

func (s *Source) Skeleton(h hand.Handedness) (sensor.Skeleton, error) {
	if !h.Valid() {
		return sensor.Skeleton{}, sensor.ErrUnavailable
	}
	return Skeleton(h), nil
}

func (s *Source) HandState(h hand.Handedness) (sensor.HandState, error) {
	if !h.Valid() {
		return sensor.HandState{}, sensor.ErrUnavailable
	}
	s.mu.Lock()
	n := s.frame[h]
	s.frame[h]++
	s.mu.Unlock()

	st := s.Motion.State(h, float64(n)*s.Step)
	if s.Motion.DropRate > 0 && n > 0 && n%s.Motion.DropRate == 0 {
		st.Status &^= sensor.StatusHandTracked
	}
	return st, nil
}
