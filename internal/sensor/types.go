// Package sensor models the vendor hand-tracking API as an opaque per-tick
// data source. All values are in the vendor's own bone layout and sign
// conventions; see package convert for the mapping to canonical poses.
package sensor

import "strconv"

// Vector3f is a vendor position.
type Vector3f struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Quatf is a vendor rotation.
type Quatf struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

// QuatfIdentity is the vendor identity rotation.
var QuatfIdentity = Quatf{W: 1}

// Posef pairs a vendor rotation and position.
type Posef struct {
	Orientation Quatf    `json:"orientation"`
	Position    Vector3f `json:"position"`
}

// PosefIdentity is the vendor identity pose.
var PosefIdentity = Posef{Orientation: QuatfIdentity}

// BoneID indexes vendor bones. It is not the canonical hand.BoneID.
type BoneID int

const (
	WristRoot BoneID = iota
	ForearmStub
	Thumb0 // trapezium
	Thumb1 // metacarpal
	Thumb2 // proximal
	Thumb3 // distal
	Index1
	Index2
	Index3
	Middle1
	Middle2
	Middle3
	Ring1
	Ring2
	Ring3
	Pinky0 // metacarpal
	Pinky1 // proximal
	Pinky2
	Pinky3
	ThumbTip
	IndexTip
	MiddleTip
	RingTip
	PinkyTip

	BoneCount int = iota
)

// NoParent is the vendor parent index of the root bone.
const NoParent BoneID = -1

// Bone is one entry of the vendor skeleton: a pose relative to its parent.
type Bone struct {
	ID     BoneID `json:"id"`
	Parent BoneID `json:"parent"`
	Pose   Posef  `json:"pose"`
}

// Skeleton is the vendor's one-time rest skeleton for a hand.
type Skeleton struct {
	Bones []Bone `json:"bones"`
}

// Bone looks up a bone by vendor ID.
func (s Skeleton) Bone(id BoneID) (Bone, bool) {
	if int(id) >= 0 && int(id) < len(s.Bones) && s.Bones[id].ID == id {
		return s.Bones[id], true
	}
	for _, b := range s.Bones {
		if b.ID == id {
			return b, true
		}
	}
	return Bone{}, false
}

// Status is the vendor hand status bitmask.
type Status uint32

const (
	StatusHandTracked     Status = 1 << 0
	StatusInputStateValid Status = 1 << 1
	StatusSystemGesture   Status = 1 << 6
	StatusDominantHand    Status = 1 << 7
	StatusMenuPressed     Status = 1 << 8
)

// Has reports whether every bit of flag is set.
func (s Status) Has(flag Status) bool {
	return s&flag == flag
}

// Confidence is the vendor's coarse tracking confidence.
type Confidence int

const (
	ConfidenceLow  Confidence = 0
	ConfidenceHigh Confidence = 1
)

// Score maps a confidence to 0 or 1.
func (c Confidence) Score() float64 {
	if c == ConfidenceHigh {
		return 1
	}
	return 0
}

// FingerPinch is the vendor bitmask of fingers currently pinching, bit i
// for hand.Finger i.
type FingerPinch uint32

// FingerCount is the length of the vendor per-finger arrays.
const FingerCount = 5

// HandState is the live per-tick hand snapshot.
type HandState struct {
	Status            Status           `json:"status"`
	RootPose          Posef            `json:"root_pose"`
	BoneRotations     [BoneCount]Quatf `json:"bone_rotations"`
	Pinches           FingerPinch      `json:"pinches"`
	PinchStrength     []float32        `json:"pinch_strength,omitempty"`
	PointerPose       Posef            `json:"pointer_pose"`
	HandScale         float32          `json:"hand_scale"`
	HandConfidence    Confidence       `json:"hand_confidence"`
	FingerConfidences []Confidence     `json:"finger_confidences,omitempty"`
	SampleTime        float64          `json:"sample_time"`
}

// Tracked reports whether the vendor is tracking the hand this tick.
func (s HandState) Tracked() bool {
	return s.Status.Has(StatusHandTracked)
}

var boneNames = [BoneCount]string{
	"WristRoot", "ForearmStub",
	"Thumb0", "Thumb1", "Thumb2", "Thumb3",
	"Index1", "Index2", "Index3",
	"Middle1", "Middle2", "Middle3",
	"Ring1", "Ring2", "Ring3",
	"Pinky0", "Pinky1", "Pinky2", "Pinky3",
	"ThumbTip", "IndexTip", "MiddleTip", "RingTip", "PinkyTip",
}

var boneParents = [BoneCount]BoneID{
	WristRoot:   NoParent,
	ForearmStub: WristRoot,
	Thumb0:      WristRoot,
	Thumb1:      Thumb0,
	Thumb2:      Thumb1,
	Thumb3:      Thumb2,
	Index1:      WristRoot,
	Index2:      Index1,
	Index3:      Index2,
	Middle1:     WristRoot,
	Middle2:     Middle1,
	Middle3:     Middle2,
	Ring1:       WristRoot,
	Ring2:       Ring1,
	Ring3:       Ring2,
	Pinky0:      WristRoot,
	Pinky1:      Pinky0,
	Pinky2:      Pinky1,
	Pinky3:      Pinky2,
	ThumbTip:    Thumb3,
	IndexTip:    Index3,
	MiddleTip:   Middle3,
	RingTip:     Ring3,
	PinkyTip:    Pinky3,
}

// Valid reports whether id is a vendor bone.
func (id BoneID) Valid() bool { return id >= 0 && int(id) < BoneCount }

func (id BoneID) String() string {
	if !id.Valid() {
		return "BoneID(" + strconv.Itoa(int(id)) + ")"
	}
	return boneNames[id]
}

// ParentOf returns the vendor parent of id, NoParent for the root.
func ParentOf(id BoneID) BoneID {
	if !id.Valid() {
		return NoParent
	}
	return boneParents[id]
}
