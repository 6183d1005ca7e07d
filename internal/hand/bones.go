// Package hand defines the canonical hand bone taxonomy and hierarchy.
//
// BoneID ordinals are stable and used as dense array indices. Parents always
// have a lower ordinal than their children, so iterating bones in ascending
// order visits every parent before its descendants.
package hand

import (
	"fmt"
	"strings"
)

// BoneID identifies a canonical hand bone.
type BoneID int

const (
	Wrist BoneID = iota

	ThumbMetacarpal
	ThumbProximal
	ThumbDistal
	ThumbTip

	IndexProximal
	IndexIntermediate
	IndexDistal
	IndexTip

	MiddleProximal
	MiddleIntermediate
	MiddleDistal
	MiddleTip

	RingProximal
	RingIntermediate
	RingDistal
	RingTip

	PinkyProximal
	PinkyIntermediate
	PinkyDistal
	PinkyTip

	BoneCount int = iota
)

// Root is the single bone without a parent.
const Root = Wrist

// Finger groups the non-root bones.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky

	FingerCount int = iota
)

var boneNames = [BoneCount]string{
	"wrist",
	"thumb_metacarpal", "thumb_proximal", "thumb_distal", "thumb_tip",
	"index_proximal", "index_intermediate", "index_distal", "index_tip",
	"middle_proximal", "middle_intermediate", "middle_distal", "middle_tip",
	"ring_proximal", "ring_intermediate", "ring_distal", "ring_tip",
	"pinky_proximal", "pinky_intermediate", "pinky_distal", "pinky_tip",
}

var fingerNames = [FingerCount]string{"thumb", "index", "middle", "ring", "pinky"}

// Valid reports whether id is inside the canonical range.
func (id BoneID) Valid() bool {
	return id >= 0 && int(id) < BoneCount
}

func (id BoneID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("BoneID(%d)", int(id))
	}
	return boneNames[id]
}

// ParseBoneID resolves a snake_case bone name, case-insensitive.
func ParseBoneID(s string) (BoneID, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range boneNames {
		if n == name {
			return BoneID(i), nil
		}
	}
	return 0, fmt.Errorf("hand: unknown bone %q", s)
}

func (id BoneID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("hand: invalid bone %d", int(id))
	}
	return []byte(boneNames[id]), nil
}

func (id *BoneID) UnmarshalText(text []byte) error {
	v, err := ParseBoneID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// Finger returns the finger a bone belongs to. The wrist belongs to none.
func (id BoneID) Finger() (Finger, bool) {
	if id <= Wrist || !id.Valid() {
		return 0, false
	}
	return Finger((int(id) - 1) / 4), true
}

func (f Finger) String() string {
	if f < 0 || int(f) >= FingerCount {
		return fmt.Sprintf("Finger(%d)", int(f))
	}
	return fingerNames[f]
}

// Bones returns the finger's bones from knuckle to tip.
func (f Finger) Bones() [4]BoneID {
	first := BoneID(1 + int(f)*4)
	return [4]BoneID{first, first + 1, first + 2, first + 3}
}

// Tip returns the terminal bone of the finger.
func (f Finger) Tip() BoneID {
	return BoneID(4 + int(f)*4)
}

// AllBones returns every bone in ascending ordinal order.
func AllBones() []BoneID {
	ids := make([]BoneID, BoneCount)
	for i := range ids {
		ids[i] = BoneID(i)
	}
	return ids
}
