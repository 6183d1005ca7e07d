package convert

import (
	"handpose/internal/hand"
	"handpose/internal/sensor"
)

// Mapping describes where a canonical bone's data comes from.
//
// A merged bone folds two vendor joints (Vendor then Second) into one; its
// rotation is ComposeChainedRotation(Vendor, Second). A bone that follows a
// merged bone (AfterMerge) must have its position re-expressed in the merged
// frame.
type Mapping struct {
	Vendor     sensor.BoneID
	Second     sensor.BoneID
	Merged     bool
	AfterMerge bool
}

var mappings = [hand.BoneCount]Mapping{
	hand.Wrist: {Vendor: sensor.WristRoot},

	hand.ThumbMetacarpal: {Vendor: sensor.Thumb0, Second: sensor.Thumb1, Merged: true},
	hand.ThumbProximal:   {Vendor: sensor.Thumb2, AfterMerge: true},
	hand.ThumbDistal:     {Vendor: sensor.Thumb3},
	hand.ThumbTip:        {Vendor: sensor.ThumbTip},

	hand.IndexProximal:     {Vendor: sensor.Index1},
	hand.IndexIntermediate: {Vendor: sensor.Index2},
	hand.IndexDistal:       {Vendor: sensor.Index3},
	hand.IndexTip:          {Vendor: sensor.IndexTip},

	hand.MiddleProximal:     {Vendor: sensor.Middle1},
	hand.MiddleIntermediate: {Vendor: sensor.Middle2},
	hand.MiddleDistal:       {Vendor: sensor.Middle3},
	hand.MiddleTip:          {Vendor: sensor.MiddleTip},

	hand.RingProximal:     {Vendor: sensor.Ring1},
	hand.RingIntermediate: {Vendor: sensor.Ring2},
	hand.RingDistal:       {Vendor: sensor.Ring3},
	hand.RingTip:          {Vendor: sensor.RingTip},

	hand.PinkyProximal:     {Vendor: sensor.Pinky0, Second: sensor.Pinky1, Merged: true},
	hand.PinkyIntermediate: {Vendor: sensor.Pinky2, AfterMerge: true},
	hand.PinkyDistal:       {Vendor: sensor.Pinky3},
	hand.PinkyTip:          {Vendor: sensor.PinkyTip},
}

// Source returns the vendor mapping of a canonical bone.
func Source(id hand.BoneID) Mapping {
	return mappings[id]
}
