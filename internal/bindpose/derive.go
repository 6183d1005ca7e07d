// Package bindpose derives the canonical rest pose of each hand from the
// vendor skeleton and caches it for the lifetime of the process.
package bindpose

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"handpose/internal/convert"
	"handpose/internal/hand"
	"handpose/internal/mathutil"
	"handpose/internal/sensor"
	"handpose/internal/skeleton"
)

var (
	ErrIncomplete = errors.New("bindpose: vendor skeleton is missing bones")
	ErrInvalid    = errors.New("bindpose: vendor skeleton has non-finite values")
)

type local struct {
	pos mgl64.Vec3
	rot mgl64.Quat
}

// Derive converts a vendor rest skeleton into a canonical bind pose. The root
// is the identity; merged joints sit at the first vendor bone with the
// chained rotation, and the bone after a merge is re-expressed in the merged
// frame. Every other bone is the plain per-hand conversion of its vendor
// local pose.
func Derive(sk sensor.Skeleton, h hand.Handedness) (skeleton.PoseArray, error) {
	vendor := func(id sensor.BoneID) (local, error) {
		b, ok := sk.Bone(id)
		if !ok {
			return local{}, fmt.Errorf("%w: %s", ErrIncomplete, id)
		}
		pos, rot := convert.Pose(b.Pose, h)
		rot, okRot := mathutil.NormalizeQuat(rot)
		if !mathutil.IsValidVec3(pos) || !okRot {
			return local{}, fmt.Errorf("%w: %s", ErrInvalid, id)
		}
		return local{pos: pos, rot: rot}, nil
	}

	out := skeleton.NewPoseArray()
	for _, id := range hand.AllBones() {
		if id == hand.Root {
			continue
		}
		m := convert.Source(id)
		first, err := vendor(m.Vendor)
		if err != nil {
			return skeleton.PoseArray{}, err
		}
		pose := first

		switch {
		case m.Merged:
			second, err := vendor(m.Second)
			if err != nil {
				return skeleton.PoseArray{}, err
			}
			pose.rot = first.rot.Mul(second.rot).Normalize()

		case m.AfterMerge:
			p, _ := hand.Parent(id)
			merged := convert.Source(p)
			second, err := vendor(merged.Second)
			if err != nil {
				return skeleton.PoseArray{}, err
			}
			// inverse(q1)·p1 + p2 places the bone relative to the merged frame
			pose.pos = second.rot.Inverse().Rotate(second.pos).Add(first.pos)
		}

		out[id] = skeleton.Pose{Position: pose.pos, Rotation: pose.rot}
	}
	return out, nil
}
