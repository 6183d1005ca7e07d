package skeleton

import (
	"github.com/go-gl/mathgl/mgl64"

	"handpose/internal/mathutil"
)

// MirroredPosition negates the lateral (X) component only. Used whenever data
// captured on one hand is compared against the other.
func MirroredPosition(v mgl64.Vec3) mgl64.Vec3 {
	return mathutil.MirrorX(v)
}

// MirroredPose reflects a pose across the lateral axis.
func MirroredPose(p Pose) Pose {
	return Pose{
		Position: mathutil.MirrorX(p.Position),
		Rotation: mathutil.MirrorQuat(p.Rotation),
	}
}

// Mirrored reflects every pose of the array; the result describes the same
// hand shape on the other hand.
func (a *PoseArray) Mirrored() PoseArray {
	var m PoseArray
	for i := range a {
		m[i] = MirroredPose(a[i])
	}
	return m
}
