package grasp

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats/scalar"

	"handpose/internal/hand"
	"handpose/internal/mathutil"
	"handpose/internal/skeleton"
)

func target() skeleton.PoseArray {
	to := skeleton.NewPoseArray()
	for i := range to {
		to[i] = skeleton.Pose{
			Position: mgl64.Vec3{0, 0, 0.02},
			Rotation: mgl64.QuatRotate(1, mgl64.Vec3{1, 0, 0}),
		}
	}
	return to
}

func TestBlend_ReachesTarget(t *testing.T) {
	from, to := skeleton.NewPoseArray(), target()
	b := NewBlend(from, to, 1, SmoothStep)

	pose, done := b.Advance(0.5)
	assert.False(t, done)
	assert.True(t, scalar.EqualWithinAbs(pose[hand.IndexTip].Position[2], 0.01, 1e-12))
	half := mgl64.QuatRotate(0.5, mgl64.Vec3{1, 0, 0})
	assert.True(t, mathutil.SameRotation(pose[hand.IndexTip].Rotation, half, 1e-9))

	pose, done = b.Advance(0.6)
	assert.True(t, done)
	assert.Equal(t, to, pose)
	assert.Equal(t, 1.0, b.Progress())
}

func TestBlend_CancelHoldsPose(t *testing.T) {
	b := NewBlend(skeleton.NewPoseArray(), target(), 2, nil)
	mid, done := b.Advance(0.5)
	assert.False(t, done)

	b.Cancel()
	assert.True(t, b.Cancelled())
	pose, done := b.Advance(10)
	assert.True(t, done)
	assert.Equal(t, mid, pose)
	assert.InDelta(t, 0.25, b.Progress(), 1e-12)
}

func TestBlend_ZeroDuration(t *testing.T) {
	to := target()
	pose, done := NewBlend(skeleton.NewPoseArray(), to, 0, Linear).Advance(0)
	assert.True(t, done)
	assert.Equal(t, to, pose)
}

func TestBlend_ShortArcForNegatedTarget(t *testing.T) {
	from, to := skeleton.NewPoseArray(), skeleton.NewPoseArray()
	q := mgl64.QuatRotate(0.4, mgl64.Vec3{0, 0, 1})
	for i := range to {
		to[i].Rotation = q.Scale(-1)
	}
	b := NewBlend(from, to, 1, Linear)

	pose, done := b.Advance(0.5)
	assert.False(t, done)
	half := mgl64.QuatRotate(0.2, mgl64.Vec3{0, 0, 1})
	assert.True(t, mathutil.SameRotation(pose[hand.MiddleTip].Rotation, half, 1e-9), "%v", pose[hand.MiddleTip].Rotation)

	// a target equal to the start rotation holds still however it is signed
	b = NewBlend(to, func() skeleton.PoseArray {
		p := skeleton.NewPoseArray()
		for i := range p {
			p[i].Rotation = q
		}
		return p
	}(), 1, Linear)
	for _, dt := range []float64{0.1, 0.3, 0.3} {
		pose, _ = b.Advance(dt)
		assert.True(t, mathutil.SameRotation(pose[hand.Root].Rotation, q, 1e-9), "%v", pose[hand.Root].Rotation)
	}
}
