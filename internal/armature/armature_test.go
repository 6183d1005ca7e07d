package armature

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handpose/internal/hand"
	"handpose/internal/mathutil"
	"handpose/internal/skeleton"
)

func instance(t *testing.T) *skeleton.Instance {
	t.Helper()
	f := skeleton.Frame{Poses: skeleton.NewPoseArray(), Scale: 1}
	f.Poses[hand.Wrist].Position = mgl64.Vec3{0, 1, 0}
	f.Poses[hand.Wrist].Rotation = mgl64.QuatRotate(0.7, mgl64.Vec3{0, 1, 0})
	for _, id := range hand.AllBones()[1:] {
		f.Poses[id].Position = mgl64.Vec3{0.001 * float64(id), 0, 0.02}
		f.Poses[id].Rotation = mgl64.QuatRotate(0.1*float64(id), mgl64.Vec3{1, 0, 0})
	}
	inst := skeleton.NewInstance(hand.Right)
	inst.Commit(f)
	return inst
}

func TestDerive_NilSkeleton(t *testing.T) {
	_, err := NewDeriver().Derive(nil)
	assert.ErrorIs(t, err, ErrNilSkeleton)

	var inst *skeleton.Instance
	_, err = NewDeriver().Derive(inst)
	assert.ErrorIs(t, err, ErrNilSkeleton)
}

func TestDerive_SegmentGeometry(t *testing.T) {
	inst := instance(t)
	segs, err := NewDeriver().Derive(inst)
	require.NoError(t, err)
	assert.Len(t, segs, hand.BoneCount-1)

	for _, s := range segs {
		local := inst.RelativePose(s.Child).Position
		assert.InDelta(t, local.Len(), s.Length, 1e-12, "%s->%s", s.Bone, s.Child)
		assert.True(t, s.Position.ApproxEqualThreshold(local.Mul(0.5), 1e-12))
		dir := s.Rotation.Rotate(mathutil.Up)
		assert.True(t, dir.ApproxEqualThreshold(local.Normalize(), 1e-9), "%s: %v", s.Bone, dir)
		assert.False(t, s.Fallback)

		babs, _ := inst.AbsolutePose(s.Bone)
		cabs, _ := inst.AbsolutePose(s.Child)
		start, end := s.Endpoints(babs)
		assert.Equal(t, babs.Position, start)
		assert.True(t, end.ApproxEqualThreshold(cabs.Position, 1e-12))
	}
}

func TestDerive_ZeroLengthIsIdentity(t *testing.T) {
	f := skeleton.Frame{Poses: skeleton.NewPoseArray()}
	inst := skeleton.NewInstance(hand.Left)
	inst.Commit(f)
	segs, err := NewDeriver().Derive(inst)
	require.NoError(t, err)
	for _, s := range segs {
		assert.Equal(t, 0.0, s.Length)
		assert.Equal(t, mgl64.QuatIdent(), s.Rotation)
	}
}

func TestDerive_FallbackForMissingChild(t *testing.T) {
	inst := instance(t)
	sub := skeleton.NewSubset(inst, hand.Wrist, hand.IndexProximal, hand.IndexIntermediate)

	d := NewDeriver()
	d.FallbackLength = 0.03
	segs, err := d.Derive(sub)
	require.NoError(t, err)

	byPair := map[[2]hand.BoneID]Segment{}
	for _, s := range segs {
		byPair[[2]hand.BoneID{s.Bone, s.Child}] = s
	}
	assert.False(t, byPair[[2]hand.BoneID{hand.Wrist, hand.IndexProximal}].Fallback)
	assert.False(t, byPair[[2]hand.BoneID{hand.IndexProximal, hand.IndexIntermediate}].Fallback)

	fb := byPair[[2]hand.BoneID{hand.Wrist, hand.ThumbMetacarpal}]
	assert.True(t, fb.Fallback)
	assert.Equal(t, 0.03, fb.Length)
	assert.Equal(t, mgl64.Vec3{0, 0.015, 0}, fb.Position)

	fb = byPair[[2]hand.BoneID{hand.IndexIntermediate, hand.IndexDistal}]
	assert.True(t, fb.Fallback)

	// wrist has five children, index proximal and intermediate one each
	assert.Len(t, segs, 7)
}

func TestReconcile(t *testing.T) {
	d := NewDeriver()
	diff := d.Reconcile([]hand.BoneID{hand.IndexTip, hand.Wrist, hand.IndexTip})
	assert.Equal(t, []hand.BoneID{hand.Wrist, hand.IndexTip}, diff.Added)
	assert.Empty(t, diff.Removed)

	diff = d.Reconcile([]hand.BoneID{hand.Wrist, hand.ThumbTip, hand.BoneID(-3)})
	assert.Equal(t, []hand.BoneID{hand.ThumbTip}, diff.Added)
	assert.Equal(t, []hand.BoneID{hand.IndexTip}, diff.Removed)
	assert.Equal(t, []hand.BoneID{hand.Wrist, hand.ThumbTip}, d.Bones())

	assert.True(t, d.Reconcile(d.Bones()).Empty())
}

func TestDerive_RecomputesEveryCall(t *testing.T) {
	inst := instance(t)
	d := NewDeriver()
	first, err := d.Derive(inst)
	require.NoError(t, err)

	f := skeleton.Frame{Poses: inst.Poses(), Scale: 1}
	f.Poses[hand.MiddleTip].Position = mgl64.Vec3{0, 0, 0.05}
	inst.Commit(f)
	second, err := d.Derive(inst)
	require.NoError(t, err)

	find := func(segs []Segment) Segment {
		for _, s := range segs {
			if s.Child == hand.MiddleTip {
				return s
			}
		}
		t.Fatal("no middle tip segment")
		return Segment{}
	}
	assert.NotEqual(t, find(first).Length, find(second).Length)
	assert.InDelta(t, 0.05, find(second).Length, 1e-12)
}
