package bindpose

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handpose/internal/convert"
	"handpose/internal/hand"
	"handpose/internal/mathutil"
	"handpose/internal/sensor"
	"handpose/internal/sensor/synthetic"
)

// flakySource fails the first n skeleton queries.
type flakySource struct {
	failures int
	calls    int
}

func (f *flakySource) Skeleton(h hand.Handedness) (sensor.Skeleton, error) {
	f.calls++
	if f.calls <= f.failures {
		return sensor.Skeleton{}, sensor.ErrUnavailable
	}
	return synthetic.Skeleton(h), nil
}

func (f *flakySource) HandState(hand.Handedness) (sensor.HandState, error) {
	return sensor.HandState{}, sensor.ErrUnavailable
}

func TestEnsureInitialized_RetriesAfterFailure(t *testing.T) {
	src := &flakySource{failures: 2}
	c := NewCache(nil)

	assert.False(t, c.EnsureInitialized(src, hand.Left))
	assert.False(t, c.Initialized(hand.Left))
	assert.False(t, c.EnsureInitialized(src, hand.Left))
	assert.True(t, c.EnsureInitialized(src, hand.Left))
	assert.Equal(t, 3, src.calls)

	// cached: no further vendor queries
	assert.True(t, c.EnsureInitialized(src, hand.Left))
	assert.Equal(t, 3, src.calls)
	assert.False(t, c.Initialized(hand.Right))
}

func TestEnsureInitialized_Idempotent(t *testing.T) {
	src := &flakySource{}
	c := NewCache(nil)
	require.True(t, c.EnsureInitialized(src, hand.Right))
	first, ok := c.Get(hand.Right)
	require.True(t, ok)
	snapshot := *first

	require.True(t, c.EnsureInitialized(src, hand.Right))
	second, _ := c.Get(hand.Right)
	assert.Same(t, first, second)
	assert.Equal(t, snapshot, *second)
}

func TestEnsureInitialized_IncompleteSkeleton(t *testing.T) {
	sk := synthetic.Skeleton(hand.Left)
	sk.Bones = sk.Bones[:sensor.Pinky0]
	src := &sensor.Static{Skeletons: map[hand.Handedness]sensor.Skeleton{hand.Left: sk}}

	c := NewCache(nil)
	assert.False(t, c.EnsureInitialized(src, hand.Left))
	_, ok := c.Get(hand.Left)
	assert.False(t, ok)

	_, err := Derive(sk, hand.Left)
	assert.True(t, errors.Is(err, ErrIncomplete))
}

func TestDerive_RootIsIdentity(t *testing.T) {
	for _, h := range hand.Both {
		poses, err := Derive(synthetic.Skeleton(h), h)
		require.NoError(t, err)
		assert.Equal(t, mgl64.Vec3{}, poses[hand.Root].Position)
		assert.Equal(t, mgl64.QuatIdent(), poses[hand.Root].Rotation)
	}
}

func TestDerive_MergedJoints(t *testing.T) {
	h := hand.Right
	poses, err := Derive(synthetic.Skeleton(h), h)
	require.NoError(t, err)

	p0, q0 := synthetic.RestLocal(sensor.Thumb0, h)
	p1, q1 := synthetic.RestLocal(sensor.Thumb1, h)
	p2, _ := synthetic.RestLocal(sensor.Thumb2, h)

	meta := poses[hand.ThumbMetacarpal]
	assert.True(t, meta.Position.ApproxEqualThreshold(p0, 1e-6), "metacarpal position %v", meta.Position)
	assert.True(t, mathutil.SameRotation(meta.Rotation, q0.Mul(q1), 1e-6))

	want := q1.Inverse().Rotate(p1).Add(p2)
	assert.True(t, poses[hand.ThumbProximal].Position.ApproxEqualThreshold(want, 1e-6))
}

// Absolute bind positions must land where the vendor chain puts each joint.
func TestDerive_MatchesVendorChain(t *testing.T) {
	pairs := map[hand.BoneID]sensor.BoneID{
		hand.ThumbMetacarpal:   sensor.Thumb0,
		hand.ThumbProximal:     sensor.Thumb2,
		hand.ThumbTip:          sensor.ThumbTip,
		hand.IndexDistal:       sensor.Index3,
		hand.IndexTip:          sensor.IndexTip,
		hand.MiddleTip:         sensor.MiddleTip,
		hand.RingTip:           sensor.RingTip,
		hand.PinkyProximal:     sensor.Pinky0,
		hand.PinkyIntermediate: sensor.Pinky2,
		hand.PinkyTip:          sensor.PinkyTip,
	}
	for _, h := range hand.Both {
		sk := synthetic.Skeleton(h)
		poses, err := Derive(sk, h)
		require.NoError(t, err)
		abs := poses.Absolute()

		for canon, vendor := range pairs {
			want := convert.Position(vendorChain(t, sk, vendor), h)
			assert.True(t, abs[canon].Position.ApproxEqualThreshold(want, 1e-6),
				"%s %s: got %v want %v", h, canon, abs[canon].Position, want)
		}
	}
}

func TestDerive_WristChildrenConvertedDirectly(t *testing.T) {
	for _, h := range hand.Both {
		sk := synthetic.Skeleton(h)
		for i := range sk.Bones {
			sk.Bones[i].Pose = sensor.PosefIdentity
		}
		sk.Bones[sensor.Index1].Pose.Position = sensor.Vector3f{X: 0.1}
		sk.Bones[sensor.Middle1].Pose.Orientation = sensor.Quatf{X: 0.2, Y: 0.1, Z: 0.3, W: 0.926}

		poses, err := Derive(sk, h)
		require.NoError(t, err)

		for _, id := range []hand.BoneID{hand.IndexProximal, hand.MiddleProximal, hand.RingProximal} {
			b, _ := sk.Bone(convert.Source(id).Vendor)
			wantPos, wantRot := convert.Pose(b.Pose, h)
			assert.True(t, poses[id].Position.ApproxEqualThreshold(wantPos, 1e-12), "%s %s: %v", h, id, poses[id].Position)
			assert.True(t, mathutil.SameRotation(poses[id].Rotation, wantRot.Normalize(), 1e-6), "%s %s: %v", h, id, poses[id].Rotation)
		}
	}
	// right hand negates X, identity rotation stays identity
	poses, err := Derive(func() sensor.Skeleton {
		sk := synthetic.Skeleton(hand.Right)
		for i := range sk.Bones {
			sk.Bones[i].Pose = sensor.PosefIdentity
		}
		sk.Bones[sensor.Index1].Pose.Position = sensor.Vector3f{X: 0.1}
		return sk
	}(), hand.Right)
	require.NoError(t, err)
	assert.True(t, poses[hand.IndexProximal].Position.ApproxEqualThreshold(mgl64.Vec3{-0.1, 0, 0}, 1e-6))
	assert.True(t, mathutil.SameRotation(poses[hand.IndexProximal].Rotation, mgl64.QuatIdent(), 1e-9))
}

// vendorChain composes vendor locals below the root in vendor space.
func vendorChain(t *testing.T, sk sensor.Skeleton, id sensor.BoneID) sensor.Vector3f {
	t.Helper()
	pos := mgl64.Vec3{}
	for id != sensor.WristRoot {
		b, ok := sk.Bone(id)
		require.True(t, ok)
		local := mgl64.Vec3{float64(b.Pose.Position.X), float64(b.Pose.Position.Y), float64(b.Pose.Position.Z)}
		pos = local.Add(raw(b.Pose.Orientation).Rotate(pos))
		id = b.Parent
	}
	return sensor.Vector3f{X: float32(pos[0]), Y: float32(pos[1]), Z: float32(pos[2])}
}

func raw(q sensor.Quatf) mgl64.Quat {
	return mathutil.Quat(float64(q.X), float64(q.Y), float64(q.Z), float64(q.W))
}
