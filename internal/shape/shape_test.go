package shape

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handpose/internal/hand"
	"handpose/internal/skeleton"
)

// liveHand returns an instance with one bone at pos in the root frame.
func liveHand(h hand.Handedness, id hand.BoneID, pos mgl64.Vec3) *skeleton.Instance {
	f := skeleton.Frame{Poses: skeleton.NewPoseArray(), Scale: 1}
	f.Poses[hand.Root] = skeleton.Pose{
		Position: mgl64.Vec3{0.3, 1.1, -0.2},
		Rotation: mgl64.QuatRotate(1.1, mgl64.Vec3{0, 1, 0}),
	}
	f.Poses[id].Position = pos
	inst := skeleton.NewInstance(h)
	inst.Commit(f)
	return inst
}

func TestMatch_MirroredScenario(t *testing.T) {
	c := &Captured{
		Name:       "point",
		Handedness: hand.Right,
		Threshold:  0.0001,
		Bones:      []Target{{Bone: hand.IndexProximal, Position: mgl64.Vec3{0.02, 0, 0}}},
	}

	ok, err := Match(liveHand(hand.Right, hand.IndexProximal, mgl64.Vec3{0.0205, 0, 0}), c)
	require.NoError(t, err)
	assert.True(t, ok)

	// left hand compares against (-0.02, 0, 0)
	ok, err = Match(liveHand(hand.Left, hand.IndexProximal, mgl64.Vec3{0.0205, 0, 0}), c)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Match(liveHand(hand.Left, hand.IndexProximal, mgl64.Vec3{-0.0205, 0, 0}), c)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatch_Errors(t *testing.T) {
	live := liveHand(hand.Right, hand.IndexTip, mgl64.Vec3{})

	_, err := Match(live, nil)
	assert.ErrorIs(t, err, ErrEmptyShape)
	_, err = Match(live, &Captured{Name: "empty"})
	assert.ErrorIs(t, err, ErrEmptyShape)
	_, err = Match(nil, &Captured{Bones: []Target{{Bone: hand.IndexTip}}})
	assert.ErrorIs(t, err, ErrNilSkeleton)
}

func TestTypedNilView(t *testing.T) {
	var inst *skeleton.Instance
	c := &Captured{Handedness: hand.Right, Threshold: 1, Bones: []Target{{Bone: hand.IndexTip}}}

	_, err := Match(inst, c)
	assert.ErrorIs(t, err, ErrNilSkeleton)
	_, err = Capture(inst, "x", 1, hand.IndexTip)
	assert.ErrorIs(t, err, ErrNilSkeleton)
	_, err = Match(skeleton.NewSubset(inst, hand.IndexTip), c)
	assert.ErrorIs(t, err, ErrNilSkeleton)

	m, err := NewMatcher(c)
	require.NoError(t, err)
	_, err = m.Matching(inst)
	assert.ErrorIs(t, err, ErrNilSkeleton)

	_, ok := RootRelative(inst, hand.IndexTip)
	assert.False(t, ok)
}

func TestMatch_UnresolvableBone(t *testing.T) {
	live := liveHand(hand.Right, hand.IndexTip, mgl64.Vec3{})
	sub := skeleton.NewSubset(live, hand.Wrist)
	c := &Captured{Handedness: hand.Right, Threshold: 1, Bones: []Target{{Bone: hand.IndexTip}}}

	ok, err := Match(sub, c)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCapture_RoundTrip(t *testing.T) {
	live := liveHand(hand.Left, hand.ThumbTip, mgl64.Vec3{0.01, 0.02, 0.03})
	c, err := Capture(live, "thumbs", 1e-6, hand.ThumbTip, hand.IndexTip)
	require.NoError(t, err)
	assert.Equal(t, hand.Left, c.Handedness)
	require.Len(t, c.Bones, 2)
	assert.True(t, c.Bones[0].Position.ApproxEqualThreshold(mgl64.Vec3{0.01, 0.02, 0.03}, 1e-12))

	ok, err := Match(live, c)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Capture(live, "none", 1)
	assert.ErrorIs(t, err, ErrEmptyShape)
}

func TestMatcher(t *testing.T) {
	live := liveHand(hand.Right, hand.MiddleTip, mgl64.Vec3{0, 0, 0.05})
	near := &Captured{Name: "b-near", Handedness: hand.Right, Threshold: 1e-4,
		Bones: []Target{{Bone: hand.MiddleTip, Position: mgl64.Vec3{0, 0, 0.05}}}}
	far := &Captured{Name: "a-far", Handedness: hand.Right, Threshold: 1e-4,
		Bones: []Target{{Bone: hand.MiddleTip, Position: mgl64.Vec3{0, 0.1, 0}}}}
	mirrored := &Captured{Name: "c-mirror", Handedness: hand.Left, Threshold: 1e-4,
		Bones: []Target{{Bone: hand.MiddleTip, Position: mgl64.Vec3{0, 0, 0.05}}}}

	m, err := NewMatcher(near, far, mirrored)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-far", "b-near", "c-mirror"}, m.Names())

	got, err := m.Matching(live)
	require.NoError(t, err)
	assert.Equal(t, []string{"b-near", "c-mirror"}, got)

	_, err = NewMatcher(&Captured{Name: "x"})
	assert.ErrorIs(t, err, ErrEmptyShape)
}
