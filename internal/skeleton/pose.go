// Package skeleton holds the canonical hierarchical hand pose: relative
// poses per bone, their composition into absolute poses, and mirroring
// between hands.
package skeleton

import (
	"github.com/go-gl/mathgl/mgl64"

	"handpose/internal/hand"
	"handpose/internal/mathutil"
)

// Pose is a position and unit rotation.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Identity is the pose at the origin with no rotation.
func Identity() Pose {
	return Pose{Rotation: mgl64.QuatIdent()}
}

// Compose places local inside parent: parent ∘ local.
func Compose(parent, local Pose) Pose {
	return Pose{
		Position: parent.Position.Add(parent.Rotation.Rotate(local.Position)),
		Rotation: parent.Rotation.Mul(local.Rotation),
	}
}

// Inverse returns the pose that undoes p.
func (p Pose) Inverse() Pose {
	inv := p.Rotation.Inverse()
	return Pose{Position: inv.Rotate(p.Position.Mul(-1)), Rotation: inv}
}

// TransformPoint maps a point from p's local frame to the outer frame.
func (p Pose) TransformPoint(v mgl64.Vec3) mgl64.Vec3 {
	return p.Position.Add(p.Rotation.Rotate(v))
}

// InverseTransformPoint maps a point from the outer frame into p's local frame.
func InverseTransformPoint(p Pose, v mgl64.Vec3) mgl64.Vec3 {
	return p.Rotation.Inverse().Rotate(v.Sub(p.Position))
}

// Valid reports whether every component of p is finite.
func (p Pose) Valid() bool {
	return mathutil.IsValidVec3(p.Position) && mathutil.IsValidQuat(p.Rotation)
}

// PoseArray is a dense pose per canonical bone, each relative to the bone's
// parent; index 0 (wrist) is relative to the consumer's outer frame.
type PoseArray [hand.BoneCount]Pose

// NewPoseArray returns an array of identity poses.
func NewPoseArray() PoseArray {
	var a PoseArray
	for i := range a {
		a[i] = Identity()
	}
	return a
}

// SetRotation normalizes and stores q. A rotation that cannot be normalized
// (NaN, Inf or zero length) is rejected and the previous value kept.
func (a *PoseArray) SetRotation(id hand.BoneID, q mgl64.Quat) bool {
	n, ok := mathutil.NormalizeQuat(q)
	if !ok || !id.Valid() {
		return false
	}
	a[id].Rotation = n
	return true
}

// SetPosition stores v unless it has a non-finite component.
func (a *PoseArray) SetPosition(id hand.BoneID, v mgl64.Vec3) bool {
	if !mathutil.IsValidVec3(v) || !id.Valid() {
		return false
	}
	a[id].Position = v
	return true
}

// Set writes both parts of p; each part is validated independently.
func (a *PoseArray) Set(id hand.BoneID, p Pose) bool {
	okPos := a.SetPosition(id, p.Position)
	okRot := a.SetRotation(id, p.Rotation)
	return okPos && okRot
}

// Absolute composes every relative pose down the hierarchy in one pass.
func (a *PoseArray) Absolute() PoseArray {
	var abs PoseArray
	abs[hand.Root] = a[hand.Root]
	for i := 1; i < hand.BoneCount; i++ {
		p, _ := hand.Parent(hand.BoneID(i))
		abs[i] = Compose(abs[p], a[i])
	}
	return abs
}

// AbsolutePose composes id's relative pose with its parent chain.
func (a *PoseArray) AbsolutePose(id hand.BoneID) Pose {
	p, ok := hand.Parent(id)
	if !ok {
		return a[hand.Root]
	}
	return Compose(a.AbsolutePose(p), a[id])
}
