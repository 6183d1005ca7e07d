// Package convert maps vendor bone data into the canonical basis.
//
// The vendor reports left and right hands with different sign conventions.
// Each hand has its own formula; the right hand is NOT the mirror of the left
// formula. Both remaps are reflections applied consistently to positions and
// rotations, so Position(q·v) == Rotation(q)·Position(v) for either hand.
package convert

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"handpose/internal/hand"
	"handpose/internal/mathutil"
	"handpose/internal/sensor"
)

// Position converts a vendor position into the canonical basis.
//
//	left:  ( x,  y, -z)
//	right: (-x,  y,  z)
func Position(v sensor.Vector3f, h hand.Handedness) mgl64.Vec3 {
	x, y, z := float64(v.X), float64(v.Y), float64(v.Z)
	if !finite3(x, y, z) {
		return mathutil.InvalidVec3()
	}
	if h == hand.Left {
		return mgl64.Vec3{x, y, -z}
	}
	return mgl64.Vec3{-x, y, z}
}

// Rotation converts a vendor rotation into the canonical basis.
//
//	left:  (-x, -y,  z, w)
//	right: ( x, -y, -z, w)
func Rotation(q sensor.Quatf, h hand.Handedness) mgl64.Quat {
	x, y, z, w := float64(q.X), float64(q.Y), float64(q.Z), float64(q.W)
	if !finite3(x, y, z) || !finite3(w, 0, 0) {
		return mathutil.InvalidQuat()
	}
	if h == hand.Left {
		return mathutil.Quat(-x, -y, z, w)
	}
	return mathutil.Quat(x, -y, -z, w)
}

// ComposeChainedRotation converts parent and child independently and returns
// parent * child: the single local rotation of a merged joint. The order is
// significant; child * parent is a different rotation.
func ComposeChainedRotation(parent, child sensor.Quatf, h hand.Handedness) mgl64.Quat {
	p := Rotation(parent, h)
	c := Rotation(child, h)
	if !mathutil.IsValidQuat(p) || !mathutil.IsValidQuat(c) {
		return mathutil.InvalidQuat()
	}
	return p.Mul(c)
}

// Pose converts a vendor pose; the rotation is returned unnormalized.
func Pose(p sensor.Posef, h hand.Handedness) (mgl64.Vec3, mgl64.Quat) {
	return Position(p.Position, h), Rotation(p.Orientation, h)
}

// ToVendorPosition is the inverse of Position.
func ToVendorPosition(v mgl64.Vec3, h hand.Handedness) sensor.Vector3f {
	if h == hand.Left {
		return sensor.Vector3f{X: float32(v[0]), Y: float32(v[1]), Z: float32(-v[2])}
	}
	return sensor.Vector3f{X: float32(-v[0]), Y: float32(v[1]), Z: float32(v[2])}
}

// ToVendorRotation is the inverse of Rotation.
func ToVendorRotation(q mgl64.Quat, h hand.Handedness) sensor.Quatf {
	x, y, z, w := float32(q.V[0]), float32(q.V[1]), float32(q.V[2]), float32(q.W)
	if h == hand.Left {
		return sensor.Quatf{X: -x, Y: -y, Z: z, W: w}
	}
	return sensor.Quatf{X: x, Y: -y, Z: -z, W: w}
}

// The vendor root bone basis does not line up with the canonical forward/up
// axes; the correction is applied after conversion: root = converted * fix.
var rootCorrection = [2]mgl64.Quat{
	hand.Left:  mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{0, 0, 1}),
	hand.Right: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
}

// RootCorrection returns the per-hand root orientation fixup.
func RootCorrection(h hand.Handedness) mgl64.Quat {
	if h == hand.Right {
		return rootCorrection[hand.Right]
	}
	return rootCorrection[hand.Left]
}

// RootRotation converts the vendor root rotation and applies the fixup.
func RootRotation(q sensor.Quatf, h hand.Handedness) mgl64.Quat {
	r := Rotation(q, h)
	if !mathutil.IsValidQuat(r) {
		return r
	}
	return r.Mul(RootCorrection(h))
}

func finite3(a, b, c float64) bool {
	for _, f := range [3]float64{a, b, c} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
