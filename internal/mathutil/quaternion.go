package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quat builds a quaternion from (x, y, z, w) components.
func Quat(x, y, z, w float64) mgl64.Quat {
	return mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}
}

// XYZW returns the components of q in (x, y, z, w) order.
func XYZW(q mgl64.Quat) [4]float64 {
	return [4]float64{q.V[0], q.V[1], q.V[2], q.W}
}

// IsValidQuat reports whether every component of q is finite.
func IsValidQuat(q mgl64.Quat) bool {
	return finite(q.W) && IsValidVec3(q.V)
}

// NormalizeQuat returns q scaled to unit length. It reports false when q has
// a non-finite component or is too short to normalize; mgl64's Normalize
// silently maps the zero quaternion to identity, which would hide bad input.
func NormalizeQuat(q mgl64.Quat) (mgl64.Quat, bool) {
	if !IsValidQuat(q) {
		return q, false
	}
	l := q.Len()
	if l < Epsilon || math.IsInf(l, 0) {
		return q, false
	}
	n := mgl64.Quat{W: q.W / l, V: q.V.Mul(1 / l)}
	return n, IsValidQuat(n)
}

// InvalidQuat is the sentinel produced for malformed input.
func InvalidQuat() mgl64.Quat {
	nan := math.NaN()
	return mgl64.Quat{W: nan, V: mgl64.Vec3{nan, nan, nan}}
}

// ShortestArc returns the rotation taking from to the direction of to.
// A near-zero to leaves the rotation at identity.
func ShortestArc(from, to mgl64.Vec3) mgl64.Quat {
	if to.Len() < SegmentEpsilon || from.Len() < SegmentEpsilon {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatBetweenVectors(from, to).Normalize()
}

// MirrorQuat reflects a rotation across the lateral (X) axis: (x, -y, -z, w).
func MirrorQuat(q mgl64.Quat) mgl64.Quat {
	return mgl64.Quat{W: q.W, V: mgl64.Vec3{q.V[0], -q.V[1], -q.V[2]}}
}

// SameRotation reports whether a and b describe the same rotation within eps,
// treating q and -q as equal.
func SameRotation(a, b mgl64.Quat, eps float64) bool {
	return math.Abs(math.Abs(a.Dot(b))-1) <= eps
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
