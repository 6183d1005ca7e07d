package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// IsValidVec3 reports whether every component of v is finite.
func IsValidVec3(v mgl64.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}

// InvalidVec3 is the sentinel produced for malformed input.
func InvalidVec3() mgl64.Vec3 {
	nan := math.NaN()
	return mgl64.Vec3{nan, nan, nan}
}

// MirrorX negates the lateral component and leaves the others unchanged.
func MirrorX(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{-v[0], v[1], v[2]}
}

// Lerp interpolates between a and b; t is not clamped.
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// DistSqr is the squared Euclidean distance between a and b.
func DistSqr(a, b mgl64.Vec3) float64 {
	return a.Sub(b).LenSqr()
}
