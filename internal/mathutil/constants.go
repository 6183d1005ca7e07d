package mathutil

import "github.com/go-gl/mathgl/mgl64"

// Canonical basis: +Y up, +Z forward, X lateral (side to side).
var (
	// Up is the reference axis segments are oriented from.
	Up = mgl64.Vec3{0, 1, 0}

	// Lateral is the axis negated by handedness mirroring.
	Lateral = mgl64.Vec3{1, 0, 0}
)

const (
	// Epsilon guards normalization of near-zero vectors and quaternions.
	Epsilon = 1e-12

	// SegmentEpsilon is the shortest segment that still gets an orientation.
	SegmentEpsilon = 1e-6
)

// Precomputed camera matrices for the debug renderer.
var (
	// ViewDefault looks at the hands slightly from above and to the side:
	// Rx(-15°) @ Ry(12°)
	ViewDefault = RotX(Deg2Rad(-15)).Mul3(RotY(Deg2Rad(12)))

	// ViewTop looks straight down the Y axis.
	ViewTop = RotX(Deg2Rad(-90))
)

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) mgl64.Mat3 { return mgl64.Rotate3DX(a) }

// RotY returns a 3×3 rotation matrix around the Y axis.
func RotY(a float64) mgl64.Mat3 { return mgl64.Rotate3DY(a) }

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) mgl64.Mat3 { return mgl64.Rotate3DZ(a) }

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return mgl64.DegToRad(d)
}
