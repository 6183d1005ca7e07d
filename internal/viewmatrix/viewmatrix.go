package viewmatrix

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"handpose/internal/mathutil"
)

// Named returns the view rotation for a view name.
func Named(name string) (mgl64.Mat3, error) {
	switch name {
	case "", "default":
		return mathutil.ViewDefault, nil
	case "top":
		return mathutil.ViewTop, nil
	case "front":
		return mgl64.Ident3(), nil
	case "side":
		return mathutil.RotY(mathutil.Deg2Rad(90)), nil
	}
	return mgl64.Mat3{}, fmt.Errorf("viewmatrix: unknown view %q", name)
}

// Projection maps world points to screen pixels orthographically: X right,
// Y down, Z kept as depth.
type Projection struct {
	R      mgl64.Mat3
	Center mgl64.Vec3
	Scale  float64
	Width  int
	Height int
}

// Fit centers the view-rotated bounding box of points in a width x height
// target with margin pixels on each side. minSpan guards against a
// collapsed box.
func Fit(points []mgl64.Vec3, R mgl64.Mat3, width, height, margin int, minSpan float64) Projection {
	p := Projection{R: R, Width: width, Height: height, Scale: 1}
	if len(points) == 0 {
		return p
	}

	allMin := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	allMax := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range points {
		tv := R.Mul3x1(v)
		for k := 0; k < 3; k++ {
			allMin[k] = math.Min(allMin[k], tv[k])
			allMax[k] = math.Max(allMax[k], tv[k])
		}
	}
	p.Center = allMin.Add(allMax).Mul(0.5)

	spanX := allMax[0] - allMin[0]
	spanY := allMax[1] - allMin[1]
	span := math.Max(spanX, spanY)
	if span < minSpan {
		span = minSpan
	}

	usable := math.Min(float64(width), float64(height)) - float64(2*margin)
	if usable < 1 {
		usable = 1
	}
	p.Scale = usable / span
	return p
}

// Project transforms one world point to screen space.
func (p Projection) Project(v mgl64.Vec3) mgl64.Vec3 {
	t := p.R.Mul3x1(v)
	return mgl64.Vec3{
		(t[0]-p.Center[0])*p.Scale + float64(p.Width)/2,
		-(t[1]-p.Center[1])*p.Scale + float64(p.Height)/2,
		t[2],
	}
}

// ProjectVertices transforms world points to screen coordinates.
// Returns px, py, pz slices (screen X, screen Y, depth).
func (p Projection) ProjectVertices(verts []mgl64.Vec3) ([]float64, []float64, []float64) {
	n := len(verts)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	for i, v := range verts {
		s := p.Project(v)
		px[i], py[i], pz[i] = s[0], s[1], s[2]
	}
	return px, py, pz
}
