package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// boxFaces indexes the 8 corners produced by prism into 12 triangles.
var boxFaces = [12][3]int{
	{0, 1, 2}, {0, 2, 3}, // start cap
	{4, 6, 5}, {4, 7, 6}, // end cap
	{0, 4, 5}, {0, 5, 1},
	{1, 5, 6}, {1, 6, 2},
	{2, 6, 7}, {2, 7, 3},
	{3, 7, 4}, {3, 4, 0},
}

// octaFaces indexes the 6 corners produced by octahedron into 8 triangles.
var octaFaces = [8][3]int{
	{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
	{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
}

// prism returns the world-space triangles of a square box from a to b with
// the given half width. Returns nil when a and b coincide.
func prism(a, b mgl64.Vec3, half float64) [][3]mgl64.Vec3 {
	d := b.Sub(a)
	if d.Len() < 1e-9 {
		return nil
	}
	d = d.Normalize()

	// any axis not parallel to d
	ref := mgl64.Vec3{0, 0, 1}
	if math.Abs(d.Dot(ref)) > 0.9 {
		ref = mgl64.Vec3{1, 0, 0}
	}
	u := d.Cross(ref).Normalize().Mul(half)
	v := d.Cross(u).Normalize().Mul(half)

	corners := [8]mgl64.Vec3{
		a.Add(u).Add(v), a.Sub(u).Add(v), a.Sub(u).Sub(v), a.Add(u).Sub(v),
		b.Add(u).Add(v), b.Sub(u).Add(v), b.Sub(u).Sub(v), b.Add(u).Sub(v),
	}
	tris := make([][3]mgl64.Vec3, len(boxFaces))
	for i, f := range boxFaces {
		tris[i] = [3]mgl64.Vec3{corners[f[0]], corners[f[1]], corners[f[2]]}
	}
	return tris
}

// octahedron returns the triangles of a joint marker centered on c.
func octahedron(c mgl64.Vec3, r float64) [][3]mgl64.Vec3 {
	corners := [6]mgl64.Vec3{
		c.Add(mgl64.Vec3{r, 0, 0}), c.Sub(mgl64.Vec3{r, 0, 0}),
		c.Add(mgl64.Vec3{0, r, 0}), c.Sub(mgl64.Vec3{0, r, 0}),
		c.Add(mgl64.Vec3{0, 0, r}), c.Sub(mgl64.Vec3{0, 0, r}),
	}
	tris := make([][3]mgl64.Vec3, len(octaFaces))
	for i, f := range octaFaces {
		tris[i] = [3]mgl64.Vec3{corners[f[0]], corners[f[1]], corners[f[2]]}
	}
	return tris
}
