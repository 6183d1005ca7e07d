package raster

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Triangle is a screen-space triangle: X and Y in pixels, Z as depth where
// larger is nearer.
type Triangle [3]mgl64.Vec3

// bounds clips the triangle's pixel bounding box to the buffer.
func (t *Triangle) bounds(fb *FrameBuffer) (minX, maxX, minY, maxY int, ok bool) {
	x0, y0 := t[0][0], t[0][1]
	x1, y1 := t[1][0], t[1][1]
	x2, y2 := t[2][0], t[2][1]

	minX = int(math.Min(math.Min(x0, x1), x2))
	maxX = int(math.Max(math.Max(x0, x1), x2)) + 1
	minY = int(math.Min(math.Min(y0, y1), y2))
	maxY = int(math.Max(math.Max(y0, y1), y2)) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	return minX, maxX, minY, maxY, minX < maxX && minY < maxY
}

// Normal returns the unit face normal; ok is false for degenerate triangles.
func (t *Triangle) Normal() (mgl64.Vec3, bool) {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	l := n.Len()
	if l < 1e-8 {
		return mgl64.Vec3{}, false
	}
	return n.Mul(1 / l), true
}

// RasterizeTriangle fills a triangle with a flat-shaded solid color,
// z-buffered. The inner loop does not allocate.
func RasterizeTriangle(fb *FrameBuffer, tri Triangle, c color.NRGBA, lc *LightConfig) {
	n, ok := tri.Normal()
	if !ok || c.A < 8 {
		return
	}
	cr, cg, cb := lc.Shade(c.R, c.G, c.B, lc.ComputeShade(n))

	minX, maxX, minY, maxY, ok := tri.bounds(fb)
	if !ok {
		return
	}

	x0, y0, z0 := tri[0][0], tri[0][1], tri[0][2]
	x1, y1, z1 := tri[1][0], tri[1][1], tri[1][2]
	x2, y2, z2 := tri[2][0], tri[2][1], tri[2][2]

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = cr
			fb.Color[pxIdx+1] = cg
			fb.Color[pxIdx+2] = cb
			fb.Color[pxIdx+3] = c.A
		}
	}
}

// RasterizeTriangleAdditive adds c onto the buffer with no depth test or
// write. Used for highlight overlays such as pinch markers.
func RasterizeTriangleAdditive(fb *FrameBuffer, tri Triangle, c color.NRGBA) {
	minX, maxX, minY, maxY, ok := tri.bounds(fb)
	if !ok {
		return
	}

	x0, y0 := tri[0][0], tri[0][1]
	x1, y1 := tri[1][0], tri[1][1]
	x2, y2 := tri[2][0], tri[2][1]

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	k := float64(c.A) / 255
	fr, fg, fb2 := float64(c.R)*k, float64(c.G)*k, float64(c.B)*k
	lum := fr*0.299 + fg*0.587 + fb2*0.114
	addAlpha := clamp255(lum)

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			pxIdx := (rowOff + sx) * 4
			// Additive: add to existing pixel, clamp to 255
			fb.Color[pxIdx] = clamp255(float64(fb.Color[pxIdx]) + fr)
			fb.Color[pxIdx+1] = clamp255(float64(fb.Color[pxIdx+1]) + fg)
			fb.Color[pxIdx+2] = clamp255(float64(fb.Color[pxIdx+2]) + fb2)
			if addAlpha > fb.Color[pxIdx+3] {
				fb.Color[pxIdx+3] = addAlpha
			}
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
