package raster

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestRasterizeTriangle_DepthTest(t *testing.T) {
	fb := NewFrameBuffer(32, 32)
	lc := DefaultLightConfig()
	far := Triangle{{2, 2, -1}, {30, 2, -1}, {2, 30, -1}}
	near := Triangle{{2, 2, 1}, {30, 2, 1}, {2, 30, 1}}

	RasterizeTriangle(fb, near, color.NRGBA{R: 255, A: 255}, &lc)
	RasterizeTriangle(fb, far, color.NRGBA{G: 255, A: 255}, &lc)

	i := (8*fb.Width + 8) * 4
	assert.Equal(t, uint8(255), fb.Color[i+3])
	assert.Greater(t, fb.Color[i], fb.Color[i+1], "near red triangle must win")
	assert.InDelta(t, 1.0, fb.ZBuf[8*fb.Width+8], 1e-9)

	// outside the triangle stays empty
	assert.Equal(t, uint8(0), fb.Color[(30*fb.Width+30)*4+3])
	assert.True(t, math.IsInf(fb.ZBuf[30*fb.Width+30], -1))
}

func TestRasterizeTriangle_Degenerate(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	lc := DefaultLightConfig()
	RasterizeTriangle(fb, Triangle{{1, 1, 0}, {5, 5, 0}, {3, 3, 0}}, color.NRGBA{R: 255, A: 255}, &lc)
	for i := 3; i < len(fb.Color); i += 4 {
		assert.Equal(t, uint8(0), fb.Color[i])
	}
}

func TestRasterizeTriangleAdditive(t *testing.T) {
	fb := NewFrameBuffer(16, 16)
	fb.Fill(color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	tri := Triangle{{0, 0, 0}, {15, 0, 0}, {0, 15, 0}}
	RasterizeTriangleAdditive(fb, tri, color.NRGBA{R: 100, G: 100, A: 255})

	i := (2*fb.Width + 2) * 4
	assert.Equal(t, uint8(255), fb.Color[i])
	assert.Equal(t, uint8(110), fb.Color[i+1])
	assert.Equal(t, uint8(10), fb.Color[i+2])
}

func TestComputeShade_DoubleSided(t *testing.T) {
	lc := DefaultLightConfig()
	n := mgl64.Vec3{0, 0, 1}
	assert.Greater(t, lc.ComputeShade(n), lc.Ambient)
	// abs() lambert makes front and back diffuse terms equal; only specular differs
	assert.InDelta(t, lc.ComputeShade(n), lc.ComputeShade(n.Mul(-1)), lc.SpecInt+1e-9)
}
