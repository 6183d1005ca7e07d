// Package render draws debug images of canonical hand skeletons: segment
// boxes and joint markers per hand, flat shaded and z-buffered, plus a
// text label.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"handpose/internal/armature"
	"handpose/internal/hand"
	"handpose/internal/mathutil"
	"handpose/internal/raster"
	"handpose/internal/skeleton"
	"handpose/internal/viewmatrix"
)

// HandFrame is everything drawn for one hand in one frame. It holds only
// values so a frame can be rendered on any goroutine.
type HandFrame struct {
	Pose     skeleton.Snapshot
	Segments []armature.Segment
	Pinching [hand.FingerCount]bool
	Matches  []string
}

// Tracking reports whether the hand had live data when captured.
func (h *HandFrame) Tracking() bool { return h.Pose.State == skeleton.Tracking }

// Scene is one rendered frame.
type Scene struct {
	Index int
	Time  float64
	Hands []HandFrame
}

// Options controls image size and look.
type Options struct {
	Size        int
	Supersample int
	View        mgl64.Mat3
	Background  color.NRGBA
	Label       bool
	// Margin in output pixels around the fitted skeletons.
	Margin int
}

// DefaultOptions returns a 256px supersampled render from the default view.
func DefaultOptions() Options {
	return Options{
		Size:        256,
		Supersample: 2,
		View:        mathutil.ViewDefault,
		Background:  color.NRGBA{R: 24, G: 26, B: 30, A: 255},
		Label:       true,
		Margin:      16,
	}
}

const (
	segmentWidth = 0.12  // half width as a fraction of segment length
	minHalfWidth = 0.002 // meters
	jointRadius  = 0.005
	minSpan      = 0.05
)

var (
	trackedPalette = [2][hand.FingerCount + 1]color.NRGBA{
		hand.Left: {
			{R: 120, G: 170, B: 255, A: 255}, // thumb
			{R: 110, G: 210, B: 255, A: 255},
			{R: 100, G: 240, B: 220, A: 255},
			{R: 140, G: 140, B: 255, A: 255},
			{R: 190, G: 130, B: 255, A: 255},
			{R: 220, G: 225, B: 235, A: 255}, // wrist
		},
		hand.Right: {
			{R: 255, G: 150, B: 80, A: 255},
			{R: 255, G: 215, B: 90, A: 255},
			{R: 150, G: 230, B: 100, A: 255},
			{R: 255, G: 120, B: 120, A: 255},
			{R: 255, G: 110, B: 200, A: 255},
			{R: 235, G: 225, B: 220, A: 255},
		},
	}
	lostColor  = color.NRGBA{R: 90, G: 92, B: 98, A: 255}
	pinchGlow  = color.NRGBA{R: 120, G: 90, B: 30, A: 255}
	labelColor = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
)

func boneColor(h hand.Handedness, id hand.BoneID, tracking bool) color.NRGBA {
	if !tracking || !h.Valid() {
		return lostColor
	}
	if f, ok := id.Finger(); ok {
		return trackedPalette[h][f]
	}
	return trackedPalette[h][hand.FingerCount]
}

// Render draws scene into a Size x Size image.
func Render(scene Scene, opts Options) *image.NRGBA {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	size := opts.Size * ss

	fb := raster.NewFrameBuffer(size, size)
	fb.Fill(opts.Background)
	lc := raster.DefaultLightConfig()
	proj := viewmatrix.Fit(scenePoints(scene), opts.View, size, size, opts.Margin*ss, minSpan)

	for i := range scene.Hands {
		drawHand(fb, proj, &lc, &scene.Hands[i])
	}

	img := fb.Image()
	if ss > 1 {
		img = Downsample(img, opts.Size)
	}
	if opts.Label {
		DrawLabel(img, labelLines(scene), labelColor)
	}
	return img
}

func scenePoints(scene Scene) []mgl64.Vec3 {
	var pts []mgl64.Vec3
	for i := range scene.Hands {
		hf := &scene.Hands[i]
		for _, p := range hf.Pose.Absolute {
			pts = append(pts, p.Position)
		}
		for _, s := range hf.Segments {
			_, end := s.Endpoints(hf.Pose.Absolute[s.Bone])
			pts = append(pts, end)
		}
	}
	return pts
}

func drawHand(fb *raster.FrameBuffer, proj viewmatrix.Projection, lc *raster.LightConfig, hf *HandFrame) {
	tracking := hf.Tracking()
	h := hf.Pose.Hand

	for _, s := range hf.Segments {
		start, end := s.Endpoints(hf.Pose.Absolute[s.Bone])
		half := math.Max(s.Length*segmentWidth, minHalfWidth)
		c := boneColor(h, s.Child, tracking)
		for _, t := range prism(start, end, half) {
			raster.RasterizeTriangle(fb, project(proj, t), c, lc)
		}
	}

	for _, id := range hand.AllBones() {
		c := boneColor(h, id, tracking)
		for _, t := range octahedron(hf.Pose.Absolute[id].Position, jointRadius) {
			raster.RasterizeTriangle(fb, project(proj, t), c, lc)
		}
	}

	if !tracking {
		return
	}
	r := jointRadius * 3 * proj.Scale
	for f := hand.Finger(0); int(f) < hand.FingerCount; f++ {
		if !hf.Pinching[f] {
			continue
		}
		tip := proj.Project(hf.Pose.Absolute[f.Tip()].Position)
		for _, t := range glowQuad(tip, r) {
			raster.RasterizeTriangleAdditive(fb, t, pinchGlow)
		}
	}
}

func project(proj viewmatrix.Projection, t [3]mgl64.Vec3) raster.Triangle {
	return raster.Triangle{proj.Project(t[0]), proj.Project(t[1]), proj.Project(t[2])}
}

// glowQuad is a screen-space diamond around c.
func glowQuad(c mgl64.Vec3, r float64) [2]raster.Triangle {
	top := mgl64.Vec3{c[0], c[1] - r, c[2]}
	bottom := mgl64.Vec3{c[0], c[1] + r, c[2]}
	left := mgl64.Vec3{c[0] - r, c[1], c[2]}
	right := mgl64.Vec3{c[0] + r, c[1], c[2]}
	return [2]raster.Triangle{{top, right, bottom}, {top, bottom, left}}
}
