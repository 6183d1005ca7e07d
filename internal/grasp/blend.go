// Package grasp steps a hand pose toward a target pose over time. Deciding
// when to grasp and which easing to use is left to the caller.
package grasp

import (
	"github.com/go-gl/mathgl/mgl64"

	"handpose/internal/mathutil"
	"handpose/internal/skeleton"
)

// Ease maps linear progress in [0,1] to eased progress.
type Ease func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// SmoothStep eases in and out.
func SmoothStep(t float64) float64 { return t * t * (3 - 2*t) }

// Blend interpolates every bone from a start pose to a target pose. Positions
// are lerped and rotations slerped along the shorter arc.
type Blend struct {
	from, to skeleton.PoseArray
	duration float64
	elapsed  float64
	ease     Ease
	current  skeleton.PoseArray
	cancel   bool
}

// NewBlend starts a blend lasting duration seconds. A non-positive duration
// jumps to the target on the first step; a nil ease is Linear.
func NewBlend(from, to skeleton.PoseArray, duration float64, ease Ease) *Blend {
	if ease == nil {
		ease = Linear
	}
	return &Blend{from: from, to: to, duration: duration, ease: ease, current: from}
}

// Advance moves the blend forward by dt seconds and returns the pose to apply
// and whether the blend has finished. After Cancel the next call returns the
// current pose and true without moving.
func (b *Blend) Advance(dt float64) (skeleton.PoseArray, bool) {
	if b.cancel {
		return b.current, true
	}
	if dt > 0 {
		b.elapsed += dt
	}
	t := 1.0
	if b.duration > 0 && b.elapsed < b.duration {
		t = b.elapsed / b.duration
	}
	k := b.ease(t)
	for i := range b.current {
		from, to := b.from[i].Rotation, b.to[i].Rotation
		// q and -q are the same rotation; take the short way round
		if from.Dot(to) < 0 {
			to = to.Scale(-1)
		}
		b.current[i] = skeleton.Pose{
			Position: mathutil.Lerp(b.from[i].Position, b.to[i].Position, k),
			Rotation: mgl64.QuatSlerp(from, to, k),
		}
	}
	if t >= 1 {
		b.current = b.to
	}
	return b.current, t >= 1
}

// Cancel stops the blend at its current pose.
func (b *Blend) Cancel() { b.cancel = true }

// Cancelled reports whether Cancel was called.
func (b *Blend) Cancelled() bool { return b.cancel }

// Progress returns the linear progress in [0,1].
func (b *Blend) Progress() float64 {
	if b.duration <= 0 || b.elapsed >= b.duration {
		return 1
	}
	return b.elapsed / b.duration
}
