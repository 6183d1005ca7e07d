// Package armature derives per-segment visual geometry (a capsule or line from
// each bone to each child) from a skeleton's absolute poses.
package armature

import (
	"errors"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"handpose/internal/hand"
	"handpose/internal/mathutil"
	"handpose/internal/skeleton"
)

// ErrNilSkeleton is returned when no source view is supplied.
var ErrNilSkeleton = errors.New("armature: nil skeleton")

// DefaultFallbackLength is used along Up when a child cannot be resolved.
const DefaultFallbackLength = 0.01

// Segment is the geometry between bone and one of its children, in bone's
// local frame.
type Segment struct {
	Bone     hand.BoneID
	Child    hand.BoneID
	Position mgl64.Vec3 // segment midpoint
	Rotation mgl64.Quat // Up onto the segment direction
	Length   float64
	Fallback bool
}

// Endpoints returns the world-space start and end of the segment given the
// absolute pose of its bone.
func (s Segment) Endpoints(bone skeleton.Pose) (mgl64.Vec3, mgl64.Vec3) {
	return bone.Position, bone.TransformPoint(s.Position.Mul(2))
}

// Diff is the change applied to a deriver's bone set by Reconcile.
type Diff struct {
	Added   []hand.BoneID
	Removed []hand.BoneID
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool { return len(d.Added) == 0 && len(d.Removed) == 0 }

// Deriver tracks the bone set it visualizes and recomputes segments from a
// source view on each call.
type Deriver struct {
	Up             mgl64.Vec3
	FallbackLength float64

	bones map[hand.BoneID]bool
}

// NewDeriver returns a deriver with the default axis and fallback length.
func NewDeriver() *Deriver {
	return &Deriver{Up: mathutil.Up, FallbackLength: DefaultFallbackLength, bones: map[hand.BoneID]bool{}}
}

// Bones returns the current bone set in ascending order.
func (d *Deriver) Bones() []hand.BoneID {
	return sortedKeys(d.bones)
}

// Reconcile makes the deriver's bone set identical to src: additions are
// applied first, then removals.
func (d *Deriver) Reconcile(src []hand.BoneID) Diff {
	if d.bones == nil {
		d.bones = map[hand.BoneID]bool{}
	}
	want := make(map[hand.BoneID]bool, len(src))
	for _, id := range src {
		if id.Valid() {
			want[id] = true
		}
	}

	var diff Diff
	for id := range want {
		if !d.bones[id] {
			diff.Added = append(diff.Added, id)
		}
	}
	for id := range d.bones {
		if !want[id] {
			diff.Removed = append(diff.Removed, id)
		}
	}
	sortIDs(diff.Added)
	sortIDs(diff.Removed)

	for _, id := range diff.Added {
		d.bones[id] = true
	}
	for _, id := range diff.Removed {
		delete(d.bones, id)
	}
	return diff
}

// Derive reconciles against src and returns one segment per (bone, child)
// pair, ordered by bone then child. A bone whose own pose src cannot resolve
// contributes no segments.
func (d *Deriver) Derive(src skeleton.View) ([]Segment, error) {
	if !skeleton.Usable(src) {
		return nil, ErrNilSkeleton
	}
	d.Reconcile(src.Bones())

	up := d.Up
	if up.Len() < mathutil.SegmentEpsilon {
		up = mathutil.Up
	}
	up = up.Normalize()

	var segs []Segment
	for _, id := range d.Bones() {
		abs, ok := src.AbsolutePose(id)
		if !ok {
			continue
		}
		for _, child := range hand.Children(id) {
			seg := Segment{Bone: id, Child: child}
			cabs, ok := src.AbsolutePose(child)
			if ok {
				v := skeleton.InverseTransformPoint(abs, cabs.Position)
				seg.Length = v.Len()
				seg.Rotation = mathutil.ShortestArc(up, v)
				seg.Position = v.Mul(0.5)
			} else {
				seg.Length = d.FallbackLength
				seg.Rotation = mgl64.QuatIdent()
				seg.Position = up.Mul(d.FallbackLength / 2)
				seg.Fallback = true
			}
			segs = append(segs, seg)
		}
	}
	return segs, nil
}

func sortedKeys(m map[hand.BoneID]bool) []hand.BoneID {
	ids := make([]hand.BoneID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

func sortIDs(ids []hand.BoneID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
