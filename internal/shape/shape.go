// Package shape matches a live hand against captured static hand shapes.
package shape

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"handpose/internal/hand"
	"handpose/internal/mathutil"
	"handpose/internal/skeleton"
)

var (
	ErrEmptyShape  = errors.New("shape: captured shape has no bones")
	ErrNilSkeleton = errors.New("shape: nil skeleton")
)

// Target is one recorded bone: its position relative to the root.
type Target struct {
	Bone     hand.BoneID `yaml:"bone" json:"bone"`
	Position mgl64.Vec3  `yaml:"position" json:"position"`
}

// Captured is a static hand shape recorded on one hand. Threshold is a
// squared distance.
type Captured struct {
	Name       string          `yaml:"name" json:"name"`
	Handedness hand.Handedness `yaml:"handedness" json:"handedness"`
	Threshold  float64         `yaml:"threshold" json:"threshold"`
	Bones      []Target        `yaml:"bones" json:"bones"`
}

// RootRelative returns id's position in the root bone's frame.
func RootRelative(v skeleton.View, id hand.BoneID) (mgl64.Vec3, bool) {
	if !skeleton.Usable(v) {
		return mgl64.Vec3{}, false
	}
	root, ok := v.AbsolutePose(hand.Root)
	if !ok {
		return mgl64.Vec3{}, false
	}
	abs, ok := v.AbsolutePose(id)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return skeleton.InverseTransformPoint(root, abs.Position), true
}

// Match reports whether every recorded bone of c lies within the threshold of
// its live counterpart. The reference is mirrored when c was captured on the
// other hand. A recorded bone the live view cannot resolve fails the match.
func Match(live skeleton.View, c *Captured) (bool, error) {
	if c == nil || len(c.Bones) == 0 {
		return false, ErrEmptyShape
	}
	if !skeleton.Usable(live) {
		return false, ErrNilSkeleton
	}
	mirror := live.Handedness() != c.Handedness
	for _, t := range c.Bones {
		ref := t.Position
		if mirror {
			ref = skeleton.MirroredPosition(ref)
		}
		pos, ok := RootRelative(live, t.Bone)
		if !ok {
			return false, nil
		}
		if mathutil.DistSqr(pos, ref) >= c.Threshold {
			return false, nil
		}
	}
	return true, nil
}

// Capture records the root-relative positions of bones from a live view.
func Capture(live skeleton.View, name string, threshold float64, bones ...hand.BoneID) (*Captured, error) {
	if !skeleton.Usable(live) {
		return nil, ErrNilSkeleton
	}
	if len(bones) == 0 {
		return nil, ErrEmptyShape
	}
	c := &Captured{Name: name, Handedness: live.Handedness(), Threshold: threshold}
	for _, id := range bones {
		pos, ok := RootRelative(live, id)
		if !ok {
			return nil, fmt.Errorf("shape: capture %s: bone %s not resolvable", name, id)
		}
		c.Bones = append(c.Bones, Target{Bone: id, Position: pos})
	}
	return c, nil
}

// Matcher evaluates a set of shapes, keyed by name.
type Matcher struct {
	shapes map[string]*Captured
}

// NewMatcher builds a matcher. Empty shapes are rejected; later shapes with
// the same name replace earlier ones.
func NewMatcher(shapes ...*Captured) (*Matcher, error) {
	m := &Matcher{shapes: make(map[string]*Captured, len(shapes))}
	for _, c := range shapes {
		if c == nil || len(c.Bones) == 0 {
			name := "<nil>"
			if c != nil {
				name = c.Name
			}
			return nil, fmt.Errorf("shape: add %q: %w", name, ErrEmptyShape)
		}
		m.shapes[c.Name] = c
	}
	return m, nil
}

// Names returns the shape names in sorted order.
func (m *Matcher) Names() []string {
	names := make([]string, 0, len(m.shapes))
	for n := range m.shapes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Matching returns the sorted names of the shapes live currently matches.
func (m *Matcher) Matching(live skeleton.View) ([]string, error) {
	if !skeleton.Usable(live) {
		return nil, ErrNilSkeleton
	}
	var out []string
	for _, n := range m.Names() {
		ok, err := Match(live, m.shapes[n])
		if err != nil {
			return nil, fmt.Errorf("shape: match %q: %w", n, err)
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}
