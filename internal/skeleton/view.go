package skeleton

import (
	"sort"

	"handpose/internal/hand"
)

// View is the read side of a skeleton shared by geometry derivation, shape
// matching and rendering. AbsolutePose reports false for a bone the view
// cannot resolve. Valid reports false for a nil implementation, so a typed
// nil stored in a View can be told apart from a usable one.
type View interface {
	Valid() bool
	Handedness() hand.Handedness
	Bones() []hand.BoneID
	AbsolutePose(id hand.BoneID) (Pose, bool)
}

var (
	_ View = (*Instance)(nil)
	_ View = (*Subset)(nil)
	_ View = (*Snapshot)(nil)
)

// Usable reports whether v is non-nil and backed by a live value.
func Usable(v View) bool { return v != nil && v.Valid() }

// Subset exposes only some bones of another view, as a partial proxy
// skeleton does. Absolute poses still come from the full source chain.
type Subset struct {
	src   View
	bones map[hand.BoneID]bool
}

// NewSubset restricts src to the given bones.
func NewSubset(src View, bones ...hand.BoneID) *Subset {
	s := &Subset{src: src, bones: make(map[hand.BoneID]bool, len(bones))}
	for _, b := range bones {
		s.bones[b] = true
	}
	return s
}

func (s *Subset) Valid() bool                 { return s != nil && Usable(s.src) }
func (s *Subset) Handedness() hand.Handedness { return s.src.Handedness() }

// Bones returns the visible bones in ascending order.
func (s *Subset) Bones() []hand.BoneID {
	ids := make([]hand.BoneID, 0, len(s.bones))
	for b := range s.bones {
		ids = append(ids, b)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Subset) AbsolutePose(id hand.BoneID) (Pose, bool) {
	if !s.bones[id] {
		return Pose{}, false
	}
	return s.src.AbsolutePose(id)
}

// Hide removes a bone from the subset; Show adds one back.
func (s *Subset) Hide(id hand.BoneID) { delete(s.bones, id) }
func (s *Subset) Show(id hand.BoneID) { s.bones[id] = true }

// Snapshot is a frozen absolute-pose view, safe to hand to other goroutines.
type Snapshot struct {
	Hand     hand.Handedness
	Absolute PoseArray
	State    State
	Conf     float64
}

// Capture freezes the current absolute poses of an instance.
func Capture(s *Instance) Snapshot {
	return Snapshot{
		Hand:     s.Handedness(),
		Absolute: s.AbsolutePoses(),
		State:    s.State(),
		Conf:     s.Confidence(),
	}
}

func (s *Snapshot) Valid() bool                 { return s != nil }
func (s *Snapshot) Handedness() hand.Handedness { return s.Hand }
func (s *Snapshot) Bones() []hand.BoneID        { return hand.AllBones() }

func (s *Snapshot) AbsolutePose(id hand.BoneID) (Pose, bool) {
	if !id.Valid() {
		return Pose{}, false
	}
	return s.Absolute[id], true
}
