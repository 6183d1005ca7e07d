package hand

import (
	"fmt"
	"io"
	"strings"
)

// noParent marks the root entry of the parent table.
const noParent BoneID = -1

var parents = [BoneCount]BoneID{
	Wrist: noParent,

	ThumbMetacarpal: Wrist,
	ThumbProximal:   ThumbMetacarpal,
	ThumbDistal:     ThumbProximal,
	ThumbTip:        ThumbDistal,

	IndexProximal:     Wrist,
	IndexIntermediate: IndexProximal,
	IndexDistal:       IndexIntermediate,
	IndexTip:          IndexDistal,

	MiddleProximal:     Wrist,
	MiddleIntermediate: MiddleProximal,
	MiddleDistal:       MiddleIntermediate,
	MiddleTip:          MiddleDistal,

	RingProximal:     Wrist,
	RingIntermediate: RingProximal,
	RingDistal:       RingIntermediate,
	RingTip:          RingDistal,

	PinkyProximal:     Wrist,
	PinkyIntermediate: PinkyProximal,
	PinkyDistal:       PinkyIntermediate,
	PinkyTip:          PinkyDistal,
}

// children is derived from parents, ascending by ordinal.
var children [BoneCount][]BoneID

func init() {
	for i := 1; i < BoneCount; i++ {
		p := parents[i]
		children[p] = append(children[p], BoneID(i))
	}
}

// Parent returns the parent of id. The root reports false.
func Parent(id BoneID) (BoneID, bool) {
	if !id.Valid() {
		return 0, false
	}
	p := parents[id]
	if p == noParent {
		return 0, false
	}
	return p, true
}

// Children returns the ordered children of id. The slice must not be modified.
func Children(id BoneID) []BoneID {
	if !id.Valid() {
		return nil
	}
	return children[id]
}

// IsTip reports whether id is a terminal fingertip bone.
func IsTip(id BoneID) bool {
	return id.Valid() && id != Root && len(children[id]) == 0
}

// Depth is the number of parent links from id to the root.
func Depth(id BoneID) int {
	d := 0
	for p, ok := Parent(id); ok; p, ok = Parent(p) {
		d++
	}
	return d
}

// MaxDepth is the depth of the deepest bone.
func MaxDepth() int {
	max := 0
	for i := 0; i < BoneCount; i++ {
		if d := Depth(BoneID(i)); d > max {
			max = d
		}
	}
	return max
}

// Chain returns the path from the root down to id, inclusive.
func Chain(id BoneID) []BoneID {
	if !id.Valid() {
		return nil
	}
	path := make([]BoneID, Depth(id)+1)
	for i, b := len(path)-1, id; i >= 0; i-- {
		path[i] = b
		b, _ = Parent(b)
	}
	return path
}

// WriteTree prints the hierarchy as an indented tree, one bone per line.
func WriteTree(w io.Writer) error {
	var walk func(id BoneID, depth int) error
	walk = func(id BoneID, depth int) error {
		marker := ""
		if IsTip(id) {
			marker = " (tip)"
		}
		if _, err := fmt.Fprintf(w, "%s%2d %s%s\n", strings.Repeat("  ", depth), int(id), id, marker); err != nil {
			return err
		}
		for _, c := range Children(id) {
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(Root, 0)
}
