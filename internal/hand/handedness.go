package hand

import (
	"fmt"
	"strings"
)

// Handedness selects which hand a skeleton, shape or vendor query refers to.
type Handedness int

const (
	Left Handedness = iota
	Right
)

// Both lists the two hands in index order.
var Both = [2]Handedness{Left, Right}

func (h Handedness) String() string {
	switch h {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Handedness(%d)", int(h))
}

// Opposite returns the other hand.
func (h Handedness) Opposite() Handedness {
	if h == Left {
		return Right
	}
	return Left
}

// Valid reports whether h is Left or Right.
func (h Handedness) Valid() bool {
	return h == Left || h == Right
}

// ParseHandedness accepts "left"/"right" (also "l"/"r"), case-insensitive.
func ParseHandedness(s string) (Handedness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return 0, fmt.Errorf("hand: unknown handedness %q", s)
}

func (h Handedness) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("hand: invalid handedness %d", int(h))
	}
	return []byte(h.String()), nil
}

func (h *Handedness) UnmarshalText(text []byte) error {
	v, err := ParseHandedness(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}
