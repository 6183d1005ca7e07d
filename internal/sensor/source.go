package sensor

import (
	"errors"

	"handpose/internal/hand"
)

// ErrUnavailable is returned by sources that cannot answer this tick.
// Callers treat it as transient and retry on the next tick.
var ErrUnavailable = errors.New("sensor: data unavailable")

// Source is the vendor API as seen by the ingestion pipeline. Calls are
// assumed non-blocking; the pipeline never mutates returned data.
type Source interface {
	// Skeleton returns the vendor rest skeleton of the hand.
	Skeleton(h hand.Handedness) (Skeleton, error)

	// HandState returns the current live state of the hand.
	HandState(h hand.Handedness) (HandState, error)
}

// Static serves fixed snapshots; handy as a stub vendor in tools and tests.
// A missing entry answers ErrUnavailable.
type Static struct {
	Skeletons map[hand.Handedness]Skeleton
	States    map[hand.Handedness]HandState
}

func (s *Static) Skeleton(h hand.Handedness) (Skeleton, error) {
	sk, ok := s.Skeletons[h]
	if !ok {
		return Skeleton{}, ErrUnavailable
	}
	return sk, nil
}

func (s *Static) HandState(h hand.Handedness) (HandState, error) {
	st, ok := s.States[h]
	if !ok {
		return HandState{}, ErrUnavailable
	}
	return st, nil
}
