// Package replay stores vendor hand data as JSON lines and plays it back as
// a sensor.Source. The first line is a header with the rest skeletons; every
// further line is one tick.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"handpose/internal/hand"
	"handpose/internal/sensor"
)

// Version is the recording format version written by Writer.
const Version = 1

var ErrNoHeader = errors.New("replay: recording has no header")

const (
	typeHeader = "header"
	typeFrame  = "frame"
)

type line struct {
	Type      string                               `json:"type"`
	Version   int                                  `json:"version,omitempty"`
	FPS       float64                              `json:"fps,omitempty"`
	Skeletons map[hand.Handedness]sensor.Skeleton  `json:"skeletons,omitempty"`
	Index     int                                  `json:"index"`
	Time      float64                              `json:"time"`
	States    map[hand.Handedness]sensor.HandState `json:"states,omitempty"`
}

// Frame is one recorded tick. A hand missing from States was not reported.
type Frame struct {
	Index  int
	Time   float64
	States map[hand.Handedness]sensor.HandState
}

// Recording is a loaded recording; its cursor starts before the first frame.
type Recording struct {
	FPS       float64
	Skeletons map[hand.Handedness]sensor.Skeleton
	Frames    []Frame

	cur int
}

// Read parses a recording.
func Read(r io.Reader) (*Recording, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var rec *Recording
	n := 0
	for sc.Scan() {
		n++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var l line
		if err := json.Unmarshal(sc.Bytes(), &l); err != nil {
			return nil, fmt.Errorf("replay: line %d: %w", n, err)
		}
		switch l.Type {
		case typeHeader:
			if rec != nil {
				return nil, fmt.Errorf("replay: line %d: duplicate header", n)
			}
			if l.Version > Version {
				return nil, fmt.Errorf("replay: unsupported version %d", l.Version)
			}
			rec = &Recording{FPS: l.FPS, Skeletons: l.Skeletons, cur: -1}
		case typeFrame:
			if rec == nil {
				return nil, ErrNoHeader
			}
			rec.Frames = append(rec.Frames, Frame{Index: l.Index, Time: l.Time, States: l.States})
		default:
			return nil, fmt.Errorf("replay: line %d: unknown type %q", n, l.Type)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("replay: read: %w", err)
	}
	if rec == nil {
		return nil, ErrNoHeader
	}
	return rec, nil
}

// Open reads a recording file.
func Open(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Next advances to the next frame; it returns false past the last one.
func (r *Recording) Next() bool {
	if r.cur+1 >= len(r.Frames) {
		r.cur = len(r.Frames)
		return false
	}
	r.cur++
	return true
}

// Reset moves the cursor back before the first frame.
func (r *Recording) Reset() { r.cur = -1 }

// Current returns the frame under the cursor.
func (r *Recording) Current() (Frame, bool) {
	if r.cur < 0 || r.cur >= len(r.Frames) {
		return Frame{}, false
	}
	return r.Frames[r.cur], true
}

func (r *Recording) Skeleton(h hand.Handedness) (sensor.Skeleton, error) {
	sk, ok := r.Skeletons[h]
	if !ok {
		return sensor.Skeleton{}, sensor.ErrUnavailable
	}
	return sk, nil
}

func (r *Recording) HandState(h hand.Handedness) (sensor.HandState, error) {
	f, ok := r.Current()
	if !ok {
		return sensor.HandState{}, sensor.ErrUnavailable
	}
	st, ok := f.States[h]
	if !ok {
		return sensor.HandState{}, sensor.ErrUnavailable
	}
	return st, nil
}

// Writer produces a recording.
type Writer struct {
	bw    *bufio.Writer
	enc   *json.Encoder
	index int
}

// NewWriter writes the header immediately.
func NewWriter(w io.Writer, fps float64, skeletons map[hand.Handedness]sensor.Skeleton) (*Writer, error) {
	bw := bufio.NewWriter(w)
	rw := &Writer{bw: bw, enc: json.NewEncoder(bw)}
	if err := rw.enc.Encode(line{Type: typeHeader, Version: Version, FPS: fps, Skeletons: skeletons}); err != nil {
		return nil, fmt.Errorf("replay: write header: %w", err)
	}
	return rw, nil
}

// WriteFrame appends one tick.
func (w *Writer) WriteFrame(t float64, states map[hand.Handedness]sensor.HandState) error {
	if err := w.enc.Encode(line{Type: typeFrame, Index: w.index, Time: t, States: states}); err != nil {
		return fmt.Errorf("replay: write frame %d: %w", w.index, err)
	}
	w.index++
	return nil
}

// Frames returns the number of frames written.
func (w *Writer) Frames() int { return w.index }

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error { return w.bw.Flush() }

// Record captures frames ticks of src at fps into w. Hands that fail to
// report are left out of a frame, and out of the header when their skeleton
// is unavailable.
func Record(w io.Writer, src sensor.Source, fps float64, frames int) error {
	if fps <= 0 {
		return fmt.Errorf("replay: invalid fps %v", fps)
	}
	skeletons := make(map[hand.Handedness]sensor.Skeleton, 2)
	for _, h := range hand.Both {
		if sk, err := src.Skeleton(h); err == nil {
			skeletons[h] = sk
		}
	}

	rw, err := NewWriter(w, fps, skeletons)
	if err != nil {
		return err
	}
	for i := 0; i < frames; i++ {
		states := make(map[hand.Handedness]sensor.HandState, 2)
		for _, h := range hand.Both {
			if st, err := src.HandState(h); err == nil {
				states[h] = st
			}
		}
		if err := rw.WriteFrame(float64(i)/fps, states); err != nil {
			return err
		}
	}
	return rw.Flush()
}
