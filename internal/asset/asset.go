// Package asset reads and writes the authored files the pipeline consumes:
// custom bind poses and captured hand shapes. Both are YAML; JSON documents
// parse as well.
package asset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"handpose/internal/hand"
	"handpose/internal/mathutil"
	"handpose/internal/shape"
	"handpose/internal/skeleton"
)

var (
	ErrBoneCount    = errors.New("asset: wrong number of bones")
	ErrBoneOrder    = errors.New("asset: bones out of order")
	ErrNoHandedness = errors.New("asset: handedness missing")
)

// BindPose is a custom bind pose: one parent-relative pose per canonical
// bone, in BoneID order.
type BindPose struct {
	Handedness hand.Handedness
	Poses      skeleton.PoseArray
}

type bindPoseDoc struct {
	Handedness *hand.Handedness `yaml:"handedness"`
	Bones      []bindBoneDoc    `yaml:"bones"`
}

type bindBoneDoc struct {
	Bone     hand.BoneID `yaml:"bone"`
	Position [3]float64  `yaml:"position,flow"`
	Rotation [4]float64  `yaml:"rotation,flow"` // x, y, z, w
}

func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// ParseBindPose decodes a bind pose document.
func ParseBindPose(data []byte) (*BindPose, error) {
	var doc bindPoseDoc
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("asset: parse bind pose: %w", err)
	}
	if doc.Handedness == nil {
		return nil, fmt.Errorf("asset: bind pose: %w", ErrNoHandedness)
	}
	if len(doc.Bones) != hand.BoneCount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBoneCount, len(doc.Bones), hand.BoneCount)
	}

	bp := &BindPose{Handedness: *doc.Handedness, Poses: skeleton.NewPoseArray()}
	for i, b := range doc.Bones {
		if b.Bone != hand.BoneID(i) {
			return nil, fmt.Errorf("%w: entry %d is %s, want %s", ErrBoneOrder, i, b.Bone, hand.BoneID(i))
		}
		pos := mgl64.Vec3(b.Position)
		rot := mathutil.Quat(b.Rotation[0], b.Rotation[1], b.Rotation[2], b.Rotation[3])
		if !bp.Poses.Set(b.Bone, skeleton.Pose{Position: pos, Rotation: rot}) {
			return nil, fmt.Errorf("asset: bind pose bone %s: invalid pose", b.Bone)
		}
	}
	return bp, nil
}

// LoadBindPose reads a bind pose file.
func LoadBindPose(path string) (*BindPose, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: read %s: %w", path, err)
	}
	bp, err := ParseBindPose(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bp, nil
}

// WriteBindPose encodes bp as YAML.
func WriteBindPose(w io.Writer, bp *BindPose) error {
	doc := bindPoseDoc{Handedness: &bp.Handedness, Bones: make([]bindBoneDoc, hand.BoneCount)}
	for i, p := range bp.Poses {
		doc.Bones[i] = bindBoneDoc{
			Bone:     hand.BoneID(i),
			Position: [3]float64(p.Position),
			Rotation: mathutil.XYZW(p.Rotation),
		}
	}
	return encode(w, &doc)
}

// SaveBindPose writes bp to path.
func SaveBindPose(path string, bp *BindPose) error {
	return writeFile(path, func(w io.Writer) error { return WriteBindPose(w, bp) })
}

type shapeDoc struct {
	Name       string           `yaml:"name"`
	Handedness *hand.Handedness `yaml:"handedness"`
	Threshold  float64          `yaml:"threshold"`
	Bones      []shapeBoneDoc   `yaml:"bones"`
}

type shapeBoneDoc struct {
	Bone     hand.BoneID `yaml:"bone"`
	Position [3]float64  `yaml:"position,flow"`
}

// ParseShape decodes a captured shape document.
func ParseShape(data []byte) (*shape.Captured, error) {
	var doc shapeDoc
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("asset: parse shape: %w", err)
	}
	if doc.Handedness == nil {
		return nil, fmt.Errorf("asset: shape %q: %w", doc.Name, ErrNoHandedness)
	}
	if len(doc.Bones) == 0 {
		return nil, fmt.Errorf("asset: shape %q: %w", doc.Name, shape.ErrEmptyShape)
	}
	if doc.Threshold <= 0 {
		return nil, fmt.Errorf("asset: shape %q: threshold must be positive", doc.Name)
	}
	c := &shape.Captured{Name: doc.Name, Handedness: *doc.Handedness, Threshold: doc.Threshold}
	for _, b := range doc.Bones {
		c.Bones = append(c.Bones, shape.Target{Bone: b.Bone, Position: mgl64.Vec3(b.Position)})
	}
	return c, nil
}

// LoadShape reads one shape file. A shape without a name takes the file's
// base name.
func LoadShape(path string) (*shape.Captured, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: read %s: %w", path, err)
	}
	c, err := ParseShape(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}

// LoadShapes loads every .yaml, .yml and .json file in dir, sorted by name.
func LoadShapes(dir string) ([]*shape.Captured, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("asset: read dir %s: %w", dir, err)
	}
	var shapes []*shape.Captured
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}
		c, err := LoadShape(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, c)
	}
	sort.Slice(shapes, func(i, j int) bool { return shapes[i].Name < shapes[j].Name })
	return shapes, nil
}

// WriteShape encodes c as YAML.
func WriteShape(w io.Writer, c *shape.Captured) error {
	doc := shapeDoc{Name: c.Name, Handedness: &c.Handedness, Threshold: c.Threshold}
	for _, t := range c.Bones {
		doc.Bones = append(doc.Bones, shapeBoneDoc{Bone: t.Bone, Position: [3]float64(t.Position)})
	}
	return encode(w, &doc)
}

// SaveShape writes c to path.
func SaveShape(path string, c *shape.Captured) error {
	return writeFile(path, func(w io.Writer) error { return WriteShape(w, c) })
}

func encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("asset: encode: %w", err)
	}
	return enc.Close()
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("asset: create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("asset: create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
