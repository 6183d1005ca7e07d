package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"handpose/internal/asset"
	"handpose/internal/batch"
	"handpose/internal/hand"
	"handpose/internal/shape"
)

// CaptureOptions holds flags for the capture command.
type CaptureOptions struct {
	*RootOptions
	Frame     int
	Threshold float64
	Bones     []string
	OutDir    string
}

// DefaultCaptureBones are the fingertips.
var DefaultCaptureBones = []string{"thumb_tip", "index_tip", "middle_tip", "ring_tip", "pinky_tip"}

// NewCaptureCommand creates the capture command.
func NewCaptureCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CaptureOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "capture <name>",
		Short: "Capture a shape from one frame of a recording",
		Long: `Replay a recording up to --frame and record the root-relative positions
of the chosen bones as a shape asset (<out>/<name>.yaml).

The --hand flag must select a single hand.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&opts.Frame, "frame", "f", 0, "frame index to capture")
	cmd.Flags().Float64VarP(&opts.Threshold, "threshold", "t", 1e-4, "squared distance threshold per bone")
	cmd.Flags().StringSliceVarP(&opts.Bones, "bones", "b", DefaultCaptureBones, "bones to record")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", ".", "directory to write the shape to")

	return cmd
}

func runCapture(opts *CaptureOptions, name string, w io.Writer) error {
	selected := opts.hands()
	if len(selected) != 1 {
		return fmt.Errorf("capture needs --hand left or --hand right")
	}
	h := selected[0]
	if opts.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive, got %v", opts.Threshold)
	}

	bones := make([]hand.BoneID, 0, len(opts.Bones))
	for _, b := range opts.Bones {
		id, err := hand.ParseBoneID(b)
		if err != nil {
			return err
		}
		bones = append(bones, id)
	}

	rec, err := opts.source(opts.Frame + 1)
	if err != nil {
		return err
	}
	tracker := batch.NewTracker(batch.TrackerConfig{Source: rec})
	found := false
	for rec.Next() {
		fr, _ := rec.Current()
		tracker.Step(fr.Index, fr.Time)
		if fr.Index == opts.Frame {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("frame %d not in recording", opts.Frame)
	}

	inst := tracker.Instance(h)
	if !inst.IsTracking() {
		return fmt.Errorf("%s hand not tracking at frame %d", h, opts.Frame)
	}
	c, err := shape.Capture(inst, name, opts.Threshold, bones...)
	if err != nil {
		return err
	}

	path := filepath.Join(opts.OutDir, name+".yaml")
	if err := asset.SaveShape(path, c); err != nil {
		return err
	}
	green := color.New(color.FgGreen)
	green.Fprint(w, "  ▶ ")
	fmt.Fprintf(w, "captured %s (%s, %d bones) → %s\n", name, h, len(c.Bones), path)
	return nil
}
