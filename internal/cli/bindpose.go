package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"handpose/internal/asset"
	"handpose/internal/bindpose"
	"handpose/internal/hand"
	"handpose/internal/mathutil"
	"handpose/internal/skeleton"
)

// BindPoseOptions holds flags for the bindpose command.
type BindPoseOptions struct {
	*RootOptions
	OutDir string
}

// NewBindPoseCommand creates the bindpose command.
func NewBindPoseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BindPoseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bindpose",
		Short: "Derive canonical bind poses from vendor skeletons",
		Long: `Derive the canonical bind pose of each selected hand from the vendor
rest skeleton and print the parent-relative pose of every bone.

With --out the poses are also written as bind pose assets
(<out>/<hand>.yaml) that the render tool accepts as custom bind poses.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBindPose(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "directory to write bind pose assets to")

	return cmd
}

func runBindPose(opts *BindPoseOptions, w io.Writer) error {
	rec, err := opts.source(1)
	if err != nil {
		return err
	}

	for _, h := range opts.hands() {
		sk, err := rec.Skeleton(h)
		if err != nil {
			return fmt.Errorf("%s skeleton: %w", h, err)
		}
		poses, err := bindpose.Derive(sk, h)
		if err != nil {
			return fmt.Errorf("%s: %w", h, err)
		}

		writeBindPose(w, h, &poses)

		if opts.OutDir != "" {
			path := filepath.Join(opts.OutDir, h.String()+".yaml")
			if err := asset.SaveBindPose(path, &asset.BindPose{Handedness: h, Poses: poses}); err != nil {
				return err
			}
			green := color.New(color.FgGreen)
			green.Fprint(w, "  ▶ ")
			fmt.Fprintf(w, "wrote %s\n", path)
		}
	}
	return nil
}

func writeBindPose(w io.Writer, h hand.Handedness, poses *skeleton.PoseArray) {
	cyan := color.New(color.FgCyan)
	cyan.Fprintf(w, "%s hand\n", h)
	for _, id := range hand.AllBones() {
		p := poses[id]
		r := mathutil.XYZW(p.Rotation)
		fmt.Fprintf(w, "  %2d %-20s pos (%7.4f %7.4f %7.4f)  rot (%7.4f %7.4f %7.4f %7.4f)\n",
			int(id), id, p.Position[0], p.Position[1], p.Position[2], r[0], r[1], r[2], r[3])
	}
}
