package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"handpose/internal/asset"
	"handpose/internal/batch"
	"handpose/internal/shape"
)

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	*RootOptions
	ShapesDir string
	Frames    int
	Changes   bool
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match captured shapes against a recording",
		Long: `Replay a recording through the ingestion pipeline and report, per frame
and hand, which captured shapes the live skeleton matches.

Examples:
  inspect match --shapes ./shapes --recording session.jsonl
  inspect match --shapes ./shapes --hand right --changes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.ShapesDir, "shapes", "s", "", "directory of captured shapes (required)")
	cmd.Flags().IntVarP(&opts.Frames, "frames", "n", 60, "synthetic frames to generate when no recording is given")
	cmd.Flags().BoolVar(&opts.Changes, "changes", false, "only print frames where the matches change")
	_ = cmd.MarkFlagRequired("shapes")

	return cmd
}

func runMatch(opts *MatchOptions, w, errw io.Writer) error {
	shapes, err := asset.LoadShapes(opts.ShapesDir)
	if err != nil {
		return err
	}
	matcher, err := shape.NewMatcher(shapes...)
	if err != nil {
		return err
	}
	rec, err := opts.source(opts.Frames)
	if err != nil {
		return err
	}

	tracker := batch.NewTracker(batch.TrackerConfig{
		Source:  rec,
		Matcher: matcher,
		Logger:  opts.logger(errw),
	})

	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)
	selected := opts.hands()
	last := map[string]string{}

	for rec.Next() {
		fr, _ := rec.Current()
		sc := tracker.Step(fr.Index, fr.Time)
		for _, h := range selected {
			hf := &sc.Hands[h]
			got := strings.Join(hf.Matches, ",")
			if opts.Changes && last[h.String()] == got {
				continue
			}
			last[h.String()] = got

			fmt.Fprintf(w, "%5d %6.2fs %-5s ", fr.Index, fr.Time, h)
			switch {
			case !hf.Tracking():
				gray.Fprintln(w, "not tracking")
			case got == "":
				gray.Fprintln(w, "-")
			default:
				green.Fprintln(w, got)
			}
		}
	}
	return nil
}
