// Package cli implements the inspect command: hierarchy dumps, bind pose
// derivation and shape matching against recordings.
package cli

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"handpose/internal/hand"
	"handpose/internal/replay"
	"handpose/internal/sensor/synthetic"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Recording string // empty means the synthetic source
	Hand      string // "left" | "right" | "both"
	Verbose   bool
}

// ValidHands defines the allowed --hand values.
var ValidHands = []string{"left", "right", "both"}

// NewRootCommand creates the root command of the inspect CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect canonical hand skeletons",
		Long: `Inspect the canonical hand skeleton: print the bone hierarchy, derive
bind poses from vendor skeletons, and match captured shapes against a
recording.

Without --recording the commands read the built-in synthetic source.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, h := range ValidHands {
				if strings.EqualFold(opts.Hand, h) {
					return nil
				}
			}
			return fmt.Errorf("invalid hand %q: must be one of %v", opts.Hand, ValidHands)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.Recording, "recording", "r", "", "recording to read (JSON lines)")
	cmd.PersistentFlags().StringVar(&opts.Hand, "hand", "both", "hand to inspect (left|right|both)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log pipeline transitions to stderr")

	// Add subcommands
	cmd.AddCommand(NewHierarchyCommand(opts))
	cmd.AddCommand(NewBindPoseCommand(opts))
	cmd.AddCommand(NewMatchCommand(opts))
	cmd.AddCommand(NewCaptureCommand(opts))

	return cmd
}

// hands returns the hands selected by --hand.
func (o *RootOptions) hands() []hand.Handedness {
	switch strings.ToLower(o.Hand) {
	case "left":
		return []hand.Handedness{hand.Left}
	case "right":
		return []hand.Handedness{hand.Right}
	}
	return hand.Both[:]
}

func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	if !o.Verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// source is the recording named by --recording, or a synthetic recording of
// frames ticks.
func (o *RootOptions) source(frames int) (*replay.Recording, error) {
	if o.Recording != "" {
		return replay.Open(o.Recording)
	}
	const fps = 30
	var buf bytes.Buffer
	if err := replay.Record(&buf, synthetic.NewSource(synthetic.DefaultMotion, fps), fps, frames); err != nil {
		return nil, err
	}
	return replay.Read(&buf)
}
