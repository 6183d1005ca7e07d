package cli

import (
	"github.com/spf13/cobra"

	"handpose/internal/hand"
)

// NewHierarchyCommand creates the hierarchy command.
func NewHierarchyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "hierarchy",
		Short:        "Print the canonical bone hierarchy",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return hand.WriteTree(cmd.OutOrStdout())
		},
	}
}
