package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// TreeOptions holds the arguments for "tree".
type TreeOptions struct {
	Files []string
	Out   io.Writer
}

// TreeRunFunc is the function signature for the tree command handler.
type TreeRunFunc func(ctx context.Context, opts TreeOptions) error

// NewTreeCmd creates the "tree" subcommand.
func NewTreeCmd(runFunc TreeRunFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree FILE...",
		Short: "Print the package, type and member tree of API files",
		Long:  "Load one or more API files into a single snapshot and print the loaded files with their ids, followed by the package tree.",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateFiles(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), TreeOptions{Files: args, Out: cmd.OutOrStdout()})
		},
	}

	return cmd
}
