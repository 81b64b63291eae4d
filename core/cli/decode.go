package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// DecodeOptions holds the arguments for "decode".
type DecodeOptions struct {
	Descriptors []string
	Out         io.Writer
}

// DecodeRunFunc is the function signature for the decode command handler.
type DecodeRunFunc func(ctx context.Context, opts DecodeOptions) error

// NewDecodeCmd creates the "decode" subcommand.
func NewDecodeCmd(runFunc DecodeRunFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode DESCRIPTOR...",
		Short: "Decode JNI type or method descriptors",
		Long: "Decode JNI descriptors such as '(I[Ljava/lang/String;)V' or '[[J' into Java types. " +
			"Fails on the first malformed descriptor.",
		Example: "  classbrowser decode '(Landroid/os/Bundle;)V' '[Ljava/lang/String;'",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), DecodeOptions{Descriptors: args, Out: cmd.OutOrStdout()})
		},
	}

	return cmd
}
