package cli

import (
	"github.com/spf13/cobra"
)

// GlobalOptions holds the persistent flags shared by every subcommand.
type GlobalOptions struct {
	ConfigPath string
}

// NewRootCmd creates the top-level classbrowser command.
func NewRootCmd(version string, globals *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "classbrowser",
		Short:        "Browse and compare Java API surfaces of Android libraries",
		Long:         "Classbrowser loads Java API descriptions (api.xml files and JNI registration manifests), prints their package tree and reports differences between two API snapshots.",
		SilenceUsage: true,
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&globals.ConfigPath, "config", "", "Path to a YAML config file (default .classbrowser.yaml)")

	return cmd
}
