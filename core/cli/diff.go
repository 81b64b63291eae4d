package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/emenda-labs/classbrowser/drivers/java/apidiff"
)

const (
	flagIgnoreObjectOverrides = "ignore-object-overrides"
	flagFieldStatic           = "field-static"
	flagTypeProperties        = "type-properties"
	flagImplements            = "implements"
	flagTypeParameters        = "type-parameters"
)

// DiffOptions holds the parsed flags for "diff".
type DiffOptions struct {
	Reference        []string
	Target           []string
	ReferenceVersion string
	TargetVersion    string
	Format           string
	Compare          apidiff.Options

	// CompareSet names the compare flags given explicitly on the command line.
	CompareSet map[string]bool

	Out io.Writer
}

// DiffRunFunc is the function signature for the diff command handler.
// It is injected by the wiring layer (cmd/classbrowser/main.go).
type DiffRunFunc func(ctx context.Context, opts DiffOptions) error

// NewDiffCmd creates the "diff" subcommand.
func NewDiffCmd(runFunc DiffRunFunc) *cobra.Command {
	var opts DiffOptions

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Report what a target API lacks compared to a reference API",
		Long: "Load a reference and a target API snapshot and report missing types, members, " +
			"interface implementations and type parameters, and mismatched modifiers. " +
			"Exits with status 1 when any discrepancy is found.",
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateDiffFlags(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.CompareSet = make(map[string]bool)
			for _, name := range []string{flagIgnoreObjectOverrides, flagFieldStatic, flagTypeProperties, flagImplements, flagTypeParameters} {
				if cmd.Flags().Changed(name) {
					opts.CompareSet[name] = true
				}
			}
			opts.Out = cmd.OutOrStdout()
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Reference, "reference", nil, "Reference API files, comma separated or repeated (required)")
	cmd.Flags().StringSliceVar(&opts.Target, "target", nil, "Target API files, comma separated or repeated (required)")
	cmd.Flags().StringVar(&opts.ReferenceVersion, "reference-version", "", "Version label of the reference snapshot (e.g. v1.2.0)")
	cmd.Flags().StringVar(&opts.TargetVersion, "target-version", "", "Version label of the target snapshot")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Output format: text or json")

	cmd.Flags().BoolVar(&opts.Compare.IgnoreSystemObjectOverrides, flagIgnoreObjectOverrides, false, "Do not report missing hashCode(), toString() and equals(Object)")
	cmd.Flags().BoolVar(&opts.Compare.CompareFieldStatic, flagFieldStatic, false, "Also compare the static modifier of fields")
	cmd.Flags().BoolVar(&opts.Compare.CompareTypeProperties, flagTypeProperties, false, "Compare abstract, final, static, visibility and JNI signature of types")
	cmd.Flags().BoolVar(&opts.Compare.CompareImplements, flagImplements, false, "Report interfaces the target type does not implement")
	cmd.Flags().BoolVar(&opts.Compare.CompareTypeParameters, flagTypeParameters, false, "Report type parameters missing from the target type")

	cmd.MarkFlagRequired("reference")
	cmd.MarkFlagRequired("target")

	return cmd
}

// MergeCompare applies the explicitly given compare flags on top of base.
func (o DiffOptions) MergeCompare(base apidiff.Options) apidiff.Options {
	merged := base
	if o.CompareSet[flagIgnoreObjectOverrides] {
		merged.IgnoreSystemObjectOverrides = o.Compare.IgnoreSystemObjectOverrides
	}
	if o.CompareSet[flagFieldStatic] {
		merged.CompareFieldStatic = o.Compare.CompareFieldStatic
	}
	if o.CompareSet[flagTypeProperties] {
		merged.CompareTypeProperties = o.Compare.CompareTypeProperties
	}
	if o.CompareSet[flagImplements] {
		merged.CompareImplements = o.Compare.CompareImplements
	}
	if o.CompareSet[flagTypeParameters] {
		merged.CompareTypeParameters = o.Compare.CompareTypeParameters
	}
	return merged
}

func validateDiffFlags(opts DiffOptions) error {
	if len(opts.Reference) == 0 {
		return fmt.Errorf("--reference is required")
	}
	if len(opts.Target) == 0 {
		return fmt.Errorf("--target is required")
	}
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("--format must be text or json, got %q", opts.Format)
	}
	return validateFiles(append(append([]string{}, opts.Reference...), opts.Target...))
}

func validateFiles(files []string) error {
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file does not exist: %s", f)
			}
			return fmt.Errorf("cannot access file: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("path is a directory, not a file: %s", f)
		}
	}
	return nil
}
