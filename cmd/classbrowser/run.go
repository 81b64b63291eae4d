package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/mod/semver"

	"github.com/emenda-labs/classbrowser/core/cli"
	"github.com/emenda-labs/classbrowser/core/config"
	"github.com/emenda-labs/classbrowser/core/driver"
	"github.com/emenda-labs/classbrowser/core/report"
	javadriver "github.com/emenda-labs/classbrowser/drivers/java"
	"github.com/emenda-labs/classbrowser/drivers/java/javaapi"
	"github.com/emenda-labs/classbrowser/drivers/java/jnisig"
)

// errDiscrepancies makes the process exit non-zero after the report is written.
var errDiscrepancies = errors.New("discrepancies found")

type app struct {
	driver *javadriver.Driver
	cfg    config.Config
}

func (a *app) runDiff(ctx context.Context, opts cli.DiffOptions) error {
	if semver.IsValid(opts.ReferenceVersion) && semver.IsValid(opts.TargetVersion) &&
		semver.Compare(opts.TargetVersion, opts.ReferenceVersion) < 0 {
		slog.WarnContext(ctx, "target is older than reference",
			"reference_version", opts.ReferenceVersion, "target_version", opts.TargetVersion)
	}

	refAPI, err := a.driver.Load(ctx, opts.Reference)
	if err != nil {
		return errors.Errorf("loading reference: %w", err)
	}
	targetAPI, err := a.driver.Load(ctx, opts.Target)
	if err != nil {
		return errors.Errorf("loading target: %w", err)
	}

	slog.InfoContext(ctx, "comparing api snapshots",
		"reference_types", refAPI.TypeCount(), "target_types", targetAPI.TypeCount())

	result := a.driver.Compare(
		driver.Snapshot{API: refAPI, Files: opts.Reference, Version: opts.ReferenceVersion},
		driver.Snapshot{API: targetAPI, Files: opts.Target, Version: opts.TargetVersion},
		opts.MergeCompare(a.cfg.Compare),
	)

	if opts.Format == "json" {
		err = report.WriteJSON(opts.Out, result)
	} else {
		err = report.WriteText(opts.Out, result)
	}
	if err != nil {
		return errors.Errorf("writing report: %w", err)
	}

	if n := len(result.Reports); n > 0 {
		return errors.Errorf("%s %w", humanize.Comma(int64(n)), errDiscrepancies)
	}
	return nil
}

func (a *app) runDecode(_ context.Context, opts cli.DecodeOptions) error {
	for _, desc := range opts.Descriptors {
		decoded, err := decodeDescriptor(desc)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(opts.Out, "%s => %s\n", desc, decoded); err != nil {
			return err
		}
	}
	return nil
}

// decodeDescriptor renders a method descriptor as "(params) return" and a
// single type descriptor as its Java name.
func decodeDescriptor(desc string) (string, error) {
	if strings.HasPrefix(desc, "(") {
		m, err := jnisig.ParseMethod(desc)
		if err != nil {
			return "", err
		}
		return m.String(), nil
	}

	t, next, err := jnisig.DecodeSingle(desc, 0)
	if err != nil {
		return "", err
	}
	if next != len(desc) {
		return "", &jnisig.MalformedSignatureError{Text: desc, Pos: next, Char: desc[next]}
	}
	return t.JavaName(), nil
}

func (a *app) runTree(ctx context.Context, opts cli.TreeOptions) error {
	api, err := a.driver.Load(ctx, opts.Files)
	if err != nil {
		return err
	}

	fmt.Fprintln(opts.Out, "ID  File")
	for _, f := range a.driver.Files() {
		fmt.Fprintf(opts.Out, "%-3s %s\n", f.ID, f.Path)
	}
	fmt.Fprintln(opts.Out)

	if err := javaapi.WriteTree(opts.Out, api); err != nil {
		return err
	}

	_, err = fmt.Fprintf(opts.Out, "\n%s packages, %s types\n",
		humanize.Comma(int64(len(api.Packages))), humanize.Comma(int64(api.TypeCount())))
	return err
}
