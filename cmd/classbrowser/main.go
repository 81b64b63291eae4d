package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emenda-labs/classbrowser/core/cli"
	"github.com/emenda-labs/classbrowser/core/config"
	javadriver "github.com/emenda-labs/classbrowser/drivers/java"
	"github.com/emenda-labs/classbrowser/pkg/logging"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	globals := &cli.GlobalOptions{}
	a := &app{driver: javadriver.NewDriver()}

	root := cli.NewRootCmd(version, globals)
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(globals.ConfigPath)
		if err != nil {
			return err
		}
		logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format, isTerminal(os.Stderr))
		a.cfg = cfg
		return nil
	}
	root.AddCommand(
		cli.NewDiffCmd(a.runDiff),
		cli.NewDecodeCmd(a.runDecode),
		cli.NewTreeCmd(a.runTree),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is a character device, which enables colored logs.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
