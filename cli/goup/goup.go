package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/goup/internal/cli"
)

var (
	configPath string
	verbose    bool
	logFormat  string
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup still happens.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goup",
		Short:   "An elegant Go version manager",
		Version: cli.Version,
		Long: `goup installs Go toolchains side by side under $GOUP_HOME and
switches the active one by repointing $GOUP_HOME/current.

Add $GOUP_HOME/bin and $GOUP_HOME/current/bin to PATH.`,
		Example: `  goup install            # latest stable
  goup install 1.21       # newest 1.21.x
  goup install tip        # build from source
  goup set go1.22.0
  goup search beta`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file path (default: $GOUP_HOME/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&logFormat, "log-format", "", "log format (text, json)")

	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.LogFormat = &logFormat

	cmd.AddCommand(
		cli.NewInstallCmd(),
		cli.NewListCmd(),
		cli.NewRemoveCmd(),
		cli.NewSearchCmd(),
		cli.NewSetCmd(),
		cli.NewEnvCmd(),
		cli.NewCacheCmd(),
		cli.NewConfigCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
