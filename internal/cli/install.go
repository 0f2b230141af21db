package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/goup/pkg/orchestrator"
	"github.com/glorpus-work/goup/pkg/toolchain"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		dryRun           bool
		skipVerify       bool
		useRawVersion    bool
		checkArchiveSize bool
		sources          sourceFlags
	)

	cmd := &cobra.Command{
		Use:     "install [TOOLCHAIN]",
		Aliases: []string{"update"},
		Short:   "Install a Go toolchain",
		Long: `Install a Go toolchain and make it the default.

TOOLCHAIN is a channel (stable, unstable, beta, nightly), a semver range
such as "~1.21" or ">=1.20, <1.22", or an exact version. It defaults to
stable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := "stable"
			if len(args) == 1 {
				request = args[0]
			}
			return runInstall(cmd, request, installFlags{
				dryRun:           dryRun,
				skipVerify:       skipVerify,
				useRawVersion:    useRawVersion,
				checkArchiveSize: checkArchiveSize,
				sources:          sources,
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry", false, "Install without setting it as the default")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Skip verifying the archive checksum")
	cmd.Flags().BoolVar(&useRawVersion, "use-raw-version", false, "Install the version as given, without range matching")
	cmd.Flags().BoolVar(&checkArchiveSize, "enable-check-archive-size", false, "Compare the downloaded size with the server's Content-Length")
	cmd.Flags().StringVar(&sources.registryIndex, "registry-index", "", "Registry index, e.g. official|https://go.dev (env GOUP_GO_REGISTRY_INDEX)")
	cmd.Flags().StringVar(&sources.registry, "registry", "", "Archive registry URL (env GOUP_GO_REGISTRY)")

	return cmd
}

type installFlags struct {
	dryRun           bool
	skipVerify       bool
	useRawVersion    bool
	checkArchiveSize bool
	sources          sourceFlags
}

func runInstall(cmd *cobra.Command, request string, flags installFlags) error {
	cfg, h, err := loadConfig()
	if err != nil {
		return err
	}
	if err := flags.sources.apply(cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	hooks := orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
		if e.Phase == "error" {
			return
		}
		if e.ID != "" && e.ID != e.Msg {
			_, _ = fmt.Fprintf(out, "%s: %s (%s)\n", e.Phase, e.Msg, e.ID)
		} else if e.Msg != "" {
			_, _ = fmt.Fprintf(out, "%s: %s\n", e.Phase, e.Msg)
		}
	}}

	orch, err := loadOrchestrator(cfg, h, hooks)
	if err != nil {
		return err
	}

	opts := orchestrator.InstallOptions{
		Options:       installOptions(cfg),
		DryRun:        flags.dryRun,
		UseRawVersion: flags.useRawVersion,
	}
	if flags.skipVerify {
		opts.SkipVerify = true
	}
	if flags.checkArchiveSize {
		opts.CheckArchiveSize = true
	}

	res, err := orch.Install(cmd.Context(), toolchain.ParseRequest(request), opts)
	if err != nil {
		return fmt.Errorf("failed to install %s: %w", request, err)
	}
	if !flags.dryRun {
		_, _ = fmt.Fprintf(out, "Default Go is set to '%s'\n", res.Tag)
	}
	return nil
}
