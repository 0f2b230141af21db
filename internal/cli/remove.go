package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/goup/pkg/home"
	"github.com/glorpus-work/goup/pkg/orchestrator"
)

// NewRemoveCmd creates the remove command.
func NewRemoveCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "remove VERSION...",
		Aliases: []string{"rm"},
		Short:   "Remove installed Go toolchains",
		Long: `Remove one or more installed toolchains.

The default version and the version selected by GOUP_GO_VERSION are kept.
Every version is attempted; failures are reported together.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, args, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print what would be removed without removing")

	return cmd
}

func runRemove(cmd *cobra.Command, versions []string, dryRun bool) error {
	cfg, h, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	hooks := orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
		switch {
		case e.Phase == "removing" && dryRun:
			_, _ = fmt.Fprintf(out, "would remove %s\n", e.ID)
		case e.Phase == "removing":
			_, _ = fmt.Fprintf(out, "removed %s (%s)\n", e.ID, e.Msg)
		}
	}}

	orch, err := loadOrchestrator(cfg, h, hooks)
	if err != nil {
		return err
	}
	if err := orch.Remove(cmd.Context(), versions, orchestrator.RemoveOptions{
		Session: home.Session(os.LookupEnv),
		DryRun:  dryRun,
	}); err != nil {
		return fmt.Errorf("failed to remove: %w", err)
	}
	return nil
}
