package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/goup/pkg/toolchain"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	var sources sourceFlags

	cmd := &cobra.Command{
		Use:   "search [FILTER]",
		Short: "Search available Go versions",
		Long: `List the Go versions published upstream.

FILTER is stable, unstable, beta or a regular expression matched against
the bare version (e.g. "1.21"). Without a filter every version is listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			return runSearch(cmd, filter, sources)
		},
	}

	cmd.Flags().StringVar(&sources.registryIndex, "registry-index", "", "Registry index, e.g. official|https://go.dev (env GOUP_GO_REGISTRY_INDEX)")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, sources sourceFlags) error {
	cfg, h, err := loadConfig()
	if err != nil {
		return err
	}
	if err := sources.apply(cfg); err != nil {
		return err
	}
	resolver, err := loadResolver(cfg, h)
	if err != nil {
		return err
	}

	var filter *toolchain.Filter
	if query != "" {
		f := toolchain.ParseFilter(query)
		filter = &f
	}
	versions, err := resolver.ListFiltered(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(versions) == 0 {
		_, _ = fmt.Fprintf(out, "No versions found matching '%s'\n", query)
		return nil
	}
	for _, v := range versions {
		_, _ = fmt.Fprintln(out, v)
	}
	return nil
}
