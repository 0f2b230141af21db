package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/goup/pkg/cache"
)

// NewCacheCmd creates the cache command with subcommands
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Aliases: []string{"downloads"},
		Short:   "Manage downloaded archives",
		Long:    "Show and clean the archives kept in the goup download cache",
	}

	cmd.AddCommand(
		newCacheShowCmd(),
		newCacheCleanCmd(),
		newCacheInfoCmd(),
		newCacheDirCmd(),
	)

	return cmd
}

func newCacheShowCmd() *cobra.Command {
	var containChecksums bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List cached archives",
		Long:  "List the cached archives and their sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			op, err := loadCacheOperation()
			if err != nil {
				return err
			}
			text, err := op.Show(containChecksums)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&containChecksums, "contain-sha256", false, "Also list .sha256 checksum files")

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	var noConfirm bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached archives",
		Long:  "Remove every cached archive and checksum file to free up disk space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheClean(cmd, noConfirm)
		},
	}

	cmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "Do not ask for confirmation")

	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache information",
		Long:  "Display the size and content counts of the download cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			op, err := loadCacheOperation()
			if err != nil {
				return err
			}
			text, err := op.GetInfo()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newCacheDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dir",
		Short: "Show cache directory path",
		Long:  "Display the path to the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, h, err := loadConfig()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), h.CacheDir())
			return nil
		},
	}
}

func runCacheClean(cmd *cobra.Command, noConfirm bool) error {
	op, err := loadCacheOperation()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !noConfirm {
		_, _ = fmt.Fprint(out, "Remove all cached archives? [y/N] ")
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			_, _ = fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	text, err := op.Clean()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, text)
	return nil
}

func loadCacheOperation() (*cache.CacheOperation, error) {
	_, h, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cache.NewCacheOperation(cache.NewManager(h.CacheDir())), nil
}
