package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/goup/pkg/config"
	"github.com/glorpus-work/goup/pkg/home"
)

// NewEnvCmd creates the env command.
func NewEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show goup environment variables",
		Long:  "Print every GOUP_* variable, its effective value and what it controls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEnv(cmd)
		},
	}
}

func runEnv(cmd *cobra.Command) error {
	cfg, h, err := loadConfig()
	if err != nil {
		return err
	}

	session, _ := os.LookupEnv(home.EnvSessionVersion)
	rows := [][3]string{
		{home.EnvHome, h.Root, "goup home directory"},
		{home.EnvSessionVersion, session, "Go version used by the current shell session"},
		{config.EnvRegistryIndex, cfg.Settings.RegistryIndex, "where version lists come from (official|git|autoindex|fancyindex)"},
		{config.EnvRegistry, cfg.Settings.Registry, "base URL release archives are downloaded from"},
		{config.EnvSourceGitURL, cfg.Settings.SourceGitURL, "repository cloned to build gotip"},
	}

	tabWriter := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "KEY\tVALUE\tEXPLANATION")
	for _, r := range rows {
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\t%s\n", r[0], r[1], r[2])
	}
	return tabWriter.Flush()
}
