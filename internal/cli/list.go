package cli

import (
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/goup/pkg/home"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "show"},
		Short:   "List installed Go toolchains",
		Long: `List the toolchains installed in the goup home.

The default version is marked with "*", the version selected by
GOUP_GO_VERSION in this shell with "S".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	_, h, err := loadConfig()
	if err != nil {
		return err
	}
	versions, err := h.List(home.Session(os.LookupEnv))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(versions) == 0 {
		_, _ = fmt.Fprintln(out, "No Go is installed by goup.")
		if path, err := exec.LookPath("go"); err == nil {
			_, _ = fmt.Fprintf(out, "Using system Go at %s\n", path)
		}
		return nil
	}

	tabWriter := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "\tVERSION\tPATH")
	for _, v := range versions {
		marker := ""
		if v.IsDefault {
			marker += "*"
		}
		if v.IsSession {
			marker += "S"
		}
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\t%s\n", marker, v.Tag, v.Dir)
	}
	return tabWriter.Flush()
}
