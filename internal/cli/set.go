package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSetCmd creates the set command.
func NewSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "set [VERSION]",
		Aliases: []string{"default"},
		Short:   "Set the default Go version",
		Long: `Point the default link at an installed toolchain.

Without VERSION the current default is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runShowDefault(cmd)
			}
			return runSet(cmd, args[0])
		},
	}

	return cmd
}

func runShowDefault(cmd *cobra.Command) error {
	_, h, err := loadConfig()
	if err != nil {
		return err
	}
	current, ok := h.Current()
	if !ok {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No default Go version is set.")
		return nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), current)
	return nil
}

func runSet(cmd *cobra.Command, version string) error {
	_, h, err := loadConfig()
	if err != nil {
		return err
	}
	if err := h.SetDefault(version); err != nil {
		return err
	}
	current, _ := h.Current()
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Default Go is set to '%s'\n", current)
	return nil
}
