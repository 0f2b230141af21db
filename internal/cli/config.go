package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/goup/internal/logger"
	"github.com/glorpus-work/goup/pkg/config"
	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/hook"
)

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View and modify goup configuration settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetCmd(),
		newConfigGetCmd(),
		newConfigInitCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration, including GOUP_* environment overrides",
		RunE:  runConfigShow,
	}

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration key to a specific value",
		Args:  cobra.ExactArgs(setCommandArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Get a configuration value",
		Long:  "Get the value of a specific configuration key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, args[0])
		},
	}

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force     bool
		withHooks bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long:  "Create a default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(force, withHooks)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&withHooks, "with-hooks", false, "Include commented hook script templates")

	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, h, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Config file: %s\n\n", getConfigPath(h))

	tabWriter := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "SETTING\tVALUE")
	_, _ = fmt.Fprintln(tabWriter, "-------\t-----")

	settingsMap := cfg.ToMap()
	for _, key := range config.Keys() {
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\n", key, settingsMap[key])
	}
	_ = tabWriter.Flush()

	_, _ = fmt.Fprintln(out, "\nHooks:")
	_, _ = fmt.Fprintf(out, "  %s: %s\n", hook.PostInstall, hookSummary(cfg.Hooks.PostInstall))
	_, _ = fmt.Fprintf(out, "  %s: %s\n", hook.PostRemove, hookSummary(cfg.Hooks.PostRemove))
	return nil
}

func hookSummary(value string) string {
	switch {
	case value == "":
		return "(none)"
	case len(value) > 40:
		return value[:37] + "..."
	default:
		return value
	}
}

// loadFileConfig reads the config file without environment overrides, so
// that saving it back does not persist them.
func loadFileConfig() (*config.Config, string, error) {
	h, err := loadHome()
	if err != nil {
		return nil, "", err
	}
	path := getConfigPath(h)
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	initLogging(cfg)
	return cfg, path, nil
}

func runConfigSet(key, value string) error {
	cfg, path, err := loadFileConfig()
	if err != nil {
		return err
	}

	if err := cfg.SetValue(key, value); err != nil {
		return fmt.Errorf("failed to set configuration value: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SaveConfig(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Configuration updated", logger.Fields{"key": key, "value": value})
	return nil
}

func runConfigGet(cmd *cobra.Command, key string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	value, err := cfg.GetValue(key)
	if err != nil {
		return fmt.Errorf("failed to get configuration value: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigInit(force, withHooks bool) error {
	h, err := loadHome()
	if err != nil {
		return err
	}
	initLogging(config.DefaultConfig())
	configPath := getConfigPath(h)

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite): %w", configPath, errors.ErrValidation)
	}

	defaultConfig := config.DefaultConfig()
	if err := defaultConfig.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save default configuration: %w", err)
	}
	if withHooks {
		if err := appendHookTemplates(configPath); err != nil {
			return err
		}
	}

	logger.Success("Configuration file created", logger.Fields{"path": configPath})
	return nil
}

func appendHookTemplates(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return errors.Wrapf(errors.ErrIO, "open %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "\n# Hooks are tengo scripts, inline or as a path to a .tengo file:")
	_, _ = fmt.Fprintln(f, "# hooks:")
	_, _ = fmt.Fprintln(f, "#   post_install: post-install.tengo")
	for _, t := range []hook.HookType{hook.PostInstall, hook.PostRemove} {
		_, _ = fmt.Fprintf(f, "#\n# %s.tengo:\n", t)
		if err := commentLines(f, hook.HookTemplate(t)); err != nil {
			return err
		}
	}
	return nil
}

func commentLines(f *os.File, text string) error {
	for _, line := range strings.Split(text, "\n") {
		if _, err := fmt.Fprintf(f, "#   %s\n", line); err != nil {
			return errors.Wrapf(errors.ErrIO, "write hook template: %v", err)
		}
	}
	return nil
}
