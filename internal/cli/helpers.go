package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/glorpus-work/goup/internal/logger"
	"github.com/glorpus-work/goup/pkg/config"
	"github.com/glorpus-work/goup/pkg/download"
	"github.com/glorpus-work/goup/pkg/home"
	"github.com/glorpus-work/goup/pkg/hook"
	"github.com/glorpus-work/goup/pkg/index"
	"github.com/glorpus-work/goup/pkg/installer"
	"github.com/glorpus-work/goup/pkg/orchestrator"
	"github.com/glorpus-work/goup/pkg/remote"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
	LogFormat  *string
)

// sourceFlags are the per-command overrides of the upstream endpoints.
type sourceFlags struct {
	registryIndex string
	registry      string
}

func loadHome() (*home.Home, error) {
	return home.Resolve(os.LookupEnv)
}

func getConfigPath(h *home.Home) string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}
	return h.ConfigPath()
}

// loadConfig reads the config file, applies GOUP_* environment overrides
// and configures the logger. CLI flags are applied by the caller.
func loadConfig() (*config.Config, *home.Home, error) {
	h, err := loadHome()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.LoadConfig(getConfigPath(h))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	initLogging(cfg)
	return cfg, h, nil
}

// initLogging configures the logger from cfg, with -v and --log-format
// taking precedence.
func initLogging(cfg *config.Config) {
	level := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		level = "debug"
	}
	format := logger.OutputFormat(cfg.Settings.OutputFormat)
	if LogFormat != nil && *LogFormat != "" {
		format = logger.OutputFormat(*LogFormat)
	}
	logger.InitLogger(level, format)
}

func (f sourceFlags) apply(cfg *config.Config) error {
	if f.registryIndex != "" {
		cfg.Settings.RegistryIndex = f.registryIndex
	}
	if f.registry != "" {
		cfg.Settings.Registry = f.registry
	}
	return cfg.Validate()
}

func loadResolver(cfg *config.Config, h *home.Home) (*remote.Resolver, error) {
	spec, err := remote.ParseSpec(cfg.Settings.RegistryIndex)
	if err != nil {
		return nil, err
	}
	source := remote.New(spec,
		remote.WithHTTPClient(&http.Client{Timeout: cfg.Settings.HTTPTimeout}),
		remote.WithGitURL(config.UpstreamGitURL),
		remote.WithUserAgent(userAgent),
	)
	return remote.NewResolver(source, index.NewFileStore(h.IndexPath())), nil
}

func loadDownloadManager(cfg *config.Config) *download.ManagerImpl {
	m := download.NewManager(cfg.Settings.HTTPTimeout, userAgent)
	m.SetChunkTimeout(cfg.Settings.DownloadTimeout)
	return m
}

func loadHookManager(cfg *config.Config, h *home.Home) (*hook.DefaultHookManager, error) {
	return hook.LoadFromConfig(cfg, getConfigPath(h))
}

func loadInstaller(cfg *config.Config, h *home.Home, hooks hook.HookManager) *installer.Installer {
	return installer.New(h, loadDownloadManager(cfg),
		installer.WithHooks(hooks),
		installer.WithProgress(func(label string) download.ProgressFunc {
			return download.TerminalProgress(os.Stderr, label)
		}),
	)
}

func installOptions(cfg *config.Config) installer.Options {
	return installer.Options{
		Registry:         cfg.Settings.Registry,
		SourceGitURL:     cfg.Settings.SourceGitURL,
		SkipVerify:       cfg.Settings.SkipVerify,
		CheckArchiveSize: cfg.Settings.EnableCheckArchiveSize,
	}
}

// loadOrchestrator wires resolver, installer and home together.
func loadOrchestrator(cfg *config.Config, h *home.Home, hooks orchestrator.Hooks) (*orchestrator.Orchestrator, error) {
	resolver, err := loadResolver(cfg, h)
	if err != nil {
		return nil, err
	}
	hookManager, err := loadHookManager(cfg, h)
	if err != nil {
		return nil, err
	}
	inst := loadInstaller(cfg, h, hookManager)
	return orchestrator.New(resolver, inst, h, hookManager, hooks), nil
}
