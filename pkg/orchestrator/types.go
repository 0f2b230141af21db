//go:generate mockgen -destination=./mocks/orchestrator.go . VersionResolver,ToolchainInstaller,Toolchains

package orchestrator

import (
	"context"

	"github.com/glorpus-work/goup/pkg/home"
	"github.com/glorpus-work/goup/pkg/hook"
	"github.com/glorpus-work/goup/pkg/installer"
	"github.com/glorpus-work/goup/pkg/platform"
	"github.com/glorpus-work/goup/pkg/toolchain"
)

// VersionResolver is the subset of the remote resolver used by the orchestrator.
type VersionResolver interface {
	Latest(ctx context.Context) (string, error)
	LatestOf(ctx context.Context, filter toolchain.Filter) (string, error)
	MatchRange(ctx context.Context, rangeStr string) (string, error)
}

// ToolchainInstaller installs a concrete version.
type ToolchainInstaller interface {
	Install(ctx context.Context, version string, opts installer.Options) (installer.Result, error)
}

// Toolchains is the subset of the goup home used to activate and remove versions.
type Toolchains interface {
	SetDefault(tag string) error
	Remove(tags []string, session string) ([]home.RemoveResult, error)
	VersionDir(tag string) string
}

// Orchestrator ties resolution, installation and activation together.
type Orchestrator struct {
	Resolver   VersionResolver
	Installer  ToolchainInstaller
	Toolchains Toolchains
	HookRunner hook.HookManager // optional, runs post-remove scripts
	Platform   platform.Platform
	Hooks      Hooks // Hooks for progress and event notifications
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // resolving|installing|activating|removing|done|error
	ID    string // version tag
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// InstallOptions control orchestrator install execution.
type InstallOptions struct {
	installer.Options
	DryRun        bool // install without activating
	UseRawVersion bool // skip range matching for explicit requests
}

// RemoveOptions control orchestrator removal.
type RemoveOptions struct {
	Session string // session version, never removed
	DryRun  bool
}
