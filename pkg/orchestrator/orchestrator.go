package orchestrator

import (
	"context"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/glorpus-work/goup/internal/logger"
	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/home"
	"github.com/glorpus-work/goup/pkg/hook"
	"github.com/glorpus-work/goup/pkg/installer"
	"github.com/glorpus-work/goup/pkg/platform"
	"github.com/glorpus-work/goup/pkg/toolchain"
)

// New constructs an Orchestrator from existing managers. Helper for wiring.
// hookRunner may be nil.
func New(resolver VersionResolver, inst ToolchainInstaller, toolchains Toolchains, hookRunner hook.HookManager, hooks Hooks) *Orchestrator {
	return &Orchestrator{
		Resolver:   resolver,
		Installer:  inst,
		Toolchains: toolchains,
		HookRunner: hookRunner,
		Platform:   platform.CurrentPlatform(),
		Hooks:      hooks,
	}
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Resolve turns req into a concrete version tag such as "go1.21.5".
func (o *Orchestrator) Resolve(ctx context.Context, req toolchain.Request, useRaw bool) (string, error) {
	var (
		version string
		err     error
	)
	switch req.Kind {
	case toolchain.Nightly:
		return toolchain.NightlyTag, nil
	case toolchain.Stable:
		version, err = o.Resolver.Latest(ctx)
	case toolchain.Unstable:
		version, err = o.Resolver.LatestOf(ctx, toolchain.ParseFilter("unstable"))
	case toolchain.Beta:
		version, err = o.Resolver.LatestOf(ctx, toolchain.ParseFilter("beta"))
	default:
		if req.Value == "" {
			return "", errors.Wrap(errors.ErrValidation, "empty version request")
		}
		if useRaw {
			return toolchain.NormalizeTag(req.Value), nil
		}
		version, err = o.Resolver.MatchRange(ctx, toolchain.StripTag(req.Value))
	}
	if err != nil {
		return "", err
	}
	return toolchain.NormalizeTag(version), nil
}

// Install resolves req, installs the result and makes it the default
// unless DryRun is set.
func (o *Orchestrator) Install(ctx context.Context, req toolchain.Request, opts InstallOptions) (installer.Result, error) {
	if o.Resolver == nil || o.Installer == nil {
		return installer.Result{}, errors.Wrap(errors.ErrValidation, "orchestrator is not configured")
	}

	emit(o.Hooks, Event{Phase: "resolving", Msg: req.String()})
	tag, err := o.Resolve(ctx, req, opts.UseRawVersion)
	if err != nil {
		emit(o.Hooks, Event{Phase: "error", Msg: err.Error()})
		return installer.Result{}, err
	}
	logger.Debug("Resolved toolchain request", logger.Fields{"request": req.String(), "version": tag})

	emit(o.Hooks, Event{Phase: "installing", ID: tag, Msg: tag})
	res, err := o.Installer.Install(ctx, tag, opts.Options)
	if err != nil {
		emit(o.Hooks, Event{Phase: "error", ID: tag, Msg: err.Error()})
		return res, err
	}

	if opts.DryRun {
		emit(o.Hooks, Event{Phase: "done", ID: tag, Msg: "dry-run"})
		return res, nil
	}

	if o.Toolchains == nil {
		return res, errors.Wrap(errors.ErrValidation, "toolchain home is not configured")
	}
	emit(o.Hooks, Event{Phase: "activating", ID: tag, Msg: tag})
	if err := o.Toolchains.SetDefault(tag); err != nil {
		emit(o.Hooks, Event{Phase: "error", ID: tag, Msg: err.Error()})
		return res, err
	}
	emit(o.Hooks, Event{Phase: "done", ID: tag})
	return res, nil
}

// Remove deletes the given versions, skipping the default and the session
// version, and runs the post-remove hook for every removed one.
func (o *Orchestrator) Remove(_ context.Context, versions []string, opts RemoveOptions) error {
	if o.Toolchains == nil {
		return errors.Wrap(errors.ErrValidation, "toolchain home is not configured")
	}
	if len(versions) == 0 {
		return nil
	}

	if opts.DryRun {
		var errs []error
		for _, v := range versions {
			tag := toolchain.NormalizeTag(v)
			if err := home.CheckTag(tag); err != nil {
				errs = append(errs, err)
				continue
			}
			emit(o.Hooks, Event{Phase: "removing", ID: tag, Msg: tag})
		}
		emit(o.Hooks, Event{Phase: "done", Msg: "dry-run"})
		return errors.Join(errs...)
	}

	results, removeErr := o.Toolchains.Remove(versions, opts.Session)
	var errs []error
	if removeErr != nil {
		errs = append(errs, removeErr)
	}
	for _, r := range results {
		if r.Skipped == "not installed" {
			logger.Warnf("%s is not installed, skipping it.", r.Tag)
			continue
		}
		if r.Skipped != "" {
			logger.Warnf("%s is the %s, skipping it. Switch to another version first.", r.Tag, r.Skipped)
			continue
		}
		if !r.Removed {
			continue
		}
		emit(o.Hooks, Event{Phase: "removing", ID: r.Tag, Msg: humanize.Bytes(uint64(r.Freed)) + " freed"})
		if err := o.runRemoveHook(r.Tag); err != nil {
			errs = append(errs, err)
		}
	}
	emit(o.Hooks, Event{Phase: "done"})
	return errors.Join(errs...)
}

func (o *Orchestrator) runRemoveHook(tag string) error {
	if o.HookRunner == nil {
		return nil
	}
	dir := o.Toolchains.VersionDir(tag)
	return o.HookRunner.Execute(hook.PostRemove, hook.HookContext{
		Version:    toolchain.StripTag(tag),
		InstallDir: filepath.Dir(dir),
		GoRoot:     dir,
		GOOS:       o.Platform.OS,
		GOARCH:     o.Platform.Arch,
	})
}
