// Package installer downloads, verifies and unpacks Go toolchains into the
// goup home, and builds gotip from source.
package installer

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/glorpus-work/goup/internal/logger"
	"github.com/glorpus-work/goup/pkg/archive"
	"github.com/glorpus-work/goup/pkg/download"
	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/fsutil"
	"github.com/glorpus-work/goup/pkg/home"
	"github.com/glorpus-work/goup/pkg/hook"
	"github.com/glorpus-work/goup/pkg/platform"
	"github.com/glorpus-work/goup/pkg/toolchain"
)

const lockRetryDelay = 200 * time.Millisecond

// Unpacker extracts an archive into a directory.
type Unpacker interface {
	ExtractAll(ctx context.Context, archivePath, destDir string, opts ...archive.ExtractOption) error
}

// Options control a single install.
type Options struct {
	Registry         string // base URL of the release archives
	SourceGitURL     string // repository cloned for gotip
	SkipVerify       bool
	CheckArchiveSize bool
}

// Installer installs toolchains into a goup home.
type Installer struct {
	home      *home.Home
	downloads download.Manager
	unpacker  Unpacker
	git       GitRunner
	build     BuildRunner
	platform  platform.Platform
	hooks     hook.HookManager
	onState   func(tag string, s State)
	progress  func(label string) download.ProgressFunc
}

// Option configures an Installer.
type Option func(*Installer)

// WithPlatform overrides the target platform.
func WithPlatform(p platform.Platform) Option {
	return func(i *Installer) { i.platform = p }
}

// WithHooks sets the hook manager run after installs.
func WithHooks(h hook.HookManager) Option {
	return func(i *Installer) { i.hooks = h }
}

// WithUnpacker replaces the archive extractor.
func WithUnpacker(u Unpacker) Option {
	return func(i *Installer) { i.unpacker = u }
}

// WithGit replaces the git runner used for gotip.
func WithGit(g GitRunner) Option {
	return func(i *Installer) { i.git = g }
}

// WithBuildRunner replaces the process runner used for make scripts.
func WithBuildRunner(b BuildRunner) Option {
	return func(i *Installer) { i.build = b }
}

// WithStateListener is called on every state transition.
func WithStateListener(fn func(tag string, s State)) Option {
	return func(i *Installer) { i.onState = fn }
}

// WithProgress supplies a progress renderer per download.
func WithProgress(fn func(label string) download.ProgressFunc) Option {
	return func(i *Installer) { i.progress = fn }
}

// New creates an Installer.
func New(h *home.Home, downloads download.Manager, opts ...Option) *Installer {
	i := &Installer{
		home:      h,
		downloads: downloads,
		unpacker:  archive.NewManager(),
		git:       newGit(),
		build:     streamBuild,
		platform:  platform.CurrentPlatform(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install installs version ("1.21.5", "go1.21.5" or "1.22rc1") from a
// binary release. Installing an installed version is a no-op.
func (i *Installer) Install(ctx context.Context, version string, opts Options) (Result, error) {
	tag := toolchain.NormalizeTag(version)
	if tag == toolchain.NightlyTag {
		return i.InstallNightly(ctx, opts)
	}
	if err := home.CheckTag(tag); err != nil {
		return Result{Tag: tag}, err
	}
	res := Result{Tag: tag, Dir: i.home.VersionDir(tag)}
	if i.home.IsInstalled(tag) {
		logger.Info("Already installed", logger.Fields{"version": tag, "dir": res.Dir})
		res.AlreadyInstalled = true
		return res, nil
	}

	unlock, err := i.lock(ctx, tag)
	if err != nil {
		return res, err
	}
	defer unlock()
	if i.home.IsInstalled(tag) {
		res.AlreadyInstalled = true
		return res, nil
	}

	i.transition(tag, NotInstalled)
	archivePath, err := i.fetchArchive(ctx, tag, opts)
	if err != nil {
		return res, err
	}

	if !opts.SkipVerify {
		i.transition(tag, Verifying)
		if err := i.verify(ctx, tag, archivePath, opts); err != nil {
			return res, err
		}
	}

	i.transition(tag, Unpacking)
	logger.Info("Unpacking", logger.Fields{"archive": archivePath, "dir": res.Dir})
	if err := fsutil.EnsureDir(res.Dir); err != nil {
		return res, errors.Wrapf(errors.ErrIO, "create %s: %v", res.Dir, err)
	}
	if err := i.unpacker.ExtractAll(ctx, archivePath, res.Dir, archive.StripPrefix(archive.ReleaseRoot)); err != nil {
		return res, err
	}
	if err := i.home.MarkInstalled(tag); err != nil {
		return res, err
	}
	i.transition(tag, Installed)
	logger.Success(fmt.Sprintf("%s installed in %s", tag, res.Dir))

	return res, i.runHook(hook.PostInstall, tag)
}

func (i *Installer) fetchArchive(ctx context.Context, tag string, opts Options) (string, error) {
	name := i.platform.ArchiveName(tag)
	archivePath := i.home.CacheFile(name)
	if fsutil.Exists(archivePath) {
		logger.Debug("Using cached archive", logger.Fields{"archive": archivePath})
		return archivePath, nil
	}

	archiveURL, err := releaseURL(opts.Registry, name)
	if err != nil {
		return "", err
	}

	i.transition(tag, Downloading)
	logger.Info("Downloading", logger.Fields{"url": archiveURL.String()})

	var expected int64
	if opts.CheckArchiveSize {
		expected, err = i.downloads.ContentLength(ctx, archiveURL)
		if err != nil {
			return "", i.noRelease(tag, err)
		}
	}

	dlOpts := download.Options{Dir: i.home.CacheDir()}
	if i.progress != nil {
		dlOpts.Progress = i.progress(name)
	}
	path, err := i.downloads.Fetch(ctx, download.Item{URL: archiveURL, Filename: name, Ranged: true}, dlOpts)
	if err != nil {
		return "", i.noRelease(tag, err)
	}

	if opts.CheckArchiveSize && expected > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return "", errors.Wrapf(errors.ErrIO, "stat %s: %v", path, err)
		}
		if info.Size() != expected {
			_ = os.Remove(path)
			return "", fmt.Errorf("downloaded file %s size %d doesn't match server size %d: %w",
				path, info.Size(), expected, errors.ErrDownloadFailed)
		}
	}
	return path, nil
}

func (i *Installer) noRelease(tag string, err error) error {
	if errors.Is(err, errors.ErrNotFound) {
		return errors.ErrNoBinaryRelease(tag, i.platform.OS, i.platform.Arch)
	}
	return err
}

func (i *Installer) lock(ctx context.Context, tag string) (func(), error) {
	path := i.home.LockPath(tag)
	if err := fsutil.EnsureFileDir(path); err != nil {
		return nil, errors.Wrapf(errors.ErrIO, "create lock dir: %v", err)
	}
	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrIO, "lock %s: %v", path, err)
	}
	if !locked {
		return nil, errors.Wrapf(errors.ErrIO, "another install of %s is in progress (lock: %s)", tag, path)
	}
	return func() { _ = fl.Unlock() }, nil
}

func (i *Installer) transition(tag string, s State) {
	logger.Debug("Install state", logger.Fields{"version": tag, "state": s.String()})
	if i.onState != nil {
		i.onState(tag, s)
	}
}

func (i *Installer) runHook(t hook.HookType, tag string) error {
	if i.hooks == nil {
		return nil
	}
	return i.hooks.Execute(t, hook.HookContext{
		Version:    toolchain.StripTag(tag),
		InstallDir: i.home.Root,
		GoRoot:     i.home.VersionDir(tag),
		GOOS:       i.platform.OS,
		GOARCH:     i.platform.Arch,
	})
}

func releaseURL(registry, name string) (*url.URL, error) {
	raw := strings.TrimRight(registry, "/") + "/" + name
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Wrapf(errors.ErrValidation, "invalid registry URL %q", registry)
	}
	return u, nil
}
