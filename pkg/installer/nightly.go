package installer

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/glorpus-work/goup/internal/logger"
	"github.com/glorpus-work/goup/pkg/config"
	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/fsutil"
	"github.com/glorpus-work/goup/pkg/hook"
	"github.com/glorpus-work/goup/pkg/toolchain"
	"github.com/glorpus-work/goup/pkg/vcs"
)

// GitRunner runs git subcommands.
type GitRunner interface {
	Available() bool
	Run(ctx context.Context, dir string, args ...string) error
}

// BuildRunner runs name in dir, passing every stdout line to onLine.
type BuildRunner func(ctx context.Context, dir string, onLine func(string), name string, args ...string) error

func newGit() GitRunner { return vcs.NewGit() }

func streamBuild(ctx context.Context, dir string, onLine func(string), name string, args ...string) error {
	return vcs.StreamCommand(ctx, dir, onLine, name, args...)
}

// MakeScript is the build script for goos.
func MakeScript(goos string) string {
	switch goos {
	case "windows":
		return "make.bat"
	case "plan9":
		return "make.rc"
	default:
		return "make.bash"
	}
}

// InstallNightly clones or updates the Go development tree in the gotip
// slot and builds it. Source builds are never checksum-verified.
func (i *Installer) InstallNightly(ctx context.Context, opts Options) (Result, error) {
	tag := toolchain.NightlyTag
	dir := i.home.VersionDir(tag)
	res := Result{Tag: tag, Dir: dir}

	if !i.git.Available() {
		return res, errors.ErrBinaryNotFound("git")
	}
	unlock, err := i.lock(ctx, tag)
	if err != nil {
		return res, err
	}
	defer unlock()

	i.transition(tag, Downloading)
	if !fsutil.Exists(filepath.Join(dir, ".git")) {
		sourceURL := opts.SourceGitURL
		if sourceURL == "" {
			sourceURL = config.DefaultSourceGitURL
		}
		if err := fsutil.EnsureDir(dir); err != nil {
			return res, errors.Wrapf(errors.ErrIO, "create %s: %v", dir, err)
		}
		logger.Info("Cloning the go development tree", logger.Fields{"url": sourceURL})
		if err := i.git.Run(ctx, dir, "clone", "--depth=1", sourceURL, dir); err != nil {
			return res, err
		}
		if err := i.git.Run(ctx, dir, "remote", "add", "upstream", config.UpstreamGitURL); err != nil {
			return res, err
		}
	}

	logger.Info("Updating the go development tree...")
	for _, args := range [][]string{
		{"fetch", "origin", "master"},
		{"-c", "advice.detachedHead=false", "checkout", "FETCH_HEAD"},
		{"reset", "--hard", "FETCH_HEAD"},
		{"clean", "-q", "-f", "-d", "-X"},
	} {
		if err := i.git.Run(ctx, dir, args...); err != nil {
			return res, err
		}
	}

	i.transition(tag, Building)
	srcDir := filepath.Join(dir, "src")
	script := filepath.Join(srcDir, MakeScript(runtime.GOOS))
	if err := i.build(ctx, srcDir, func(line string) { logger.Info(line) }, script); err != nil {
		return res, err
	}
	i.transition(tag, Installed)
	logger.Success("gotip built in " + dir)

	return res, i.runHook(hook.PostInstall, tag)
}
