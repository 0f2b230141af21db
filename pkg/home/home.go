// Package home manages the goup home directory: installed toolchains, the
// default-version link, the download cache and the local version index.
package home

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/fsutil"
	"github.com/glorpus-work/goup/pkg/index"
	"github.com/glorpus-work/goup/pkg/toolchain"
)

// Environment variables read by goup.
const (
	EnvHome           = "GOUP_HOME"
	EnvSessionVersion = "GOUP_GO_VERSION"
)

// Layout names inside the home directory.
const (
	DefaultDirName = ".goup"
	CurrentLink    = "current"
	CacheDirName   = "cache"
	ConfigFileName = "config.yaml"
	SentinelFile   = ".unpacked-success"
)

// Home is a goup home directory.
type Home struct {
	Root string
}

// New returns the Home rooted at root.
func New(root string) *Home {
	return &Home{Root: root}
}

// Resolve locates the home from GOUP_HOME, falling back to ~/.goup.
func Resolve(lookup func(string) (string, bool)) (*Home, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if dir, ok := lookup(EnvHome); ok && dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrIO, "resolve %s: %v", EnvHome, err)
		}
		return New(abs), nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrIO, "home dir lookup failed: %v", err)
	}
	return New(filepath.Join(userHome, DefaultDirName)), nil
}

// CheckTag rejects versions that do not name exactly one directory inside
// the home, such as "../.." which normalizes to "go../..".
func CheckTag(tag string) error {
	tag = toolchain.NormalizeTag(tag)
	if strings.Contains(tag, "..") || strings.ContainsAny(tag, `/\:`) || filepath.Base(tag) != tag {
		return errors.Wrapf(errors.ErrValidation, "invalid Go version %q", tag)
	}
	return nil
}

// VersionDir is the install directory of tag ("go1.21.5" or "gotip"). It
// is also that toolchain's GOROOT.
func (h *Home) VersionDir(tag string) string {
	return filepath.Join(h.Root, toolchain.NormalizeTag(tag))
}

// BinDir is the bin directory of tag's toolchain.
func (h *Home) BinDir(tag string) string {
	return filepath.Join(h.VersionDir(tag), "bin")
}

// CurrentPath is the default-version link.
func (h *Home) CurrentPath() string {
	return filepath.Join(h.Root, CurrentLink)
}

// CurrentBin is the bin directory users put on PATH.
func (h *Home) CurrentBin() string {
	return filepath.Join(h.CurrentPath(), "bin")
}

// CacheDir holds downloaded archives and their checksum side-files.
func (h *Home) CacheDir() string {
	return filepath.Join(h.Root, CacheDirName)
}

// CacheFile is the path of name inside the cache directory.
func (h *Home) CacheFile(name string) string {
	return filepath.Join(h.CacheDir(), name)
}

// IndexPath is the local version index file.
func (h *Home) IndexPath() string {
	return filepath.Join(h.Root, index.FileName)
}

// ConfigPath is the default configuration file.
func (h *Home) ConfigPath() string {
	return filepath.Join(h.Root, ConfigFileName)
}

// LockPath is the install lock of tag.
func (h *Home) LockPath(tag string) string {
	return h.CacheFile(toolchain.NormalizeTag(tag) + ".lock")
}

func (h *Home) sentinelPath(tag string) string {
	return filepath.Join(h.VersionDir(tag), SentinelFile)
}

// IsInstalled reports whether tag finished unpacking. The nightly slot
// counts once its directory exists.
func (h *Home) IsInstalled(tag string) bool {
	if toolchain.NormalizeTag(tag) == toolchain.NightlyTag {
		return fsutil.Exists(h.VersionDir(tag))
	}
	return fsutil.Exists(h.sentinelPath(tag))
}

// MarkInstalled writes the success sentinel of tag.
func (h *Home) MarkInstalled(tag string) error {
	if err := fsutil.Touch(h.sentinelPath(tag)); err != nil {
		return errors.Wrapf(errors.ErrIO, "mark %s installed: %v", tag, err)
	}
	return nil
}

// Session returns the toolchain tag pinned by the current shell session.
func Session(lookup func(string) (string, bool)) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvSessionVersion); ok && v != "" {
		return toolchain.NormalizeTag(v)
	}
	return ""
}
