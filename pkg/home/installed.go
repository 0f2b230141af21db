package home

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-version"

	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/fsutil"
	"github.com/glorpus-work/goup/pkg/toolchain"
)

// InstalledVersion is one toolchain found in the home directory.
type InstalledVersion struct {
	Tag       string // directory name, e.g. "go1.21.5"
	Version   string // bare version, e.g. "1.21.5"
	Dir       string
	IsDefault bool
	IsSession bool
}

// List returns the installed toolchains in ascending version order, with
// gotip last. session is the tag pinned by the current shell, if any.
func (h *Home) List(session string) ([]InstalledVersion, error) {
	entries, err := os.ReadDir(h.Root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrIO, "read %s: %v", h.Root, err)
	}

	current, _ := h.Current()
	var out []InstalledVersion
	for _, e := range entries {
		name := e.Name()
		if name == CurrentLink || !e.IsDir() {
			continue
		}
		if name != toolchain.NightlyTag && !h.IsInstalled(name) {
			continue
		}
		out = append(out, InstalledVersion{
			Tag:       name,
			Version:   toolchain.StripTag(name),
			Dir:       filepath.Join(h.Root, name),
			IsDefault: name == current,
			IsSession: session != "" && name == session,
		})
	}
	sortInstalled(out)
	return out, nil
}

// sortInstalled orders versions semantically. gotip sorts last; names
// that are not versions sort lexically after the ones that are.
func sortInstalled(vs []InstalledVersion) {
	parsed := make(map[string]*version.Version, len(vs))
	for _, v := range vs {
		if pv, err := version.NewVersion(v.Version); err == nil {
			parsed[v.Tag] = pv
		}
	}
	rank := func(v InstalledVersion) int {
		switch {
		case v.Tag == toolchain.NightlyTag:
			return 2
		case parsed[v.Tag] == nil:
			return 1
		default:
			return 0
		}
	}
	sort.SliceStable(vs, func(i, j int) bool {
		ri, rj := rank(vs[i]), rank(vs[j])
		if ri != rj {
			return ri < rj
		}
		if ri == 0 {
			return parsed[vs[i].Tag].LessThan(parsed[vs[j].Tag])
		}
		return vs[i].Tag < vs[j].Tag
	})
}

// Current returns the tag the default link points at.
func (h *Home) Current() (string, bool) {
	target, err := readLink(h.CurrentPath())
	if err != nil || target == "" {
		return "", false
	}
	return filepath.Base(filepath.Clean(target)), true
}

// SetDefault points the default link at tag. The link is removed and
// recreated, which is not atomic against concurrent readers.
func (h *Home) SetDefault(tag string) error {
	if err := CheckTag(tag); err != nil {
		return err
	}
	tag = toolchain.NormalizeTag(tag)
	if !h.IsInstalled(tag) {
		return errors.Wrapf(errors.ErrNotInstalled, "Go version %s is not installed, install it with `goup install`", tag)
	}
	link := h.CurrentPath()
	if err := os.RemoveAll(link); err != nil {
		return errors.Wrapf(errors.ErrIO, "remove %s: %v", link, err)
	}
	if err := createLink(h.VersionDir(tag), link); err != nil {
		return errors.Wrapf(errors.ErrIO, "link %s: %v", link, err)
	}
	return nil
}

// RemoveResult describes one requested removal.
type RemoveResult struct {
	Tag     string
	Removed bool
	Skipped string // reason the version was kept, if any
	Freed   int64  // bytes on disk before removal
}

// Remove deletes the given toolchains. The default, the session version and
// versions with no directory are skipped. Every request is attempted;
// failures, including invalid names, are joined.
func (h *Home) Remove(tags []string, session string) ([]RemoveResult, error) {
	current, _ := h.Current()
	results := make([]RemoveResult, 0, len(tags))
	var errs []error
	for _, raw := range tags {
		tag := toolchain.NormalizeTag(raw)
		res := RemoveResult{Tag: tag}
		if err := CheckTag(tag); err != nil {
			errs = append(errs, err)
			results = append(results, res)
			continue
		}
		dir := h.VersionDir(tag)
		switch {
		case tag == current:
			res.Skipped = "default version"
		case session != "" && tag == session:
			res.Skipped = "session version"
		case !fsutil.Exists(dir):
			res.Skipped = "not installed"
		default:
			res.Freed, _ = fsutil.DirSize(dir)
			if err := os.RemoveAll(dir); err != nil {
				errs = append(errs, errors.Wrapf(errors.ErrIO, "remove %s: %v", dir, err))
			} else {
				res.Removed = true
			}
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}
