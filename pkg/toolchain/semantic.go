package toolchain

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/glorpus-work/goup/pkg/errors"
)

const (
	// TagPrefix is prepended to bare versions to form on-disk and archive names.
	TagPrefix = "go"
	// NightlyTag names the source-built toolchain slot.
	NightlyTag = "gotip"
)

var prereleaseMarkers = []string{"alpha", "beta", "rc"}

// NormalizeTag returns the canonical tag for raw, e.g. "1.21.1" -> "go1.21.1"
// and "tip" -> "gotip". It is idempotent.
func NormalizeTag(raw string) string {
	if raw == "tip" {
		return NightlyTag
	}
	if strings.HasPrefix(raw, TagPrefix) {
		return raw
	}
	return TagPrefix + raw
}

// StripTag removes the canonical prefix from tag.
func StripTag(tag string) string {
	return strings.TrimPrefix(tag, TagPrefix)
}

// Semantic converts an upstream version string such as "1.21rc2" or "1.9.2rc2"
// into a strict semantic version (1.21.0-rc2, 1.9.2-rc2). Missing minor and
// patch components are filled with zero.
func Semantic(raw string) (*semver.Version, error) {
	s := StripTag(raw)
	idx := markerIndex(s)

	var core, pre string
	if idx < 0 {
		core = s
	} else {
		core = strings.TrimSuffix(s[:idx], "-")
		pre = s[idx:]
	}

	switch strings.Count(core, ".") {
	case 0:
		core += ".0.0"
	case 1:
		core += ".0"
	}
	if pre != "" {
		core += "-" + pre
	}

	v, err := semver.StrictNewVersion(core)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrParse, "invalid version %q: %v", raw, err)
	}
	return v, nil
}

// markerIndex returns the index of the first prerelease marker, checking
// alpha, then beta, then rc.
func markerIndex(s string) int {
	for _, m := range prereleaseMarkers {
		if i := strings.Index(s, m); i >= 0 {
			return i
		}
	}
	return -1
}

// Version pairs a raw upstream string with its semantic form.
type Version struct {
	Raw      string
	Semantic *semver.Version
}

// ParseVersion builds a Version from raw.
func ParseVersion(raw string) (Version, error) {
	sv, err := Semantic(raw)
	if err != nil {
		return Version{}, err
	}
	return Version{Raw: raw, Semantic: sv}, nil
}

// IsStable reports whether v carries no prerelease tag.
func (v Version) IsStable() bool {
	return v.Semantic.Prerelease() == ""
}

// Line returns the (major, minor) release line of v.
func (v Version) Line() (uint64, uint64) {
	return v.Semantic.Major(), v.Semantic.Minor()
}

// ParseVersions parses every entry of raws, silently dropping the ones that
// do not parse, and returns them in ascending semantic order. Equal versions
// keep their input order.
func ParseVersions(raws []string) []Version {
	out := make([]Version, 0, len(raws))
	for _, raw := range raws {
		v, err := ParseVersion(raw)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	slices.SortStableFunc(out, func(a, b Version) int {
		return a.Semantic.Compare(b.Semantic)
	})
	return out
}
