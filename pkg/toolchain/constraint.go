package toolchain

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/glorpus-work/goup/pkg/errors"
)

var exactPinRe = regexp.MustCompile(`^(?:==?)?\s*v?(\d+\.\d+\.\d+(?:-[0-9A-Za-z.\-]+)?)$`)

// Range is a parsed semver range such as "~1.22", "^1" or ">=1.20, <1.22".
type Range struct {
	raw         string
	constraints *semver.Constraints
	pin         *semver.Version
}

// ParseRange parses s. A range consisting of a single equality comparator
// against a full X.Y.Z version is recorded as a pin.
func ParseRange(s string) (*Range, error) {
	raw := strings.TrimSpace(s)
	c, err := semver.NewConstraint(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrParse, "invalid version range %q: %v", s, err)
	}
	r := &Range{raw: raw, constraints: c}
	if m := exactPinRe.FindStringSubmatch(raw); m != nil {
		if v, err := semver.StrictNewVersion(m[1]); err == nil {
			r.pin = v
		}
	}
	return r, nil
}

// Check reports whether v satisfies the range.
func (r *Range) Check(v *semver.Version) bool {
	return r.constraints.Check(v)
}

// Pin returns the pinned version when the range is a single exact-equality
// comparator.
func (r *Range) Pin() (*semver.Version, bool) {
	return r.pin, r.pin != nil
}

// String returns the range as given.
func (r *Range) String() string {
	return r.raw
}

// Highest reverse-scans the ascending list versions and returns the highest
// entry satisfying the range.
func (r *Range) Highest(versions []Version) (Version, bool) {
	for i := len(versions) - 1; i >= 0; i-- {
		if r.Check(versions[i].Semantic) {
			return versions[i], true
		}
	}
	return Version{}, false
}
