package toolchain

import (
	"regexp"
)

// FilterKind selects which upstream versions a search keeps.
type FilterKind int

// Filter kinds.
const (
	FilterStable FilterKind = iota
	FilterUnstable
	FilterBeta
	FilterPattern
)

const numericCore = `(?:0|[1-9]\d*)(?:\.(?:0|[1-9]\d*)){0,2}`

var (
	stableRe   = regexp.MustCompile(`^` + numericCore + `$`)
	unstableRe = regexp.MustCompile(`^` + numericCore + `rc(?:0|[1-9]\d*)$`)
	betaRe     = regexp.MustCompile(`^` + numericCore + `beta(?:0|[1-9]\d*)$`)
)

// Filter narrows an upstream version listing.
type Filter struct {
	Kind    FilterKind
	Pattern string
	re      *regexp.Regexp
}

// ParseFilter maps "stable", "unstable" and "beta" to their filters. Any
// other string is treated as a regular expression, or as a literal
// substring when it does not compile.
func ParseFilter(s string) Filter {
	switch s {
	case "stable":
		return Filter{Kind: FilterStable, re: stableRe}
	case "unstable":
		return Filter{Kind: FilterUnstable, re: unstableRe}
	case "beta":
		return Filter{Kind: FilterBeta, re: betaRe}
	}
	re, err := regexp.Compile(s)
	if err != nil {
		re = regexp.MustCompile(regexp.QuoteMeta(s))
	}
	return Filter{Kind: FilterPattern, Pattern: s, re: re}
}

// Match reports whether the bare version v passes the filter.
func (f Filter) Match(v string) bool {
	if f.re == nil {
		return true
	}
	return f.re.MatchString(v)
}

// Apply returns the entries of versions that pass the filter, keeping order.
func (f Filter) Apply(versions []string) []string {
	out := make([]string, 0, len(versions))
	for _, v := range versions {
		if f.Match(v) {
			out = append(out, v)
		}
	}
	return out
}
