package index

import (
	"github.com/glorpus-work/goup/pkg/toolchain"
)

// TryResolve answers r from the cache when no release newer than the cache
// could change the answer. The second return value is false when the caller
// must consult upstream.
//
// A pin (single exact-equality comparator) is trusted only when its minor
// line is older than Secondary's. Any other range resolves only when its
// highest cached match is strictly older than both Latest and Secondary,
// since upstream only ships patches for the two newest lines.
func (i *LocalIndex) TryResolve(r *toolchain.Range) (string, bool) {
	if i.IsEmpty() {
		return "", false
	}
	latest, err := toolchain.ParseVersion(i.Latest)
	if err != nil {
		return "", false
	}
	secondary, err := toolchain.ParseVersion(i.Secondary)
	if err != nil {
		return "", false
	}

	if pin, ok := r.Pin(); ok {
		sMaj, sMin := secondary.Line()
		if pin.Major() > sMaj || (pin.Major() == sMaj && pin.Minor() >= sMin) {
			return "", false
		}
		v, found := r.Highest(i.Parsed())
		return v.Raw, found
	}

	v, found := r.Highest(i.Parsed())
	if !found {
		return "", false
	}
	if v.Semantic.LessThan(latest.Semantic) && v.Semantic.LessThan(secondary.Semantic) {
		return v.Raw, true
	}
	return "", false
}
