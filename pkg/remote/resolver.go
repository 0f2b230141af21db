package remote

import (
	"context"

	"github.com/glorpus-work/goup/internal/logger"
	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/index"
	"github.com/glorpus-work/goup/pkg/toolchain"
)

// Resolver answers version queries against a Source and keeps the local
// version index fresh.
type Resolver struct {
	Source Source
	Store  index.Store
}

// NewResolver creates a Resolver. store may be nil to disable caching.
func NewResolver(source Source, store index.Store) *Resolver {
	return &Resolver{Source: source, Store: store}
}

// Latest returns the newest stable upstream version.
func (r *Resolver) Latest(ctx context.Context) (string, error) {
	return r.Source.Latest(ctx)
}

// ListFiltered fetches the upstream listing, refreshes the local index, and
// returns the entries passing filter. A nil filter keeps everything.
func (r *Resolver) ListFiltered(ctx context.Context, filter *toolchain.Filter) ([]string, error) {
	versions, err := r.Source.ListVersions(ctx)
	if err != nil {
		return nil, err
	}
	r.refresh(versions)
	if filter == nil {
		return versions, nil
	}
	return filter.Apply(versions), nil
}

// LatestOf returns the last upstream entry passing filter.
func (r *Resolver) LatestOf(ctx context.Context, filter toolchain.Filter) (string, error) {
	versions, err := r.ListFiltered(ctx, &filter)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", errors.Wrapf(errors.ErrNotFound, "no upstream version matches %q", filterName(filter))
	}
	return versions[len(versions)-1], nil
}

// MatchRange resolves a semver range to the highest matching upstream
// version, answering from the local index when it is safe to do so.
func (r *Resolver) MatchRange(ctx context.Context, rangeStr string) (string, error) {
	rng, err := toolchain.ParseRange(rangeStr)
	if err != nil {
		return "", err
	}

	if r.Store != nil {
		if cached, ok := r.Store.Read(); ok {
			if v, ok := cached.TryResolve(rng); ok {
				logger.Debug("Resolved version from local index", logger.Fields{"range": rangeStr, "version": v})
				return v, nil
			}
		}
	}

	versions, err := r.ListFiltered(ctx, nil)
	if err != nil {
		return "", err
	}
	v, ok := rng.Highest(toolchain.ParseVersions(versions))
	if !ok {
		return "", errors.Wrapf(errors.ErrNoMatchingVersion, "range %q", rangeStr)
	}
	logger.Debug("Resolved version from upstream", logger.Fields{"range": rangeStr, "version": v.Raw})
	return v.Raw, nil
}

// refresh writes the local index, ignoring failures.
func (r *Resolver) refresh(versions []string) {
	if r.Store == nil {
		return
	}
	if _, err := index.WriteIfChanged(r.Store, index.New(versions)); err != nil {
		logger.Warn("Skipping version index update", logger.Fields{"error": err})
	}
}

func filterName(f toolchain.Filter) string {
	switch f.Kind {
	case toolchain.FilterStable:
		return "stable"
	case toolchain.FilterUnstable:
		return "unstable"
	case toolchain.FilterBeta:
		return "beta"
	default:
		return f.Pattern
	}
}
