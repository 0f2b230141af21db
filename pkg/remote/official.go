package remote

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/glorpus-work/goup/internal/logger"
	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/toolchain"
)

type release struct {
	Version string `json:"version"`
	Stable  bool   `json:"stable"`
}

func (r *RegistryIndex) officialLatest(ctx context.Context) (string, error) {
	body, err := r.get(ctx, r.spec.Host+"/VERSION?m=text")
	if err != nil {
		return "", err
	}
	first, _, _ := strings.Cut(string(body), "\n")
	first = strings.TrimSpace(first)
	if first == "" {
		return "", errors.Wrapf(errors.ErrNotFound, "getting latest Go version from %s failed", r.spec.Host)
	}
	return toolchain.StripTag(first), nil
}

// officialList reads the release JSON, which is newest first.
func (r *RegistryIndex) officialList(ctx context.Context) ([]string, error) {
	logger.Debug("Listing upstream versions via http", logger.Fields{"host": r.spec.Host})
	body, err := r.get(ctx, r.spec.Host+"/dl/?mode=json&include=all")
	if err != nil {
		return nil, err
	}
	var releases []release
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, errors.Wrapf(errors.ErrParse, "decode release listing: %v", err)
	}
	tags := make([]string, 0, len(releases))
	for _, rel := range releases {
		tags = append(tags, rel.Version)
	}
	versions := bareVersions(tags)
	slices.Reverse(versions)
	return versions, nil
}
