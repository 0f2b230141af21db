//go:generate mockgen -destination=./mocks/source.go . Source

package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/glorpus-work/goup/internal/logger"
	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/index"
	"github.com/glorpus-work/goup/pkg/toolchain"
	"github.com/glorpus-work/goup/pkg/vcs"
)

// DefaultTimeout bounds every metadata request.
const DefaultTimeout = 10 * time.Second

// Source lists upstream versions as bare strings ("1.21.5"), oldest first.
type Source interface {
	Latest(ctx context.Context) (string, error)
	ListVersions(ctx context.Context) ([]string, error)
}

// HTTPClient is the subset of *http.Client used here.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// GitLister lists remote tags.
type GitLister interface {
	Available() bool
	LsRemoteTags(ctx context.Context, url string) ([]byte, error)
}

// Option configures a RegistryIndex.
type Option func(*RegistryIndex)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c HTTPClient) Option {
	return func(r *RegistryIndex) {
		if c != nil {
			r.client = c
		}
	}
}

// WithGit replaces the git runner.
func WithGit(g GitLister) Option {
	return func(r *RegistryIndex) {
		if g != nil {
			r.git = g
		}
	}
}

// WithGitURL sets the repository the official backend races against.
func WithGitURL(url string) Option {
	return func(r *RegistryIndex) {
		r.gitURL = url
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(r *RegistryIndex) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// RegistryIndex is one configured upstream listing.
type RegistryIndex struct {
	spec      Spec
	gitURL    string
	userAgent string
	client    HTTPClient
	git       GitLister
}

// New creates a RegistryIndex for spec.
func New(spec Spec, opts ...Option) *RegistryIndex {
	r := &RegistryIndex{
		spec:      spec,
		userAgent: "goup",
		client:    &http.Client{Timeout: DefaultTimeout},
		git:       vcs.NewGit(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Spec returns the backend this index talks to.
func (r *RegistryIndex) Spec() Spec {
	return r.spec
}

// Latest returns the newest stable upstream version.
func (r *RegistryIndex) Latest(ctx context.Context) (string, error) {
	switch r.spec.Kind {
	case Official:
		return r.officialLatest(ctx)
	default:
		versions, err := r.ListVersions(ctx)
		if err != nil {
			return "", err
		}
		latest := index.New(versions).Latest
		if latest == "" {
			return "", errors.Wrapf(errors.ErrNotFound, "no stable version listed at %s", r.spec.Host)
		}
		return latest, nil
	}
}

// ListVersions returns every upstream version, oldest first.
func (r *RegistryIndex) ListVersions(ctx context.Context) ([]string, error) {
	switch r.spec.Kind {
	case Official:
		fetchers := []listFunc{r.officialList}
		if r.gitURL != "" && r.git.Available() {
			fetchers = append(fetchers, func(ctx context.Context) ([]string, error) {
				return r.gitList(ctx, r.gitURL)
			})
		}
		return firstSuccess(ctx, fetchers...)
	case OfficialGit:
		return r.gitList(ctx, r.spec.Host)
	case AutoIndex:
		return r.scrape(ctx, autoIndexEntries)
	case FancyIndex:
		return r.scrape(ctx, fancyIndexEntries)
	default:
		return nil, errors.Wrapf(errors.ErrValidation, "unsupported registry index %s", r.spec.Kind)
	}
}

func (r *RegistryIndex) gitList(ctx context.Context, url string) ([]string, error) {
	if !r.git.Available() {
		return nil, errors.ErrBinaryNotFound("git")
	}
	logger.Debug("Listing upstream versions via git", logger.Fields{"url": url})
	out, err := r.git.LsRemoteTags(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseTags(out), nil
}

func (r *RegistryIndex) get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", r.userAgent)
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s unreachable: %v: %w", url, err, errors.ErrDownloadFailed)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s unreachable, status %d: %w", url, resp.StatusCode, errors.ErrDownloadFailed)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", url)
	}
	return body, nil
}

// bareVersions strips the tag prefix from every entry.
func bareVersions(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, toolchain.StripTag(t))
	}
	return out
}
