//go:generate mockgen -destination=./mocks/manager.go . Manager

package download

import (
	"context"
	"net/url"
)

// Manager downloads toolchain archives and their side files.
type Manager interface {
	// ContentLength issues a HEAD request and returns the advertised size.
	// A 404 is reported as errors.ErrNotFound.
	ContentLength(ctx context.Context, u *url.URL) (int64, error)

	// Fetch downloads item into opts.Dir and returns the absolute file path.
	Fetch(ctx context.Context, item Item, opts Options) (string, error)
}

// Item represents one remote resource to download.
type Item struct {
	URL      *url.URL // source URL to download
	Filename string   // file name inside Options.Dir; derived from URL when empty
	Ranged   bool     // download in adaptive Range chunks when the size is known
}

// ProgressFunc is called after every write with the bytes written so far
// and the expected total, which is zero when unknown.
type ProgressFunc func(done, total int64)

// Options control where and how a download happens.
type Options struct {
	Dir      string // destination directory (cache). Must be absolute.
	Progress ProgressFunc
}
