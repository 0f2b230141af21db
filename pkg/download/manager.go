package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/glorpus-work/goup/internal/logger"
	pkgerrors "github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/fsutil"
)

// DefaultUserAgent identifies goup to registries.
const DefaultUserAgent = "goup Client"

// HTTPClient is the subset of *http.Client the manager needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ManagerImpl is an HTTP download manager. Archives are fetched in Range
// chunks whose size adapts to the observed throughput.
type ManagerImpl struct {
	client       HTTPClient
	userAgent    string
	headTimeout  time.Duration
	chunkTimeout time.Duration
}

// NewManager creates a download manager. timeout bounds HEAD and whole-file
// requests; Range chunks use ChunkTimeout.
func NewManager(timeout time.Duration, userAgent string) *ManagerImpl {
	return NewManagerWithClient(&http.Client{}, timeout, userAgent)
}

// NewManagerWithClient creates a download manager on top of client.
func NewManagerWithClient(client HTTPClient, timeout time.Duration, userAgent string) *ManagerImpl {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ManagerImpl{
		client:       client,
		userAgent:    userAgent,
		headTimeout:  timeout,
		chunkTimeout: ChunkTimeout,
	}
}

// SetChunkTimeout bounds every Range request. Non-positive values keep
// ChunkTimeout.
func (m *ManagerImpl) SetChunkTimeout(d time.Duration) {
	if d > 0 {
		m.chunkTimeout = d
	}
}

// ContentLength returns the Content-Length advertised for u, or zero.
func (m *ManagerImpl) ContentLength(ctx context.Context, u *url.URL) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, m.headTimeout)
	defer cancel()

	resp, err := m.do(ctx, http.MethodHead, u.String(), "")
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, fmt.Errorf("%s: %w", u, pkgerrors.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return 0, fmt.Errorf("server returned %s checking size of %s: %w", resp.Status, u, pkgerrors.ErrDownloadFailed)
	}
	if resp.ContentLength < 0 {
		return 0, nil
	}
	return resp.ContentLength, nil
}

// Fetch downloads a single item and returns the path to the downloaded file.
// The file only appears at its final path once fully written.
func (m *ManagerImpl) Fetch(ctx context.Context, item Item, opts Options) (string, error) {
	if item.URL == nil {
		return "", fmt.Errorf("nil URL: %w", pkgerrors.ErrDownloadFailed)
	}
	if opts.Dir == "" || !filepath.IsAbs(opts.Dir) {
		return "", fmt.Errorf("download dir must be absolute: %s: %w", opts.Dir, pkgerrors.ErrIO)
	}
	if err := fsutil.EnsureDir(opts.Dir); err != nil {
		return "", pkgerrors.Wrap(err, "could not create download dir")
	}

	absPath := filepath.Join(opts.Dir, selectFilename(item))
	tmp, err := os.CreateTemp(opts.Dir, "dl-*.tmp")
	if err != nil {
		return "", fmt.Errorf("could not create temp file: %v: %w", err, pkgerrors.ErrIO)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	err = m.write(ctx, item, tmp, opts.Progress)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("could not close file: %v: %w", cerr, pkgerrors.ErrIO)
	}
	if err != nil {
		return "", err
	}
	if err := finalizeFile(tmpPath, absPath); err != nil {
		return "", err
	}
	logger.Debug("Downloaded file", logger.Fields{"url": item.URL.String(), "path": absPath})
	return absPath, nil
}

func (m *ManagerImpl) write(ctx context.Context, item Item, w io.Writer, progress ProgressFunc) error {
	if item.Ranged {
		size, err := m.ContentLength(ctx, item.URL)
		if err != nil {
			return err
		}
		if size > 0 {
			return m.fetchRanged(ctx, item.URL.String(), size, w, progress)
		}
	}
	return m.fetchWhole(ctx, item.URL.String(), w, progress)
}

func (m *ManagerImpl) fetchWhole(ctx context.Context, rawURL string, w io.Writer, progress ProgressFunc) error {
	resp, err := m.do(ctx, http.MethodGet, rawURL, "")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status code: %d: %w", rawURL, resp.StatusCode, pkgerrors.ErrDownloadFailed)
	}
	total := max(resp.ContentLength, 0)
	if _, err := io.Copy(w, &progressReader{r: resp.Body, total: total, fn: progress}); err != nil {
		return fmt.Errorf("could not write file: %v: %w", err, pkgerrors.ErrDownloadFailed)
	}
	return nil
}

func (m *ManagerImpl) do(ctx context.Context, method, rawURL, byteRange string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", m.userAgent)
	if byteRange != "" {
		req.Header.Set("Range", byteRange)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %v: %w", method, rawURL, err, pkgerrors.ErrDownloadFailed)
	}
	return resp, nil
}

func selectFilename(item Item) string {
	if item.Filename != "" {
		return item.Filename
	}
	return path.Base(item.URL.Path)
}

func finalizeFile(tmpPath, absPath string) error {
	if err := fsutil.Move(tmpPath, absPath); err != nil {
		return pkgerrors.Wrap(err, "could not finalize file")
	}
	if err := os.Chmod(absPath, fsutil.FileModeDefault); err != nil {
		return pkgerrors.Wrap(err, "could not set permissions")
	}
	return nil
}

type progressReader struct {
	r     io.Reader
	done  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.fn != nil {
		p.done += int64(n)
		p.fn(p.done, p.total)
	}
	return n, err
}
