package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	pkgerrors "github.com/glorpus-work/goup/pkg/errors"
)

// Range chunk bounds.
const (
	MinChunkSize     int64 = 1 << 20
	InitialChunkSize int64 = 2 * MinChunkSize
	MaxChunkSize     int64 = 16 * MinChunkSize
	ChunkTimeout           = 30 * time.Second
)

// chunkSizer grows the next request when a chunk arrives at least as fast
// as the running average of earlier chunks and shrinks it otherwise. The
// first chunk has nothing to compare against and counts as growth.
type chunkSizer struct {
	size  int64
	speed float64 // running average, zero before the first chunk
}

func newChunkSizer() *chunkSizer {
	return &chunkSizer{size: InitialChunkSize}
}

func (c *chunkSizer) observe(n int64, elapsed time.Duration) {
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	observed := float64(n) / elapsed.Seconds()

	next := float64(c.size) * 0.75
	if c.speed == 0 || observed >= c.speed {
		next = float64(c.size) * 1.75
	}
	if c.speed == 0 {
		c.speed = observed
	} else {
		c.speed = (c.speed + observed) / 2
	}
	c.size = min(max(int64(next), MinChunkSize), MaxChunkSize)
}

func (m *ManagerImpl) fetchRanged(ctx context.Context, rawURL string, size int64, w io.Writer, progress ProgressFunc) error {
	sizer := newChunkSizer()
	var start int64
	for start < size {
		end := min(start+sizer.size, size) - 1
		began := time.Now()
		n, err := m.fetchChunk(ctx, rawURL, start, end, w)
		if err != nil {
			return err
		}
		sizer.observe(n, time.Since(began))
		start = end + 1
		if progress != nil {
			progress(start, size)
		}
	}
	return nil
}

func (m *ManagerImpl) fetchChunk(ctx context.Context, rawURL string, start, end int64, w io.Writer) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, m.chunkTimeout)
	defer cancel()

	resp, err := m.do(ctx, http.MethodGet, rawURL, fmt.Sprintf("bytes=%d-%d", start, end))
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusPartialContent {
		return 0, fmt.Errorf("range %d-%d of %s: unexpected status code: %d: %w",
			start, end, rawURL, resp.StatusCode, pkgerrors.ErrDownloadFailed)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("range %d-%d of %s: %v: %w", start, end, rawURL, err, pkgerrors.ErrDownloadFailed)
	}
	if want := end - start + 1; n != want {
		return n, fmt.Errorf("range %d-%d of %s: got %d bytes, want %d: %w",
			start, end, rawURL, n, want, pkgerrors.ErrDownloadFailed)
	}
	return n, nil
}
