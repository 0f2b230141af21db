package download

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glorpus-work/goup/pkg/errors"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestNewManager(t *testing.T) {
	tests := []struct {
		name       string
		timeout    time.Duration
		userAgent  string
		expectedUA string
		expectedTO time.Duration
	}{
		{name: "defaults", expectedUA: DefaultUserAgent, expectedTO: 10 * time.Second},
		{name: "custom", timeout: 2 * time.Second, userAgent: "test-agent/1.0", expectedUA: "test-agent/1.0", expectedTO: 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.timeout, tt.userAgent)
			require.NotNil(t, m)
			assert.Equal(t, tt.expectedUA, m.userAgent)
			assert.Equal(t, tt.expectedTO, m.headTimeout)
			assert.Equal(t, ChunkTimeout, m.chunkTimeout)
		})
	}
}

func TestContentLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/go1.21.5.linux-amd64.tar.gz":
			w.Header().Set("Content-Length", "4096")
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	m := NewManager(time.Second, "")

	n, err := m.ContentLength(context.Background(), mustURL(t, srv.URL+"/go1.21.5.linux-amd64.tar.gz"))
	require.NoError(t, err)
	assert.Equal(t, int64(4096), n)

	_, err = m.ContentLength(context.Background(), mustURL(t, srv.URL+"/go1.0.0.plan9-mips.tar.gz"))
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)

	_, err = m.ContentLength(context.Background(), mustURL(t, srv.URL+"/broken"))
	assert.ErrorIs(t, err, pkgerrors.ErrDownloadFailed)
}

func TestFetch_Whole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("abc123  go1.21.5.linux-amd64.tar.gz\n"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	m := NewManager(time.Second, "")
	path, err := m.Fetch(context.Background(), Item{URL: mustURL(t, srv.URL+"/go1.21.5.linux-amd64.tar.gz.sha256")}, Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "go1.21.5.linux-amd64.tar.gz.sha256"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123  go1.21.5.linux-amd64.tar.gz\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestFetch_WholeNotFoundLeavesNothing(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dir := t.TempDir()
	m := NewManager(time.Second, "")
	_, err := m.Fetch(context.Background(), Item{URL: mustURL(t, srv.URL+"/x.sha256")}, Options{Dir: dir})
	assert.ErrorIs(t, err, pkgerrors.ErrDownloadFailed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetch_RelativeDir(t *testing.T) {
	m := NewManager(time.Second, "")
	_, err := m.Fetch(context.Background(), Item{URL: mustURL(t, "http://example.com/a")}, Options{Dir: "relative"})
	assert.ErrorIs(t, err, pkgerrors.ErrIO)

	_, err = m.Fetch(context.Background(), Item{}, Options{Dir: t.TempDir()})
	assert.ErrorIs(t, err, pkgerrors.ErrDownloadFailed)
}

func TestFetch_Ranged(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789abcdef"), int(5*MinChunkSize/16+7))
	var ranges atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			assert.NotEmpty(t, r.Header.Get("Range"))
			ranges.Add(1)
		}
		http.ServeContent(w, r, "archive.tar.gz", time.Time{}, bytes.NewReader(payload))
	}))
	defer srv.Close()

	var lastDone, lastTotal int64
	dir := t.TempDir()
	m := NewManager(time.Second, "")
	path, err := m.Fetch(context.Background(),
		Item{URL: mustURL(t, srv.URL+"/go1.21.5.linux-amd64.tar.gz"), Ranged: true},
		Options{Dir: dir, Progress: func(done, total int64) { lastDone, lastTotal = done, total }})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Greater(t, ranges.Load(), int32(1))
	assert.Equal(t, int64(len(payload)), lastDone)
	assert.Equal(t, int64(len(payload)), lastTotal)
}

func TestFetch_RangedNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	m := NewManager(time.Second, "")
	_, err := m.Fetch(context.Background(), Item{URL: mustURL(t, srv.URL+"/a.tar.gz"), Ranged: true}, Options{Dir: t.TempDir()})
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}

func TestFetch_RangedIgnoredByServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "10")
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte("0123456789"))
		}
	}))
	defer srv.Close()

	m := NewManager(time.Second, "")
	_, err := m.Fetch(context.Background(), Item{URL: mustURL(t, srv.URL+"/a.tar.gz"), Ranged: true}, Options{Dir: t.TempDir()})
	assert.ErrorIs(t, err, pkgerrors.ErrDownloadFailed)
}

func TestChunkSizer(t *testing.T) {
	c := newChunkSizer()
	assert.Equal(t, InitialChunkSize, c.size)

	// The first chunk grows.
	c.observe(MinChunkSize, time.Second)
	assert.Equal(t, int64(float64(InitialChunkSize)*1.75), c.size)

	// Matching the running average grows.
	before := c.size
	c.observe(MinChunkSize, time.Second)
	assert.Equal(t, int64(float64(before)*1.75), c.size)

	// Slower than the running average shrinks.
	before = c.size
	c.observe(MinChunkSize, 2*time.Second)
	assert.Equal(t, int64(float64(before)*0.75), c.size)

	// Faster than the running average grows.
	before = c.size
	c.observe(8*MinChunkSize, time.Second)
	assert.Equal(t, min(int64(float64(before)*1.75), MaxChunkSize), c.size)

	for range 20 {
		c.observe(100*MinChunkSize, time.Millisecond*time.Duration(1))
		c.observe(200*MinChunkSize, time.Millisecond)
	}
	assert.LessOrEqual(t, c.size, MaxChunkSize)

	for range 20 {
		c.observe(1, time.Hour)
	}
	assert.Equal(t, MinChunkSize, c.size)
}

func TestFormatProgress(t *testing.T) {
	assert.Equal(t, "1.0 MB", FormatProgress(1000*1000, 0))
	assert.Equal(t, "500 kB / 1.0 MB (50%)", FormatProgress(500*1000, 1000*1000))
}

func TestLineProgress(t *testing.T) {
	var buf bytes.Buffer
	p := LineProgress(&buf, "go1.21.5", time.Hour)
	p(1, 10)
	p(5, 10)
	p(10, 10)
	out := buf.String()
	assert.Contains(t, out, "go1.21.5  1 B / 10 B (10%)")
	assert.NotContains(t, out, "(50%)")
	assert.Contains(t, out, "10 B / 10 B (100%)\n")
}
