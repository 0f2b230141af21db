// Package testutil provides a fake Go release server for command tests.
package testutil

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/glorpus-work/goup/pkg/archive"
	"github.com/glorpus-work/goup/pkg/home"
	"github.com/glorpus-work/goup/pkg/platform"
	"github.com/glorpus-work/goup/pkg/toolchain"
)

// Upstream serves the endpoints goup talks to: an autoindex listing at
// "/", the go.dev VERSION and release JSON, and release archives with
// checksum side-files under "/dl/".
type Upstream struct {
	Server   *httptest.Server
	URL      string
	versions []string // tags, ascending
	files    map[string][]byte
}

// NewUpstream starts a server publishing tags (e.g. "go1.21.5") for the
// current platform. It is closed when the test ends.
func NewUpstream(t *testing.T, tags ...string) *Upstream {
	t.Helper()
	u := &Upstream{versions: tags, files: map[string][]byte{}}
	for _, tag := range tags {
		data := BuildRelease(t, tag)
		name := platform.CurrentPlatform().ArchiveName(tag)
		sum := sha256.Sum256(data)
		u.files[name] = data
		u.files[name+".sha256"] = []byte(hex.EncodeToString(sum[:]) + "\n")
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	u.URL = u.Server.URL
	t.Cleanup(u.Server.Close)
	return u
}

// RegistryIndex returns the registry index setting for kind.
func (u *Upstream) RegistryIndex(kind string) string {
	return kind + "|" + u.URL
}

// Registry returns the archive base URL.
func (u *Upstream) Registry() string {
	return u.URL + "/dl"
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/":
		u.serveListing(w)
	case r.URL.Path == "/VERSION":
		_, _ = fmt.Fprintf(w, "%s\ntime 2024-01-01T00:00:00Z\n", u.latestStable())
	case r.URL.Path == "/dl/" && r.URL.Query().Get("mode") == "json":
		u.serveReleases(w)
	default:
		data, ok := u.files[strings.TrimPrefix(r.URL.Path, "/dl/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, r.URL.Path, time.Time{}, bytes.NewReader(data))
	}
}

func (u *Upstream) serveListing(w http.ResponseWriter) {
	var sb strings.Builder
	sb.WriteString("<html><body><pre>\n")
	for _, tag := range u.versions {
		fmt.Fprintf(&sb, "<a href=\"%s.src.tar.gz\">%s.src.tar.gz</a>\n", tag, tag)
	}
	sb.WriteString("</pre></body></html>")
	_, _ = fmt.Fprint(w, sb.String())
}

func (u *Upstream) serveReleases(w http.ResponseWriter) {
	type release struct {
		Version string `json:"version"`
		Stable  bool   `json:"stable"`
	}
	releases := make([]release, 0, len(u.versions))
	for _, tag := range slices.Backward(u.versions) {
		releases = append(releases, release{Version: tag, Stable: isStable(tag)})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(releases)
}

func (u *Upstream) latestStable() string {
	for _, tag := range slices.Backward(u.versions) {
		if isStable(tag) {
			return tag
		}
	}
	return ""
}

func isStable(tag string) bool {
	return toolchain.ParseFilter("stable").Match(toolchain.StripTag(tag))
}

// BuildRelease packs a fake toolchain the way upstream lays it out, with
// everything under a top-level "go/", and returns the archive bytes.
func BuildRelease(t *testing.T, tag string) []byte {
	t.Helper()
	src := t.TempDir()
	bin := filepath.Join(src, "go", "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bin, "go"), []byte("#!/bin/sh\necho "+tag+"\n"), 0o755); err != nil {
		t.Fatalf("write go binary: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "go", "VERSION"), []byte(tag+"\n"), 0o644); err != nil {
		t.Fatalf("write VERSION: %v", err)
	}

	path := filepath.Join(t.TempDir(), platform.CurrentPlatform().ArchiveName(tag))
	if err := archive.NewManager().Create(context.Background(), src, path); err != nil {
		t.Fatalf("create archive: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	return data
}

// SetupHome points GOUP_HOME at a fresh directory and clears every other
// GOUP_* variable.
func SetupHome(t *testing.T) *home.Home {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(home.EnvHome, dir)
	for _, key := range []string{
		home.EnvSessionVersion,
		"GOUP_GO_REGISTRY_INDEX",
		"GOUP_GO_REGISTRY",
		"GOUP_GO_SOURCE_GIT_URL",
	} {
		t.Setenv(key, "")
	}
	return home.New(dir)
}

// UseUpstream routes version listing and downloads to u.
func UseUpstream(t *testing.T, u *Upstream, indexKind string) {
	t.Helper()
	t.Setenv("GOUP_GO_REGISTRY_INDEX", u.RegistryIndex(indexKind))
	t.Setenv("GOUP_GO_REGISTRY", u.Registry())
}
