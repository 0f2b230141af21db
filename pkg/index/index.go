// Package index maintains the local, content-hashed summary of the upstream
// Go version catalog.
package index

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/glorpus-work/goup/pkg/toolchain"
)

// FileName is the name of the index file inside the tool home.
const FileName = "index-go.json"

// LocalIndex is the persisted summary of the upstream catalog. Versions is
// ascending. Latest and Secondary are the newest stable releases of the two
// most recent stable minor lines.
type LocalIndex struct {
	Versions  []string `json:"versions"`
	Latest    string   `json:"latest"`
	Secondary string   `json:"secondary"`
	SHA256    string   `json:"sha256"`
}

// New builds a LocalIndex from an upstream listing in any order. Entries
// that are not valid versions are dropped.
func New(versions []string) *LocalIndex {
	parsed := toolchain.ParseVersions(versions)

	idx := &LocalIndex{Versions: make([]string, 0, len(parsed))}
	h := sha256.New()
	for _, v := range parsed {
		idx.Versions = append(idx.Versions, v.Raw)
		h.Write([]byte(v.Raw))
	}
	idx.SHA256 = hex.EncodeToString(h.Sum(nil))
	idx.Latest, idx.Secondary = latestLines(parsed)
	return idx
}

func latestLines(ascending []toolchain.Version) (string, string) {
	var latest *toolchain.Version
	for i := len(ascending) - 1; i >= 0; i-- {
		v := ascending[i]
		if !v.IsStable() {
			continue
		}
		if latest == nil {
			latest = &ascending[i]
			continue
		}
		if lineLess(v, *latest) {
			return latest.Raw, v.Raw
		}
	}
	if latest == nil {
		return "", ""
	}
	return latest.Raw, latest.Raw
}

func lineLess(a, b toolchain.Version) bool {
	aMaj, aMin := a.Line()
	bMaj, bMin := b.Line()
	return aMaj < bMaj || (aMaj == bMaj && aMin < bMin)
}

// IsEmpty reports whether the index carries enough data to answer queries.
func (i *LocalIndex) IsEmpty() bool {
	return i == nil || len(i.Versions) == 0 || i.Latest == "" || i.Secondary == ""
}

// Parsed returns the cached versions in ascending semantic order.
func (i *LocalIndex) Parsed() []toolchain.Version {
	return toolchain.ParseVersions(i.Versions)
}
