//go:generate mockgen -destination=./mocks/store.go . Store

package index

import (
	"bytes"
	"encoding/json"
	"os"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/glorpus-work/goup/internal/logger"
	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/fsutil"
)

// Store persists a LocalIndex. Read never fails: a missing or unreadable
// index reports false.
type Store interface {
	Read() (*LocalIndex, bool)
	Write(idx *LocalIndex) error
}

// WriteIfChanged writes idx unless the stored index has the same hash. It
// reports whether a write happened.
func WriteIfChanged(store Store, idx *LocalIndex) (bool, error) {
	if old, ok := store.Read(); ok && old.SHA256 == idx.SHA256 {
		return false, nil
	}
	if err := store.Write(idx); err != nil {
		return false, err
	}
	return true, nil
}

// FileStore keeps the index as a JSON file.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Read loads the index file.
func (s *FileStore) Read() (*LocalIndex, bool) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug("Ignoring unreadable version index", logger.Fields{"path": s.Path, "error": err})
		}
		return nil, false
	}
	var idx LocalIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		logger.Debug("Ignoring corrupt version index", logger.Fields{"path": s.Path, "error": err})
		return nil, false
	}
	return &idx, true
}

// Write atomically replaces the index file.
func (s *FileStore) Write(idx *LocalIndex) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return errors.Wrap(err, "failed to encode version index")
	}
	if err := fsutil.EnsureFileDir(s.Path); err != nil {
		return errors.Wrapf(errors.ErrIO, "create index directory: %v", err)
	}
	if err := atomic.WriteFile(s.Path, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(errors.ErrIO, "write %s: %v", s.Path, err)
	}
	return nil
}

// MemoryStore keeps the index in memory.
type MemoryStore struct {
	mu     sync.Mutex
	idx    *LocalIndex
	Writes int
}

// NewMemoryStore returns a MemoryStore seeded with idx, which may be nil.
func NewMemoryStore(idx *LocalIndex) *MemoryStore {
	return &MemoryStore{idx: idx}
}

// Read returns the held index.
func (s *MemoryStore) Read() (*LocalIndex, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx, s.idx != nil
}

// Write replaces the held index.
func (s *MemoryStore) Write(idx *LocalIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx = idx
	s.Writes++
	return nil
}
