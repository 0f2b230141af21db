package cache

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/fsutil"
)

// DefaultManager manages the flat directory of downloaded archives.
type DefaultManager struct {
	directory string
}

// NewManager creates a new cache manager.
func NewManager(directory string) *DefaultManager {
	return &DefaultManager{
		directory: directory,
	}
}

// GetDirectory returns the cache directory path.
func (cm *DefaultManager) GetDirectory() string {
	return cm.directory
}

// List returns the cached files sorted by name. Checksum side-files are
// hidden unless requested; install locks and in-flight downloads are never
// listed, so Clean leaves them alone.
func (cm *DefaultManager) List(options ListOptions) ([]Entry, error) {
	if cm.directory == "" {
		return nil, ErrCacheDirectory
	}
	files, err := fsutil.ListFiles(cm.directory)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list cache directory %s", cm.directory)
	}

	entries := make([]Entry, 0, len(files))
	for _, name := range files {
		if strings.HasSuffix(name, LockSuffix) || strings.HasSuffix(name, TempSuffix) {
			continue
		}
		if !options.IncludeChecksums && strings.HasSuffix(name, ChecksumSuffix) {
			continue
		}
		info, err := os.Stat(filepath.Join(cm.directory, name))
		if err != nil {
			return nil, errors.Wrapf(errors.ErrIO, "stat %s: %v", name, err)
		}
		entries = append(entries, Entry{Name: name, Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// GetInfo returns information about the cache.
func (cm *DefaultManager) GetInfo() (*Info, error) {
	entries, err := cm.List(ListOptions{IncludeChecksums: true})
	if err != nil {
		return nil, err
	}
	info := &Info{Directory: cm.directory}
	for _, e := range entries {
		info.TotalSize += e.Size
		if strings.HasSuffix(e.Name, ChecksumSuffix) {
			info.ChecksumFiles++
		} else {
			info.ArchiveFiles++
		}
	}
	return info, nil
}

// Clean removes every cached file, including checksum side-files, and
// returns the bytes freed.
func (cm *DefaultManager) Clean() (*CleanResult, error) {
	entries, err := cm.List(ListOptions{IncludeChecksums: true})
	if err != nil {
		return nil, err
	}
	result := &CleanResult{}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(cm.directory, e.Name)); err != nil {
			return result, errors.Wrapf(ErrCacheClean, "remove %s: %v", e.Name, err)
		}
		result.TotalFreed += e.Size
		result.FilesRemoved++
	}
	return result, nil
}
