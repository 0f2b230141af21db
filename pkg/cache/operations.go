package cache

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/glorpus-work/goup/internal/logger"
)

// CacheOperation renders cache operations for the command line.
type CacheOperation struct {
	manager Manager
}

// NewCacheOperation creates a new cache operation instance.
func NewCacheOperation(manager Manager) *CacheOperation {
	return &CacheOperation{
		manager: manager,
	}
}

// Show lists the cached archives with their sizes.
func (op *CacheOperation) Show(includeChecksums bool) (string, error) {
	entries, err := op.manager.List(ListOptions{IncludeChecksums: includeChecksums})
	if err != nil {
		return "", fmt.Errorf("failed to list cache: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Sprintf("No cached files in %s", op.manager.GetDirectory()), nil
	}

	width := 0
	for _, e := range entries {
		width = max(width, len(e.Name))
	}
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%-*s  %s\n", width, e.Name, humanize.Bytes(uint64(e.Size)))
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// Clean empties the cache and describes what was freed.
func (op *CacheOperation) Clean() (string, error) {
	logger.Debug("Cleaning cache", logger.Fields{"directory": op.manager.GetDirectory()})

	result, err := op.manager.Clean()
	if err != nil {
		return "", fmt.Errorf("failed to clean cache: %w", err)
	}
	if result.FilesRemoved == 0 {
		return "No files were removed from the cache.", nil
	}
	return fmt.Sprintf("Successfully cleaned cache. Removed %d files, freed %s of disk space.",
		result.FilesRemoved, humanize.Bytes(uint64(result.TotalFreed))), nil
}

// GetInfo returns a summary of the cache.
func (op *CacheOperation) GetInfo() (string, error) {
	info, err := op.manager.GetInfo()
	if err != nil {
		return "", fmt.Errorf("failed to get cache info: %w", err)
	}
	return fmt.Sprintf(`Cache Information:
  Directory:  %s
  Total Size: %s
  Archives:   %d files
  Checksums:  %d files`,
		info.Directory,
		humanize.Bytes(uint64(info.TotalSize)),
		info.ArchiveFiles,
		info.ChecksumFiles,
	), nil
}
