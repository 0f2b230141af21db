package cache

import "time"

// Cache file suffixes.
const (
	ChecksumSuffix = ".sha256" // checksum side-file stored next to each archive
	LockSuffix     = ".lock"   // per-version install lock, never listed
	TempSuffix     = ".tmp"    // download in progress, never listed
)

// Manager defines the operations on the archive download cache.
type Manager interface {
	List(options ListOptions) ([]Entry, error)
	Clean() (*CleanResult, error)
	GetInfo() (*Info, error)
	GetDirectory() string
}

// ListOptions controls which cache files are listed.
type ListOptions struct {
	IncludeChecksums bool
}

// Entry is one file in the download cache.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// CleanResult contains information about what was cleaned.
type CleanResult struct {
	TotalFreed   int64
	FilesRemoved int
}

// Info summarizes the download cache.
type Info struct {
	Directory     string
	TotalSize     int64
	ArchiveFiles  int
	ChecksumFiles int
}
