// Package archive unpacks Go release archives (.tar.gz and .zip).
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/fsutil"
	"github.com/glorpus-work/goup/pkg/platform"
)

// Format identifies a supported archive layout.
type Format int

// Supported formats.
const (
	FormatUnknown Format = iota
	FormatTarGz
	FormatZip
)

// DetectFormat picks the format from the file extension.
func DetectFormat(name string) Format {
	switch {
	case strings.HasSuffix(name, "."+platform.ExtTarGz):
		return FormatTarGz
	case strings.HasSuffix(name, "."+platform.ExtZip):
		return FormatZip
	default:
		return FormatUnknown
	}
}

// Manager handles archive extraction and creation.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// ReleaseRoot is the top-level directory of every Go release archive.
const ReleaseRoot = "go"

type extractConfig struct {
	strip string
}

// ExtractOption configures ExtractAll.
type ExtractOption func(*extractConfig)

// StripPrefix drops the leading directory dir from every entry, so that
// "go/bin/go" lands at destDir/bin/go. Entries outside dir are kept as-is.
func StripPrefix(dir string) ExtractOption {
	return func(c *extractConfig) {
		c.strip = strings.Trim(dir, "/")
	}
}

// ExtractAll unpacks archivePath into destDir, creating intermediate
// directories. Only .tar.gz and .zip archives are accepted.
func (am *Manager) ExtractAll(ctx context.Context, archivePath, destDir string, opts ...ExtractOption) error {
	var cfg extractConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if DetectFormat(archivePath) == FormatUnknown {
		return fmt.Errorf("%s: %w", archivePath, errors.ErrUnsupportedArchive)
	}

	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return fmt.Errorf("failed to open archive file %s: %v: %w", archivePath, err, errors.ErrIO)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if err := fsutil.EnsureDir(destDir); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	root, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %v: %w", destDir, err, errors.ErrIO)
	}

	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return am.extractEntry(fsys, path, cfg.relative(path), root, d)
	})
}

// Create packs sourceDir into archivePath, choosing the format from the
// extension.
func (am *Manager) Create(ctx context.Context, sourceDir, archivePath string) error {
	absolutePath, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for source directory: %w", err)
	}

	var format archives.Archiver
	switch DetectFormat(archivePath) {
	case FormatTarGz:
		format = archives.CompressedArchive{Compression: archives.Gz{}, Archival: archives.Tar{}}
	case FormatZip:
		format = archives.Zip{}
	default:
		return fmt.Errorf("%s: %w", archivePath, errors.ErrUnsupportedArchive)
	}

	archiveFiles, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		absolutePath + string(os.PathSeparator): "",
	})
	if err != nil {
		return fmt.Errorf("failed to read files from disk: %w", err)
	}

	file, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", archivePath, err)
	}
	defer func() {
		_ = file.Sync()
		_ = file.Close()
	}()

	if err := format.Archive(ctx, file, archiveFiles); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	return nil
}

func (c extractConfig) relative(path string) string {
	if c.strip == "" {
		return path
	}
	if path == c.strip {
		return "."
	}
	if rest, ok := strings.CutPrefix(path, c.strip+"/"); ok {
		return rest
	}
	return path
}

func (am *Manager) extractEntry(fsys fs.FS, path, rel, root string, d fs.DirEntry) error {
	if rel == "." {
		return nil
	}

	targetPath := filepath.Join(root, filepath.FromSlash(rel))
	if targetPath != root && !strings.HasPrefix(targetPath, root+string(os.PathSeparator)) {
		return fmt.Errorf("archive entry %q escapes %s: %w", path, root, errors.ErrIO)
	}

	if d.IsDir() {
		return fsutil.EnsureDir(targetPath)
	}

	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info for %s: %w", path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return am.writeSymlink(fsys, path, targetPath, info)
	}
	return am.writeRegularFile(fsys, path, targetPath, info)
}

func (am *Manager) writeSymlink(fsys fs.FS, path, targetPath string, info fs.FileInfo) error {
	target := ""
	if fi, ok := info.(archives.FileInfo); ok {
		target = fi.LinkTarget
	}
	if target == "" {
		link, err := fsys.Open(path)
		if err != nil {
			return fmt.Errorf("failed to read symlink %s: %w", path, err)
		}
		defer func() { _ = link.Close() }()
		b, err := io.ReadAll(link)
		if err != nil {
			return fmt.Errorf("failed to read symlink target %s: %w", path, err)
		}
		target = string(b)
	}

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for symlink %s: %w", path, err)
	}
	_ = os.Remove(targetPath)
	return os.Symlink(target, targetPath)
}

func (am *Manager) writeRegularFile(fsys fs.FS, path, targetPath string, info fs.FileInfo) error {
	srcFile, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", path, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", path, err)
	}

	dstFile, err := fsutil.CreateFilePerm(targetPath, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file %s: %w", path, err)
	}
	if err := os.Chmod(targetPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set permissions for %s: %w", targetPath, err)
	}
	if err := os.Chtimes(targetPath, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set modification time for %s: %w", targetPath, err)
	}
	return nil
}
