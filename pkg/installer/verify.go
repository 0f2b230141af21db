package installer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/glorpus-work/goup/internal/logger"
	"github.com/glorpus-work/goup/pkg/download"
	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/fsutil"
)

const checksumExt = ".sha256"

// verify checks the archive against its checksum side-file. The side-file
// is (re)fetched when it is missing or does not match, so a stale one left
// by an earlier download cannot fail a good archive.
func (i *Installer) verify(ctx context.Context, tag, archivePath string, opts Options) error {
	sumPath := archivePath + checksumExt
	if fsutil.Exists(sumPath) && VerifyFile(archivePath, sumPath) == nil {
		return nil
	}

	name := i.platform.ArchiveName(tag) + checksumExt
	sumURL, err := releaseURL(opts.Registry, name)
	if err != nil {
		return err
	}
	logger.Debug("Downloading checksum", logger.Fields{"url": sumURL.String()})
	if _, err := i.downloads.Fetch(ctx, download.Item{URL: sumURL, Filename: name}, download.Options{Dir: i.home.CacheDir()}); err != nil {
		logger.Warnf("Downloading the checksum file failed, %s may not publish one; retry with --skip-verify", tag)
		return err
	}

	if err := VerifyFile(archivePath, sumPath); err != nil {
		if errors.Is(err, errors.ErrIntegrity) {
			_ = os.Remove(archivePath)
		}
		return err
	}
	return nil
}

// VerifyFile compares the SHA-256 of path with the digest in sumPath.
func VerifyFile(path, sumPath string) error {
	data, err := os.ReadFile(sumPath)
	if err != nil {
		return errors.Wrapf(errors.ErrIO, "read %s: %v", sumPath, err)
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return errors.ErrCorruptArchive(path, "(empty checksum file)")
	}
	expected := fields[0]

	got, err := FileSHA256(path)
	if err != nil {
		return err
	}
	if got != expected {
		return errors.ErrCorruptArchive(path, expected)
	}
	return nil
}

// FileSHA256 returns the lowercase hex SHA-256 of the file at path.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrIO, "open for checksum: %v", err)
	}
	defer func() { _ = f.Close() }()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrapf(errors.ErrIO, "hashing %s: %v", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
