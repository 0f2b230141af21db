package fsutil

import (
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/glorpus-work/goup/pkg/errors"
)

// Move renames src to dst, creating dst's parent. When the rename crosses
// filesystems, as a download finishing into a cache on another mount does,
// the file is copied and src removed.
func Move(src, dst string) error {
	if src == "" || dst == "" {
		return errors.Wrap(errors.ErrIO, "move: empty path")
	}
	if err := EnsureFileDir(dst); err != nil {
		return errors.Wrapf(errors.ErrIO, "create parent of %s: %v", dst, err)
	}

	err := os.Rename(src, dst)
	switch {
	case err == nil:
		return nil
	case !crossDevice(err):
		return errors.Wrapf(errors.ErrIO, "rename %s to %s: %v", src, dst, err)
	}

	if err := Copy(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return errors.Wrapf(errors.ErrIO, "remove %s after copy: %v", src, err)
	}
	return nil
}

func crossDevice(err error) bool {
	var linkErr *os.LinkError
	return stderrors.As(err, &linkErr) && stderrors.Is(linkErr.Err, syscall.EXDEV)
}

// Copy copies a regular file, keeping its permission bits.
func Copy(srcFile, dstFile string) error {
	src, err := os.Open(srcFile)
	if err != nil {
		return errors.Wrapf(errors.ErrIO, "open %s: %v", srcFile, err)
	}
	defer func() { _ = src.Close() }()

	info, err := src.Stat()
	if err != nil {
		return errors.Wrapf(errors.ErrIO, "stat %s: %v", srcFile, err)
	}

	dst, err := CreateFilePerm(dstFile, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(errors.ErrIO, "create %s: %v", dstFile, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return errors.Wrapf(errors.ErrIO, "copy %s to %s: %v", srcFile, dstFile, err)
	}
	if err := dst.Close(); err != nil {
		return errors.Wrapf(errors.ErrIO, "close %s: %v", dstFile, err)
	}
	return nil
}

// CreateFilePerm creates or truncates name with the given permissions.
func CreateFilePerm(name string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, perm)
}

// Touch creates an empty file at path along with its parents. Install
// sentinels are written this way.
func Touch(path string) error {
	if err := EnsureFileDir(path); err != nil {
		return err
	}
	f, err := CreateFilePerm(path, FileModeDefault)
	if err != nil {
		return err
	}
	return f.Close()
}

// DirSize sums the sizes of the regular files below dir.
func DirSize(dir string) (int64, error) {
	var size int64
	err := filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	return size, err
}
