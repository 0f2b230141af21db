package errors

import (
	stderrors "errors"
	"fmt"
)

// Error taxonomy shared by every package. Callers match with errors.Is.
var (
	// ErrParse marks a malformed version string or range.
	ErrParse = fmt.Errorf("parse error")
	// ErrNotFound marks a request with no matching upstream release.
	ErrNotFound = fmt.Errorf("not found")
	// ErrIntegrity marks an archive whose digest does not match.
	ErrIntegrity = fmt.Errorf("integrity check failed")
	// ErrExternalTool marks a missing or failing external binary.
	ErrExternalTool = fmt.Errorf("external tool failed")
	// ErrIO marks filesystem failures.
	ErrIO = fmt.Errorf("i/o error")

	ErrUnsupportedArchive = fmt.Errorf("unsupported archive file")
	ErrNotInstalled       = fmt.Errorf("version is not installed")
	ErrDownloadFailed     = fmt.Errorf("download failed")
	ErrNoMatchingVersion  = fmt.Errorf("no matching version found: %w", ErrNotFound)

	// Config errors.
	ErrEmptyConfigPath = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse     = fmt.Errorf("failed to parse config")
	ErrConfigEncode    = fmt.Errorf("failed to encode config")
	ErrValidation      = fmt.Errorf("invalid configuration")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
)

// ErrNoBinaryRelease reports that upstream publishes no archive for the platform.
func ErrNoBinaryRelease(version, goos, goarch string) error {
	return fmt.Errorf("no binary release of %s for %s/%s: %w", version, goos, goarch, ErrNotFound)
}

// ErrBinaryNotFound reports a required executable missing from PATH.
func ErrBinaryNotFound(name string) error {
	return fmt.Errorf("%q binary not found: %w", name, ErrExternalTool)
}

// ErrCorruptArchive reports a checksum mismatch for file.
func ErrCorruptArchive(file, expected string) error {
	return fmt.Errorf("%s corrupt? does not have expected SHA-256 of %s: %w", file, expected, ErrIntegrity)
}

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Join combines errs, dropping nils. It returns nil when all are nil.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
