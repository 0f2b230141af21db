// Package vcs runs the git binary.
package vcs

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/glorpus-work/goup/pkg/errors"
)

// Git invokes a git executable found on PATH.
type Git struct {
	Binary string
}

// NewGit returns a Git using the "git" executable.
func NewGit() *Git {
	return &Git{Binary: "git"}
}

// Available reports whether the binary can be found.
func (g *Git) Available() bool {
	_, err := exec.LookPath(g.Binary)
	return err == nil
}

func (g *Git) lookPath() (string, error) {
	path, err := exec.LookPath(g.Binary)
	if err != nil {
		return "", errors.ErrBinaryNotFound(g.Binary)
	}
	return path, nil
}

// Output runs git with args in dir and returns its stdout.
func (g *Git) Output(ctx context.Context, dir string, args ...string) ([]byte, error) {
	path, err := g.lookPath()
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %v: %v: %s: %w", args, err, bytes.TrimSpace(stderr.Bytes()), errors.ErrExternalTool)
	}
	return out, nil
}

// Run runs git with args in dir, discarding output.
func (g *Git) Run(ctx context.Context, dir string, args ...string) error {
	_, err := g.Output(ctx, dir, args...)
	return err
}

// LsRemoteTags lists the tags of the remote url sorted by version.
func (g *Git) LsRemoteTags(ctx context.Context, url string) ([]byte, error) {
	return g.Output(ctx, "", "ls-remote", "--sort=version:refname", "--tags", url)
}

// StreamCommand runs name with args in dir, calling onLine for every line
// the process writes to stdout. A non-zero exit is an ErrExternalTool.
func StreamCommand(ctx context.Context, dir string, onLine func(string), name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to open stdout pipe")
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %v: %w", name, err, errors.ErrExternalTool)
	}
	scanLines(stdout, onLine)
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s failed: %v: %s: %w", name, err, bytes.TrimSpace(stderr.Bytes()), errors.ErrExternalTool)
	}
	return nil
}

// maxLineSize caps one line of build output. Longer lines end scanning and
// the rest of the stream is discarded so the child never blocks on a full pipe.
const maxLineSize = 1 << 20

func scanLines(r io.Reader, onLine func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if onLine != nil {
			onLine(scanner.Text())
		}
	}
	if scanner.Err() != nil {
		_, _ = io.Copy(io.Discard, r)
	}
}
