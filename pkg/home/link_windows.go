//go:build windows

package home

import (
	"fmt"
	"os"
	"os/exec"
)

// createLink creates a directory junction, which needs no elevated rights.
func createLink(target, link string) error {
	out, err := exec.Command("cmd", "/c", "mklink", "/J", link, target).CombinedOutput()
	if err != nil {
		return fmt.Errorf("mklink /J %s %s: %v: %s", link, target, err, out)
	}
	return nil
}

func readLink(link string) (string, error) {
	return os.Readlink(link)
}
