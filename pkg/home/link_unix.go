//go:build !windows

package home

import "os"

func createLink(target, link string) error {
	return os.Symlink(target, link)
}

func readLink(link string) (string, error) {
	return os.Readlink(link)
}
