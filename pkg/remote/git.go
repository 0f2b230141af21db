package remote

import (
	"regexp"
	"strings"
)

var tagRe = regexp.MustCompile(`refs/tags/go(\S+)`)

// parseTags extracts bare versions from `git ls-remote --tags` output,
// skipping peeled "^{}" entries.
func parseTags(out []byte) []string {
	var versions []string
	for _, m := range tagRe.FindAllStringSubmatch(string(out), -1) {
		if strings.HasSuffix(m[1], "^{}") {
			continue
		}
		versions = append(versions, m[1])
	}
	return versions
}
