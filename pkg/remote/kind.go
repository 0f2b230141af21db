// Package remote lists upstream Go releases from the official API, git tags,
// or HTML directory listings, and resolves requests against them.
package remote

import (
	"fmt"
	"strings"

	"github.com/glorpus-work/goup/pkg/errors"
)

// Kind selects the backend of a RegistryIndex.
type Kind int

// Registry index backends.
const (
	Official Kind = iota
	OfficialGit
	AutoIndex
	FancyIndex
)

var kindNames = map[Kind]string{
	Official:    "official",
	OfficialGit: "git",
	AutoIndex:   "autoindex",
	FancyIndex:  "fancyindex",
}

// String returns the configuration name of k.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a configuration name to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, errors.Wrapf(errors.ErrValidation, "unknown registry index type %q", s)
}

// Spec is the "kind|host" form used in configuration and flags.
type Spec struct {
	Kind Kind
	Host string
}

// ParseSpec parses "kind|host". A bare host selects the official backend.
func ParseSpec(s string) (Spec, error) {
	kind, host, found := strings.Cut(s, "|")
	if !found {
		kind, host = kindNames[Official], s
	}
	k, err := ParseKind(kind)
	if err != nil {
		return Spec{}, err
	}
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return Spec{}, errors.Wrapf(errors.ErrValidation, "registry index %q has no host", s)
	}
	return Spec{Kind: k, Host: host}, nil
}

// String renders s back to "kind|host".
func (s Spec) String() string {
	return s.Kind.String() + "|" + s.Host
}
