// Package toolchain parses version requests and converts upstream Go version
// strings into semantic versions.
package toolchain

// Kind classifies a version request.
type Kind int

// Request kinds.
const (
	Stable Kind = iota
	Unstable
	Beta
	Nightly
	Explicit
)

// String returns the channel name of k.
func (k Kind) String() string {
	switch k {
	case Stable:
		return "stable"
	case Unstable:
		return "unstable"
	case Beta:
		return "beta"
	case Nightly:
		return "nightly"
	default:
		return "explicit"
	}
}

// Request is a parsed user request for a toolchain. Value is only set for
// Explicit requests and holds the range or raw version as typed.
type Request struct {
	Kind  Kind
	Value string
}

// ParseRequest maps a channel name to its Kind. Anything else is an
// Explicit request carrying s unchanged.
func ParseRequest(s string) Request {
	switch s {
	case "stable":
		return Request{Kind: Stable}
	case "unstable":
		return Request{Kind: Unstable}
	case "beta":
		return Request{Kind: Beta}
	case "nightly", "tip", NightlyTag:
		return Request{Kind: Nightly}
	default:
		return Request{Kind: Explicit, Value: s}
	}
}

// String renders r the way a user would type it.
func (r Request) String() string {
	if r.Kind == Explicit {
		return r.Value
	}
	return r.Kind.String()
}
