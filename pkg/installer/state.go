package installer

// State is a step of the install state machine.
type State int

// Install states. A failure in any state leaves the version without its
// success sentinel, so the next attempt starts over.
const (
	NotInstalled State = iota
	Downloading
	Verifying
	Unpacking
	Building
	Installed
)

func (s State) String() string {
	switch s {
	case NotInstalled:
		return "not-installed"
	case Downloading:
		return "downloading"
	case Verifying:
		return "verifying"
	case Unpacking:
		return "unpacking"
	case Building:
		return "building"
	case Installed:
		return "installed"
	default:
		return "unknown"
	}
}

// Result describes a finished install.
type Result struct {
	Tag              string // e.g. "go1.21.5"
	Dir              string // toolchain root
	AlreadyInstalled bool
}
