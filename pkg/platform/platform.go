package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform is an OS/architecture pair in archive naming form.
type Platform struct {
	OS   string `yaml:"os" json:"os"`
	Arch string `yaml:"arch" json:"arch"`
}

// New normalizes os and arch into a Platform.
func New(os, arch string) Platform {
	goos := NormalizeOS(os)
	return Platform{
		OS:   goos,
		Arch: NormalizeArch(goos, arch),
	}
}

// CurrentPlatform returns the platform of the running binary.
func CurrentPlatform() Platform {
	return New(runtime.GOOS, runtime.GOARCH)
}

// String returns "os/arch".
func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}

// IsWindows reports whether p targets Windows.
func (p Platform) IsWindows() bool {
	return p.OS == OSWindows
}

// ArchiveExt returns the extension of release archives for p.
func (p Platform) ArchiveExt() string {
	if p.IsWindows() {
		return ExtZip
	}
	return ExtTarGz
}

// ArchiveName returns the release archive filename for version on p,
// e.g. "go1.21.5.linux-amd64.tar.gz".
func (p Platform) ArchiveName(version string) string {
	return fmt.Sprintf("%s.%s-%s.%s", version, p.OS, p.Arch, p.ArchiveExt())
}

// NormalizeOS maps OS spellings to the names upstream uses.
func NormalizeOS(os string) string {
	os = strings.ToLower(os)
	switch os {
	case "macos", "osx", "darwin":
		return OSDarwin
	case "win", "windows":
		return OSWindows
	default:
		return os
	}
}

// NormalizeArch maps CPU spellings to the names upstream uses. 32-bit ARM
// Linux releases are published as armv6l.
func NormalizeArch(os, arch string) string {
	arch = strings.ToLower(arch)
	switch arch {
	case "x86_64", "x64", "amd64":
		return ArchAMD64
	case "x86", "i386", "i686", "386":
		return Arch386
	case "aarch64", "arm64":
		return ArchARM64
	case "arm", "armv6", "armv7", "armv6l", "armv7l":
		if NormalizeOS(os) == OSLinux {
			return ArchARMv6l
		}
		return ArchARM
	case "loongarch64":
		return "loong64"
	case "powerpc64":
		return "ppc64"
	case "powerpc64le":
		return "ppc64le"
	default:
		return arch
	}
}
