// Package platform maps host OS and CPU names to the names used in
// upstream toolchain archive filenames.
package platform

// Operating systems with published release archives.
const (
	OSWindows = "windows"
	OSLinux   = "linux"
	OSDarwin  = "darwin"
	OSPlan9   = "plan9"
)

// CPU architectures as they appear in archive names. 32-bit ARM on Linux
// ships as armv6l; other systems use plain arm.
const (
	ArchAMD64  = "amd64"
	Arch386    = "386"
	ArchARM    = "arm"
	ArchARMv6l = "armv6l"
	ArchARM64  = "arm64"
)

// Archive extensions: zip on Windows, tar.gz everywhere else.
const (
	ExtZip   = "zip"
	ExtTarGz = "tar.gz"
)
