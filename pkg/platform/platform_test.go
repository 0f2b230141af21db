package platform

import (
	"runtime"
	"testing"
)

func TestCurrentPlatform(t *testing.T) {
	platform := CurrentPlatform()

	if platform.OS == "" {
		t.Error("Expected OS to be non-empty")
	}
	if platform.Arch == "" {
		t.Error("Expected Arch to be non-empty")
	}

	expectedOS := NormalizeOS(runtime.GOOS)
	if platform.OS != expectedOS {
		t.Errorf("Expected OS %q, got %q", expectedOS, platform.OS)
	}

	expectedArch := NormalizeArch(runtime.GOOS, runtime.GOARCH)
	if platform.Arch != expectedArch {
		t.Errorf("Expected Arch %q, got %q", expectedArch, platform.Arch)
	}
}

func TestNormalizeOS(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"macos", "darwin"},
		{"darwin", "darwin"},
		{"Win", "windows"},
		{"windows", "windows"},
		{"linux", "linux"},
		{"FreeBSD", "freebsd"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeOS(tt.input); got != tt.expected {
				t.Errorf("NormalizeOS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeArch(t *testing.T) {
	tests := []struct {
		os       string
		arch     string
		expected string
	}{
		{"linux", "x86_64", "amd64"},
		{"linux", "x86", "386"},
		{"windows", "i686", "386"},
		{"darwin", "aarch64", "arm64"},
		{"linux", "arm", "armv6l"},
		{"freebsd", "arm", "arm"},
		{"linux", "powerpc64le", "ppc64le"},
		{"linux", "riscv64", "riscv64"},
	}

	for _, tt := range tests {
		t.Run(tt.os+"/"+tt.arch, func(t *testing.T) {
			if got := NormalizeArch(tt.os, tt.arch); got != tt.expected {
				t.Errorf("NormalizeArch(%q, %q) = %q, want %q", tt.os, tt.arch, got, tt.expected)
			}
		})
	}
}

func TestArchiveName(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		version  string
		expected string
	}{
		{"linux amd64", New("linux", "x86_64"), "1.21.5", "1.21.5.linux-amd64.tar.gz"},
		{"windows amd64", New("windows", "x86_64"), "1.21.5", "1.21.5.windows-amd64.zip"},
		{"macos arm64", New("macos", "aarch64"), "go1.22.0", "go1.22.0.darwin-arm64.tar.gz"},
		{"linux arm", New("linux", "arm"), "go1.22.0", "go1.22.0.linux-armv6l.tar.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.platform.ArchiveName(tt.version); got != tt.expected {
				t.Errorf("ArchiveName(%q) = %q, want %q", tt.version, got, tt.expected)
			}
		})
	}
}

func TestPlatformString(t *testing.T) {
	p := New("macos", "x86_64")
	if p.String() != "darwin/amd64" {
		t.Errorf("Expected darwin/amd64, got %q", p.String())
	}
	if p.IsWindows() {
		t.Error("darwin must not report windows")
	}
}
