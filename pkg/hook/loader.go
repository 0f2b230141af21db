package hook

import (
	"path/filepath"

	"github.com/glorpus-work/goup/pkg/config"
	"github.com/glorpus-work/goup/pkg/errors"
)

// LoadFromConfig builds a hook manager from the hooks section of cfg.
// Script paths are resolved relative to the directory of configPath.
func LoadFromConfig(cfg *config.Config, configPath string) (*DefaultHookManager, error) {
	m := NewHookManager()
	dir := filepath.Dir(configPath)
	for hookType, value := range map[HookType]string{
		PostInstall: cfg.Hooks.PostInstall,
		PostRemove:  cfg.Hooks.PostRemove,
	} {
		if value == "" {
			continue
		}
		src, err := config.HookScript(value, dir)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s hook", hookType)
		}
		if err := m.AddHook(Hook{Type: hookType, Source: src}); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// HookTemplate generates a template for a hook script.
func HookTemplate(hookType HookType) string {
	switch hookType {
	case PostInstall:
		return `// Post-install hook
// Runs after a toolchain is unpacked or built.
// Available variables:
// - version: string - bare version, e.g. "1.21.5"
// - goroot: string - directory of the installed toolchain
// - installDir: string - goup home
// - goos, goarch: string - target platform
// Set err to a non-empty string to fail the install.

// Example: refuse toolchains older than 1.20
/*
text := import("text")
if text.has_prefix(version, "1.1") && len(version) < 5 {
    err = "toolchains before 1.20 are not allowed here"
}
*/`

	case PostRemove:
		return `// Post-remove hook
// Runs after a toolchain directory is deleted.
// Available variables: same as post-install hook

// Example: log removals
/*
fmt := import("fmt")
fmt.println("removed go" + version + " from " + goroot)
*/`

	default:
		return "// Unknown hook type: " + string(hookType)
	}
}
