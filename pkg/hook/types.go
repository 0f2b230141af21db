// Package hook runs user-supplied tengo scripts around toolchain changes.
package hook

// HookType represents the type of hook.
type HookType string

// Supported hook types.
const (
	PostInstall HookType = "post-install"
	PostRemove  HookType = "post-remove"
)

// Hook pairs a lifecycle point with tengo source. Source is already
// resolved; file references are read by LoadFromConfig.
type Hook struct {
	Type   HookType
	Source string
}

// HookContext is exposed to scripts as globals: version, installDir,
// goroot, goos and goarch, plus every entry of Vars.
type HookContext struct {
	Version    string // bare version, e.g. "1.21.5"
	InstallDir string // goup home
	GoRoot     string // toolchain directory
	GOOS       string
	GOARCH     string
	Vars       map[string]interface{}
}

// HookManager runs the scripts registered for a lifecycle point.
type HookManager interface {
	Execute(hookType HookType, ctx HookContext) error
	AddHook(hook Hook) error
	HasHook(hookType HookType) bool
}
