package hook

import "strings"

// DefaultHookManager keeps at most one script per hook type; a later
// AddHook for the same type replaces the earlier one.
type DefaultHookManager struct {
	executor *TengoExecutor
}

func NewHookManager() *DefaultHookManager {
	return &DefaultHookManager{
		executor: NewTengoExecutor(),
	}
}

// Execute runs the script for hookType. Unregistered types are a no-op so
// callers need not check HasHook first.
func (m *DefaultHookManager) Execute(hookType HookType, ctx HookContext) error {
	if !m.HasHook(hookType) {
		return nil
	}
	return m.executor.Execute(hookType, ctx)
}

// AddHook registers hook. A blank Source leaves the type unregistered.
func (m *DefaultHookManager) AddHook(hook Hook) error {
	if hook.Type == "" {
		return ErrHookTypeEmpty
	}
	if strings.TrimSpace(hook.Source) == "" {
		return nil
	}
	m.executor.AddScript(hook.Type, hook.Source)
	return nil
}

func (m *DefaultHookManager) HasHook(hookType HookType) bool {
	return m.executor.HasScript(hookType)
}
