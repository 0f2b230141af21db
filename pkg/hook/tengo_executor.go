package hook

import (
	"context"
	"sync"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/glorpus-work/goup/pkg/errors"
)

// DefaultScriptTimeout bounds a single hook run.
const DefaultScriptTimeout = 30 * time.Second

// scriptModules are the tengo stdlib modules a hook may import.
var scriptModules = []string{"fmt", "os", "strings", "text", "times"}

// TengoExecutor compiles and runs one tengo script per hook type.
type TengoExecutor struct {
	mu      sync.RWMutex
	scripts map[HookType][]byte
	timeout time.Duration
}

func NewTengoExecutor() *TengoExecutor {
	return &TengoExecutor{
		scripts: make(map[HookType][]byte),
		timeout: DefaultScriptTimeout,
	}
}

// SetTimeout changes the per-run limit; d <= 0 disables it.
func (e *TengoExecutor) SetTimeout(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timeout = d
}

// Execute runs the script registered for hookType. A script fails the hook
// by raising a runtime error or by setting the global err.
func (e *TengoExecutor) Execute(hookType HookType, hc HookContext) error {
	e.mu.RLock()
	src, ok := e.scripts[hookType]
	timeout := e.timeout
	e.mu.RUnlock()
	if !ok {
		return nil
	}

	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(scriptModules...))
	for name, value := range globals(hc) {
		if err := s.Add(name, value); err != nil {
			return errors.Wrapf(errors.ErrHookExecution, "%s: variable %s: %v", hookType, name, err)
		}
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	compiled, err := s.RunContext(ctx)
	if err != nil {
		return errors.Wrapf(errors.ErrHookExecution, "%s: %v", hookType, err)
	}
	return scriptError(hookType, compiled.Get("err"))
}

func globals(hc HookContext) map[string]interface{} {
	vars := map[string]interface{}{
		"version":    hc.Version,
		"installDir": hc.InstallDir,
		"goroot":     hc.GoRoot,
		"goos":       hc.GOOS,
		"goarch":     hc.GOARCH,
		"err":        "",
	}
	for k, v := range hc.Vars {
		vars[k] = v
	}
	return vars
}

func scriptError(hookType HookType, v *tengo.Variable) error {
	if v == nil {
		return nil
	}
	switch val := v.Value().(type) {
	case error:
		return errors.Wrapf(errors.ErrHookScript, "%s: %v", hookType, val)
	case string:
		if val != "" {
			return errors.Wrapf(errors.ErrHookScript, "%s: %s", hookType, val)
		}
	}
	return nil
}

// AddScript registers src for hookType, replacing any earlier script.
func (e *TengoExecutor) AddScript(hookType HookType, src string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scripts[hookType] = []byte(src)
}

func (e *TengoExecutor) HasScript(hookType HookType) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.scripts[hookType]
	return ok
}
