package orchestrator

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/home"
	"github.com/glorpus-work/goup/pkg/hook"
	"github.com/glorpus-work/goup/pkg/installer"
	ocmocks "github.com/glorpus-work/goup/pkg/orchestrator/mocks"
	"github.com/glorpus-work/goup/pkg/platform"
	"github.com/glorpus-work/goup/pkg/toolchain"
)

func phases(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Phase)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	res := ocmocks.NewMockVersionResolver(ctrl)
	res.EXPECT().Latest(gomock.Any()).Return("1.22.3", nil)
	res.EXPECT().LatestOf(gomock.Any(), toolchain.ParseFilter("unstable")).Return("1.23rc1", nil)
	res.EXPECT().LatestOf(gomock.Any(), toolchain.ParseFilter("beta")).Return("1.23beta1", nil)
	res.EXPECT().MatchRange(gomock.Any(), "~1.21").Return("1.21.9", nil)
	res.EXPECT().MatchRange(gomock.Any(), "1.20.1").Return("1.20.1", nil)

	orch := &Orchestrator{Resolver: res}
	ctx := context.Background()
	tests := []struct {
		in     string
		useRaw bool
		want   string
	}{
		{"stable", false, "go1.22.3"},
		{"unstable", false, "go1.23rc1"},
		{"beta", false, "go1.23beta1"},
		{"nightly", false, "gotip"},
		{"~1.21", false, "go1.21.9"},
		{"go1.20.1", false, "go1.20.1"},
		{"1.21rc2", true, "go1.21rc2"},
	}
	for _, tt := range tests {
		got, err := orch.Resolve(ctx, toolchain.ParseRequest(tt.in), tt.useRaw)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolve_NoMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	res := ocmocks.NewMockVersionResolver(ctrl)
	res.EXPECT().MatchRange(gomock.Any(), "9.9.9").Return("", errors.ErrNoMatchingVersion)

	orch := &Orchestrator{Resolver: res}
	_, err := orch.Resolve(context.Background(), toolchain.ParseRequest("9.9.9"), false)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInstall_ActivatesByDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	res := ocmocks.NewMockVersionResolver(ctrl)
	res.EXPECT().Latest(gomock.Any()).Return("1.22.3", nil)
	inst := ocmocks.NewMockToolchainInstaller(ctrl)
	opts := installer.Options{Registry: "https://dl.google.com/go"}
	inst.EXPECT().Install(gomock.Any(), "go1.22.3", opts).
		Return(installer.Result{Tag: "go1.22.3", Dir: "/h/go1.22.3"}, nil)
	tc := ocmocks.NewMockToolchains(ctrl)
	tc.EXPECT().SetDefault("go1.22.3").Return(nil)

	var events []Event
	orch := New(res, inst, tc, nil, Hooks{OnEvent: func(e Event) { events = append(events, e) }})

	got, err := orch.Install(context.Background(), toolchain.ParseRequest("stable"), InstallOptions{Options: opts})
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if got.Dir != "/h/go1.22.3" {
		t.Fatalf("unexpected result: %+v", got)
	}
	want := []string{"resolving", "installing", "activating", "done"}
	if !equal(phases(events), want) {
		t.Fatalf("phases = %v, want %v", phases(events), want)
	}
}

func TestInstall_DryRunSkipsActivation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	res := ocmocks.NewMockVersionResolver(ctrl)
	inst := ocmocks.NewMockToolchainInstaller(ctrl)
	inst.EXPECT().Install(gomock.Any(), "go1.21rc2", gomock.Any()).Return(installer.Result{Tag: "go1.21rc2"}, nil)
	tc := ocmocks.NewMockToolchains(ctrl) // SetDefault must not be called

	var events []Event
	orch := New(res, inst, tc, nil, Hooks{OnEvent: func(e Event) { events = append(events, e) }})
	_, err := orch.Install(context.Background(), toolchain.ParseRequest("1.21rc2"),
		InstallOptions{DryRun: true, UseRawVersion: true})
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	last := events[len(events)-1]
	if last.Phase != "done" || last.Msg != "dry-run" {
		t.Fatalf("unexpected final event: %+v", last)
	}
}

func TestInstall_InstallErrorStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	res := ocmocks.NewMockVersionResolver(ctrl)
	res.EXPECT().MatchRange(gomock.Any(), "1.0.0").Return("1.0.0", nil)
	inst := ocmocks.NewMockToolchainInstaller(ctrl)
	inst.EXPECT().Install(gomock.Any(), "go1.0.0", gomock.Any()).
		Return(installer.Result{}, errors.ErrNoBinaryRelease("go1.0.0", "linux", "amd64"))
	tc := ocmocks.NewMockToolchains(ctrl)

	var events []Event
	orch := New(res, inst, tc, nil, Hooks{OnEvent: func(e Event) { events = append(events, e) }})
	_, err := orch.Install(context.Background(), toolchain.ParseRequest("1.0.0"), InstallOptions{})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if events[len(events)-1].Phase != "error" {
		t.Fatalf("expected error event, got %v", phases(events))
	}
}

func TestInstall_NotConfigured(t *testing.T) {
	orch := &Orchestrator{}
	if _, err := orch.Install(context.Background(), toolchain.Request{}, InstallOptions{}); !errors.Is(err, errors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRemove_RunsHookForRemovedOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tc := ocmocks.NewMockToolchains(ctrl)
	tc.EXPECT().Remove([]string{"1.21.5", "1.22.3"}, "go1.20.1").Return([]home.RemoveResult{
		{Tag: "go1.21.5", Removed: true},
		{Tag: "go1.22.3", Skipped: "default version"},
	}, nil)
	tc.EXPECT().VersionDir("go1.21.5").Return("/h/go1.21.5")

	hooks := hook.NewHookManager()
	if err := hooks.AddHook(hook.Hook{
		Type:   hook.PostRemove,
		Source: `if version != "1.21.5" || goroot != "/h/go1.21.5" || installDir != "/h" { err = "bad context" }`,
	}); err != nil {
		t.Fatalf("AddHook failed: %v", err)
	}

	orch := &Orchestrator{Toolchains: tc, HookRunner: hooks, Platform: platform.New("linux", "amd64")}
	if err := orch.Remove(context.Background(), []string{"1.21.5", "1.22.3"}, RemoveOptions{Session: "go1.20.1"}); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
}

func TestRemove_JoinsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tc := ocmocks.NewMockToolchains(ctrl)
	tc.EXPECT().Remove(gomock.Any(), "").Return([]home.RemoveResult{{Tag: "go1.21.5"}}, errors.ErrIO)

	orch := &Orchestrator{Toolchains: tc}
	if err := orch.Remove(context.Background(), []string{"1.21.5"}, RemoveOptions{}); !errors.Is(err, errors.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestRemove_DryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tc := ocmocks.NewMockToolchains(ctrl)
	var events []Event
	orch := &Orchestrator{Toolchains: tc, Hooks: Hooks{OnEvent: func(e Event) { events = append(events, e) }}}
	if err := orch.Remove(context.Background(), []string{"1.21.5"}, RemoveOptions{DryRun: true}); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if events[0].ID != "go1.21.5" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestRemove_NotInstalledRunsNoHook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tc := ocmocks.NewMockToolchains(ctrl)
	tc.EXPECT().Remove([]string{"1.99.0"}, "").Return([]home.RemoveResult{
		{Tag: "go1.99.0", Skipped: "not installed"},
	}, nil)

	hooks := hook.NewHookManager()
	if err := hooks.AddHook(hook.Hook{Type: hook.PostRemove, Source: `err = "hook ran for " + version`}); err != nil {
		t.Fatalf("AddHook failed: %v", err)
	}

	var phases []string
	orch := &Orchestrator{Toolchains: tc, HookRunner: hooks, Hooks: Hooks{OnEvent: func(e Event) { phases = append(phases, e.Phase) }}}
	if err := orch.Remove(context.Background(), []string{"1.99.0"}, RemoveOptions{}); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	for _, p := range phases {
		if p == "removing" {
			t.Fatalf("unexpected removing event: %v", phases)
		}
	}
}

func TestRemove_DryRunRejectsEscapingVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var events []Event
	orch := &Orchestrator{Toolchains: ocmocks.NewMockToolchains(ctrl), Hooks: Hooks{OnEvent: func(e Event) { events = append(events, e) }}}
	err := orch.Remove(context.Background(), []string{"../..", "1.21.5"}, RemoveOptions{DryRun: true})
	if !errors.Is(err, errors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if events[0].ID != "go1.21.5" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}
