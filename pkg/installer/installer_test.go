package installer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/goup/pkg/archive"
	"github.com/glorpus-work/goup/pkg/download"
	mock_download "github.com/glorpus-work/goup/pkg/download/mocks"
	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/home"
	"github.com/glorpus-work/goup/pkg/hook"
	"github.com/glorpus-work/goup/pkg/platform"
)

const (
	testRegistry = "https://dl.example.com/go"
	archiveBody  = "not really a tarball"
)

var linuxAMD64 = platform.New("linux", "amd64")

type fakeUnpacker struct {
	calls []string
	err   error
}

func (f *fakeUnpacker) ExtractAll(_ context.Context, archivePath, destDir string, _ ...archive.ExtractOption) error {
	f.calls = append(f.calls, archivePath+"->"+destDir)
	if f.err != nil {
		return f.err
	}
	return os.MkdirAll(filepath.Join(destDir, "bin"), 0o755)
}

type fakeGit struct {
	available bool
	commands  []string
	failOn    string
}

func (g *fakeGit) Available() bool { return g.available }

func (g *fakeGit) Run(_ context.Context, _ string, args ...string) error {
	cmd := strings.Join(args, " ")
	g.commands = append(g.commands, cmd)
	if g.failOn != "" && strings.HasPrefix(cmd, g.failOn) {
		return errors.ErrExternalTool
	}
	return nil
}

type recordingHooks struct {
	executed []hook.HookContext
}

func (r *recordingHooks) Execute(_ hook.HookType, ctx hook.HookContext) error {
	r.executed = append(r.executed, ctx)
	return nil
}
func (r *recordingHooks) AddHook(hook.Hook) error    { return nil }
func (r *recordingHooks) HasHook(hook.HookType) bool { return true }

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// serve returns a Fetch implementation writing body for every URL ending in
// the matching suffix.
func serve(bodies map[string]string) func(context.Context, download.Item, download.Options) (string, error) {
	return func(_ context.Context, item download.Item, opts download.Options) (string, error) {
		for suffix, body := range bodies {
			if strings.HasSuffix(item.URL.Path, suffix) {
				path := filepath.Join(opts.Dir, item.Filename)
				if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
					return "", err
				}
				return path, os.WriteFile(path, []byte(body), 0o644)
			}
		}
		return "", errors.ErrNotFound
	}
}

func newTestInstaller(t *testing.T, dl download.Manager, opts ...Option) (*Installer, *home.Home, *fakeUnpacker) {
	t.Helper()
	h := home.New(t.TempDir())
	u := &fakeUnpacker{}
	opts = append([]Option{WithPlatform(linuxAMD64), WithUnpacker(u)}, opts...)
	return New(h, dl, opts...), h, u
}

func TestInstall_DownloadsVerifiesAndUnpacks(t *testing.T) {
	ctrl := gomock.NewController(t)
	dl := mock_download.NewMockManager(ctrl)
	dl.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(serve(map[string]string{
			".tar.gz":        archiveBody,
			".tar.gz.sha256": digest(archiveBody) + "  go1.21.5.linux-amd64.tar.gz\n",
		})).Times(2)

	var states []State
	hooks := &recordingHooks{}
	inst, h, u := newTestInstaller(t, dl,
		WithHooks(hooks),
		WithStateListener(func(_ string, s State) { states = append(states, s) }))

	res, err := inst.Install(context.Background(), "1.21.5", Options{Registry: testRegistry})
	require.NoError(t, err)

	assert.Equal(t, "go1.21.5", res.Tag)
	assert.Equal(t, h.VersionDir("go1.21.5"), res.Dir)
	assert.False(t, res.AlreadyInstalled)
	assert.True(t, h.IsInstalled("go1.21.5"))
	require.Len(t, u.calls, 1)
	assert.Equal(t, h.CacheFile("go1.21.5.linux-amd64.tar.gz")+"->"+res.Dir, u.calls[0])
	assert.Equal(t, []State{NotInstalled, Downloading, Verifying, Unpacking, Installed}, states)

	require.Len(t, hooks.executed, 1)
	assert.Equal(t, "1.21.5", hooks.executed[0].Version)
	assert.Equal(t, res.Dir, hooks.executed[0].GoRoot)
}

func TestInstall_AlreadyInstalledIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	dl := mock_download.NewMockManager(ctrl)
	inst, h, u := newTestInstaller(t, dl)

	require.NoError(t, os.MkdirAll(h.VersionDir("go1.21.5"), 0o755))
	require.NoError(t, h.MarkInstalled("go1.21.5"))

	res, err := inst.Install(context.Background(), "go1.21.5", Options{Registry: testRegistry})
	require.NoError(t, err)
	assert.True(t, res.AlreadyInstalled)
	assert.Empty(t, u.calls)
}

func TestInstall_ChecksumMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	dl := mock_download.NewMockManager(ctrl)
	dl.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(serve(map[string]string{
			".tar.gz":        archiveBody,
			".tar.gz.sha256": digest("something else"),
		})).Times(2)
	inst, h, u := newTestInstaller(t, dl)

	_, err := inst.Install(context.Background(), "1.21.5", Options{Registry: testRegistry})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrIntegrity)
	assert.False(t, h.IsInstalled("go1.21.5"))
	assert.Empty(t, u.calls)
	assert.NoFileExists(t, h.CacheFile("go1.21.5.linux-amd64.tar.gz"))
}

func TestInstall_NoBinaryRelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	dl := mock_download.NewMockManager(ctrl)
	dl.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.ErrNotFound)
	inst, _, _ := newTestInstaller(t, dl)

	_, err := inst.Install(context.Background(), "1.0.0", Options{Registry: testRegistry})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Contains(t, err.Error(), "no binary release of go1.0.0 for linux/amd64")
}

func TestInstall_SkipVerify(t *testing.T) {
	ctrl := gomock.NewController(t)
	dl := mock_download.NewMockManager(ctrl)
	dl.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(serve(map[string]string{".tar.gz": archiveBody}))
	inst, h, _ := newTestInstaller(t, dl)

	_, err := inst.Install(context.Background(), "1.21.5", Options{Registry: testRegistry, SkipVerify: true})
	require.NoError(t, err)
	assert.True(t, h.IsInstalled("go1.21.5"))
}

func TestInstall_ChecksumDownloadFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	dl := mock_download.NewMockManager(ctrl)
	dl.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(serve(map[string]string{".tar.gz": archiveBody})).Times(2)
	inst, h, _ := newTestInstaller(t, dl)

	_, err := inst.Install(context.Background(), "1.21.5", Options{Registry: testRegistry})
	require.Error(t, err)
	assert.False(t, h.IsInstalled("go1.21.5"))
	// the archive stays cached for a --skip-verify retry
	assert.FileExists(t, h.CacheFile("go1.21.5.linux-amd64.tar.gz"))
}

func TestInstall_UsesCachedArchive(t *testing.T) {
	ctrl := gomock.NewController(t)
	dl := mock_download.NewMockManager(ctrl)
	inst, h, u := newTestInstaller(t, dl)

	name := "go1.21.5.linux-amd64.tar.gz"
	require.NoError(t, os.MkdirAll(h.CacheDir(), 0o755))
	require.NoError(t, os.WriteFile(h.CacheFile(name), []byte(archiveBody), 0o644))
	require.NoError(t, os.WriteFile(h.CacheFile(name+".sha256"), []byte(digest(archiveBody)), 0o644))

	_, err := inst.Install(context.Background(), "1.21.5", Options{Registry: testRegistry})
	require.NoError(t, err)
	assert.Len(t, u.calls, 1)
}

func TestInstall_ArchiveSizeCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	dl := mock_download.NewMockManager(ctrl)
	dl.EXPECT().ContentLength(gomock.Any(), gomock.Any()).Return(int64(len(archiveBody)+1), nil)
	dl.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(serve(map[string]string{".tar.gz": archiveBody}))
	inst, h, _ := newTestInstaller(t, dl)

	_, err := inst.Install(context.Background(), "1.21.5", Options{
		Registry: testRegistry, SkipVerify: true, CheckArchiveSize: true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDownloadFailed)
	assert.NoFileExists(t, h.CacheFile("go1.21.5.linux-amd64.tar.gz"))
}

func TestInstall_UnpackFailureLeavesNoSentinel(t *testing.T) {
	ctrl := gomock.NewController(t)
	dl := mock_download.NewMockManager(ctrl)
	dl.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(serve(map[string]string{".tar.gz": archiveBody}))
	inst, h, u := newTestInstaller(t, dl)
	u.err = errors.ErrUnsupportedArchive

	_, err := inst.Install(context.Background(), "1.21.5", Options{Registry: testRegistry, SkipVerify: true})
	require.ErrorIs(t, err, errors.ErrUnsupportedArchive)
	assert.False(t, h.IsInstalled("go1.21.5"))
}

func TestInstall_InvalidRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)
	inst, _, _ := newTestInstaller(t, mock_download.NewMockManager(ctrl))

	_, err := inst.Install(context.Background(), "1.21.5", Options{Registry: "not a url"})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestInstall_RawVersionOutsideHome(t *testing.T) {
	ctrl := gomock.NewController(t)
	// no Fetch expectations: nothing may be downloaded or unpacked
	inst, h, u := newTestInstaller(t, mock_download.NewMockManager(ctrl))

	_, err := inst.Install(context.Background(), "../..", Options{Registry: "https://dl.google.com/go"})
	assert.ErrorIs(t, err, errors.ErrValidation)
	assert.DirExists(t, h.Root)
	assert.Empty(t, u.calls)
}

func TestInstallNightly_ClonesAndBuilds(t *testing.T) {
	ctrl := gomock.NewController(t)
	git := &fakeGit{available: true}
	var built []string
	build := func(_ context.Context, dir string, onLine func(string), name string, _ ...string) error {
		built = append(built, dir, name)
		onLine("Building Go cmd/dist using /usr/lib/go.")
		return nil
	}
	inst, h, _ := newTestInstaller(t, mock_download.NewMockManager(ctrl), WithGit(git), WithBuildRunner(build))

	res, err := inst.Install(context.Background(), "gotip", Options{SourceGitURL: "https://example.com/go"})
	require.NoError(t, err)

	dir := h.VersionDir("gotip")
	assert.Equal(t, dir, res.Dir)
	assert.Equal(t, []string{
		"clone --depth=1 https://example.com/go " + dir,
		"remote add upstream https://go.googlesource.com/go",
		"fetch origin master",
		"-c advice.detachedHead=false checkout FETCH_HEAD",
		"reset --hard FETCH_HEAD",
		"clean -q -f -d -X",
	}, git.commands)
	require.Len(t, built, 2)
	assert.Equal(t, filepath.Join(dir, "src"), built[0])
	assert.Equal(t, MakeScript(runtime.GOOS), filepath.Base(built[1]))
}

func TestInstallNightly_UpdatesExistingTree(t *testing.T) {
	ctrl := gomock.NewController(t)
	git := &fakeGit{available: true}
	build := func(context.Context, string, func(string), string, ...string) error { return nil }
	inst, h, _ := newTestInstaller(t, mock_download.NewMockManager(ctrl), WithGit(git), WithBuildRunner(build))
	require.NoError(t, os.MkdirAll(filepath.Join(h.VersionDir("gotip"), ".git"), 0o755))

	_, err := inst.InstallNightly(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "fetch origin master", git.commands[0])
	assert.Len(t, git.commands, 4)
}

func TestInstallNightly_GitMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	inst, _, _ := newTestInstaller(t, mock_download.NewMockManager(ctrl), WithGit(&fakeGit{}))

	_, err := inst.InstallNightly(context.Background(), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrExternalTool)
	assert.Contains(t, err.Error(), `"git" binary not found`)
}

func TestInstallNightly_GitFailureStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	git := &fakeGit{available: true, failOn: "fetch"}
	built := false
	build := func(context.Context, string, func(string), string, ...string) error { built = true; return nil }
	inst, _, _ := newTestInstaller(t, mock_download.NewMockManager(ctrl), WithGit(git), WithBuildRunner(build))

	_, err := inst.InstallNightly(context.Background(), Options{})
	require.ErrorIs(t, err, errors.ErrExternalTool)
	assert.False(t, built)
}

func TestMakeScript(t *testing.T) {
	assert.Equal(t, "make.bash", MakeScript("linux"))
	assert.Equal(t, "make.bat", MakeScript("windows"))
	assert.Equal(t, "make.rc", MakeScript("plan9"))
}

func TestVerifyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o644))

	good := path + ".sha256"
	require.NoError(t, os.WriteFile(good, []byte(digest("payload")+"\n"), 0o644))
	require.NoError(t, VerifyFile(path, good))

	empty := filepath.Join(dir, "empty.sha256")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	assert.ErrorIs(t, VerifyFile(path, empty), errors.ErrIntegrity)

	assert.ErrorIs(t, VerifyFile(path, filepath.Join(dir, "missing")), errors.ErrIO)
}

func TestReleaseURL(t *testing.T) {
	u, err := releaseURL("https://dl.google.com/go/", "go1.21.5.linux-amd64.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "https://dl.google.com/go/go1.21.5.linux-amd64.tar.gz", u.String())

	_, err = releaseURL("", "x")
	assert.ErrorIs(t, err, errors.ErrValidation)
}
