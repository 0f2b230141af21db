package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level string, format OutputFormat, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	t.Cleanup(func() {
		UnsetTestOutput()
		logger = nil
		currentFmt = FormatText
	})

	logger = nil
	InitLogger(level, format)
	fn()
	return buf.String()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:     "installing announced at info",
			level:    "info",
			logFn:    func() { Infof("Installing %s", "go1.21.5") },
			contains: []string{"Installing go1.21.5", "level=INFO"},
		},
		{
			name:     "chunk progress hidden at info",
			level:    "info",
			logFn:    func() { Debugf("fetched chunk %d of %s", 3, "go1.21.5.linux-amd64.tar.gz") },
			excludes: []string{"fetched chunk"},
		},
		{
			name:     "chunk progress shown at debug",
			level:    "debug",
			logFn:    func() { Debugf("fetched chunk %d of %s", 3, "go1.21.5.linux-amd64.tar.gz") },
			contains: []string{"fetched chunk 3 of go1.21.5.linux-amd64.tar.gz", "level=DEBUG"},
		},
		{
			name:     "skip warning survives warn level",
			level:    "warn",
			logFn:    func() { Warnf("%s is the default version, skipping it.", "go1.22.0") },
			contains: []string{"go1.22.0 is the default version", "level=WARN"},
		},
		{
			name:  "error level drops warnings",
			level: "error",
			logFn: func() {
				Warn("index cache write failed")
				Error("install failed", Fields{"version": "go1.21.5"})
			},
			contains: []string{"install failed", "version=go1.21.5"},
			excludes: []string{"index cache write failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := capture(t, tt.level, FormatText, tt.logFn)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestFieldsMerge(t *testing.T) {
	out := capture(t, "info", FormatText, func() {
		Info("unpacked archive",
			Fields{"version": "go1.21.5"},
			Fields{"archive": "go1.21.5.linux-amd64.tar.gz"},
			Fields{"version": "go1.21.6"},
		)
	})

	assert.Contains(t, out, "version=go1.21.6")
	assert.NotContains(t, out, "version=go1.21.5")
	assert.Contains(t, out, "archive=go1.21.5.linux-amd64.tar.gz")
	// first-seen key order is kept
	assert.Less(t, strings.Index(out, "version="), strings.Index(out, "archive="))
}

func TestSuccessJSON(t *testing.T) {
	out := capture(t, "info", FormatJSON, func() {
		Success("default set", Fields{"version": "go1.22.0"})
	})

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &rec))
	assert.Equal(t, "default set", rec["msg"])
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "success", rec["status"])
	assert.Equal(t, "go1.22.0", rec["version"])
}

func TestSetOutputFormatKeepsLevel(t *testing.T) {
	out := capture(t, "debug", FormatText, func() {
		SetOutputFormat(FormatJSON)
		Debugf("resolved %s to %s", "1.21", "go1.21.6")
	})

	assert.True(t, Enabled(slog.LevelDebug))
	assert.Contains(t, out, `"msg":"resolved 1.21 to go1.21.6"`)
	assert.Contains(t, out, `"level":"DEBUG"`)
}

func TestUnknownFormatFallsBackToText(t *testing.T) {
	out := capture(t, "info", OutputFormat("yaml"), func() {
		Successf("removed %s", "go1.20.1")
	})

	assert.Equal(t, FormatText, currentFmt)
	assert.Contains(t, out, `msg="removed go1.20.1"`)
	assert.Contains(t, out, "status=success")
}

func TestDebugfWithFields(t *testing.T) {
	out := capture(t, "debug", FormatText, func() {
		DebugfWithFields(Fields{"url": "https://go.dev/dl/?mode=json"}, "fetching %s index", "official")
	})

	assert.Contains(t, out, `msg="fetching official index"`)
	assert.Contains(t, out, "url=")
	assert.NotContains(t, out, "level=INFO")
}
