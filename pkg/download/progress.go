package download

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TerminalProgress returns a ProgressFunc that redraws a single status line
// on f, or nil when f is not a terminal.
func TerminalProgress(f *os.File, label string) ProgressFunc {
	if !IsTerminal(f) {
		return nil
	}
	return LineProgress(f, label, 100*time.Millisecond)
}

// LineProgress renders "label  12 MB / 64 MB" on w, at most once per
// interval and always on completion.
func LineProgress(w io.Writer, label string, interval time.Duration) ProgressFunc {
	var last time.Time
	return func(done, total int64) {
		finished := total > 0 && done >= total
		if !finished && time.Since(last) < interval {
			return
		}
		last = time.Now()
		_, _ = fmt.Fprintf(w, "\r%s  %s", label, FormatProgress(done, total))
		if finished {
			_, _ = fmt.Fprintln(w)
		}
	}
}

// FormatProgress renders a byte counter with an optional total.
func FormatProgress(done, total int64) string {
	if total <= 0 {
		return humanize.Bytes(uint64(max(done, 0)))
	}
	pct := float64(done) / float64(total) * 100
	return fmt.Sprintf("%s / %s (%.0f%%)", humanize.Bytes(uint64(done)), humanize.Bytes(uint64(total)), pct)
}
