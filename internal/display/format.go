// Package display holds terminal presentation helpers: the start-up banner
// and human-readable sizes and counts for run summaries.
package display

import (
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

// FormatBytes returns a human-readable IEC size (B, KiB, MiB, GiB, ...).
// Negative values keep their sign.
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatCount returns "1 file", "3 files", etc.
func FormatCount(n int, singular string) string {
	return english.Plural(n, singular, "")
}
