package display

import (
	"bytes"
	"io"

	"github.com/dimiro1/banner"

	"github.com/backmassage/spmcleanup/internal/term"
)

const bannerTemplate = `{{ .AnsiColor.BrightMagenta }}{{ .Title "SPMCleanup" "" 0 }}{{ .AnsiColor.Default }}`

// PrintBanner renders the ASCII art banner to w; colored when term colors
// are enabled.
func PrintBanner(w io.Writer, version string) {
	tpl := bannerTemplate + "\nVersion: " + version + "\n"
	banner.Init(w, true, term.Enabled(), bytes.NewBufferString(tpl))
}
