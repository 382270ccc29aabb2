// Package config holds runtime configuration: defaults, config file and
// environment loading, CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Sentinel configuration errors. The run aborts on any of them before the
// filesystem is touched.
var (
	ErrInvalidMethod        = errors.New("invalid method")
	ErrMissingRequired      = errors.New("missing required setting")
	ErrSimRootInsideSubject = errors.New("simulation directory must not be inside a subject folder")
)

// --- Enum types for validated string fields ---

// Method selects how files marked for disposal are handled.
type Method string

const (
	MethodDelete  Method = "delete"   // Permanently remove disposed files.
	MethodSimLink Method = "sim_link" // Mirror decisions with symbolic links.
	MethodSimCopy Method = "sim_copy" // Mirror decisions with full copies.
)

// Simulated reports whether m leaves the source tree untouched and mirrors
// decisions into a simulation root instead.
func (m Method) Simulated() bool {
	return m == MethodSimLink || m == MethodSimCopy
}

// Suffix returns the simulation root suffix ("link" or "copy"), or "" for
// real deletion.
func (m Method) Suffix() string {
	switch m {
	case MethodSimLink:
		return "link"
	case MethodSimCopy:
		return "copy"
	default:
		return ""
	}
}

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultKeepPrefixes are always part of the keep-list, after the
// preprocessing label itself. rp_ holds realignment parameters and mean is
// the mean functional image.
var DefaultKeepPrefixes = []string{"rp_", "mean"}

// SimRootPrefix is the directory name prefix of the simulation mirror root.
const SimRootPrefix = "SPMCleanup_Simulation_"

// Config holds all runtime settings. It is populated by [DefaultConfig], then
// by [LoadFile] (config file and environment), then by [ParseFlags].
type Config struct {
	// Inputs.
	InputDir     string // -input_path: root containing subject folders.
	PreprocLabel string // -preproc_label: prefix of final preprocessed files.
	RelPath      string // -rel_path: optional subpath inside each subject folder.
	Method       Method // -method.
	AlsoKeep     []string
	OutputDir    string // -out_path: parent of the simulation root. Default: cwd.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run -check diagnostics and exit.

	ConfigFile string // -config: optional config file consumed by LoadFile.
}

// DefaultConfig returns a Config with defaults applied. Used as the base before
// LoadFile and ParseFlags apply overrides.
func DefaultConfig() Config {
	return Config{
		ColorMode: ColorAuto,
		Verbose:   false,
		CheckOnly: false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// ParseMethod maps user input to a Method. Matching is exact, like the
// method names printed in help text.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.TrimSpace(s)); m {
	case MethodDelete, MethodSimLink, MethodSimCopy:
		return m, nil
	default:
		return "", fmt.Errorf("%w %q (use 'delete', 'sim_link', or 'sim_copy')", ErrInvalidMethod, s)
	}
}

// KeepPrefixes returns the keep-list seed in display order: the
// preprocessing label, the defaults, then AlsoKeep. naming.NewKeepList
// drops blanks and duplicates.
func (c *Config) KeepPrefixes() []string {
	all := make([]string, 0, 1+len(DefaultKeepPrefixes)+len(c.AlsoKeep))
	all = append(all, c.PreprocLabel)
	all = append(all, DefaultKeepPrefixes...)
	return append(all, c.AlsoKeep...)
}

// SimRoot returns the simulation mirror root for the configured method, or
// "" for real deletion. cwd is used when OutputDir is unset.
func (c *Config) SimRoot(cwd string) string {
	if !c.Method.Simulated() {
		return ""
	}
	parent := c.OutputDir
	if parent == "" {
		parent = cwd
	}
	return filepath.Join(parent, SimRootPrefix+c.Method.Suffix())
}

// Validate checks the method enum and, outside CheckOnly mode, that the
// required inputs are present.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always', or 'never')", c.ColorMode)
	}

	if c.InputDir == "" {
		return fmt.Errorf("%w: -input_path", ErrMissingRequired)
	}
	if c.CheckOnly {
		return nil
	}
	if c.PreprocLabel == "" {
		return fmt.Errorf("%w: -preproc_label", ErrMissingRequired)
	}
	if c.Method == "" {
		return fmt.Errorf("%w: -method", ErrMissingRequired)
	}
	if _, err := ParseMethod(string(c.Method)); err != nil {
		return err
	}
	return nil
}

// ValidatePaths rejects a simulation root placed inside a subject folder of
// the input tree, where mirroring would write into the data being cleaned.
// A root directly under the input directory is allowed; the scanner skips it.
// Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, simRootAbs string) error {
	if simRootAbs == "" {
		return nil
	}
	rel, err := filepath.Rel(inputAbs, simRootAbs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	if rel == "." || strings.Contains(rel, string(filepath.Separator)) {
		return ErrSimRootInsideSubject
	}
	return nil
}
