package config

// This file implements CLI flag parsing and help text.
// Flags use single-dash long names (-input_path, -preproc_label, ...), which is
// the surface the stdlib flag package parses natively.
// Parsing runs twice: the first pass only discovers -config so that the
// config file and environment can be loaded, the second pass lets explicit
// flags override them.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrVersion is returned by ParseFlags after printing the version string.
// Callers treat it like flag.ErrHelp: exit successfully without running.
var ErrVersion = errors.New("version requested")

// Version is shown in -version and help; main overrides it at startup.
var Version = "1.0.0-dev"

// ParseFlags applies the config file, environment, and CLI flags in args
// (without the program name) to cfg. On -help it prints usage and returns
// flag.ErrHelp; on -version it prints the version and returns ErrVersion.
func ParseFlags(cfg *Config, args []string) error {
	first := *cfg
	var firstNeg negatedFlags
	pre := newFlagSet(&first, &firstNeg)
	pre.SetOutput(io.Discard)
	if err := pre.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(os.Stderr)
		}
		return err
	}
	if firstNeg.showHelp {
		printUsage(os.Stderr)
		return flag.ErrHelp
	}
	if firstNeg.showVersion {
		fmt.Fprintln(os.Stdout, "spmcleanup v"+Version)
		return ErrVersion
	}

	if err := LoadFile(cfg, first.ConfigFile); err != nil {
		return err
	}

	var negated negatedFlags
	fs := newFlagSet(cfg, &negated)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}
	applyNegatedFlags(cfg, &negated)

	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q (all inputs are flags, e.g. -input_path)", fs.Arg(0))
	}
	cfg.InputDir = NormalizeDirArg(cfg.InputDir)
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	return nil
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either override a mode (forceColor, noColor) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

func newFlagSet(cfg *Config, n *negatedFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("spmcleanup", flag.ContinueOnError)
	defineInputFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, n)
	defineUtilityFlags(fs, cfg, n)
	return fs
}

// defineInputFlags registers the cleanup inputs: paths, label, method, and keep-list.
func defineInputFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.InputDir, "input_path", cfg.InputDir, "Root directory containing subject folders")
	fs.StringVar(&cfg.PreprocLabel, "preproc_label", cfg.PreprocLabel, "Prefix of final preprocessed files")
	fs.Var(&methodValue{&cfg.Method}, "method", "delete | sim_link | sim_copy")
	fs.StringVar(&cfg.RelPath, "rel_path", cfg.RelPath, "Path to the data inside each subject folder")
	fs.Var(&listValue{&cfg.AlsoKeep}, "also_keep", "Extra keep prefixes, comma separated")
	fs.StringVar(&cfg.OutputDir, "out_path", cfg.OutputDir, "Parent directory for the simulation folder")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Config file (yaml, toml, json)")
}

// defineDisplayFlags registers -color, -no-color, verbose, -check, -log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Log every per-file decision")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as -verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run diagnostics and exit")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
}

// defineUtilityFlags registers -version and -help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as -help")
}

func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// printUsage writes the help text to w. Column-aligned for readability.
func printUsage(w io.Writer) {
	const col1 = 34
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "SPMCleanup v" + Version + " - remove intermediate SPM preprocessing files"},
		{"", ""},
		{"  spmcleanup -input_path <dir> -preproc_label <prefix> -method <method> [OPTIONS]", ""},
		{"", ""},
		{"Required", ""},
		{"  -input_path <dir>", "Folder containing one subfolder per subject"},
		{"  -preproc_label <prefix>", "Prefix of final preprocessed files (e.g. swra)"},
		{"  -method <delete|sim_link|sim_copy>", "Delete files, or simulate with links or copies"},
		{"", ""},
		{"Optional", ""},
		{"  -rel_path <path>", "Data location inside each subject folder"},
		{"  -also_keep <p1,p2>", "Extra prefixes to keep (default: label, rp_, mean)"},
		{"  -out_path <dir>", "Where the simulation folder goes (default: cwd)"},
		{"  -config <file>", "Config file; env SPMCLEANUP_<KEY> also applies"},
		{"", ""},
		{"Display", ""},
		{"  -color", "Force colored logs"},
		{"  -no-color", "Disable colored logs"},
		{"  -v, -verbose", "Log every per-file decision"},
		{"", ""},
		{"Utility", ""},
		{"  -log <path>", "Append logs to file"},
		{"  -check", "Diagnose the input tree and output location"},
		{"  -version", "Print version and exit"},
		{"  -h, -help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so Method and comma-separated lists work with flag.Var.

type methodValue struct{ p *Method }

func (m *methodValue) String() string {
	if m.p == nil {
		return ""
	}
	return string(*m.p)
}

// Set stores the raw value; Validate rejects unknown methods so the error
// keeps its ErrInvalidMethod identity.
func (m *methodValue) Set(s string) error {
	*m.p = Method(strings.TrimSpace(s))
	return nil
}

type listValue struct{ p *[]string }

func (l *listValue) String() string {
	if l.p == nil {
		return ""
	}
	return strings.Join(*l.p, ",")
}

func (l *listValue) Set(s string) error {
	*l.p = SplitList(s)
	return nil
}

// SplitList splits a comma-separated list, trimming blanks and dropping
// empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
