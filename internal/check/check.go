// Package check provides system diagnostics (-check mode) and the pre-run
// path validation (Preflight) that must pass before anything is mutated.
package check

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/backmassage/spmcleanup/internal/config"
	"github.com/backmassage/spmcleanup/internal/display"
	"github.com/backmassage/spmcleanup/internal/scan"
)

// Sentinel errors returned by Preflight.
var (
	ErrInputNotFound = errors.New("input path not found")
	ErrInputNotDir   = errors.New("input path is not a directory")
)

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Paths holds the resolved locations Preflight validated.
type Paths struct {
	Input   string // absolute, symlink-resolved input directory
	SimRoot string // absolute simulation root; empty in delete mode
}

// Preflight resolves the input directory and, in simulate modes, the
// simulation root, and rejects layouts that would scan or mirror into
// themselves. The out path is created when missing.
func Preflight(cfg *config.Config) (Paths, error) {
	input, err := resolveInput(cfg.InputDir)
	if err != nil {
		return Paths{}, err
	}
	p := Paths{Input: input}
	if !cfg.Method.Simulated() {
		return p, nil
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return Paths{}, fmt.Errorf("create out path: %w", err)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return Paths{}, err
	}
	root := cfg.SimRoot(cwd)
	parent, err := absPath(filepath.Dir(root))
	if err != nil {
		return Paths{}, fmt.Errorf("resolve out path: %w", err)
	}
	p.SimRoot = filepath.Join(parent, filepath.Base(root))

	if err := cfg.ValidatePaths(p.Input, p.SimRoot); err != nil {
		return Paths{}, err
	}
	return p, nil
}

// RunCheck reports whether the configured input can be processed: subject
// folders, rel_path resolution, preprocessed data, out path writability,
// leftover simulation roots and symlink support. It never mutates the input
// and returns false when a blocking problem was found.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")
	ok := true

	input, err := resolveInput(cfg.InputDir)
	if err != nil {
		log.Error("%v", err)
		return false
	}
	log.Success("Input: %s", input)

	if !checkSubjects(cfg, input, log) {
		ok = false
	}

	out := cfg.OutputDir
	if out == "" {
		out = "."
	}
	if err := checkWritable(out); err != nil {
		log.Error("Out path %s is not writable: %v", out, err)
		ok = false
	} else {
		log.Success("Out path %s is writable", out)
	}

	checkSimRoots(out, log)

	if err := checkSymlinks(); err != nil {
		log.Warn("Symbolic links unavailable (%v); use -method sim_copy", err)
	} else {
		log.Success("Symbolic links supported (sim_link available)")
	}
	return ok
}

// checkSubjects lists subject folders and, when set, how many resolve
// rel_path and hold files carrying the preprocessing label.
func checkSubjects(cfg *config.Config, input string, log Logger) bool {
	subjects, err := scan.Subjects(input)
	if err != nil {
		log.Error("Cannot list subjects: %v", err)
		return false
	}
	if len(subjects) == 0 {
		log.Warn("No subject folders under %s", input)
		return true
	}
	log.Success("Found %s", display.FormatCount(len(subjects), "subject folder"))

	if cfg.PreprocLabel == "" {
		if cfg.RelPath != "" {
			log.Info("Set -preproc_label to also check for preprocessed data")
		}
		return true
	}

	scanner := scan.Scanner{Label: cfg.PreprocLabel, RelPath: cfg.RelPath}
	var missing, noData, withRaw int
	for _, subject := range subjects {
		rec, err := scanner.ScanSubject(input, subject)
		switch {
		case errors.Is(err, scan.ErrPathNotFound):
			missing++
			log.Debug(cfg.Verbose, "  %s: %s missing", subject, scanner.SubjectDir(input, subject))
		case errors.Is(err, scan.ErrNoPreprocessedData):
			noData++
			log.Debug(cfg.Verbose, "  %s: no files starting with %q", subject, cfg.PreprocLabel)
		case err != nil:
			log.Error("%s: %v", subject, err)
			return false
		case rec.HasRawData():
			withRaw++
		}
	}
	if missing > 0 {
		log.Warn("%q missing in %s", cfg.RelPath, display.FormatCount(missing, "subject"))
	}
	if noData > 0 {
		log.Warn("No preprocessed data in %s", display.FormatCount(noData, "subject"))
	}
	log.Info("%d of %d subjects have raw data to clean up", withRaw, len(subjects))
	return true
}

func checkSimRoots(out string, log Logger) {
	for _, m := range []config.Method{config.MethodSimLink, config.MethodSimCopy} {
		root := filepath.Join(out, config.SimRootPrefix+m.Suffix())
		if _, err := os.Lstat(root); err == nil {
			log.Warn("%s already exists; -method %s will refuse to run until it is removed", root, m)
		}
	}
}

// checkWritable creates and removes a temporary file in dir.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".spmcleanup-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// checkSymlinks creates a link in a scratch directory and reads it back.
func checkSymlinks() error {
	dir, err := os.MkdirTemp("", "spmcleanup-check-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	target := filepath.Join(dir, "target")
	if err := os.WriteFile(target, nil, 0o644); err != nil {
		return err
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		return err
	}
	got, err := os.Readlink(link)
	if err != nil {
		return err
	}
	if got != target {
		return fmt.Errorf("link resolves to %s", got)
	}
	return nil
}

// --- internal helpers ---

func resolveInput(dir string) (string, error) {
	abs, err := absPath(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrInputNotFound, dir)
		}
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInputNotFound, dir)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrInputNotDir, dir)
	}
	return abs, nil
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs simulation directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
