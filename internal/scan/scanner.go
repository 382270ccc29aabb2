// Package scan enumerates subject folders and derives, per subject, the raw
// filenames implied by its final preprocessed files.
package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/backmassage/spmcleanup/internal/naming"
)

// Per-subject, non-fatal scan outcomes. The subject is reported and left
// out of the disposition phase.
var (
	ErrPathNotFound       = errors.New("subject path not found")
	ErrNoPreprocessedData = errors.New("no preprocessed data found")
)

// RawFileRecord holds the raw filenames found for one subject. It is built
// once by ScanSubject and not modified afterwards.
type RawFileRecord struct {
	SubjectID    string
	Dir          string   // resolved working folder: <input>/<subject>[/<relPath>]
	FinalFiles   int      // files carrying the preprocessing label
	RawFilenames []string // in final-file name order; never contains ""
}

// HasRawData reports whether the subject takes part in disposition.
func (r RawFileRecord) HasRawData() bool { return len(r.RawFilenames) > 0 }

// Subjects returns the names of the directories directly inside inputDir in
// lexical order. Entries that resolve to a path in exclude are skipped;
// both sides are compared after resolving symlinks.
func Subjects(inputDir string, exclude ...string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		if e != "" {
			skip[resolve(e)] = true
		}
	}

	var subjects []string
	for _, e := range entries {
		if !isDir(inputDir, e) {
			continue
		}
		if len(skip) > 0 {
			if skip[resolve(filepath.Join(inputDir, e.Name()))] {
				continue
			}
		}
		subjects = append(subjects, e.Name())
	}
	sort.Strings(subjects)
	return subjects, nil
}

// resolve returns the absolute, symlink-resolved form of path, or its
// cleaned absolute form when it cannot be resolved.
func resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// isDir follows symlinks so linked subject folders are scanned too.
func isDir(parent string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && fi.IsDir()
}

// Scanner locates final preprocessed files by Label inside each subject's
// working folder (RelPath, when set, is appended to the subject folder).
type Scanner struct {
	Label   string
	RelPath string
}

// SubjectDir returns the working folder for subject under inputDir.
func (s Scanner) SubjectDir(inputDir, subject string) string {
	if s.RelPath != "" {
		return filepath.Join(inputDir, subject, s.RelPath)
	}
	return filepath.Join(inputDir, subject)
}

// ScanSubject builds the RawFileRecord for one subject. It returns
// ErrPathNotFound when the working folder is missing, and the (empty) record
// with ErrNoPreprocessedData when no file carries the label. A record whose
// final files have no matching raw file is returned without error.
func (s Scanner) ScanSubject(inputDir, subject string) (RawFileRecord, error) {
	rec := RawFileRecord{SubjectID: subject, Dir: s.SubjectDir(inputDir, subject)}

	fi, err := os.Stat(rec.Dir)
	if err != nil || !fi.IsDir() {
		return rec, fmt.Errorf("%s: %w: %s", subject, ErrPathNotFound, rec.Dir)
	}

	names, err := Files(rec.Dir)
	if err != nil {
		return rec, err
	}
	for _, n := range names {
		raw, ok := naming.DeriveRawName(s.Label, n)
		if !ok {
			continue
		}
		rec.FinalFiles++
		if raw != "" && isRegularFile(filepath.Join(rec.Dir, raw)) {
			rec.RawFilenames = append(rec.RawFilenames, raw)
		}
	}

	if rec.FinalFiles == 0 {
		return rec, fmt.Errorf("%s: %w in %s", subject, ErrNoPreprocessedData, rec.Dir)
	}
	return rec, nil
}

// Files returns the names of the non-directory entries directly inside dir,
// sorted. Symlinks to files count as files.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if isDir(dir, e) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func isRegularFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
