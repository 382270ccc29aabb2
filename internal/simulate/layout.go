// Package simulate manages the simulation mirror tree: a root directory with
// Retained/ and Deleted/ subtrees holding one folder per subject, filled with
// symbolic links or copies of the source files.
package simulate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrDirectoryExists is returned when the simulation root or a subject
// folder inside it already exists. Nothing is ever written over.
var ErrDirectoryExists = errors.New("simulation directory already exists")

// Subtree names under the simulation root.
const (
	RetainedDir = "Retained"
	DeletedDir  = "Deleted"
)

// Placement selects how a source file is mirrored.
type Placement int

const (
	Link Placement = iota // symbolic link to the absolute source path
	Copy                  // full copy with permission bits
)

// Layout is a created simulation root.
type Layout struct {
	Root      string
	Placement Placement
}

// Create makes root with its Retained and Deleted subtrees. It fails with
// ErrDirectoryExists when root is already present.
func Create(root string, p Placement) (*Layout, error) {
	if _, err := os.Lstat(root); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryExists, root)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err := os.Mkdir(root, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryExists, root)
		}
		return nil, err
	}
	l := &Layout{Root: root, Placement: p}
	for _, sub := range []string{l.RetainedRoot(), l.DeletedRoot()} {
		if err := os.Mkdir(sub, 0o755); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// RetainedRoot returns <root>/Retained.
func (l *Layout) RetainedRoot() string { return filepath.Join(l.Root, RetainedDir) }

// DeletedRoot returns <root>/Deleted.
func (l *Layout) DeletedRoot() string { return filepath.Join(l.Root, DeletedDir) }

// SubjectDirs creates Retained/<subject> and Deleted/<subject>. Either one
// already existing is ErrDirectoryExists.
func (l *Layout) SubjectDirs(subject string) (retained, deleted string, err error) {
	retained = filepath.Join(l.RetainedRoot(), subject)
	deleted = filepath.Join(l.DeletedRoot(), subject)
	for _, d := range []string{retained, deleted} {
		if err := os.Mkdir(d, 0o755); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return "", "", fmt.Errorf("%w: %s", ErrDirectoryExists, d)
			}
			return "", "", err
		}
	}
	return retained, deleted, nil
}

// Place mirrors src into dir under its own base name.
func (l *Layout) Place(src, dir string) error {
	dst := filepath.Join(dir, filepath.Base(src))
	if l.Placement == Link {
		abs, err := filepath.Abs(src)
		if err != nil {
			return err
		}
		return os.Symlink(abs, dst)
	}
	return copyFile(src, dst)
}

// IsEmpty reports whether neither subtree holds any file. Empty subject
// folders do not count.
func (l *Layout) IsEmpty() (bool, error) {
	empty := true
	for _, sub := range []string{l.RetainedRoot(), l.DeletedRoot()} {
		err := filepath.WalkDir(sub, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if !d.IsDir() {
				empty = false
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			return false, err
		}
		if !empty {
			return false, nil
		}
	}
	return true, nil
}

// RemoveIfEmpty deletes the whole root when IsEmpty holds, so a rejected or
// no-op run leaves nothing behind and the next run is not blocked by
// ErrDirectoryExists. It reports whether the root was removed.
func (l *Layout) RemoveIfEmpty() (bool, error) {
	empty, err := l.IsEmpty()
	if err != nil || !empty {
		return false, err
	}
	if err := os.RemoveAll(l.Root); err != nil {
		return false, err
	}
	return true, nil
}

// copyFile copies src to dst, which must not exist, keeping permission bits.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fi.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}
