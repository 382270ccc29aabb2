package naming

import "strings"

// Decision is the per-file outcome of Classify.
type Decision int

const (
	// Unrelated files contain no raw filename and are never disposed of.
	Unrelated Decision = iota
	// Retain marks an associated file protected by the keep-list or by
	// being a raw file itself.
	Retain
	// Dispose marks an associated intermediate file.
	Dispose
)

// String returns the lowercase decision name used in log lines.
func (d Decision) String() string {
	switch d {
	case Retain:
		return "retain"
	case Dispose:
		return "dispose"
	default:
		return "unrelated"
	}
}

// DeriveRawName returns the raw filename implied by a final preprocessed
// file: name with prefix stripped. ok is false when name does not start with
// prefix.
func DeriveRawName(prefix, name string) (raw string, ok bool) {
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	return name[len(prefix):], true
}

// IsRawFileAssociated reports whether name contains any of raw as a substring.
func IsRawFileAssociated(name string, raw []string) bool {
	for _, r := range raw {
		if strings.Contains(name, r) {
			return true
		}
	}
	return false
}

// ShouldRetain reports whether an associated file is kept: it starts with a
// keep-list prefix or is exactly one of the raw filenames.
func ShouldRetain(name string, raw []string, keep KeepList) bool {
	if keep.Matches(name) {
		return true
	}
	for _, r := range raw {
		if name == r {
			return true
		}
	}
	return false
}

// Classify combines IsRawFileAssociated and ShouldRetain into a Decision.
func Classify(name string, raw []string, keep KeepList) Decision {
	if !IsRawFileAssociated(name, raw) {
		return Unrelated
	}
	if ShouldRetain(name, raw, keep) {
		return Retain
	}
	return Dispose
}
