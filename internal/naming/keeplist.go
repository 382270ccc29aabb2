package naming

import "strings"

// KeepList is an ordered set of filename prefixes whose files are always
// retained. Order is insertion order and only matters for display.
type KeepList struct {
	prefixes []string
}

// NewKeepList builds a KeepList from prefixes, dropping empty entries and
// duplicates. An empty prefix would match every file.
func NewKeepList(prefixes ...string) KeepList {
	seen := make(map[string]bool, len(prefixes))
	var kl KeepList
	for _, p := range prefixes {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		kl.prefixes = append(kl.prefixes, p)
	}
	return kl
}

// Matches reports whether name starts with any prefix in the list.
func (k KeepList) Matches(name string) bool {
	for _, p := range k.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Prefixes returns a copy of the prefixes in insertion order.
func (k KeepList) Prefixes() []string {
	return append([]string(nil), k.prefixes...)
}

// Len returns the number of prefixes.
func (k KeepList) Len() int { return len(k.prefixes) }
