package pipeline

// Summary tracks aggregate counters across a run.
type Summary struct {
	SubjectsScanned   int   // subject folders found under the input path
	SubjectsEligible  int   // subjects with at least one raw file
	SubjectsProcessed int   // eligible subjects whose files were all handled
	Retained          int   // associated files kept (or mirrored under Retained)
	Disposed          int   // files deleted (or mirrored under Deleted)
	Unrelated         int   // files containing no raw filename
	BytesDisposed     int64 // size of disposed files
}

// AnyDisposed reports whether at least one file was (or would be) disposed of.
func (s *Summary) AnyDisposed() bool { return s.Disposed > 0 }
