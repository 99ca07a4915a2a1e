package metadata

import "time"

// Record is the immutable per-file metadata snapshot one scan produces.
// Camera and Lens are sanitized, non-empty path segments; Timestamp is always
// set (capture time, else file mtime, else scan time).
type Record struct {
	Path      string
	Timestamp time.Time
	Camera    string
	Lens      string
	Kind      Kind
}

// Year returns the "2006" projection of the timestamp.
func (r Record) Year() string { return r.Timestamp.Format("2006") }

// Month returns the "2006-01" projection of the timestamp.
func (r Record) Month() string { return r.Timestamp.Format("2006-01") }

// Date returns the "2006-01-02" projection of the timestamp.
func (r Record) Date() string { return r.Timestamp.Format("2006-01-02") }
