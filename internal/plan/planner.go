// Package plan maps resolved metadata records to destination directories and
// detects pre-existing name collisions before anything is executed.
package plan

import (
	"os"
	"path/filepath"

	"picsort/internal/config"
	"picsort/internal/metadata"
)

// Item is one planned placement: a source record and the directory it goes to.
// The destination file name is always the source's original base name;
// collision handling happens at execution time.
type Item struct {
	Record  metadata.Record
	DestDir string
}

// Conflict records a source whose computed destination path already exists on
// disk before the run. Informational: resolution is deferred to execution.
type Conflict struct {
	Source   string
	Existing string
}

// Plan holds the destination-directory buckets for one scan. Every input
// record lands in exactly one bucket. A plan is built fresh per scan and
// never updated incrementally.
type Plan struct {
	buckets map[string][]metadata.Record
	order   []string
	total   int
}

// TargetDir derives the destination directory for one record under the given
// options: group and date segments in the configured hierarchy order, with an
// optional trailing kind segment.
func TargetDir(rec metadata.Record, opts config.RunOptions) string {
	group := rec.Camera
	if opts.GroupBy == config.GroupLens {
		group = rec.Lens
	}

	var dir string
	if opts.Hierarchy == config.DateFirst {
		dir = filepath.Join(opts.DestRoot, rec.Year(), rec.Month(), rec.Date(), group)
	} else {
		dir = filepath.Join(opts.DestRoot, group, rec.Year(), rec.Month(), rec.Date())
	}
	if opts.SplitKind {
		dir = filepath.Join(dir, string(rec.Kind))
	}
	return dir
}

// Build buckets the records by destination directory and scans the live
// filesystem for pre-existing same-name files. A destination that cannot be
// stat-ed counts as absent; real trouble surfaces at execution time.
func Build(records []metadata.Record, opts config.RunOptions) (*Plan, []Conflict) {
	p := &Plan{buckets: make(map[string][]metadata.Record)}
	for _, rec := range records {
		dir := TargetDir(rec, opts)
		if _, seen := p.buckets[dir]; !seen {
			p.order = append(p.order, dir)
		}
		p.buckets[dir] = append(p.buckets[dir], rec)
		p.total++
	}

	var conflicts []Conflict
	for _, dir := range p.order {
		for _, rec := range p.buckets[dir] {
			existing := filepath.Join(dir, filepath.Base(rec.Path))
			if info, err := os.Stat(existing); err == nil && !info.IsDir() {
				conflicts = append(conflicts, Conflict{Source: rec.Path, Existing: existing})
			}
		}
	}
	return p, conflicts
}

// Total is the number of planned files.
func (p *Plan) Total() int { return p.total }

// Directories returns the destination directories in bucket creation order.
func (p *Plan) Directories() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Files returns the records bucketed under dir, in input order.
func (p *Plan) Files(dir string) []metadata.Record {
	files := p.buckets[dir]
	out := make([]metadata.Record, len(files))
	copy(out, files)
	return out
}

// Items flattens the plan into per-file placements, bucket by bucket.
func (p *Plan) Items() []Item {
	items := make([]Item, 0, p.total)
	for _, dir := range p.order {
		for _, rec := range p.buckets[dir] {
			items = append(items, Item{Record: rec, DestDir: dir})
		}
	}
	return items
}
