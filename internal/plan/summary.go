package plan

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"picsort/internal/metadata"
)

// Count is one key with its file count, for distribution tables.
type Count struct {
	Key string
	N   int
}

// Summary aggregates a scan for the preview: distribution by camera, lens and
// date, plus planned top-level folders under the destination root.
type Summary struct {
	TotalFiles int
	Cameras    []Count
	Lenses     []Count
	DateCount  int
	TopFolders []Count
}

// Summarize builds the preview summary from the records and the plan.
func Summarize(records []metadata.Record, p *Plan, destRoot string) Summary {
	cameras := make(map[string]int)
	lenses := make(map[string]int)
	dates := make(map[string]struct{})
	for _, rec := range records {
		cameras[rec.Camera]++
		lenses[rec.Lens]++
		dates[rec.Date()] = struct{}{}
	}

	top := make(map[string]int)
	for _, dir := range p.Directories() {
		label := dir
		if rel, err := filepath.Rel(destRoot, dir); err == nil && !strings.HasPrefix(rel, "..") {
			if first, _, ok := strings.Cut(rel, string(filepath.Separator)); ok {
				label = first
			} else {
				label = rel
			}
		}
		top[label] += len(p.Files(dir))
	}

	return Summary{
		TotalFiles: len(records),
		Cameras:    sortedCounts(cameras),
		Lenses:     sortedCounts(lenses),
		DateCount:  len(dates),
		TopFolders: sortedCounts(top),
	}
}

// SamplePaths returns up to n destination directories relative to destRoot,
// sorted, for the preview's example listing.
func SamplePaths(p *Plan, destRoot string, n int) []string {
	dirs := p.Directories()
	sort.Strings(dirs)
	if len(dirs) > n {
		dirs = dirs[:n]
	}
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if rel, err := filepath.Rel(destRoot, dir); err == nil && !strings.HasPrefix(rel, "..") {
			out = append(out, rel)
		} else {
			out = append(out, dir)
		}
	}
	return out
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, n := range m {
		out = append(out, Count{Key: k, N: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// HumanCount renders counts the way the preview cards show them: 1.2k, 3.4M.
func HumanCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
