package metadata

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"picsort/internal/logging"
	"picsort/internal/textutil"
)

// partial holds the fields one strategy recovered. Zero values mean "no data".
type partial struct {
	taken  time.Time
	camera string
	lens   string
}

func (p partial) empty() bool {
	return p.taken.IsZero() && p.camera == "" && p.lens == ""
}

// strategy is one independent metadata source. extract returns whatever
// fields it could recover; errors mean "nothing from this strategy" and are
// logged at debug level only.
type strategy interface {
	name() string
	extract(path string) (partial, error)
}

const (
	unknownCamera = "Unknown Camera"
	unknownLens   = "Unknown Lens"
)

// Resolver turns file paths into Records using the ordered strategy list.
type Resolver struct {
	strategies []strategy
	logger     *slog.Logger
	now        func() time.Time
}

// NewResolver builds the production resolver: EXIF decode, TIFF tag scan,
// then exiftool when the binary is installed.
func NewResolver(logger *slog.Logger) *Resolver {
	logger = logging.NewComponentLogger(logger, "metadata")
	strategies := []strategy{exifStrategy{}, tiffScanStrategy{}}
	if et := newExiftoolStrategy(); et != nil {
		strategies = append(strategies, et)
	} else {
		logger.Debug("exiftool not available, strategy disabled")
	}
	return &Resolver{strategies: strategies, logger: logger, now: time.Now}
}

// Close releases strategy resources (the exiftool subprocess).
func (r *Resolver) Close() {
	for _, s := range r.strategies {
		if closer, ok := s.(interface{ close() }); ok {
			closer.close()
		}
	}
}

// Resolve extracts metadata for one file. It is total: every path yields a
// usable Record regardless of what the strategies manage to read.
func (r *Resolver) Resolve(path string) Record {
	var merged partial
	for _, s := range r.strategies {
		if !merged.taken.IsZero() && merged.camera != "" && merged.lens != "" {
			break
		}
		got, err := s.extract(path)
		if err != nil {
			r.logger.Debug("strategy yielded nothing",
				logging.String("strategy", s.name()),
				logging.String(logging.FieldSource, path),
				logging.Error(err))
			continue
		}
		// Later strategies only fill fields earlier ones left empty.
		if merged.taken.IsZero() {
			merged.taken = got.taken
		}
		if merged.camera == "" {
			merged.camera = got.camera
		}
		if merged.lens == "" {
			merged.lens = got.lens
		}
	}

	if merged.taken.IsZero() {
		if info, err := os.Stat(path); err == nil {
			merged.taken = info.ModTime()
		} else {
			merged.taken = r.now()
		}
	}
	if merged.camera == "" {
		merged.camera = unknownCamera
	}
	if merged.lens == "" {
		merged.lens = unknownLens
	}

	return Record{
		Path:      path,
		Timestamp: merged.taken,
		Camera:    textutil.SanitizeSegment(merged.camera),
		Lens:      textutil.SanitizeSegment(merged.lens),
		Kind:      Classify(path),
	}
}

// ResolveAll resolves the given paths with up to workers goroutines, keeping
// result order aligned with the input. Paths not reached before ctx is
// cancelled are left out of the result.
func (r *Resolver) ResolveAll(ctx context.Context, paths []string, workers int) []Record {
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	records := make([]Record, len(paths))
	resolved := make([]bool, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				records[idx] = r.Resolve(paths[idx])
				resolved[idx] = true
			}
		}()
	}

feed:
	for idx := range paths {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	out := make([]Record, 0, len(paths))
	for idx, ok := range resolved {
		if ok {
			out = append(out, records[idx])
		}
	}
	return out
}
