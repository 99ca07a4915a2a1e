package organize

import "time"

// Event is one progress snapshot, emitted after a file finishes processing.
// Emission is throttled: the first ten completions report individually, after
// that roughly every percent of the total, and the final completion always
// reports.
type Event struct {
	Done    int
	Total   int
	Elapsed time.Duration
	ETA     time.Duration
	// Rate is completions per second over the run so far.
	Rate float64
	Path string
}

// Reporter receives throttled progress events during a run. Implementations
// are called from the worker that finished the file; with multiple execution
// workers they must tolerate concurrent calls.
type Reporter interface {
	Progress(Event)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Progress(Event) {}

// FileError records one source that could not be transferred. Failures never
// abort the run; they accumulate here.
type FileError struct {
	Path string
	Err  string
}

// Outcome summarizes a finished (or cancelled) run.
type Outcome struct {
	RunID   string
	Total   int
	Success int
	Skipped int
	Failed  int
	Elapsed time.Duration
	Errors  []FileError
	// SkippedPaths lists sources left in place with the reason appended.
	SkippedPaths []string
}

// shouldReport is the progress throttle. done is 1-based.
func shouldReport(done, total int) bool {
	if done <= 10 || done == total {
		return true
	}
	step := total / 100
	if step < 1 {
		step = 1
	}
	return done%step == 0
}

func estimateETA(elapsed time.Duration, done, total int) time.Duration {
	if done == 0 || done >= total {
		return 0
	}
	perFile := elapsed / time.Duration(done)
	return perFile * time.Duration(total-done)
}
