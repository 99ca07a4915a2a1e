// Package organize executes a plan: it copies or moves each planned file into
// its destination directory, resolving duplicate names per the configured
// policy. Per-file failures are recorded and never abort the run.
package organize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"picsort/internal/config"
	"picsort/internal/fileutil"
	"picsort/internal/hashindex"
	"picsort/internal/logging"
	"picsort/internal/plan"
)

// ErrCancelled reports a run stopped before processing every planned file,
// either by context cancellation or by an ask-policy cancel answer. The
// Outcome returned alongside it covers the files that did complete.
var ErrCancelled = errors.New("run cancelled")

// ErrDestBusy reports that another run holds the destination root's lock.
var ErrDestBusy = errors.New("destination is locked by another run")

const lockFileName = ".picsort.lock"

// Engine runs plans against the filesystem.
type Engine struct {
	opts     config.RunOptions
	logger   *slog.Logger
	index    *hashindex.Store
	reporter Reporter
	ask      AskFunc
	now      func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithIndex attaches a digest cache consulted during hash-skip checks. A nil
// store means every comparison hashes directly.
func WithIndex(index *hashindex.Store) Option {
	return func(e *Engine) { e.index = index }
}

// WithReporter attaches a progress consumer.
func WithReporter(r Reporter) Option {
	return func(e *Engine) {
		if r != nil {
			e.reporter = r
		}
	}
}

// WithAsk attaches the interactive conflict decider required by the ask
// policy.
func WithAsk(ask AskFunc) Option {
	return func(e *Engine) { e.ask = ask }
}

// NewEngine builds an engine for one run.
func NewEngine(opts config.RunOptions, logger *slog.Logger, options ...Option) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	e := &Engine{
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "organize"),
		reporter: NopReporter{},
		now:      time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// runState is the mutable state of one run, guarded by a single mutex.
type runState struct {
	mu      sync.Mutex
	done    int
	success int
	skipped int
	failed  int
	errors  []FileError
	skips   []string
}

// Run executes the plan. It holds an exclusive lock on the destination root
// for the duration so two runs cannot interleave writes.
func (e *Engine) Run(ctx context.Context, p *plan.Plan) (Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	runID := uuid.NewString()
	logger := e.logger.With(logging.String(logging.FieldRunID, runID))

	total := p.Total()
	started := e.now()
	outcome := Outcome{RunID: runID, Total: total}
	if total == 0 {
		return outcome, nil
	}

	if e.opts.Policy == config.PolicyAsk && e.ask == nil {
		return outcome, fmt.Errorf("ask policy requires an interactive prompt")
	}

	if err := os.MkdirAll(e.opts.DestRoot, 0o755); err != nil {
		return outcome, fmt.Errorf("create destination root: %w", err)
	}
	lock := flock.New(filepath.Join(e.opts.DestRoot, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return outcome, fmt.Errorf("lock destination: %w", err)
	}
	if !locked {
		return outcome, ErrDestBusy
	}
	defer func() { _ = lock.Unlock() }()

	logger.Info("run started",
		logging.Int("files", total),
		logging.String("operation", string(e.opts.Operation)),
		logging.String("policy", string(e.opts.Policy)))

	state := &runState{}
	reserved := newClaims()

	var stopOnce sync.Once
	stop := make(chan struct{})
	cancelAll := func() { stopOnce.Do(func() { close(stop) }) }

	items := make(chan plan.Item)
	var wg sync.WaitGroup
	workers := e.opts.ExecutionWorkers()
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range items {
				e.processFile(ctx, logger, item, state, reserved, started, total, cancelAll)
			}
		}()
	}

	cancelled := false
feed:
	for _, item := range p.Items() {
		select {
		case <-ctx.Done():
			cancelled = true
			break feed
		case <-stop:
			cancelled = true
			break feed
		case items <- item:
		}
	}
	close(items)
	wg.Wait()

	select {
	case <-stop:
		cancelled = true
	default:
	}

	state.mu.Lock()
	outcome.Success = state.success
	outcome.Skipped = state.skipped
	outcome.Failed = state.failed
	outcome.Errors = append(outcome.Errors, state.errors...)
	outcome.SkippedPaths = append(outcome.SkippedPaths, state.skips...)
	state.mu.Unlock()
	outcome.Elapsed = e.now().Sub(started)

	logger.Info("run finished",
		logging.Int("success", outcome.Success),
		logging.Int("skipped", outcome.Skipped),
		logging.Int("failed", outcome.Failed),
		logging.Duration("elapsed", outcome.Elapsed),
		logging.Bool("cancelled", cancelled))

	// A cancellation that arrives after every item was dispatched did not
	// stop anything; the run finished and reports as such.
	if cancelled {
		return outcome, ErrCancelled
	}
	return outcome, nil
}

// processFile transfers one planned file and records its outcome. Every path
// through here ends in exactly one of recordSuccess, recordSkip, or
// recordFailure, except an ask-cancel answer, which stops the run and leaves
// the file unprocessed.
func (e *Engine) processFile(ctx context.Context, logger *slog.Logger, item plan.Item, state *runState, reserved *claims, started time.Time, total int, cancelAll func()) {
	src := item.Record.Path
	if err := os.MkdirAll(item.DestDir, 0o755); err != nil {
		e.recordFailure(logger, state, started, total, src, fmt.Errorf("create directory: %w", err))
		return
	}

	dest := filepath.Join(item.DestDir, filepath.Base(src))
	claimedPrimary := reserved.reserve(dest)
	_, statErr := os.Lstat(dest)
	existsOnDisk := statErr == nil

	if existsOnDisk || !claimedPrimary {
		if existsOnDisk && e.opts.HashSkip {
			same, err := e.sameContent(ctx, src, dest)
			if err != nil {
				logger.Warn("digest comparison failed, falling back to policy",
					logging.String(logging.FieldSource, src),
					logging.Error(err))
			} else if same {
				e.recordSkip(logger, state, started, total, src, "identical content")
				return
			}
		}

		switch e.opts.Policy {
		case config.PolicySkip:
			e.recordSkip(logger, state, started, total, src, "duplicate name")
			return
		case config.PolicyAsk:
			answer := e.ask(Prompt{
				Source:   src,
				Dest:     dest,
				Proposed: reserved.nextNumbered(dest),
			})
			switch answer {
			case AnswerSkip:
				e.recordSkip(logger, state, started, total, src, "duplicate name")
				return
			case AnswerCancel:
				cancelAll()
				return
			}
			dest = reserved.reserveNumbered(dest)
		default: // rename
			dest = reserved.reserveNumbered(dest)
		}
	}

	if err := e.transfer(src, dest); err != nil {
		e.recordFailure(logger, state, started, total, src, err)
		return
	}
	logger.Debug("file placed",
		logging.String(logging.FieldSource, src),
		logging.String(logging.FieldDest, dest))
	e.recordSuccess(state, started, total, src)
}

func (e *Engine) transfer(src, dest string) error {
	if e.opts.Operation == config.OperationMove {
		if err := fileutil.MoveFile(src, dest); err != nil {
			return fmt.Errorf("move: %w", err)
		}
		return nil
	}
	if err := fileutil.CopyFileExcl(src, dest); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}

// sameContent compares the digests of src and an existing dest.
func (e *Engine) sameContent(ctx context.Context, src, dest string) (bool, error) {
	srcDigest, err := e.index.DigestFor(ctx, src)
	if err != nil {
		return false, err
	}
	destDigest, err := e.index.DigestFor(ctx, dest)
	if err != nil {
		return false, err
	}
	return srcDigest == destDigest, nil
}

func (e *Engine) recordSuccess(state *runState, started time.Time, total int, path string) {
	state.mu.Lock()
	state.success++
	state.done++
	done := state.done
	state.mu.Unlock()
	e.report(done, total, started, path)
}

func (e *Engine) recordSkip(logger *slog.Logger, state *runState, started time.Time, total int, path, reason string) {
	logger.Debug("file skipped",
		logging.String(logging.FieldSource, path),
		logging.String("reason", reason))
	state.mu.Lock()
	state.skipped++
	state.done++
	done := state.done
	state.skips = append(state.skips, fmt.Sprintf("%s (%s)", path, reason))
	state.mu.Unlock()
	e.report(done, total, started, path)
}

func (e *Engine) recordFailure(logger *slog.Logger, state *runState, started time.Time, total int, path string, err error) {
	logger.Warn("file failed",
		logging.String(logging.FieldSource, path),
		logging.Error(err))
	state.mu.Lock()
	state.failed++
	state.done++
	done := state.done
	state.errors = append(state.errors, FileError{Path: path, Err: err.Error()})
	state.mu.Unlock()
	e.report(done, total, started, path)
}

func (e *Engine) report(done, total int, started time.Time, path string) {
	if !shouldReport(done, total) {
		return
	}
	elapsed := e.now().Sub(started)
	var rate float64
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(done) / secs
	}
	e.reporter.Progress(Event{
		Done:    done,
		Total:   total,
		Elapsed: elapsed,
		ETA:     estimateETA(elapsed, done, total),
		Rate:    rate,
		Path:    path,
	})
}
