package main

import (
	"log/slog"
	"os"
	"time"

	bar "github.com/schollz/progressbar/v3"

	"picsort/internal/logging"
	"picsort/internal/organize"
)

const timeRound = 100 * time.Millisecond

// barReporter renders progress events on an interactive terminal.
type barReporter struct {
	bar *bar.ProgressBar
}

func newBarReporter(total int) *barReporter {
	return &barReporter{
		bar: bar.NewOptions(total,
			bar.OptionSetDescription("Sorting"),
			bar.OptionSetWriter(os.Stderr),
			bar.OptionShowCount(),
			bar.OptionShowElapsedTimeOnFinish(),
			bar.OptionClearOnFinish(),
		),
	}
}

func (r *barReporter) Progress(e organize.Event) {
	_ = r.bar.Set(e.Done)
}

func (r *barReporter) finish() {
	_ = r.bar.Finish()
}

// suspend clears the bar so a prompt can be shown on a clean line.
func (r *barReporter) suspend() {
	if r != nil {
		_ = r.bar.Clear()
	}
}

// logReporter writes progress events to the structured log when no terminal
// is attached.
type logReporter struct {
	logger *slog.Logger
}

func (r *logReporter) Progress(e organize.Event) {
	r.logger.Info("progress",
		logging.Int("done", e.Done),
		logging.Int("total", e.Total),
		logging.Duration("elapsed", e.Elapsed.Round(timeRound)),
		logging.Duration("eta", e.ETA.Round(timeRound)),
		logging.String("path", e.Path))
}
