package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"picsort/internal/config"
	"picsort/internal/hashindex"
	"picsort/internal/logging"
	"picsort/internal/metadata"
	"picsort/internal/organize"
	"picsort/internal/plan"
	"picsort/internal/scan"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var flags sortingFlags
	var yes bool

	cmd := &cobra.Command{
		Use:   "sort <source>",
		Short: "Sort a source directory into the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			opts := cfg.RunOptions()

			source, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve source path: %w", err)
			}

			out := cmd.OutOrStdout()
			interactive := stdinIsTerminal() && stdoutIsTerminal()

			if opts.Policy == config.PolicyAsk && !interactive {
				return errors.New("the ask policy needs an interactive terminal; use --policy rename or --policy skip")
			}

			paths, err := scan.Images(source, logger)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintf(out, "No supported image files found under %s\n", source)
				return nil
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			resolver := metadata.NewResolver(logger)
			defer resolver.Close()
			records := resolver.ResolveAll(runCtx, paths, opts.MetadataWorkers())
			if err := runCtx.Err(); err != nil {
				return err
			}

			p, conflicts := plan.Build(records, opts)
			fmt.Fprintf(out, "%s files -> %s (%s, %s policy)\n",
				plan.HumanCount(p.Total()), opts.DestRoot, opts.Operation, opts.Policy)
			if len(conflicts) > 0 {
				fmt.Fprintf(out, "%d files already have a same-named file at their destination\n", len(conflicts))
			}

			if !yes {
				if !interactive {
					return errors.New("refusing to run without a terminal; pass --yes to proceed")
				}
				if !confirmProceed(cmd.InOrStdin(), out, "Proceed?") {
					fmt.Fprintln(out, "Aborted")
					return nil
				}
			}

			var index *hashindex.Store
			if opts.HashSkip {
				index, err = hashindex.Open(cfg.Paths.IndexPath)
				if err != nil {
					logger.Warn("digest index unavailable, hashing directly", logging.Error(err))
					index = nil
				} else {
					defer func() { _ = index.Close() }()
				}
			}

			var reporter organize.Reporter
			var bar *barReporter
			if interactive {
				bar = newBarReporter(p.Total())
				reporter = bar
			} else {
				reporter = &logReporter{logger: logger}
			}

			engine := organize.NewEngine(opts, logger,
				organize.WithIndex(index),
				organize.WithReporter(reporter),
				organize.WithAsk(terminalAsk(cmd.InOrStdin(), out, bar)))

			outcome, runErr := engine.Run(runCtx, p)
			if bar != nil {
				bar.finish()
			}
			printOutcome(out, outcome)

			if errors.Is(runErr, organize.ErrCancelled) {
				if errors.Is(runCtx.Err(), context.Canceled) {
					return context.Canceled
				}
				return runErr
			}
			if runErr != nil {
				return runErr
			}
			if outcome.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", outcome.Failed, outcome.Total)
			}
			return nil
		},
	}

	flags.register(cmd)
	flags.registerExecution(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Run without asking for confirmation")
	return cmd
}

func printOutcome(out io.Writer, outcome organize.Outcome) {
	fmt.Fprintf(out, "Done in %s: %d placed, %d skipped, %d failed\n",
		outcome.Elapsed.Round(timeRound), outcome.Success, outcome.Skipped, outcome.Failed)
	for _, fe := range outcome.Errors {
		fmt.Fprintf(out, "  failed: %s: %s\n", fe.Path, fe.Err)
	}
	for _, skipped := range outcome.SkippedPaths {
		fmt.Fprintf(out, "  skipped: %s\n", skipped)
	}
}

// runSource is the non-interactive sort used by the watch command. The ask
// policy degrades to rename since nobody is at the terminal.
func runSource(ctx context.Context, cfg *config.Config, logger *slog.Logger, source string) (organize.Outcome, error) {
	opts := cfg.RunOptions()
	if opts.Policy == config.PolicyAsk {
		logger.Warn("ask policy is interactive, using rename for the watched run")
		opts.Policy = config.PolicyRename
	}

	paths, err := scan.Images(source, logger)
	if err != nil {
		return organize.Outcome{}, err
	}
	if len(paths) == 0 {
		logger.Info("no supported image files found", logging.String("source", source))
		return organize.Outcome{}, nil
	}

	resolver := metadata.NewResolver(logger)
	defer resolver.Close()
	records := resolver.ResolveAll(ctx, paths, opts.MetadataWorkers())
	if err := ctx.Err(); err != nil {
		return organize.Outcome{}, err
	}

	p, _ := plan.Build(records, opts)

	var index *hashindex.Store
	if opts.HashSkip {
		if index, err = hashindex.Open(cfg.Paths.IndexPath); err != nil {
			logger.Warn("digest index unavailable, hashing directly", logging.Error(err))
			index = nil
		} else {
			defer func() { _ = index.Close() }()
		}
	}

	engine := organize.NewEngine(opts, logger,
		organize.WithIndex(index),
		organize.WithReporter(&logReporter{logger: logger}))
	return engine.Run(ctx, p)
}
