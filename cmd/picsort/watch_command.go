package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"picsort/internal/logging"
	"picsort/internal/organize"
	"picsort/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Sort the configured mount point whenever the card reader appears",
		Long: "Watch listens for udev events on the configured block device and runs " +
			"a sort of the configured mount point each time a card is inserted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if cfg.Watch.Device == "" {
				return errors.New("watch.device is not configured; set it in the config file")
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			handler := func(handlerCtx context.Context, device string) error {
				logger.Info("card inserted, sorting",
					logging.String("device", device),
					logging.String("source", cfg.Watch.MountPoint))
				outcome, err := runSource(handlerCtx, cfg, logger, cfg.Watch.MountPoint)
				if err != nil && !errors.Is(err, organize.ErrCancelled) {
					return err
				}
				logger.Info("watched run finished",
					logging.Int("success", outcome.Success),
					logging.Int("skipped", outcome.Skipped),
					logging.Int("failed", outcome.Failed))
				return nil
			}

			settle := time.Duration(cfg.Watch.SettleSeconds) * time.Second
			monitor := watch.NewMonitor(cfg.Watch.Device, settle, logger, handler)
			if err := monitor.Start(runCtx); err != nil {
				return err
			}
			defer monitor.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s; press Ctrl-C to stop\n", cfg.Watch.Device)
			<-runCtx.Done()
			return nil
		},
	}
}
