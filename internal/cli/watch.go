package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"iammail/internal/poll"
	"iammail/internal/queue"
)

// newWatchCmd runs the long-lived mode: the inbox poller and the action
// queue ticking together until interrupted.
func newWatchCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the backend and drive the action queue until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

			mb, err := openMailbox(logger)
			if err != nil {
				return err
			}
			client := newClient(cfg, logger)

			watcher := poll.New(client, mb,
				time.Duration(cfg.Poll.IntervalSeconds)*time.Second,
				cfg.Poll.FetchLimit, logger)
			q := queue.New(mb, client, logger, cfg.Queue.LingerSeconds)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("watching", "interval_seconds", cfg.Poll.IntervalSeconds)

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				watcher.Run(ctx)
			}()
			go func() {
				defer wg.Done()
				q.Run(ctx)
			}()
			wg.Wait()

			logger.Info("stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Debug logging")

	return cmd
}
