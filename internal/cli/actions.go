package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"iammail/internal/model"
	"iammail/internal/queue"
)

func newArchiveCmd() *cobra.Command {
	return newQueuedMoveCmd("archive", "Archive a message (undoable)", queue.ActionArchive)
}

func newDeleteCmd() *cobra.Command {
	return newQueuedMoveCmd("delete", "Move a message to trash (undoable)", queue.ActionDelete)
}

func newQueuedMoveCmd(use, short string, action queue.ActionType) *cobra.Command {
	var folderName string
	var now bool
	var undoWindow int

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			source, err := model.ParseFolder(folderName)
			if err != nil {
				return err
			}

			logger := newLogger()
			mb, err := openMailbox(logger)
			if err != nil {
				return err
			}
			q := queue.New(mb, newClient(cfg, logger), logger, cfg.Queue.LingerSeconds)

			countdown := cfg.Queue.UndoSeconds
			if undoWindow >= 0 {
				countdown = undoWindow
			}
			if now {
				countdown = 0
			}

			item, err := q.EnqueueMove(action, args[0], source, countdown)
			if err != nil {
				return err
			}

			verb := "Archiving"
			if action == queue.ActionDelete {
				verb = "Deleting"
			}
			outcome, err := awaitAction(cmd, q, item, verb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome)
			return nil
		},
	}

	folderFlag(cmd, &folderName)
	cmd.Flags().BoolVar(&now, "now", false, "Skip the undo window and commit immediately")
	cmd.Flags().IntVar(&undoWindow, "undo-window", -1, "Undo window in seconds (overrides config)")

	return cmd
}

// awaitAction drives the queue for a single item: it ticks once per second
// through the countdown and dispatch, and treats Ctrl-C during the pending
// window as undo. It returns the user-facing outcome line.
func awaitAction(cmd *cobra.Command, q *queue.Queue, item *queue.Item, verb string) (string, error) {
	if item.Countdown > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s in %ds (Ctrl-C to undo)\n", verb, item.Countdown)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	interrupted := ctx.Done()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-interrupted:
			if q.Undo(item.ID) {
				return "Undone.", nil
			}
			// Past the undo window; keep waiting for the outcome.
			interrupted = nil
		case <-ticker.C:
			q.Tick(context.Background())
		}

		current, found := findItem(q, item.ID)
		if !found {
			// Completed and already reaped.
			return verb + " committed.", nil
		}
		switch current.Status {
		case queue.StatusCompleted:
			return verb + " committed.", nil
		case queue.StatusFailed:
			return "", fmt.Errorf("%s", current.Message)
		}
	}
}

func findItem(q *queue.Queue, id int64) (queue.Item, bool) {
	for _, it := range q.Items() {
		if it.ID == id {
			return it, true
		}
	}
	return queue.Item{}, false
}
