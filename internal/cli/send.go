package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"iammail/internal/api"
	"iammail/internal/queue"
)

func newSendCmd() *cobra.Command {
	var to string
	var subject string
	var body string
	var bodyFile string
	var now bool
	var undoWindow int

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an email (with an undo window before it commits)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			content, err := loadBody(body, bodyFile)
			if err != nil {
				return err
			}

			logger := newLogger()
			mb, err := openMailbox(logger)
			if err != nil {
				return err
			}
			client := newClient(cfg, logger)
			q := queue.New(mb, client, logger, cfg.Queue.LingerSeconds)

			countdown := cfg.Queue.UndoSeconds
			if undoWindow >= 0 {
				countdown = undoWindow
			}
			if now {
				countdown = 0
			}

			item, err := q.EnqueueSend(api.SendRequest{
				To:      splitList(to),
				Subject: subject,
				Body:    content,
			}, countdown)
			if err != nil {
				return err
			}

			outcome, err := awaitAction(cmd, q, item, "Sending")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Comma-separated recipients")
	cmd.Flags().StringVar(&subject, "subject", "", "Message subject")
	cmd.Flags().StringVar(&body, "body", "", "Message body")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Path to file containing message body ('-' for stdin)")
	cmd.Flags().BoolVar(&now, "now", false, "Skip the undo window and send immediately")
	cmd.Flags().IntVar(&undoWindow, "undo-window", -1, "Undo window in seconds (overrides config)")

	return cmd
}
