package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"iammail/internal/api"
	"iammail/internal/mailbox"
	"iammail/internal/model"
	"iammail/internal/queue"
)

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Draft operations",
	}
	cmd.AddCommand(newDraftSaveCmd())
	cmd.AddCommand(newDraftListCmd())
	cmd.AddCommand(newDraftComposeCmd())
	cmd.AddCommand(newDraftDiscardCmd())
	cmd.AddCommand(newDraftSendCmd())
	return cmd
}

func newDraftSaveCmd() *cobra.Command {
	var id string
	var to string
	var subject string
	var body string
	var bodyFile string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a draft (updates in place when --id is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := loadBody(body, bodyFile)
			if err != nil {
				return err
			}

			mb, err := openMailbox(newLogger())
			if err != nil {
				return err
			}

			if id != "" {
				if _, ok := mb.FindDraft(id); !ok {
					return fmt.Errorf("draft %s not found", id)
				}
			}

			saved := mb.SaveDraft(model.Draft{
				ID:      id,
				To:      splitList(to),
				Subject: subject,
				Body:    content,
			})

			fmt.Fprintf(cmd.OutOrStdout(), "Draft %s saved.\n", saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Draft ID to update")
	cmd.Flags().StringVar(&to, "to", "", "Comma-separated recipients")
	cmd.Flags().StringVar(&subject, "subject", "", "Message subject")
	cmd.Flags().StringVar(&body, "body", "", "Message body")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Path to file containing message body ('-' for stdin)")

	return cmd
}

func newDraftListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mb, err := openMailbox(newLogger())
			if err != nil {
				return err
			}

			drafts := mb.Drafts()
			fmt.Fprintf(cmd.OutOrStdout(), "Drafts (%d)\n", len(drafts))
			printDrafts(cmd.OutOrStdout(), drafts)
			return nil
		},
	}
	return cmd
}

// newDraftComposeCmd reads the body line by line from stdin and autosaves
// as it goes, the same debounced upsert the compose form uses.
func newDraftComposeCmd() *cobra.Command {
	var to string
	var subject string

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a draft interactively (autosaves while typing)",
		RunE: func(cmd *cobra.Command, args []string) error {
			mb, err := openMailbox(newLogger())
			if err != nil {
				return err
			}

			saver := mailbox.NewDraftAutosaver(mb, mailbox.DefaultAutosaveDelay)
			defer saver.Stop()

			fmt.Fprintln(cmd.OutOrStdout(), "Type the body; end with EOF (Ctrl-D).")

			var lines []string
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				lines = append(lines, scanner.Text())
				saver.Update(model.Draft{
					To:      splitList(to),
					Subject: subject,
					Body:    strings.Join(lines, "\n"),
				})
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			saver.Update(model.Draft{
				To:      splitList(to),
				Subject: subject,
				Body:    strings.Join(lines, "\n"),
			})
			draft, saved := saver.Flush()
			if !saved {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to save.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Draft %s saved.\n", draft.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Comma-separated recipients")
	cmd.Flags().StringVar(&subject, "subject", "", "Message subject")

	return cmd
}

func newDraftDiscardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discard <id>",
		Short: "Delete a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mb, err := openMailbox(newLogger())
			if err != nil {
				return err
			}

			if !mb.DeleteDraft(args[0]) {
				return fmt.Errorf("draft %s not found", args[0])
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Discarded.")
			return nil
		},
	}
	return cmd
}

func newDraftSendCmd() *cobra.Command {
	var now bool
	var undoWindow int

	cmd := &cobra.Command{
		Use:   "send <id>",
		Short: "Send a draft (deleted after a successful send)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger := newLogger()
			mb, err := openMailbox(logger)
			if err != nil {
				return err
			}

			draft, ok := mb.FindDraft(args[0])
			if !ok {
				return fmt.Errorf("draft %s not found", args[0])
			}

			q := queue.New(mb, newClient(cfg, logger), logger, cfg.Queue.LingerSeconds)

			countdown := cfg.Queue.UndoSeconds
			if undoWindow >= 0 {
				countdown = undoWindow
			}
			if now {
				countdown = 0
			}

			item, err := q.EnqueueSend(api.SendRequest{
				To:      draft.To,
				Subject: draft.Subject,
				Body:    draft.Body,
			}, countdown)
			if err != nil {
				return err
			}

			outcome, err := awaitAction(cmd, q, item, "Sending")
			if err != nil {
				return err
			}
			if outcome != "Undone." {
				mb.DeleteDraft(draft.ID)
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome)
			return nil
		},
	}

	cmd.Flags().BoolVar(&now, "now", false, "Skip the undo window and send immediately")
	cmd.Flags().IntVar(&undoWindow, "undo-window", -1, "Undo window in seconds (overrides config)")

	return cmd
}
