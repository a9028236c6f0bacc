package cli

import (
	"fmt"

	"iammail/internal/model"

	"github.com/spf13/cobra"
)

func newInboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Inbox operations",
	}
	cmd.AddCommand(newInboxListCmd())
	return cmd
}

func newInboxListCmd() *cobra.Command {
	var sync bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inbox messages",
		Args:  cobra.NoArgs,
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

			if sync {
				client := newClient(cfg, logger)
				connected := client.CheckEmailAccounts(cmd.Context())
				mb.SetConnected(connected)
				if connected {
					mb.ReplaceFolder(model.FolderInbox, client.FetchEmails(cmd.Context(), limit))
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), "Backend offline; showing cached inbox.")
				}
			}

			messages := mb.Messages(model.FolderInbox)
			fmt.Fprintf(cmd.OutOrStdout(), "Inbox (%d messages)\n", len(messages))
			printMessages(cmd.OutOrStdout(), messages)
			return nil
		},
	}

	cmd.Flags().BoolVar(&sync, "sync", false, "Fetch from the backend before listing")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum messages to fetch with --sync")

	return cmd
}
