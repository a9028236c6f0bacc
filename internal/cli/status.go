package cli

import (
	"fmt"
	"strings"

	"iammail/internal/model"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show backend connectivity and folder counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger := newLogger()
			client := newClient(cfg, logger)

			mb, err := openMailbox(logger)
			if err != nil {
				return err
			}

			connected := client.CheckEmailAccounts(cmd.Context())
			mb.SetConnected(connected)

			if connected {
				fmt.Fprintln(cmd.OutOrStdout(), "Backend: connected")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Backend: offline (showing cached state)")
			}

			zoho := client.FetchZohoStatus(cmd.Context())
			if zoho.Configured {
				fmt.Fprintf(cmd.OutOrStdout(), "Zoho: configured (org %s", zoho.OrganizationID)
				if len(zoho.Features) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), ", features: %s", strings.Join(zoho.Features, ", "))
				}
				fmt.Fprintln(cmd.OutOrStdout(), ")")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Zoho: not configured")
			}

			for _, folder := range model.MessageFolders() {
				msgs := mb.Messages(folder)
				unread := 0
				for _, m := range msgs {
					if !m.IsRead {
						unread++
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d messages, %d unread\n", folder, len(msgs), unread)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "drafts: %d\n", len(mb.Drafts()))
			return nil
		},
	}
	return cmd
}
