package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Contact operations",
	}
	cmd.AddCommand(newContactsListCmd())
	return cmd
}

func newContactsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client := newClient(cfg, newLogger())
			contacts := client.FetchContacts(cmd.Context(), cfg.API.UserID)

			if len(contacts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No contacts.")
				return nil
			}
			printContacts(cmd.OutOrStdout(), contacts)
			return nil
		},
	}
	return cmd
}
