package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Calendar operations",
	}
	cmd.AddCommand(newCalendarListCmd())
	return cmd
}

func newCalendarListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calendar events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client := newClient(cfg, newLogger())
			events := client.FetchCalendarEvents(cmd.Context(), cfg.API.UserID)

			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events.")
				return nil
			}
			printEvents(cmd.OutOrStdout(), events)
			return nil
		},
	}
	return cmd
}
