package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Mail account operations",
	}
	cmd.AddCommand(newAccountsListCmd())
	cmd.AddCommand(newAccountsUseCmd())
	return cmd
}

func newAccountsListCmd() *cobra.Command {
	var sync bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured mail accounts",
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
				accounts, err := client.FetchAccounts(cmd.Context(), cfg.API.UserID)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "Backend offline; showing cached accounts.")
				} else {
					mb.ReplaceAccounts(accounts)
				}
			}

			accounts := mb.Accounts()
			if len(accounts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No accounts.")
				return nil
			}
			printAccounts(cmd.OutOrStdout(), accounts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&sync, "sync", false, "Fetch from the backend before listing")
	return cmd
}

func newAccountsUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <id>",
		Short: "Make an account the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mb, err := openMailbox(newLogger())
			if err != nil {
				return err
			}

			if !mb.SetActiveAccount(args[0]) {
				return fmt.Errorf("account %s not found", args[0])
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Active account switched.")
			return nil
		},
	}
	return cmd
}
