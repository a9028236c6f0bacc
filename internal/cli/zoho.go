package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"iammail/internal/api"
)

func newZohoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zoho",
		Short: "Hosted mailbox (Zoho) administration",
	}
	cmd.AddCommand(newZohoStatusCmd())
	cmd.AddCommand(newZohoProvisionCmd())
	cmd.AddCommand(newZohoUsersCmd())
	cmd.AddCommand(newZohoResetPasswordCmd())
	return cmd
}

// requireZoho gates the admin subcommands on the feature-flag probe.
func requireZoho(cmd *cobra.Command, client *api.Client) (api.ZohoStatus, error) {
	status := client.FetchZohoStatus(cmd.Context())
	if !status.Configured {
		return status, fmt.Errorf("zoho integration is not configured on the backend")
	}
	return status, nil
}

func newZohoStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show Zoho integration status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			status := newClient(cfg, newLogger()).FetchZohoStatus(cmd.Context())
			if !status.Configured {
				fmt.Fprintln(cmd.OutOrStdout(), "Not configured.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configured (org %s)\n", status.OrganizationID)
			if len(status.Features) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Features: %s\n", strings.Join(status.Features, ", "))
			}
			return nil
		},
	}
	return cmd
}

func newZohoProvisionCmd() *cobra.Command {
	var email string
	var displayName string
	var password string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision a hosted mailbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if password == "" {
				return fmt.Errorf("--password is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client := newClient(cfg, newLogger())
			if _, err := requireZoho(cmd, client); err != nil {
				return err
			}

			res, err := client.ProvisionMailbox(cmd.Context(), api.ProvisionRequest{
				Email:       email,
				DisplayName: displayName,
				Password:    password,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Provisioned %s (%s).\n", res.Email, res.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Mailbox address to provision")
	cmd.Flags().StringVar(&displayName, "name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")

	return cmd
}

func newZohoUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List hosted mailbox users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client := newClient(cfg, newLogger())
			if _, err := requireZoho(cmd, client); err != nil {
				return err
			}

			users, err := client.FetchZohoUsers(cmd.Context())
			if err != nil {
				return err
			}

			printZohoUsers(cmd.OutOrStdout(), users)
			return nil
		},
	}
	return cmd
}

func newZohoResetPasswordCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "reset-password <user-id>",
		Short: "Reset a hosted mailbox user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return fmt.Errorf("--password is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client := newClient(cfg, newLogger())
			if _, err := requireZoho(cmd, client); err != nil {
				return err
			}

			if err := client.ResetZohoPassword(cmd.Context(), args[0], password); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Password reset.")
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "New password")

	return cmd
}
