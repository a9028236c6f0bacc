package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"iammail/internal/api"
	"iammail/internal/config"
	"iammail/internal/secrets"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication against the webmail backend",
	}
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthSignupCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token in the keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, email, password, false)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")

	return cmd
}

func newAuthSignupCmd() *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, email, password, true)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")

	return cmd
}

func runAuth(cmd *cobra.Command, email, password string, signup bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if email == "" {
		email = cfg.Auth.Email
	}
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("--email is required")
	}

	if password == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("--password is required when not running on a TTY")
		}
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		password = string(raw)
	}

	client := newClient(cfg, newLogger())
	var res api.AuthResult
	if signup {
		res = client.Signup(cmd.Context(), email, password)
	} else {
		res = client.Login(cmd.Context(), email, password)
	}

	if err := secrets.SetToken(res.Email, res.Token); err != nil {
		return err
	}

	cfg.Auth.Email = res.Email
	if _, err := config.Save(cfg); err != nil {
		return err
	}

	if res.Offline {
		fmt.Fprintln(cmd.OutOrStdout(), "Backend unreachable; logged in with an offline session token.")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", res.Email)
	}
	return nil
}

func newAuthLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.ValidateAuth(cfg); err != nil {
				return err
			}

			if err := secrets.DeleteToken(cfg.Auth.Email); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
	return cmd
}
