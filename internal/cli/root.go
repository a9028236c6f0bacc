package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "iammail",
		Short:        "iammail is a CLI client for the iam webmail backend",
		SilenceUsage: true,
	}

	cmd.AddCommand(newAuthCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newInboxCmd())
	cmd.AddCommand(newMailCmd())
	cmd.AddCommand(newSendCmd())
	cmd.AddCommand(newArchiveCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newDraftCmd())
	cmd.AddCommand(newContactsCmd())
	cmd.AddCommand(newCalendarCmd())
	cmd.AddCommand(newAccountsCmd())
	cmd.AddCommand(newZohoCmd())
	cmd.AddCommand(newAssistCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.SetErr(os.Stderr)
	cmd.SetOut(os.Stdout)

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
