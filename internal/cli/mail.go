package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"iammail/internal/eml"
	"iammail/internal/model"
)

func newMailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Mail operations",
	}
	cmd.AddCommand(newMailListCmd())
	cmd.AddCommand(newMailReadCmd())
	cmd.AddCommand(newMailToggleReadCmd())
	cmd.AddCommand(newMailMoveCmd())
	cmd.AddCommand(newMailExportCmd())
	cmd.AddCommand(newMailImportCmd())
	return cmd
}

func folderFlag(cmd *cobra.Command, dest *string) {
	cmd.Flags().StringVar(dest, "folder", string(model.FolderInbox), "Folder name (inbox, sent, archive, trash)")
}

func newMailListCmd() *cobra.Command {
	var folderName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages in a folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := model.ParseFolder(folderName)
			if err != nil {
				return err
			}
			if folder == model.FolderDrafts {
				return fmt.Errorf("drafts are not a message folder; use 'iammail draft list'")
			}

			mb, err := openMailbox(newLogger())
			if err != nil {
				return err
			}

			messages := mb.Messages(folder)
			fmt.Fprintf(cmd.OutOrStdout(), "Folder: %s (%d messages)\n", folder, len(messages))
			printMessages(cmd.OutOrStdout(), messages)
			return nil
		},
	}

	folderFlag(cmd, &folderName)
	return cmd
}

func newMailReadCmd() *cobra.Command {
	var folderName string
	var keepUnread bool

	cmd := &cobra.Command{
		Use:   "read <id>",
		Short: "Read a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := model.ParseFolder(folderName)
			if err != nil {
				return err
			}

			mb, err := openMailbox(newLogger())
			if err != nil {
				return err
			}

			msg, ok := mb.Find(folder, args[0])
			if !ok {
				return fmt.Errorf("message %s not found in %s", args[0], folder)
			}

			mb.OpenMessage(msg.ID)
			if !keepUnread {
				mb.SetRead(folder, msg.ID, true)
			}

			printMessageDetail(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	folderFlag(cmd, &folderName)
	cmd.Flags().BoolVar(&keepUnread, "keep-unread", false, "Do not mark the message as read")
	return cmd
}

func newMailToggleReadCmd() *cobra.Command {
	var folderName string

	cmd := &cobra.Command{
		Use:   "toggle-read <id>",
		Short: "Flip a message's read flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := model.ParseFolder(folderName)
			if err != nil {
				return err
			}

			mb, err := openMailbox(newLogger())
			if err != nil {
				return err
			}

			if !mb.ToggleRead(folder, args[0]) {
				return fmt.Errorf("message %s not found in %s", args[0], folder)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Toggled.")
			return nil
		},
	}

	folderFlag(cmd, &folderName)
	return cmd
}

func newMailMoveCmd() *cobra.Command {
	var fromName string

	cmd := &cobra.Command{
		Use:   "move <id> <folder>",
		Short: "Move a message to another folder immediately",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := model.ParseFolder(fromName)
			if err != nil {
				return err
			}
			target, err := model.ParseFolder(args[1])
			if err != nil {
				return err
			}

			mb, err := openMailbox(newLogger())
			if err != nil {
				return err
			}

			if !mb.Move(args[0], target, source) {
				return fmt.Errorf("message %s not found in %s", args[0], source)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Moved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&fromName, "from", string(model.FolderInbox), "Source folder")
	return cmd
}

func newMailExportCmd() *cobra.Command {
	var folderName string
	var out string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a message as an RFC 822 (.eml) file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := model.ParseFolder(folderName)
			if err != nil {
				return err
			}
			if out == "" {
				out = args[0] + ".eml"
			}

			mb, err := openMailbox(newLogger())
			if err != nil {
				return err
			}

			msg, ok := mb.Find(folder, args[0])
			if !ok {
				return fmt.Errorf("message %s not found in %s", args[0], folder)
			}

			raw, err := eml.Build(msg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, raw, 0o600); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s.\n", out)
			return nil
		},
	}

	folderFlag(cmd, &folderName)
	cmd.Flags().StringVar(&out, "out", "", "Output path (default <id>.eml)")
	return cmd
}

func newMailImportCmd() *cobra.Command {
	var folderName string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import an RFC 822 (.eml) file into a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := model.ParseFolder(folderName)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			msg, err := eml.Parse(raw)
			if err != nil {
				return err
			}
			msg.ID = uuid.NewString()
			msg.IsRead = true

			mb, err := openMailbox(newLogger())
			if err != nil {
				return err
			}
			mb.RestoreAt(msg, folder, 0)

			fmt.Fprintf(cmd.OutOrStdout(), "Imported as %s into %s.\n", msg.ID, folder)
			return nil
		},
	}

	folderFlag(cmd, &folderName)
	return cmd
}
