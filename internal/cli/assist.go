package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"iammail/internal/ai"
	"iammail/internal/config"
	"iammail/internal/model"
)

func newAssistCmd() *cobra.Command {
	var noGenerate bool

	cmd := &cobra.Command{
		Use:   "assist <request...>",
		Short: "Turn a natural-language request into a draft",
		Long: `Recognizes requests like "write an email to sam@example.com about the
offsite" and saves a prefilled draft. When an AI endpoint is configured the
draft body is generated; otherwise the draft carries the topic only.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			intent, ok := ai.ParseComposeIntent(input)
			if !ok {
				return fmt.Errorf("could not recognize a compose request in %q", input)
			}

			logger := newLogger()
			mb, err := openMailbox(logger)
			if err != nil {
				return err
			}

			to := intent.To
			if to != "" && !strings.Contains(to, "@") {
				if addr := resolveContact(cmd, cfg, to); addr != "" {
					to = addr
				}
			}

			body := ""
			if !noGenerate && config.ValidateAI(cfg) == nil {
				prompt := fmt.Sprintf("Write a short, professional email about %s. Reply with the body only.", intent.Topic)
				generated, err := ai.New(cfg).Generate(cmd.Context(), prompt)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Generation failed (%v); saving draft without a body.\n", err)
				} else {
					body = generated
				}
			}

			draft := model.Draft{Subject: intent.Subject, Body: body}
			if to != "" {
				draft.To = []string{to}
			}
			saved := mb.SaveDraft(draft)

			fmt.Fprintf(cmd.OutOrStdout(), "Draft %s saved", saved.ID)
			if to != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " for %s", to)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ".")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noGenerate, "no-generate", false, "Skip body generation even when AI is configured")

	return cmd
}

// resolveContact matches a bare name against the contact list.
func resolveContact(cmd *cobra.Command, cfg config.Config, name string) string {
	client := newClient(cfg, newLogger())
	needle := strings.ToLower(name)
	for _, c := range client.FetchContacts(cmd.Context(), cfg.API.UserID) {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return c.Email
		}
	}
	return ""
}
