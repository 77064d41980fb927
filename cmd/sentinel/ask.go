package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAskCommand(root *rootOptions) *cobra.Command {
	g := &guardOptions{}
	cmd := &cobra.Command{
		Use:   "ask [PROMPT]",
		Short: "Send PROMPT (or stdin) to the model with secrets swapped for placeholders",
		Long: "ask sanitizes the prompt, sends only the sanitized text to the model, " +
			"and restores the original secrets in the reply before printing it.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := inputText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(prompt) == "" {
				return fmt.Errorf("empty prompt")
			}
			client, err := root.openAIClient()
			if err != nil {
				return err
			}
			svc, err := root.buildGuard(g, client)
			if err != nil {
				return err
			}
			reply, res, err := svc.Complete(cmd.Context(), prompt)
			if err != nil {
				return err
			}
			root.log.Debug("completion done",
				zap.Int("secrets", len(res.Secrets)),
				zap.String("session", svc.SessionID))
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
	g.bind(cmd.Flags())
	return cmd
}
