package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"payrun/internal/telegram"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "test-notify <chat-id>",
		Short: "Send a test notification to one chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chat id %q: %w", args[0], err)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			client, err := telegram.New(cfg.Telegram.BotToken, telegram.WithBaseURL(cfg.Telegram.BaseURL))
			if err != nil {
				return err
			}
			if err := client.Send(cmd.Context(), chatID, message); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "payrun test notification", "Message text to send")
	return cmd
}
