package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xonecas/mimir/internal/config"
)

var setKeyCmd = &cobra.Command{
	Use:   "set-key [api-key]",
	Short: "Store the chat API key in the credentials file",
	Long: `Store the upstream chat API key in <datadir>/credentials.json (mode 0600).
With no argument the key is read from the first line of stdin.
MIMIR_CHAT_API_KEY and OPENAI_API_KEY still take precedence at runtime.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var key string
		if len(args) == 1 {
			key = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading key from stdin: %w", err)
			}
			key = line
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return errors.New("empty API key")
		}

		creds, err := config.LoadCredentials()
		if err != nil {
			return fmt.Errorf("error loading credentials: %w", err)
		}
		creds.SetAPIKey(config.ChatProvider, key)
		if err := config.SaveCredentials(creds); err != nil {
			return fmt.Errorf("error saving credentials: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "chat API key saved")
		return nil
	},
}
