package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xonecas/mimir/internal/config"
	"github.com/xonecas/mimir/internal/logging"
	"github.com/xonecas/mimir/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run only the chat proxy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		closer, err := logging.Setup(logging.Options{Console: true, Debug: debugMode})
		if err != nil {
			return err
		}
		defer closeQuietly(closer)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		chat := newChatHandler(cfg)
		defer chat.Close()
		return server.New(cfg.Server.Addr, chat).ListenAndServe(ctx)
	},
}
