package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xonecas/mimir/internal/config"
	"github.com/xonecas/mimir/internal/sidebar"
	"github.com/xonecas/mimir/internal/store"
)

var resetStateCmd = &cobra.Command{
	Use:   "reset-state",
	Short: "Forget persisted sidebar sizes and visibility",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		path, err := cfg.StorePathOrDefault()
		if err != nil {
			return err
		}
		kv, err := store.Open(path)
		if err != nil {
			return err
		}
		defer closeQuietly(kv)

		sidebar.New(kv).ResetAll()
		fmt.Fprintln(cmd.OutOrStdout(), "sidebar state cleared")
		return nil
	},
}
