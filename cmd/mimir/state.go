package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xonecas/mimir/internal/config"
	"github.com/xonecas/mimir/internal/store"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print persisted sidebar state",
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

		keys := kv.Keys()
		if len(keys) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no sidebar state")
			return nil
		}
		for _, k := range keys {
			v, _, err := kv.Get(k)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, v)
		}
		return nil
	},
}
