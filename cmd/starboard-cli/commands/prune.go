package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Deletes every snapshot except the newest one.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		store := newStore(cfg)

		kept := store.PruneOld(cmd.Context())
		if kept == "" {
			slog.Info("no snapshots to prune")
			return
		}
		slog.Info("pruned old snapshots", "kept", kept)
	},
}
