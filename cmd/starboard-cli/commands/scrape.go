package commands

import (
	"log/slog"
	"time"

	"starboard-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

var scrapeOut *string

func init() {
	scrapeOut = scrapeCmd.Flags().String("out", "", "Override the snapshot directory from the config.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--out <dir>]",
	Short: "Scrapes the ranking page and saves a snapshot.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		if *scrapeOut != "" {
			cfg.Snapshot.Directory = *scrapeOut
		}
		scraper := newScraper(cfg)
		store := newStore(cfg)

		t1 := time.Now()
		ds, err := scraper.Scrape(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to scrape ranking page", err)
		}
		t2 := time.Now()

		path, err := store.Save(cmd.Context(), ds)
		if err != nil {
			serviceutil.Fatal("failed to save snapshot", err)
		}
		store.Prune(cmd.Context(), path)

		slog.Info("scraped ranking page",
			"rows", len(ds),
			"days", ds.DayCount(),
			"snapshot", path,
			"seconds", t2.Sub(t1).Seconds(),
		)
	},
}
