package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"starboard-backend/lib/configutil"
	"starboard-backend/lib/rankstore"
	"starboard-backend/lib/scrapers/aoc"
	"starboard-backend/lib/serviceutil"
	"starboard-backend/services/ranking"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "starboard-cli",
	Short: "starboard-cli scrapes and inspects the Advent of Code campus leaderboard.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type RankingConfig struct {
	// the full URL of the public ranking page
	Url string `json:"url"`
	// the maximum duration to cache a scraped dataset for
	MaxCacheSeconds int `json:"max_cache_seconds"`
}

type SnapshotConfig struct {
	Directory string `json:"directory"`
	// an optional base64 fernet key, snapshots on disk are encrypted
	// when it is set
	Key string `json:"key"`
}

type Config struct {
	Ranking  RankingConfig  `json:"ranking"`
	Snapshot SnapshotConfig `json:"snapshot"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}

func newScraper(cfg Config) *aoc.Client {
	scraper, err := aoc.NewClient(aoc.ClientOptions{BaseUrl: cfg.Ranking.Url})
	if err != nil {
		serviceutil.Fatal("failed to init scraper", err)
	}
	return scraper
}

func newStore(cfg Config) rankstore.Store {
	store, err := rankstore.NewStore(rankstore.Options{
		Directory: cfg.Snapshot.Directory,
		Key:       cfg.Snapshot.Key,
	})
	if err != nil {
		serviceutil.Fatal("failed to init snapshot store", err)
	}
	return store
}

func newService(cfg Config) ranking.Service {
	return ranking.NewService(ranking.Options{
		Scraper:  newScraper(cfg),
		Store:    newStore(cfg),
		CacheTTL: time.Duration(cfg.Ranking.MaxCacheSeconds) * time.Second,
	})
}

// loadDataset runs a full load and exits on the no-data outcome so
// commands can assume rows exist.
func loadDataset(ctx context.Context, cfg Config) aoc.Dataset {
	result := newService(cfg).Load(ctx)
	if result.Err != nil {
		serviceutil.Fatal("failed to load ranking data", result.Err)
	}
	if result.Stale {
		fmt.Fprintf(os.Stderr, "live page unreachable, using snapshot taken at %s\n", result.StaleSince.Format(time.DateTime))
	}
	return result.Dataset
}
