package main

import (
	"database/sql"
	"flag"
	"net/http"
	"time"

	"starboard-backend/lib/configutil"
	"starboard-backend/lib/rankstore"
	"starboard-backend/lib/scrapers/aoc"
	"starboard-backend/lib/serviceutil"
	"starboard-backend/lib/usagestore"
	"starboard-backend/services/ranking"
	"starboard-backend/services/ranking/server"

	_ "modernc.org/sqlite"
)

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

type UsageConfig struct {
	// the path of the sqlite usage database, usage tracking is
	// disabled when unspecified
	Database string `json:"database"`
}

type HttpConfig struct {
	// defaults to 8000 when unspecified
	Port int `json:"port"`
	// an access token that must be provided in the `Authorization`
	// header in the format of `Authorization=Bearer <access token>`
	// if this value is not specified, authorization will be skipped
	AccessToken string `json:"access_token"`
}

type Config struct {
	Ranking  RankingConfig  `json:"ranking"`
	Snapshot SnapshotConfig `json:"snapshot"`
	Usage    UsageConfig    `json:"usage"`
	Http     HttpConfig     `json:"http"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	scraper, err := aoc.NewClient(aoc.ClientOptions{
		BaseUrl:          cfg.Ranking.Url,
		InstrumentOutput: restyOutput(*verbose),
	})
	if err != nil {
		serviceutil.Fatal("failed to init scraper", err)
	}
	store, err := rankstore.NewStore(rankstore.Options{
		Directory: cfg.Snapshot.Directory,
		Key:       cfg.Snapshot.Key,
	})
	if err != nil {
		serviceutil.Fatal("failed to init snapshot store", err)
	}

	var usage usagestore.Store
	if cfg.Usage.Database != "" {
		db, err := sql.Open("sqlite", cfg.Usage.Database)
		if err != nil {
			serviceutil.Fatal("failed to open usage database", err)
		}
		usage, err = usagestore.NewStore(db)
		if err != nil {
			serviceutil.Fatal("failed to init usage store", err)
		}
	}

	mux := http.NewServeMux()
	server.NewServer(server.Options{
		Service: ranking.NewService(ranking.Options{
			Scraper:  scraper,
			Store:    store,
			CacheTTL: time.Duration(cfg.Ranking.MaxCacheSeconds) * time.Second,
		}),
		Usage: usage,
	}).RegisterRoutes(mux)

	port := cfg.Http.Port
	if port == 0 {
		port = 8000
	}
	go serviceutil.StartHttpServer(ctx, port, serviceutil.RequireAccessToken(cfg.Http.AccessToken, mux))

	<-ctx.Done()
}
