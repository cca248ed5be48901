package ranking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"starboard-backend/lib/rankstore"
	"starboard-backend/lib/scrapers/aoc"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/ranking")

// ErrNoData marks a load where both the live page and the snapshot
// fallback came up empty.
var ErrNoData = errors.New("no ranking data available")

const DefaultCacheTTL = time.Minute * 5

const cacheKey = "dataset"

type Options struct {
	Scraper *aoc.Client
	Store   rankstore.Store
	// Defaults to DefaultCacheTTL when zero.
	CacheTTL time.Duration
}

type Service struct {
	scraper *aoc.Client
	store   rankstore.Store
	cache   *expirable.LRU[string, Result]
}

func NewService(opts Options) Service {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return Service{
		scraper: opts.Scraper,
		store:   opts.Store,
		// a single fixed key lives in here, the LRU only provides
		// the expiry behavior
		cache: expirable.NewLRU[string, Result](1, nil, ttl),
	}
}

// Result is the outcome of a load. Failures surface through Stale and
// Err rather than an error return, every Result is renderable.
type Result struct {
	Dataset aoc.Dataset
	// Stale is set when the live page could not be fetched and the
	// dataset came from the newest snapshot instead.
	Stale      bool
	StaleSince time.Time
	// Err is non-nil only when there is no data to show at all.
	Err error
}

// Load returns the current dataset, preferring the cache, then the
// live page, then the newest snapshot. It never returns an error:
// outcomes degrade through Result.Stale and Result.Err.
func (s Service) Load(ctx context.Context) Result {
	ctx, span := tracer.Start(ctx, "Load")
	defer span.End()

	if cached, ok := s.cache.Get(cacheKey); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	result := s.refresh(ctx)
	s.cache.Add(cacheKey, result)
	return result
}

func (s Service) refresh(ctx context.Context) Result {
	dataset := s.scraper.ScrapeOrEmpty(ctx)
	if len(dataset) > 0 {
		path, err := s.store.Save(ctx, dataset)
		if err != nil {
			// a failed save never fails the load
			slog.WarnContext(ctx, "failed to save snapshot", "err", err)
		} else {
			s.store.Prune(ctx, path)
		}
		return Result{Dataset: dataset}
	}

	fallback, takenAt, ok := s.store.Latest(ctx)
	if ok {
		slog.WarnContext(
			ctx, "could not fetch new data, showing latest saved data",
			"taken_at", takenAt,
		)
		return Result{Dataset: fallback, Stale: true, StaleSince: takenAt}
	}

	slog.ErrorContext(ctx, "could not fetch data and no snapshot exists")
	return Result{Dataset: aoc.Dataset{}, Err: ErrNoData}
}
