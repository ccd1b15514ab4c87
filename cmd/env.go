package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/serendib-labs/mapleads/internal/config"
	"github.com/serendib-labs/mapleads/internal/extract"
	"github.com/serendib-labs/mapleads/internal/gazetteer"
	"github.com/serendib-labs/mapleads/internal/geo"
	"github.com/serendib-labs/mapleads/internal/resilience"
	"github.com/serendib-labs/mapleads/internal/search"
	"github.com/serendib-labs/mapleads/internal/store"
	"github.com/serendib-labs/mapleads/pkg/places"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "mapleads.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initResolver() (*gazetteer.Resolver, error) {
	gaz := gazetteer.Default()
	if cfg.Gazetteer.Path != "" {
		loaded, err := gazetteer.LoadFile(cfg.Gazetteer.Path)
		if err != nil {
			return nil, err
		}
		gaz = loaded
	}
	return gazetteer.NewResolver(gaz), nil
}

// initExtractor builds the production extraction chain: the Places backend
// behind a rate limiter, a circuit breaker, and transient-failure retries.
func initExtractor() (extract.Extractor, error) {
	if cfg.Places.Key == "" {
		return nil, eris.New("places API key is required (MAPLEADS_PLACES_KEY)")
	}

	var opts []places.Option
	if cfg.Places.BaseURL != "" {
		opts = append(opts, places.WithBaseURL(cfg.Places.BaseURL))
	}
	client := places.NewClient(cfg.Places.Key, opts...)

	var ext extract.Extractor = extract.NewPlacesExtractor(client)
	ext = extract.NewRateLimited(ext, cfg.RateLimit.RequestsPerMinute)
	ext = extract.NewBreakered(ext, resilience.NewCircuitBreaker(
		cfg.Circuit.MaxConsecutiveFailures,
		time.Duration(cfg.Circuit.ResetSecs)*time.Second,
	))
	ext = extract.NewRetrying(ext, resilience.RetryConfig{
		MaxAttempts:    cfg.Retry.MaxAttempts,
		InitialBackoff: time.Duration(cfg.Retry.InitialBackoffSecs * float64(time.Second)),
		MaxBackoff:     time.Duration(cfg.Retry.MaxBackoffSecs * float64(time.Second)),
	})
	return ext, nil
}

func engineConfig(c *config.Config) search.Config {
	b := c.Location.Bounds
	bounds := geo.NewCountryBounds(b.South, b.West, b.North, b.East)
	return search.Config{
		DefaultRadiusKM:        c.Location.DefaultRadiusKM,
		SubdivisionThresholdKM: c.Location.SubdivisionThresholdKM,
		DefaultMaxResults:      c.Search.MaxResults,
		Bounds:                 &bounds,
	}
}

func initEngine() (*search.Engine, error) {
	resolver, err := initResolver()
	if err != nil {
		return nil, err
	}
	plan, err := cfg.Phone.Plan()
	if err != nil {
		return nil, err
	}
	extractor, err := initExtractor()
	if err != nil {
		return nil, err
	}
	return search.NewEngine(engineConfig(cfg), resolver, plan, extractor), nil
}
