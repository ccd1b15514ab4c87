package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/serendib-labs/mapleads/internal/model"
	"github.com/serendib-labs/mapleads/internal/output"
	"github.com/serendib-labs/mapleads/internal/search"
	"github.com/serendib-labs/mapleads/internal/store"
)

var (
	searchLocation   string
	searchRadius     float64
	searchMaxResults int
	searchFormat     string
	searchOutputDir  string
	searchNoCache    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for business listings",
	Long:  "Runs one listing search, subdividing the area into cells when the radius exceeds the configured threshold, and writes the deduplicated results to disk.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := args[0]

		if searchRadius > cfg.Location.MaxRadiusKM {
			return eris.Errorf("search: radius %.1f exceeds maximum %.1f km", searchRadius, cfg.Location.MaxRadiusKM)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		resolver, err := initResolver()
		if err != nil {
			return err
		}
		plan, err := cfg.Phone.Plan()
		if err != nil {
			return err
		}

		var locInput model.LocationInput
		if searchLocation != "" {
			locInput = model.TextLocation(searchLocation)
		}

		opts := search.Options{
			Query:      query,
			Location:   locInput,
			RadiusKM:   searchRadius,
			MaxResults: searchMaxResults,
		}

		// The cache key derives from the request as the engine dispatches
		// it, so unresolved place text folded into the query keys
		// differently from the bare query.
		keyParams := search.EffectiveParameters(engineConfig(cfg), resolver, opts)
		key := store.CacheKey(keyParams)

		result, cached, err := cachedOrSearch(cmd, st, key, opts)
		if err != nil {
			return err
		}

		if !cached {
			if err := recordRun(ctx, st, keyParams, result); err != nil {
				zap.L().Warn("failed to record run", zap.Error(err))
			}
		}

		format, err := output.ParseFormat(searchFormat)
		if err != nil {
			return err
		}
		dir := searchOutputDir
		if dir == "" {
			dir = cfg.Output.Dir
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "search: create output dir %s", dir)
		}

		path := filepath.Join(dir, output.Filename(query, result.Parameters.Location, format, time.Now()))
		if err := output.NewExporter(plan).Write(result, path, format); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Found %d businesses in %.1fs", result.TotalFound, result.SearchTime)
		if cached {
			fmt.Fprint(os.Stdout, " (cached)")
		}
		if !result.Success {
			fmt.Fprintf(os.Stdout, " (partial: %s)", result.Error)
		}
		fmt.Fprintf(os.Stdout, "\nResults written to %s\n", path)
		return nil
	},
}

// cachedOrSearch answers from the result cache when possible, otherwise
// runs the engine and caches a successful outcome.
func cachedOrSearch(cmd *cobra.Command, st store.Store, key string, opts search.Options) (*model.SearchResult, bool, error) {
	ctx := cmd.Context()

	if !searchNoCache {
		hit, err := st.GetCachedResult(ctx, key)
		if err != nil {
			zap.L().Warn("result cache lookup failed", zap.Error(err))
		} else if hit != nil {
			zap.L().Info("serving cached result", zap.String("query", opts.Query))
			return hit, true, nil
		}
	}

	engine, err := initEngine()
	if err != nil {
		return nil, false, err
	}

	result, err := engine.Search(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if result.Success && !searchNoCache {
		ttl := time.Duration(cfg.Search.CacheTTLHours) * time.Hour
		if err := st.SetCachedResult(ctx, key, result, ttl); err != nil {
			zap.L().Warn("result cache write failed", zap.Error(err))
		}
	}
	return result, false, nil
}

// recordRun persists the run and its businesses.
func recordRun(ctx context.Context, st store.Store, params model.SearchParameters, result *model.SearchResult) error {
	run, err := st.CreateRun(ctx, params)
	if err != nil {
		return err
	}
	if err := st.CompleteRun(ctx, run.ID, result); err != nil {
		return err
	}
	if _, err := st.SaveBusinesses(ctx, run.ID, result.Businesses); err != nil {
		return err
	}
	return nil
}

func init() {
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "place name or district to search around")
	searchCmd.Flags().Float64VarP(&searchRadius, "radius", "r", 0, "search radius in km (default from config)")
	searchCmd.Flags().IntVarP(&searchMaxResults, "max-results", "n", 0, "result cap (default from config)")
	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", "csv", "output format: csv, json, or xlsx")
	searchCmd.Flags().StringVarP(&searchOutputDir, "output-dir", "o", "", "output directory (default from config)")
	searchCmd.Flags().BoolVar(&searchNoCache, "no-cache", false, "bypass the result cache")
	rootCmd.AddCommand(searchCmd)
}
