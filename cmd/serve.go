package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/serendib-labs/mapleads/internal/model"
	"github.com/serendib-labs/mapleads/internal/search"
	"github.com/serendib-labs/mapleads/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP search API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		engine, err := initEngine()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newMux(engine, st),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})

		// Sweep expired cache entries while the server runs.
		g.Go(func() error {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					n, err := st.DeleteExpiredResults(gctx)
					if err != nil {
						zap.L().Warn("cache sweep failed", zap.Error(err))
						continue
					}
					if n > 0 {
						zap.L().Info("swept expired cached results", zap.Int("deleted", n))
					}
				}
			}
		})

		return g.Wait()
	},
}

// searchRequest is the POST /api/search body.
type searchRequest struct {
	Query      string  `json:"query"`
	Location   string  `json:"location,omitempty"`
	RadiusKM   float64 `json:"radius_km,omitempty"`
	MaxResults int     `json:"max_results,omitempty"`
}

// newMux builds the API routes. Searches run synchronously and are
// serialized: the extraction backend is a single session and must not
// receive overlapping calls.
func newMux(engine *search.Engine, st store.Store) *http.ServeMux {
	var searchMu sync.Mutex

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/search", func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Query == "" {
			http.Error(w, `{"error":"query is required"}`, http.StatusBadRequest)
			return
		}

		var locInput model.LocationInput
		if req.Location != "" {
			locInput = model.TextLocation(req.Location)
		}

		searchMu.Lock()
		result, err := engine.Search(r.Context(), search.Options{
			Query:      req.Query,
			Location:   locInput,
			RadiusKM:   req.RadiusKM,
			MaxResults: req.MaxResults,
		})
		searchMu.Unlock()
		if err != nil {
			zap.L().Error("search request failed",
				zap.String("query", req.Query),
				zap.Error(err),
			)
			http.Error(w, `{"error":"search failed"}`, http.StatusUnprocessableEntity)
			return
		}

		run, err := st.CreateRun(r.Context(), result.Parameters)
		if err == nil {
			err = st.CompleteRun(r.Context(), run.ID, result)
		}
		if err == nil {
			_, err = st.SaveBusinesses(r.Context(), run.ID, result.Businesses)
		}
		if err != nil {
			zap.L().Warn("failed to record run", zap.Error(err))
		}

		if result.Success {
			// result.Parameters are the effective dispatch parameters,
			// the same derivation the CLI keys its cache lookups on.
			key := store.CacheKey(result.Parameters)
			ttl := time.Duration(cfg.Search.CacheTTLHours) * time.Hour
			if err := st.SetCachedResult(r.Context(), key, result, ttl); err != nil {
				zap.L().Warn("result cache write failed", zap.Error(err))
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(result)
	})

	mux.HandleFunc("GET /api/runs", func(w http.ResponseWriter, r *http.Request) {
		runs, err := st.ListRuns(r.Context(), store.RunFilter{
			Status: model.RunStatus(r.URL.Query().Get("status")),
			Query:  r.URL.Query().Get("query"),
			Limit:  20,
		})
		if err != nil {
			http.Error(w, `{"error":"list runs failed"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(runs)
	})

	return mux
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
