// Package store persists search runs and caches finished results so a
// repeated query can be answered without opening a new extraction session.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/serendib-labs/mapleads/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Query  string          `json:"query,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface shared by the SQLite and
// Postgres drivers.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, params model.SearchParameters) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, result *model.SearchResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	SaveBusinesses(ctx context.Context, runID string, businesses []model.Business) (int, error)

	// Result cache
	GetCachedResult(ctx context.Context, key string) (*model.SearchResult, error)
	SetCachedResult(ctx context.Context, key string, result *model.SearchResult, ttl time.Duration) error
	DeleteExpiredResults(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// CacheKey derives the cache lookup key for a set of search parameters.
// Query and place text are folded to lower case so trivially restated
// requests hit the same entry; coordinates and numeric knobs pass through
// verbatim.
func CacheKey(params model.SearchParameters) string {
	place := ""
	if params.Location != nil {
		place = fmt.Sprintf("%s|%s|%.4f|%.4f",
			strings.ToLower(params.Location.City),
			strings.ToLower(params.Location.District),
			params.Location.Latitude,
			params.Location.Longitude,
		)
	}
	return fmt.Sprintf("%s|%s|%g|%d",
		strings.ToLower(strings.TrimSpace(params.Query)),
		place,
		params.RadiusKM,
		params.MaxResults,
	)
}

// statusFor maps a finished result onto the run status it should record.
func statusFor(result *model.SearchResult) model.RunStatus {
	if result != nil && result.Success {
		return model.RunStatusComplete
	}
	return model.RunStatusFailed
}

// businessColumns is the column order shared by both drivers when flushing
// a run's businesses.
var businessColumns = []string{
	"id", "run_id", "name", "phones", "website", "category",
	"rating", "reviews", "latitude", "longitude",
	"address", "city", "district", "extracted_at",
}

// businessRow flattens one business into the businessColumns order.
// Optional fields become NULLs rather than zero values.
func businessRow(runID string, b model.Business) ([]any, error) {
	phonesJSON, err := json.Marshal(b.PhoneNumbers)
	if err != nil {
		return nil, eris.Wrapf(err, "store: marshal phones for %s", b.Name)
	}

	var lat, lng *float64
	var address, city, district *string
	if b.Location != nil {
		lat, lng = &b.Location.Latitude, &b.Location.Longitude
		if b.Location.Address != "" {
			address = &b.Location.Address
		}
		if b.Location.City != "" {
			city = &b.Location.City
		}
		if b.Location.District != "" {
			district = &b.Location.District
		}
	}

	return []any{
		uuid.New().String(), runID, b.Name, string(phonesJSON),
		nullable(b.Website), nullable(b.Category),
		b.Rating, b.ReviewsCount, lat, lng,
		address, city, district, b.ExtractedAt,
	}, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
