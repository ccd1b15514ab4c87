// Package extract defines the boundary to the extraction backend that
// actually queries the map-search surface. The core calls through the
// Extractor interface and wraps it with resource-governance middleware;
// PlacesExtractor is the bundled HTTP-API backend.
package extract

import (
	"context"

	"github.com/serendib-labs/mapleads/internal/model"
)

// RawBusiness is one listing as the extraction backend saw it, before phone
// canonicalization. PhoneText holds the raw phone-number fragments scraped
// from the detail pane.
type RawBusiness struct {
	Name         string   `json:"name"`
	PhoneText    []string `json:"phone_text,omitempty"`
	Address      string   `json:"address,omitempty"`
	Website      string   `json:"website,omitempty"`
	Category     string   `json:"category,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	ReviewsCount *int     `json:"reviews_count,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// Extraction is the outcome of one extraction call for one search cell.
type Extraction struct {
	Businesses []RawBusiness
}

// Extractor runs one map-search extraction per call. Implementations handle
// pagination and scrolling internally up to params.MaxResults; the caller
// never re-requests beyond one call per cell. An Extractor represents a
// single stateful browsing session: callers must not issue overlapping
// calls against the same instance.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, params model.SearchParameters) (*Extraction, error)
}
