// Package search orchestrates map-search runs: parameter assembly, areal
// subdivision routing, per-cell extraction, phone canonicalization, and
// cross-cell deduplication.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/serendib-labs/mapleads/internal/extract"
	"github.com/serendib-labs/mapleads/internal/gazetteer"
	"github.com/serendib-labs/mapleads/internal/geo"
	"github.com/serendib-labs/mapleads/internal/model"
	"github.com/serendib-labs/mapleads/internal/phone"
)

// Config carries the read-only search settings. Values are fixed for the
// lifetime of a request; nothing in the engine mutates them.
type Config struct {
	// DefaultRadiusKM is applied when a request doesn't specify a radius.
	DefaultRadiusKM float64
	// SubdivisionThresholdKM routes requests above it into multi-cell mode
	// and caps the radius of every subdivision cell.
	SubdivisionThresholdKM float64
	// DefaultMaxResults is applied when a request doesn't specify a cap.
	DefaultMaxResults int
	// Bounds drops subdivision cells centered outside the target territory.
	// Nil disables the filter.
	Bounds *geo.CountryBounds
}

// Options is one search request as received at the public entry point.
type Options struct {
	Query      string
	Location   model.LocationInput
	RadiusKM   float64 // 0 means use the configured default
	MaxResults int     // 0 means use the configured default
}

// EffectiveParameters builds the parameters a request is actually
// dispatched with: defaults filled, location resolved, unrecognized place
// text folded into the query. Anything keyed on a request, like the result
// cache, must derive from these, never from the raw options.
func EffectiveParameters(cfg Config, resolver *gazetteer.Resolver, opts Options) model.SearchParameters {
	radius := opts.RadiusKM
	if radius == 0 {
		radius = cfg.DefaultRadiusKM
	}
	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = cfg.DefaultMaxResults
	}

	query := opts.Query
	loc := resolver.Resolve(opts.Location)
	if loc == nil && opts.Location.Kind == model.LocationText {
		query = fmt.Sprintf("%s in %s", opts.Query, opts.Location.Text)
	}

	return model.SearchParameters{
		Query:      query,
		Location:   loc,
		RadiusKM:   radius,
		MaxResults: maxResults,
	}
}

// Engine runs searches against a single extraction session. The extractor
// represents one stateful browsing context, so cells are processed strictly
// sequentially; the engine never issues overlapping extraction calls.
type Engine struct {
	cfg       Config
	resolver  *gazetteer.Resolver
	plan      *phone.Plan
	extractor extract.Extractor
}

// NewEngine wires an Engine from its collaborators.
func NewEngine(cfg Config, resolver *gazetteer.Resolver, plan *phone.Plan, extractor extract.Extractor) *Engine {
	return &Engine{cfg: cfg, resolver: resolver, plan: plan, extractor: extractor}
}

// Search executes one request. Collaborator failures never surface as
// errors: they are reported on the SearchResult. The returned error covers
// only precondition violations on the request itself.
func (e *Engine) Search(ctx context.Context, opts Options) (*model.SearchResult, error) {
	if opts.Query == "" {
		return nil, eris.New("search: query must not be empty")
	}
	if opts.RadiusKM < 0 {
		return nil, eris.Errorf("search: radius must be positive, got %v", opts.RadiusKM)
	}
	if opts.MaxResults < 0 {
		return nil, eris.Errorf("search: max results must be positive, got %d", opts.MaxResults)
	}

	params := EffectiveParameters(e.cfg, e.resolver, opts)

	log := zap.L().With(
		zap.String("query", params.Query),
		zap.Float64("radius_km", params.RadiusKM),
		zap.Int("max_results", params.MaxResults),
	)

	start := time.Now()
	var result *model.SearchResult
	if params.RadiusKM > e.cfg.SubdivisionThresholdKM {
		log.Info("radius exceeds subdivision threshold, tiling area")
		result = e.searchSubdivided(ctx, params)
	} else {
		result = e.searchSingle(ctx, params)
	}
	result.SearchTime = time.Since(start).Seconds()

	log.Info("search complete",
		zap.Int("businesses", result.TotalFound),
		zap.Bool("success", result.Success),
		zap.Float64("elapsed_s", result.SearchTime),
	)
	return result, nil
}

// searchSingle delegates one extraction call and wraps its outcome. A
// collaborator failure is fatal to the request but still returns whatever
// partial businesses were collected.
func (e *Engine) searchSingle(ctx context.Context, params model.SearchParameters) *model.SearchResult {
	result := model.NewSearchResult(params)

	ext, err := e.extractor.Extract(ctx, params)
	if ext != nil {
		for _, raw := range ext.Businesses {
			if b, ok := e.assemble(raw, params.Location); ok {
				result.AddBusiness(b)
			}
		}
	}
	if err != nil {
		result.Success = false
		result.Error = err.Error()
	}
	return result
}

// searchSubdivided tiles the search disc and extracts cell by cell,
// first-cell-wins deduplicating on the exact business name and stopping
// between cells once the cap is reached. A failed cell is skipped, not
// fatal.
func (e *Engine) searchSubdivided(ctx context.Context, params model.SearchParameters) *model.SearchResult {
	result := model.NewSearchResult(params)

	center := gazetteer.PlaceholderCenter()
	if params.Location != nil {
		center = params.Location.GeoPoint
	}

	cells := geo.Subdivide(center, params.RadiusKM, e.cfg.SubdivisionThresholdKM)
	log := zap.L().With(zap.Int("cells", len(cells)))
	log.Info("subdivided search area")

	for i, cell := range cells {
		if e.cfg.Bounds != nil && !e.cfg.Bounds.Contains(cell.Center) {
			log.Debug("cell outside territory bounds, skipping", zap.Int("cell", i+1))
			continue
		}
		cellParams := e.cellParameters(params, cell)

		ext, err := e.extractor.Extract(ctx, cellParams)
		if err != nil {
			log.Warn("cell extraction failed, continuing",
				zap.Int("cell", i+1),
				zap.Error(err),
			)
			continue
		}

		for _, raw := range ext.Businesses {
			b, ok := e.assemble(raw, cellParams.Location)
			if !ok || result.HasName(b.Name) {
				continue
			}
			result.AddBusiness(b)
			if result.TotalFound >= params.MaxResults {
				break
			}
		}

		log.Debug("cell searched",
			zap.Int("cell", i+1),
			zap.Int("unique_total", result.TotalFound),
		)

		if result.TotalFound >= params.MaxResults {
			log.Info("result cap reached, stopping subdivision search",
				zap.Int("cells_searched", i+1),
			)
			break
		}
	}

	return result
}

// cellParameters builds the per-cell parameters: the original query and
// place text, the cell's own center and radius.
func (e *Engine) cellParameters(params model.SearchParameters, cell geo.Cell) model.SearchParameters {
	loc := model.NewResolvedLocation(cell.Center.Latitude, cell.Center.Longitude)
	if params.Location != nil {
		loc.City = params.Location.City
		loc.District = params.Location.District
	}
	return model.SearchParameters{
		Query:      params.Query,
		Location:   loc,
		RadiusKM:   cell.RadiusKM,
		MaxResults: params.MaxResults,
	}
}

// assemble converts a raw extracted record into a Business, canonicalizing
// every phone fragment. Records without a name or without a single
// validated number are rejected.
func (e *Engine) assemble(raw extract.RawBusiness, searchLoc *model.ResolvedLocation) (model.Business, bool) {
	if raw.Name == "" {
		return model.Business{}, false
	}

	b := model.Business{
		Name:         raw.Name,
		Website:      raw.Website,
		Category:     raw.Category,
		Rating:       raw.Rating,
		ReviewsCount: raw.ReviewsCount,
		ExtractedAt:  time.Now().UTC(),
	}

	seen := map[string]bool{}
	for _, fragment := range raw.PhoneText {
		for _, candidate := range e.plan.Extract(fragment) {
			rec, err := e.plan.Normalize(candidate)
			if err != nil || seen[rec.Number] {
				continue
			}
			seen[rec.Number] = true
			b.PhoneNumbers = append(b.PhoneNumbers, rec)
		}
	}
	if len(b.PhoneNumbers) == 0 {
		return model.Business{}, false
	}

	// A business location needs real coordinates; address text alone does
	// not make a GeoPoint.
	if raw.Latitude != nil && raw.Longitude != nil {
		loc := model.NewResolvedLocation(*raw.Latitude, *raw.Longitude)
		loc.Address = raw.Address
		if searchLoc != nil {
			loc.City = searchLoc.City
		}
		loc.District = geo.DistrictAt(loc.GeoPoint)
		if loc.District == "" && searchLoc != nil {
			loc.District = searchLoc.District
		}
		b.Location = loc
	}

	return b, true
}
