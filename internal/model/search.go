package model

// SearchParameters describes one search request or one subdivision cell.
// Treated as an immutable value: a fresh instance is built per cell.
type SearchParameters struct {
	Query      string            `json:"query"`
	Location   *ResolvedLocation `json:"location,omitempty"`
	RadiusKM   float64           `json:"radius_km"`
	MaxResults int               `json:"max_results"`
}

// SearchResult aggregates the businesses found for one top-level search,
// across all subdivision cells when the area was split.
type SearchResult struct {
	Parameters SearchParameters `json:"parameters"`
	Businesses []Business       `json:"businesses"`
	TotalFound int              `json:"total_found"`
	Success    bool             `json:"success"`
	Error      string           `json:"error_message,omitempty"`
	SearchTime float64          `json:"search_time_seconds"`
}

// NewSearchResult creates an empty, successful result for the given parameters.
func NewSearchResult(params SearchParameters) *SearchResult {
	return &SearchResult{Parameters: params, Success: true}
}

// AddBusiness appends a business and recomputes TotalFound. TotalFound is
// never set independently.
func (r *SearchResult) AddBusiness(b Business) {
	r.Businesses = append(r.Businesses, b)
	r.TotalFound = len(r.Businesses)
}

// HasName reports whether a business with exactly this name is already
// present. Matching is deliberately exact and case-sensitive: dedup across
// cells is first-cell-wins on the literal name.
func (r *SearchResult) HasName(name string) bool {
	for i := range r.Businesses {
		if r.Businesses[i].Name == name {
			return true
		}
	}
	return false
}
