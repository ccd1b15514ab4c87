package model

// DefaultCountry is applied to resolved locations that don't specify one.
const DefaultCountry = "Sri Lanka"

// GeoPoint is a latitude/longitude pair in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ResolvedLocation is a canonical geographic point with optional place text.
type ResolvedLocation struct {
	GeoPoint
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
	Country  string `json:"country"`
}

// NewResolvedLocation creates a ResolvedLocation with the default country tag.
func NewResolvedLocation(lat, lng float64) *ResolvedLocation {
	return &ResolvedLocation{
		GeoPoint: GeoPoint{Latitude: lat, Longitude: lng},
		Country:  DefaultCountry,
	}
}

// LocationInputKind discriminates the three accepted location input shapes.
type LocationInputKind int

const (
	// LocationNone means no location constraint was supplied.
	LocationNone LocationInputKind = iota
	// LocationText is a free-form place name to be matched against the gazetteer.
	LocationText
	// LocationCoords is an explicit coordinate pair, used as-is.
	LocationCoords
	// LocationResolved is an already-resolved location, passed through unchanged.
	LocationResolved
)

// LocationInput is the tagged variant accepted at the API boundary.
// Exactly one of Text, Coords, or Resolved is meaningful, selected by Kind.
type LocationInput struct {
	Kind     LocationInputKind
	Text     string
	Coords   *ResolvedLocation
	Resolved *ResolvedLocation
}

// NoLocation returns an input carrying no location constraint.
func NoLocation() LocationInput {
	return LocationInput{Kind: LocationNone}
}

// TextLocation wraps a free-form place name.
func TextLocation(s string) LocationInput {
	if s == "" {
		return NoLocation()
	}
	return LocationInput{Kind: LocationText, Text: s}
}

// CoordsLocation wraps an explicit coordinate pair with optional place text
// carried through verbatim.
func CoordsLocation(lat, lng float64, city, district string) LocationInput {
	loc := NewResolvedLocation(lat, lng)
	loc.City = city
	loc.District = district
	return LocationInput{Kind: LocationCoords, Coords: loc}
}

// ResolvedInput wraps an already-resolved location.
func ResolvedInput(loc *ResolvedLocation) LocationInput {
	if loc == nil {
		return NoLocation()
	}
	return LocationInput{Kind: LocationResolved, Resolved: loc}
}
