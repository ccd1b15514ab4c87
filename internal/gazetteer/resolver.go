package gazetteer

import (
	"strings"

	"go.uber.org/zap"

	"github.com/serendib-labs/mapleads/internal/model"
)

// District matches carry a placeholder centroid rather than the true
// district center; coarse by design, see package doc.
const (
	placeholderLat = 7.5
	placeholderLng = 80.7
)

// PlaceholderCenter is the fallback island centroid used when a search has
// no resolvable location.
func PlaceholderCenter() model.GeoPoint {
	return model.GeoPoint{Latitude: placeholderLat, Longitude: placeholderLng}
}

// Resolver maps location input onto the gazetteer. Lookups are pure and
// synchronous; the gazetteer is read-only after construction.
type Resolver struct {
	gaz Gazetteer
}

// NewResolver creates a Resolver over the given gazetteer.
func NewResolver(gaz Gazetteer) *Resolver {
	return &Resolver{gaz: gaz}
}

// Resolve maps a location input to a canonical location, or nil when the
// input is absent or unrecognized. An unrecognized free-text input is not
// an error: the caller merges the text into the search query instead.
func (r *Resolver) Resolve(in model.LocationInput) *model.ResolvedLocation {
	switch in.Kind {
	case model.LocationNone:
		return nil

	case model.LocationResolved:
		return in.Resolved

	case model.LocationCoords:
		// Coordinates are trusted as supplied; no containment check against
		// the target country here.
		return in.Coords

	case model.LocationText:
		return r.resolveText(in.Text)

	default:
		return nil
	}
}

func (r *Resolver) resolveText(text string) *model.ResolvedLocation {
	for _, c := range r.gaz.Cities {
		if strings.EqualFold(c.Name, text) {
			loc := model.NewResolvedLocation(c.Lat, c.Lng)
			loc.City = c.Name
			return loc
		}
	}

	for _, d := range r.gaz.Districts {
		if strings.EqualFold(d, text) {
			loc := model.NewResolvedLocation(placeholderLat, placeholderLng)
			loc.District = d
			return loc
		}
	}

	zap.L().Warn("location not in gazetteer, keeping as query text",
		zap.String("location", text),
	)
	return nil
}

// Cities returns the gazetteer's city table.
func (r *Resolver) Cities() []City { return r.gaz.Cities }

// Districts returns the gazetteer's district names.
func (r *Resolver) Districts() []string { return r.gaz.Districts }
