package geo

import (
	"github.com/twpayne/go-geom"

	"github.com/serendib-labs/mapleads/internal/model"
)

// CountryBounds is the coarse bounding box of the target territory.
type CountryBounds struct {
	bounds *geom.Bounds
}

// NewCountryBounds builds a bounding box from south/west/north/east edges
// in decimal degrees.
func NewCountryBounds(south, west, north, east float64) CountryBounds {
	b := geom.NewBounds(geom.XY)
	b.Set(west, south, east, north)
	return CountryBounds{bounds: b}
}

// SriLankaBounds returns the approximate bounding box of Sri Lanka.
func SriLankaBounds() CountryBounds {
	return NewCountryBounds(5.9, 79.5, 9.9, 82.0)
}

// Contains reports whether the point falls inside the bounding box.
func (c CountryBounds) Contains(p model.GeoPoint) bool {
	return c.bounds.OverlapsPoint(geom.XY, geom.Coord{p.Longitude, p.Latitude})
}

// districtBox pairs a district name with its approximate bounding box.
type districtBox struct {
	name   string
	bounds CountryBounds
}

// districtBoxes covers only the districts we have rough boxes for. This is
// a coarse approximation, not a geocoder: boxes overlap nothing and miss
// plenty near district edges.
var districtBoxes = []districtBox{
	{"Colombo", NewCountryBounds(6.7, 79.8, 7.0, 80.0)},
	{"Kandy", NewCountryBounds(7.1, 80.5, 7.5, 80.8)},
	{"Galle", NewCountryBounds(5.9, 80.1, 6.2, 80.3)},
}

// DistrictAt returns the district name whose approximate box contains the
// point, or "" when no box matches.
func DistrictAt(p model.GeoPoint) string {
	for _, d := range districtBoxes {
		if d.bounds.Contains(p) {
			return d.name
		}
	}
	return ""
}
