// Package geo provides areal subdivision and coarse bounds checks for
// regional-scale searches. All math is an equirectangular small-angle
// approximation; it is best-effort tiling, not proven coverage.
package geo

import (
	"math"

	"github.com/serendib-labs/mapleads/internal/model"
)

// earthRadiusKM is Earth's mean radius.
const earthRadiusKM = 6371.0

// degPerKM converts kilometers to degrees of arc on the mean-radius sphere.
const degPerKM = 180.0 / (earthRadiusKM * math.Pi)

// Cell is one subdivision: a center point searched with its own radius.
type Cell struct {
	Center   model.GeoPoint
	RadiusKM float64
}

// Subdivide tiles a search disc with a square lattice of cells no larger
// than maxCellKM. Radii at or below maxCellKM return the input unchanged.
// Lattice inclusion uses Euclidean distance in degree-space, which both
// over- and under-includes near the boundary; acceptable at regional scale.
// Output order is row-major over the lattice, so identical inputs always
// produce identical cell sequences.
func Subdivide(center model.GeoPoint, radiusKM, maxCellKM float64) []Cell {
	// A non-positive cell radius cannot tile anything; reject the call
	// instead of dividing by zero below.
	if maxCellKM <= 0 {
		return nil
	}
	if radiusKM <= maxCellKM {
		return []Cell{{Center: center, RadiusKM: radiusKM}}
	}

	radiusDeg := radiusKM * degPerKM
	cellDeg := maxCellKM * degPerKM

	// Lattice extent covers at least the disc's bounding square.
	steps := int(math.Ceil(radiusDeg/cellDeg)) * 2
	half := steps / 2

	var cells []Cell
	for i := -half; i <= half; i++ {
		for j := -half; j <= half; j++ {
			lat := center.Latitude + float64(i)*cellDeg
			lng := center.Longitude + float64(j)*cellDeg

			dLat := lat - center.Latitude
			dLng := lng - center.Longitude
			if math.Sqrt(dLat*dLat+dLng*dLng) > radiusDeg {
				continue
			}

			cells = append(cells, Cell{
				Center:   model.GeoPoint{Latitude: lat, Longitude: lng},
				RadiusKM: maxCellKM,
			})
		}
	}

	return cells
}
