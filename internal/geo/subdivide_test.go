package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serendib-labs/mapleads/internal/model"
)

var colombo = model.GeoPoint{Latitude: 6.9271, Longitude: 79.8612}

func TestSubdivideNoOpAtOrBelowThreshold(t *testing.T) {
	for _, radius := range []float64{0.5, 5, 19.9, 20} {
		cells := Subdivide(colombo, radius, 20)
		require.Len(t, cells, 1, "radius %v", radius)
		assert.Equal(t, colombo, cells[0].Center)
		assert.Equal(t, radius, cells[0].RadiusKM)
	}
}

func TestSubdivideRejectsNonPositiveCellRadius(t *testing.T) {
	assert.Nil(t, Subdivide(colombo, 30, 0))
	assert.Nil(t, Subdivide(colombo, 30, -5))
}

func TestSubdivideCellRadiiAndCenterInclusion(t *testing.T) {
	cells := Subdivide(colombo, 30, 20)
	require.Greater(t, len(cells), 1)

	foundCenter := false
	for _, c := range cells {
		assert.Equal(t, 20.0, c.RadiusKM, "every cell carries the max cell radius")
		if c.Center == colombo {
			foundCenter = true
		}
	}
	assert.True(t, foundCenter, "original center is always one of the cells")
}

func TestSubdivideDeterministic(t *testing.T) {
	a := Subdivide(colombo, 50, 5)
	b := Subdivide(colombo, 50, 5)
	assert.Equal(t, a, b)
}

func TestSubdivideRowMajorOrder(t *testing.T) {
	cells := Subdivide(colombo, 30, 20)

	// Row-major: latitudes are non-decreasing, and within a latitude row
	// longitudes strictly increase.
	for i := 1; i < len(cells); i++ {
		prev, cur := cells[i-1].Center, cells[i].Center
		require.GreaterOrEqual(t, cur.Latitude, prev.Latitude)
		if cur.Latitude == prev.Latitude {
			require.Greater(t, cur.Longitude, prev.Longitude)
		}
	}
}

func TestSubdivideCellsWithinDisc(t *testing.T) {
	radiusKM := 40.0
	cells := Subdivide(colombo, radiusKM, 10)
	radiusDeg := radiusKM * degPerKM

	for _, c := range cells {
		dLat := c.Center.Latitude - colombo.Latitude
		dLng := c.Center.Longitude - colombo.Longitude
		assert.LessOrEqual(t, dLat*dLat+dLng*dLng, radiusDeg*radiusDeg*1.0000001)
	}
}

func TestDistrictAt(t *testing.T) {
	assert.Equal(t, "Colombo", DistrictAt(colombo))
	assert.Equal(t, "Kandy", DistrictAt(model.GeoPoint{Latitude: 7.2906, Longitude: 80.6337}))
	assert.Equal(t, "Galle", DistrictAt(model.GeoPoint{Latitude: 6.0535, Longitude: 80.2210}))
	assert.Equal(t, "", DistrictAt(model.GeoPoint{Latitude: 9.6615, Longitude: 80.0255}))
}

func TestSriLankaBounds(t *testing.T) {
	b := SriLankaBounds()

	assert.True(t, b.Contains(colombo))
	assert.True(t, b.Contains(model.GeoPoint{Latitude: 9.6615, Longitude: 80.0255}))  // Jaffna
	assert.False(t, b.Contains(model.GeoPoint{Latitude: 13.0827, Longitude: 80.2707})) // Chennai
	assert.False(t, b.Contains(model.GeoPoint{Latitude: 4.1755, Longitude: 73.5093}))  // Malé
}
