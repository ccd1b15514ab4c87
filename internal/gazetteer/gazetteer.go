// Package gazetteer resolves heterogeneous location input into canonical
// coordinates using a static table of named places. It performs no network
// calls and no real geocoding.
package gazetteer

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// City is a named major city with known coordinates.
type City struct {
	Name string  `yaml:"name" json:"name"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Lng  float64 `yaml:"lng" json:"lng"`
}

// Gazetteer is the static lookup data consulted by the Resolver.
type Gazetteer struct {
	Cities    []City   `yaml:"cities" json:"cities"`
	Districts []string `yaml:"districts" json:"districts"`
}

// Default returns the built-in Sri Lanka gazetteer.
func Default() Gazetteer {
	return Gazetteer{
		Cities: []City{
			{Name: "Colombo", Lat: 6.9271, Lng: 79.8612},
			{Name: "Kandy", Lat: 7.2906, Lng: 80.6337},
			{Name: "Galle", Lat: 6.0535, Lng: 80.2210},
			{Name: "Jaffna", Lat: 9.6615, Lng: 80.0255},
			{Name: "Batticaloa", Lat: 7.7170, Lng: 81.7000},
		},
		Districts: []string{
			"Ampara", "Anuradhapura", "Badulla", "Batticaloa", "Colombo",
			"Galle", "Gampaha", "Hambantota", "Jaffna", "Kalutara",
			"Kandy", "Kegalle", "Kilinochchi", "Kurunegala", "Mannar",
			"Matale", "Matara", "Monaragala", "Mullaitivu", "Nuwara Eliya",
			"Polonnaruwa", "Puttalam", "Ratnapura", "Trincomalee", "Vavuniya",
		},
	}
}

// LoadFile reads a gazetteer override from a YAML file. Empty sections fall
// back to the built-in data.
func LoadFile(path string) (Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Gazetteer{}, eris.Wrapf(err, "gazetteer: read %s", path)
	}

	var g Gazetteer
	if err := yaml.Unmarshal(data, &g); err != nil {
		return Gazetteer{}, eris.Wrapf(err, "gazetteer: parse %s", path)
	}

	def := Default()
	if len(g.Cities) == 0 {
		g.Cities = def.Cities
	}
	if len(g.Districts) == 0 {
		g.Districts = def.Districts
	}
	return g, nil
}
