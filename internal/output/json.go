package output

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/serendib-labs/mapleads/internal/model"
)

// WriteJSON writes the full result, nested businesses and all.
func (e *Exporter) WriteJSON(result *model.SearchResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "output: create json")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(result), "output: encode json")
}
