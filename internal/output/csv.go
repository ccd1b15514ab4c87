package output

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"

	"github.com/serendib-labs/mapleads/internal/model"
)

// WriteCSV writes the flat one-row-per-phone layout.
func (e *Exporter) WriteCSV(result *model.SearchResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "output: create csv")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(resultColumns); err != nil {
		return eris.Wrap(err, "output: write csv header")
	}
	for _, row := range e.buildRows(result) {
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "output: write csv row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "output: flush csv")
}
