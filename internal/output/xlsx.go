package output

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/serendib-labs/mapleads/internal/model"
)

// WriteXLSX writes the flat layout to a single "Businesses" sheet.
func (e *Exporter) WriteXLSX(result *model.SearchResult, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Businesses")
	if err != nil {
		return eris.Wrap(err, "output: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, col := range resultColumns {
		header.AddCell().Value = col
	}

	for _, row := range e.buildRows(result) {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().Value = cell
		}
	}

	return eris.Wrap(f.Save(path), "output: save xlsx")
}
