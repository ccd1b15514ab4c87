package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/serendib-labs/mapleads/internal/model"
	"github.com/serendib-labs/mapleads/internal/phone"
)

func sampleResult() *model.SearchResult {
	loc := model.NewResolvedLocation(6.9271, 79.8612)
	loc.City = "Colombo"
	loc.District = "Colombo"
	loc.Address = "123 Galle Road"

	rating := 4.5
	reviews := 120

	result := model.NewSearchResult(model.SearchParameters{
		Query: "pharmacy", Location: loc, RadiusKM: 5, MaxResults: 120,
	})
	result.AddBusiness(model.Business{
		Name: "Perera Pharmacy",
		PhoneNumbers: []model.PhoneNumber{
			{Number: "+94712345678", IsMobile: true, Validated: true},
			{Number: "+94112345678", Validated: true, Region: "Colombo"},
		},
		Location:     loc,
		Website:      "https://perera.lk",
		Category:     "Pharmacy",
		Rating:       &rating,
		ReviewsCount: &reviews,
		ExtractedAt:  time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
	})
	result.AddBusiness(model.Business{
		Name: "Cafe X",
		PhoneNumbers: []model.PhoneNumber{
			{Number: "+94772345678", IsMobile: true, Validated: true},
		},
		ExtractedAt: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
	})
	return result
}

func TestWriteCSVFlattensPerPhone(t *testing.T) {
	e := NewExporter(phone.DefaultPlan())
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, e.WriteCSV(sampleResult(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4, "header plus one row per phone")
	assert.Equal(t, resultColumns, rows[0])

	assert.Equal(t, "Perera Pharmacy", rows[1][0])
	assert.Equal(t, "+94712345678", rows[1][1])
	assert.Equal(t, "0712345678", rows[1][2])
	assert.Equal(t, "true", rows[1][3])

	assert.Equal(t, "Perera Pharmacy", rows[2][0])
	assert.Equal(t, "+94112345678", rows[2][1])
	assert.Equal(t, "Colombo", rows[2][4])
	assert.Equal(t, "4.5", rows[2][7])
	assert.Equal(t, "123 Galle Road", rows[2][9])

	assert.Equal(t, "Cafe X", rows[3][0])
	assert.Equal(t, "", rows[3][9], "no location means empty address")
}

func TestWriteJSONRoundTrip(t *testing.T) {
	e := NewExporter(phone.DefaultPlan())
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, e.WriteJSON(sampleResult(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got model.SearchResult
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 2, got.TotalFound)
	assert.Equal(t, "pharmacy", got.Parameters.Query)
	assert.Equal(t, "+94712345678", got.Businesses[0].PhoneNumbers[0].Number)
}

func TestWriteXLSX(t *testing.T) {
	e := NewExporter(phone.DefaultPlan())
	path := filepath.Join(t.TempDir(), "out.xlsx")

	require.NoError(t, e.WriteXLSX(sampleResult(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	sheet, ok := f.Sheet["Businesses"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 4)
	assert.Equal(t, "name", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Perera Pharmacy", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "0712345678", sheet.Rows[1].Cells[2].String())
}

func TestWriteDispatch(t *testing.T) {
	e := NewExporter(phone.DefaultPlan())
	dir := t.TempDir()

	require.NoError(t, e.Write(sampleResult(), filepath.Join(dir, "a.csv"), FormatCSV))
	require.NoError(t, e.Write(sampleResult(), filepath.Join(dir, "a.json"), FormatJSON))
	require.NoError(t, e.Write(sampleResult(), filepath.Join(dir, "a.xlsx"), FormatXLSX))

	err := e.Write(sampleResult(), filepath.Join(dir, "a.bin"), Format("bin"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"csv", "CSV", "json", "xlsx"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("parquet")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 25, 15, 30, 0, 0, time.UTC)

	loc := model.NewResolvedLocation(6.9271, 79.8612)
	loc.City = "Colombo"

	assert.Equal(t, "hardware_stores_colombo_20260825_153000.csv",
		Filename("Hardware Stores!", loc, FormatCSV, now))
	assert.Equal(t, "pharmacy_20260825_153000.json",
		Filename("pharmacy", nil, FormatJSON, now))
}
