// Package output serializes search results to CSV, JSON, and XLSX files.
package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/serendib-labs/mapleads/internal/model"
	"github.com/serendib-labs/mapleads/internal/phone"
)

// Format selects the serialization of an export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", eris.Errorf("output: unknown format %q (want csv, json, or xlsx)", s)
}

// resultColumns defines the ordered columns of the flat exports. CSV and
// XLSX share the layout: one row per phone number.
var resultColumns = []string{
	"name",
	"phone",
	"phone_local",
	"is_mobile",
	"region",
	"website",
	"category",
	"rating",
	"reviews_count",
	"address",
	"city",
	"district",
	"latitude",
	"longitude",
	"extracted_at",
}

// Exporter writes search results to disk. The numbering plan supplies the
// national form shown alongside each international number.
type Exporter struct {
	plan *phone.Plan
}

// NewExporter wires an Exporter.
func NewExporter(plan *phone.Plan) *Exporter {
	return &Exporter{plan: plan}
}

// Write dispatches on format.
func (e *Exporter) Write(result *model.SearchResult, path string, format Format) error {
	switch format {
	case FormatCSV:
		return e.WriteCSV(result, path)
	case FormatJSON:
		return e.WriteJSON(result, path)
	case FormatXLSX:
		return e.WriteXLSX(result, path)
	}
	return eris.Errorf("output: unknown format %q", format)
}

// Filename builds a timestamped output filename from the query and place.
func Filename(query string, loc *model.ResolvedLocation, format Format, now time.Time) string {
	parts := []string{slug(query)}
	if loc != nil && loc.City != "" {
		parts = append(parts, slug(loc.City))
	}
	parts = append(parts, now.Format("20060102_150405"))
	return fmt.Sprintf("%s.%s", strings.Join(parts, "_"), format)
}

// slug lowercases and collapses anything non-alphanumeric to underscores.
func slug(s string) string {
	var sb strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				sb.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "_")
}

// buildRows flattens a result into resultColumns order, one row per phone.
func (e *Exporter) buildRows(result *model.SearchResult) [][]string {
	var rows [][]string
	for _, b := range result.Businesses {
		for _, p := range b.PhoneNumbers {
			rows = append(rows, e.buildRow(b, p))
		}
	}
	return rows
}

func (e *Exporter) buildRow(b model.Business, p model.PhoneNumber) []string {
	var address, city, district, lat, lng string
	if b.Location != nil {
		address = b.Location.Address
		city = b.Location.City
		district = b.Location.District
		lat = strconv.FormatFloat(b.Location.Latitude, 'f', -1, 64)
		lng = strconv.FormatFloat(b.Location.Longitude, 'f', -1, 64)
	}

	return []string{
		b.Name,
		p.Number,
		e.plan.LocalFormat(p.Number),
		strconv.FormatBool(p.IsMobile),
		p.Region,
		b.Website,
		b.Category,
		floatStr(b.Rating),
		intStr(b.ReviewsCount),
		address,
		city,
		district,
		lat,
		lng,
		b.ExtractedAt.UTC().Format(time.RFC3339),
	}
}

func floatStr(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func intStr(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
