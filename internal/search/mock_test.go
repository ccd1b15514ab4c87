package search

import (
	"context"

	"github.com/serendib-labs/mapleads/internal/extract"
	"github.com/serendib-labs/mapleads/internal/model"
)

// mockExtractor implements extract.Extractor for testing, scripting the
// outcome of each call.
type mockExtractor struct {
	calls   []model.SearchParameters
	respond func(call int, params model.SearchParameters) (*extract.Extraction, error)
}

func (m *mockExtractor) Name() string { return "mock" }

func (m *mockExtractor) Extract(_ context.Context, params model.SearchParameters) (*extract.Extraction, error) {
	call := len(m.calls)
	m.calls = append(m.calls, params)
	if m.respond == nil {
		return &extract.Extraction{}, nil
	}
	return m.respond(call, params)
}

// rawBiz builds a minimal raw record with one mobile phone fragment.
func rawBiz(name, phoneText string) extract.RawBusiness {
	return extract.RawBusiness{Name: name, PhoneText: []string{phoneText}}
}
