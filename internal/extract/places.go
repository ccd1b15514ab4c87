package extract

import (
	"context"

	"github.com/serendib-labs/mapleads/internal/model"
	"github.com/serendib-labs/mapleads/pkg/places"
)

// apiPageSize is the Places API per-page maximum.
const apiPageSize = 20

// PlacesExtractor drives the Places Text Search API as the extraction
// backend, following page tokens until the result cap is reached.
type PlacesExtractor struct {
	client places.Client
}

// NewPlacesExtractor wires the adapter.
func NewPlacesExtractor(client places.Client) *PlacesExtractor {
	return &PlacesExtractor{client: client}
}

func (e *PlacesExtractor) Name() string { return "places" }

// Extract pages through the API. A mid-pagination failure returns the
// records collected so far alongside the error.
func (e *PlacesExtractor) Extract(ctx context.Context, params model.SearchParameters) (*Extraction, error) {
	ext := &Extraction{}

	var bias *places.LocationBias
	if params.Location != nil {
		bias = &places.LocationBias{Circle: places.Circle{
			Center: places.LatLng{
				Latitude:  params.Location.Latitude,
				Longitude: params.Location.Longitude,
			},
			Radius: params.RadiusKM * 1000,
		}}
	}

	pageToken := ""
	for {
		remaining := params.MaxResults - len(ext.Businesses)
		if remaining <= 0 {
			break
		}
		pageSize := remaining
		if pageSize > apiPageSize {
			pageSize = apiPageSize
		}

		resp, err := e.client.TextSearch(ctx, places.TextSearchRequest{
			TextQuery:    params.Query,
			LocationBias: bias,
			PageSize:     pageSize,
			PageToken:    pageToken,
		})
		if err != nil {
			return ext, err
		}

		// The backend may return more places than requested; never let a
		// page push the collection past the cap.
		page := resp.Places
		if len(page) > remaining {
			page = page[:remaining]
		}
		for _, p := range page {
			ext.Businesses = append(ext.Businesses, placeToRaw(p))
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return ext, nil
}

func placeToRaw(p places.Place) RawBusiness {
	raw := RawBusiness{
		Name:     p.DisplayName.Text,
		Address:  p.FormattedAddress,
		Website:  p.WebsiteURI,
		Category: p.PrimaryTypeDisplayName.Text,
	}

	if p.NationalPhoneNumber != "" {
		raw.PhoneText = append(raw.PhoneText, p.NationalPhoneNumber)
	}
	if p.InternationalPhoneNumber != "" {
		raw.PhoneText = append(raw.PhoneText, p.InternationalPhoneNumber)
	}

	if p.Rating > 0 {
		rating := p.Rating
		raw.Rating = &rating
	}
	if p.UserRatingCount > 0 {
		reviews := p.UserRatingCount
		raw.ReviewsCount = &reviews
	}
	if p.Location != nil {
		lat, lng := p.Location.Latitude, p.Location.Longitude
		raw.Latitude, raw.Longitude = &lat, &lng
	}

	return raw
}
