package model

import "time"

// PhoneNumber is a canonicalized phone number. Number is in international
// form when Validated is true; otherwise it holds whatever the normalizer
// produced, kept for audit.
type PhoneNumber struct {
	Number    string `json:"number"`
	IsMobile  bool   `json:"is_mobile"`
	Validated bool   `json:"is_validated"`
	Region    string `json:"region,omitempty"`
}

// Business is one listing extracted from the map-search surface.
type Business struct {
	Name         string            `json:"name"`
	PhoneNumbers []PhoneNumber     `json:"phone_numbers"`
	Location     *ResolvedLocation `json:"location,omitempty"`
	Website      string            `json:"website,omitempty"`
	Category     string            `json:"category,omitempty"`
	Rating       *float64          `json:"rating,omitempty"`
	ReviewsCount *int              `json:"reviews_count,omitempty"`
	ExtractedAt  time.Time         `json:"extracted_at"`
}

// ValidatedPhoneCount returns how many of the business's numbers passed
// validation. Businesses with zero validated numbers are excluded from
// final output by the search engine.
func (b *Business) ValidatedPhoneCount() int {
	n := 0
	for _, p := range b.PhoneNumbers {
		if p.Validated {
			n++
		}
	}
	return n
}
