package phone

import "golang.org/x/text/unicode/norm"

// Extract scans free text and returns every candidate number substring in
// order of first occurrence. Duplicates are kept; dedup is the caller's
// concern. Text is NFC-normalized first since extracted pages mix Latin,
// Sinhala, and Tamil script around the digits.
func (p *Plan) Extract(text string) []string {
	if text == "" {
		return nil
	}
	return p.pattern.FindAllString(norm.NFC.String(text), -1)
}
