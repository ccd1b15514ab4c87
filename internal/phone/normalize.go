package phone

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/serendib-labs/mapleads/internal/model"
)

// Normalize canonicalizes a raw candidate into international form and
// classifies it. The returned record always carries the speculatively
// normalized number; a non-nil error means validation failed and the
// record's Validated flag is false. Callers must not treat a failed
// candidate as a usable number but may keep it for audit.
func (p *Plan) Normalize(raw string) (model.PhoneNumber, error) {
	if raw == "" {
		return model.PhoneNumber{}, eris.New("phone: empty input")
	}

	number := stripToDialable(raw)
	if number == "" {
		return model.PhoneNumber{}, eris.Errorf("phone: no digits in %q", raw)
	}

	// Rewrite the national trunk prefix, or treat a bare national number as
	// missing its trunk digit. Deliberately permissive: a string of pure
	// digits is still normalized speculatively.
	switch {
	case strings.HasPrefix(number, p.TrunkPrefix):
		number = p.InternationalPrefix + number[len(p.TrunkPrefix):]
	case !strings.HasPrefix(number, "+"):
		number = p.InternationalPrefix + number
	}

	rec := model.PhoneNumber{Number: number}

	if !strings.HasPrefix(number, p.InternationalPrefix) {
		return rec, eris.Errorf("phone: %s does not start with %s", number, p.InternationalPrefix)
	}
	if len(number) != p.TotalLength {
		return rec, eris.Errorf("phone: %s has length %d, want %d", number, len(number), p.TotalLength)
	}

	rec.Validated = true

	code := number[len(p.InternationalPrefix) : len(p.InternationalPrefix)+2]
	if p.isMobileCode(code) {
		rec.IsMobile = true
	} else {
		// Landline: region may be unknown for codes outside the table.
		rec.Region = p.Regions[code]
	}

	return rec, nil
}

// stripToDialable removes everything except digits and a leading plus.
func stripToDialable(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
