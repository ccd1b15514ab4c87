// Package phone extracts, normalizes, and classifies phone numbers against
// a national numbering plan.
package phone

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Plan describes a country's numbering plan: how raw text is scanned for
// candidates and how a candidate is normalized into international form.
type Plan struct {
	// InternationalPrefix is the dialing prefix, e.g. "+94".
	InternationalPrefix string
	// TrunkPrefix is the national trunk digit rewritten to the international
	// prefix, e.g. "0".
	TrunkPrefix string
	// TotalLength is the exact length of a valid normalized number,
	// including the leading "+".
	TotalLength int
	// MobilePrefixes is the set of two-digit codes (after the international
	// prefix) assigned to mobile carriers.
	MobilePrefixes []string
	// Regions maps two-digit landline codes to region names.
	Regions map[string]string

	pattern *regexp.Regexp
}

// NewPlan compiles the candidate-matching pattern for the plan. The pattern
// is three alternatives in precedence order: mobile, landline, then a
// generic national number.
func NewPlan(intl, trunk string, totalLen int, mobilePrefixes []string, regions map[string]string) (*Plan, error) {
	if intl == "" || trunk == "" {
		return nil, eris.New("phone: international and trunk prefixes are required")
	}
	if totalLen <= len(intl) {
		return nil, eris.Errorf("phone: total length %d too short for prefix %s", totalLen, intl)
	}

	p := &Plan{
		InternationalPrefix: intl,
		TrunkPrefix:         trunk,
		TotalLength:         totalLen,
		MobilePrefixes:      append([]string(nil), mobilePrefixes...),
		Regions:             regions,
	}

	// National significant digits after either prefix form.
	nsd := totalLen - len(intl)

	head := fmt.Sprintf(`(?:%s|%s)`, regexp.QuoteMeta(intl), regexp.QuoteMeta(trunk))
	// Numbers on listing pages are written with spaces, dots, or dashes
	// between digit groups; allow one separator before each digit.
	const d = `[ .\-]?\d`

	mobiles := append([]string(nil), mobilePrefixes...)
	sort.Strings(mobiles)
	for i, m := range mobiles {
		var sb strings.Builder
		for _, c := range m {
			sb.WriteString(`[ .\-]?`)
			sb.WriteRune(c)
		}
		mobiles[i] = sb.String()
	}

	alts := []string{}
	if len(mobiles) > 0 {
		alts = append(alts, fmt.Sprintf(`%s(?:%s)(?:%s){%d}`, head, strings.Join(mobiles, "|"), d, nsd-2))
	}
	alts = append(alts,
		fmt.Sprintf(`%s[ .\-]?[1-9][ .\-]?[0-9](?:%s){%d}`, head, d, nsd-2),
		fmt.Sprintf(`%s(?:%s){%d}`, head, d, nsd),
	)

	re, err := regexp.Compile(strings.Join(alts, "|"))
	if err != nil {
		return nil, eris.Wrap(err, "phone: compile candidate pattern")
	}
	p.pattern = re

	return p, nil
}

// DefaultPlan returns the Sri Lankan numbering plan.
func DefaultPlan() *Plan {
	p, err := NewPlan("+94", "0", 12,
		[]string{"70", "71", "72", "74", "75", "76", "77", "78"},
		map[string]string{
			"11": "Colombo",
			"33": "Gampaha",
			"34": "Kalutara",
			"81": "Kandy",
			"66": "Matale",
			"52": "Nuwara Eliya",
			"91": "Galle",
			"41": "Matara",
			"47": "Hambantota",
			"21": "Jaffna/Kilinochchi",
			"23": "Mannar",
			"24": "Vavuniya/Mullaitivu",
			"65": "Batticaloa",
			"63": "Ampara",
			"26": "Trincomalee",
			"37": "Kurunegala",
			"32": "Puttalam",
			"25": "Anuradhapura",
			"27": "Polonnaruwa",
			"55": "Badulla/Monaragala",
			"45": "Ratnapura",
			"35": "Kegalle",
		})
	if err != nil {
		panic(err) // static tables, cannot fail
	}
	return p
}

// isMobileCode reports whether the two-digit code belongs to a mobile carrier.
func (p *Plan) isMobileCode(code string) bool {
	for _, m := range p.MobilePrefixes {
		if m == code {
			return true
		}
	}
	return false
}

// LocalFormat rewrites an international-form number back to its national
// trunk form ("+94112345678" -> "0112345678"). Numbers not in international
// form are returned unchanged.
func (p *Plan) LocalFormat(number string) string {
	if strings.HasPrefix(number, p.InternationalPrefix) {
		return p.TrunkPrefix + number[len(p.InternationalPrefix):]
	}
	return number
}
