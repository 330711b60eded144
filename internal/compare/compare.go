// Package compare decides whether an extracted label value agrees with the
// applicant's declared value, applying field-appropriate normalization
// before comparing. Unit-bearing fields compare canonical magnitudes; text
// fields compare case/punctuation/ampersand-normalized strings.
package compare

import (
	"sort"
	"strings"

	"github.com/colaops/labelcheck/internal/normalize"
)

// Status is the outcome category of one field comparison.
type Status string

const (
	StatusMatch            Status = "match"
	StatusMismatch         Status = "mismatch"
	StatusMissingDeclared  Status = "missing_declared"
	StatusMissingExtracted Status = "missing_extracted"
)

// Outcome reports one field comparison with the normalized forms that were
// compared, so reviewers can see exactly what was weighed.
type Outcome struct {
	FieldName           string  `json:"field_name"`
	Status              Status  `json:"status"`
	NormalizedDeclared  string  `json:"normalized_declared"`
	NormalizedExtracted *string `json:"normalized_extracted"`
}

// Field compares a declared value against an extracted value. A nil
// extracted value is always missing_extracted; a match is never inferred
// from absence, even when the declared value is trivial.
func Field(fieldName, declared string, extracted *string) Outcome {
	out := Outcome{FieldName: fieldName}

	if strings.TrimSpace(declared) == "" {
		out.Status = StatusMissingDeclared
		if extracted != nil {
			norm := normalize.ToComparableUnits(fieldName, *extracted)
			out.NormalizedExtracted = &norm
		}
		return out
	}
	out.NormalizedDeclared = normalize.ToComparableUnits(fieldName, declared)

	if extracted == nil {
		out.Status = StatusMissingExtracted
		return out
	}

	norm := normalize.ToComparableUnits(fieldName, *extracted)
	out.NormalizedExtracted = &norm

	if agrees(fieldName, out.NormalizedDeclared, norm) {
		out.Status = StatusMatch
	} else {
		out.Status = StatusMismatch
	}
	return out
}

// magnitudeFields compare by canonical magnitude; containment would let
// "750 ml" falsely match inside "1750 ml".
var magnitudeFields = map[string]bool{
	"net_contents":    true,
	"alcohol_content": true,
	"vintage_year":    true,
}

// agrees accepts exact canonical equality and, for text fields, containment
// in either direction, since labels routinely print the declared value
// inside a longer statement ("BULLEIT" within "BULLEIT BOURBON").
func agrees(fieldName, declared, extracted string) bool {
	if declared == extracted {
		return true
	}
	if magnitudeFields[fieldName] || declared == "" || extracted == "" {
		return false
	}
	return strings.Contains(extracted, declared) || strings.Contains(declared, extracted)
}

// Report aggregates the outcomes for one submission.
type Report struct {
	Outcomes   []Outcome `json:"outcomes"`
	Matches    int       `json:"matches"`
	Mismatches int       `json:"mismatches"`
	Missing    int       `json:"missing"`
}

// BuildReport compares every declared field against the extracted values
// and tallies the outcome categories.
func BuildReport(declared map[string]string, extracted map[string]*string) Report {
	var r Report
	names := make([]string, 0, len(declared))
	for name := range declared {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		o := Field(name, declared[name], extracted[name])
		r.Outcomes = append(r.Outcomes, o)
		switch o.Status {
		case StatusMatch:
			r.Matches++
		case StatusMismatch:
			r.Mismatches++
		default:
			r.Missing++
		}
	}
	return r
}
