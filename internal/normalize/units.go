package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Unit-aware numeric normalization for the comparator. Net contents reduce
// to millilitres; alcohol content reduces to percent alcohol by volume
// (proof is halved). Field names here match the catalog constants; the
// string values are duplicated to keep this package dependency-free.
const (
	fieldAlcoholContent = "alcohol_content"
	fieldNetContents    = "net_contents"
)

var (
	netContentsRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(mL|ML|L|FL\.?\s*OZ\.?|OZ)\b`)
	abvPercentRe  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%`)
	proofRe       = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*proof`)
)

const flozToML = 29.5735

// ParseMilliliters extracts a net contents quantity and converts it to
// millilitres. Returns ok=false when no quantity+unit pair is present.
func ParseMilliliters(s string) (float64, bool) {
	m := netContentsRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	numStr := m[1]
	if i := strings.IndexByte(numStr, ','); i >= 0 {
		// A comma followed by exactly three digits is a thousands separator
		// ("1,000 mL"); otherwise it is a decimal comma ("750,5 mL").
		if len(numStr)-i-1 == 3 {
			numStr = numStr[:i] + numStr[i+1:]
		} else {
			numStr = numStr[:i] + "." + numStr[i+1:]
		}
	}
	n, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, false
	}
	unit := strings.ToUpper(CollapseSpaces(StripPunctuation(m[2])))
	switch unit {
	case "ML":
		return n, true
	case "L":
		return n * 1000, true
	case "FLOZ", "OZ":
		return n * flozToML, true
	}
	return 0, false
}

// ParseABV extracts the percent alcohol by volume from either a
// "N% Alc./Vol." or an "N Proof" statement. Proof values are halved.
func ParseABV(s string) (float64, bool) {
	if m := abvPercentRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return n, true
		}
	}
	if m := proofRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return n / 2, true
		}
	}
	return 0, false
}

// ToComparableUnits reduces a field value to its canonical comparison form.
// Unit-bearing fields compare by magnitude; everything else falls through to
// Comparable. Total: unparsable unit values fall back to text comparison
// rather than erroring.
func ToComparableUnits(fieldName, s string) string {
	switch fieldName {
	case fieldNetContents:
		if ml, ok := ParseMilliliters(s); ok {
			return formatMagnitude(ml) + " ml"
		}
	case fieldAlcoholContent:
		if abv, ok := ParseABV(s); ok {
			return formatMagnitude(abv) + "% abv"
		}
	}
	return Comparable(s)
}

// formatMagnitude renders a float without trailing zero noise so 750 and
// 750.0 compare equal.
func formatMagnitude(f float64) string {
	out := strconv.FormatFloat(f, 'f', 2, 64)
	out = strings.TrimRight(out, "0")
	out = strings.TrimRight(out, ".")
	if out == "" || out == "-" {
		return "0"
	}
	return out
}
