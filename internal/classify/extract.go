package classify

import (
	"regexp"
	"strings"

	"github.com/colaops/labelcheck/internal/catalog"
	"github.com/colaops/labelcheck/internal/normalize"
)

// Extraction-mode field extractors. Each is independent, anchored on the
// textual conventions of its field, and returns a not-found entry rather
// than guessing when its anchors are absent.

var (
	healthWarningAnchorRe = regexp.MustCompile(`(?i)GOVERNMENT\s+WARNING`)

	alcoholContentRe = regexp.MustCompile(
		`(?i)(\d+(?:\.\d+)?)\s*%\s*(?:alc(?:ohol)?\.?\s*[./]?\s*(?:by\s+)?vol(?:ume)?\.?|abv)`)
	proofStatementRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*proof\b`)

	netContentsStmtRe = regexp.MustCompile(`(?i)\b(\d+(?:[.,]\d+)?)\s*(mL|ML|L|FL\.?\s*OZ\.?)(?:\b|\.)`)

	sulfiteRe = regexp.MustCompile(`(?i)sul[fp]h?ites?`)

	vintageYearRe = regexp.MustCompile(`\b(19[2-9]\d|20[0-4]\d)\b`)

	ageStatementRe = regexp.MustCompile(`(?i)\baged\s+(\d+)\s+(years?|months?)\b`)

	countryAnchorRe = regexp.MustCompile(`(?i)\b(product of|imported from|made in)\s+`)
)

// countryStopWords terminate the capture after a country-of-origin anchor.
var countryStopWords = map[string]bool{
	"from": true,
	"as":   true,
	"by":   true,
	"and":  true,
	"for":  true,
}

func extractHealthWarning(text string) ExtractedField {
	loc := healthWarningAnchorRe.FindStringIndex(text)
	if loc == nil {
		return notFound(catalog.FieldHealthWarning)
	}

	// Capture from the anchor to the end of the paragraph: a blank line or,
	// failing that, the end of the text.
	rest := text[loc[0]:]
	end := len(rest)
	if i := strings.Index(rest, "\n\n"); i >= 0 {
		end = i
	}
	warning := strings.TrimSpace(strings.Join(strings.Fields(rest[:end]), " "))
	if warning == "" {
		return notFound(catalog.FieldHealthWarning)
	}
	return found(catalog.FieldHealthWarning, warning,
		"anchored on statutory warning opener", 92)
}

func extractAlcoholContent(text string) ExtractedField {
	if m := alcoholContentRe.FindString(text); m != "" {
		return found(catalog.FieldAlcoholContent, strings.TrimSpace(m),
			"matched percent alcohol by volume statement", 90)
	}
	if m := proofStatementRe.FindString(text); m != "" {
		return found(catalog.FieldAlcoholContent, strings.TrimSpace(m),
			"matched proof statement", 90)
	}
	return notFound(catalog.FieldAlcoholContent)
}

func extractNetContents(text string) ExtractedField {
	m := netContentsStmtRe.FindString(text)
	if m == "" {
		return notFound(catalog.FieldNetContents)
	}
	return found(catalog.FieldNetContents, strings.TrimSpace(strings.TrimSuffix(m, ".")),
		"matched quantity with net contents unit", 90)
}

// extractQualifyingPhrase matches the fixed attribution vocabulary,
// preferring the longest phrase present so OCR truncation to a shorter but
// still-valid phrase is not silently accepted over the fuller one.
func (c *Classifier) extractQualifyingPhrase(text string) ExtractedField {
	comparable := normalize.Comparable(text)
	collapsed := normalize.CollapseSpaces(comparable)
	for _, phrase := range c.catalog.KnownValuesLongestFirst(catalog.FieldQualifyingPhrase) {
		p := normalize.Comparable(phrase)
		if strings.Contains(comparable, p) || strings.Contains(collapsed, normalize.CollapseSpaces(p)) {
			return found(catalog.FieldQualifyingPhrase, phrase,
				"longest matching attribution phrase from vocabulary", 90)
		}
	}
	return notFound(catalog.FieldQualifyingPhrase)
}

func extractSulfiteDeclaration(text string) ExtractedField {
	loc := sulfiteRe.FindStringIndex(text)
	if loc == nil {
		return notFound(catalog.FieldSulfiteDeclaration)
	}
	line := lineAround(text, loc[0])
	return found(catalog.FieldSulfiteDeclaration, strings.TrimSpace(line),
		"sulfite declaration present", 88)
}

func extractVintageYear(text string) ExtractedField {
	m := vintageYearRe.FindString(text)
	if m == "" {
		return notFound(catalog.FieldVintageYear)
	}
	return found(catalog.FieldVintageYear, m, "plausible vintage year", 80)
}

func extractAgeStatement(text string) ExtractedField {
	m := ageStatementRe.FindString(text)
	if m == "" {
		return notFound(catalog.FieldAgeStatement)
	}
	return found(catalog.FieldAgeStatement, strings.TrimSpace(m),
		"matched age statement pattern", 90)
}

func extractCountryOfOrigin(text string) ExtractedField {
	m := countryAnchorRe.FindStringSubmatchIndex(text)
	if m == nil {
		return notFound(catalog.FieldCountryOfOrigin)
	}

	rest := text[m[1]:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	words := strings.Fields(rest)
	var captured []string
	for _, w := range words {
		clean := normalize.StripPunctuation(w)
		if clean == "" {
			break
		}
		if countryStopWords[strings.ToLower(clean)] {
			break
		}
		captured = append(captured, clean)
		if len(captured) == 3 {
			break
		}
	}
	if len(captured) == 0 {
		return notFound(catalog.FieldCountryOfOrigin)
	}
	return found(catalog.FieldCountryOfOrigin, strings.Join(captured, " "),
		"anchored country of origin statement", 85)
}

// extractVocabField matches a field against its known-value vocabulary,
// longest phrase first.
func (c *Classifier) extractVocabField(fieldName, text string, confidence int) ExtractedField {
	comparable := normalize.Comparable(text)
	for _, v := range c.catalog.KnownValuesLongestFirst(fieldName) {
		if strings.Contains(comparable, normalize.Comparable(v)) {
			return found(fieldName, v, "matched known vocabulary value", confidence)
		}
	}
	return notFound(fieldName)
}

// extractAppellation tries the vocabulary first, then falls back to the
// positional heuristic: the line carrying the vintage year often carries
// the appellation too.
func (c *Classifier) extractAppellation(text string, vintage ExtractedField) ExtractedField {
	if f := c.extractVocabField(catalog.FieldAppellationOfOrigin, text, 85); f.Found() {
		return f
	}
	if !vintage.Found() {
		return notFound(catalog.FieldAppellationOfOrigin)
	}

	loc := vintageYearRe.FindStringIndex(text)
	if loc == nil {
		return notFound(catalog.FieldAppellationOfOrigin)
	}
	line := strings.TrimSpace(strings.Replace(lineAround(text, loc[0]), *vintage.Value, "", 1))
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 4 {
		return notFound(catalog.FieldAppellationOfOrigin)
	}
	return found(catalog.FieldAppellationOfOrigin, strings.Join(words, " "),
		"text adjacent to vintage year", 70)
}

// fancifulDiscount derives the fanciful_name confidence from brand_name
// confidence; any monotonic discount that keeps fanciful at or below brand
// satisfies the contract.
func fancifulDiscount(brandConfidence int) int {
	return brandConfidence * 4 / 5
}

// extractBrandAndFanciful applies the two-pass exclusion heuristic: candidate
// lines near the top of the label stream that do not overlap values already
// claimed by other extractors. The first surviving candidate is the brand
// name; the second, at discounted confidence, the fanciful name.
func extractBrandAndFanciful(text string, claimed []string) (brand, fanciful ExtractedField) {
	brand = notFound(catalog.FieldBrandName)
	fanciful = notFound(catalog.FieldFancifulName)

	claimedComparable := make([]string, 0, len(claimed))
	for _, v := range claimed {
		if cv := normalize.Comparable(v); cv != "" {
			claimedComparable = append(claimedComparable, cv)
		}
	}

	var candidates []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "---") {
			continue
		}
		cl := normalize.Comparable(line)
		if cl == "" || isClaimed(cl, claimedComparable) || looksNumeric(cl) {
			continue
		}
		candidates = append(candidates, line)
		if len(candidates) == 8 {
			break
		}
	}

	if len(candidates) == 0 {
		return brand, fanciful
	}

	const brandConfidence = 85
	brand = found(catalog.FieldBrandName, candidates[0],
		"most prominent unclaimed line near top of label", brandConfidence)
	if len(candidates) > 1 {
		fanciful = found(catalog.FieldFancifulName, candidates[1],
			"secondary unclaimed candidate line", fancifulDiscount(brandConfidence))
	}
	return brand, fanciful
}

// isClaimed reports whether a candidate line overlaps a value some other
// extractor already attributed.
func isClaimed(line string, claimed []string) bool {
	for _, c := range claimed {
		if strings.Contains(line, c) || strings.Contains(c, line) {
			return true
		}
	}
	return false
}

// looksNumeric filters candidate lines that are mostly digits or units and
// cannot be names.
func looksNumeric(line string) bool {
	digits, letters := 0, 0
	for _, r := range line {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			letters++
		}
	}
	return digits > 0 && digits >= letters
}

// lineAround returns the full line of text containing byte offset idx.
func lineAround(text string, idx int) string {
	start := strings.LastIndexByte(text[:idx], '\n') + 1
	end := strings.IndexByte(text[idx:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += idx
	}
	return text[start:end]
}

var (
	spiritsWordRe = regexp.MustCompile(`(?i)\b(whiske?y|vodka|bourbon|tequila|rum|gin|brandy|cognac|distilled)\b`)
	wineWordRe    = regexp.MustCompile(`(?i)\b(wine|winery|vineyard|vinted|cellared)\b`)
	maltWordRe    = regexp.MustCompile(`(?i)\b(beer|ale|lager|pilsner|stout|porter|brewed|brewery)\b`)
)

// detectBeverageType infers the category from characteristic text when the
// caller did not supply one.
func (c *Classifier) detectBeverageType(text string) catalog.BeverageType {
	switch {
	case spiritsWordRe.MatchString(text) || proofStatementRe.MatchString(text):
		return catalog.BeverageSpirits
	case wineWordRe.MatchString(text) || sulfiteRe.MatchString(text):
		return catalog.BeverageWine
	case maltWordRe.MatchString(text):
		return catalog.BeverageMalt
	}
	return catalog.BeverageUnknown
}
