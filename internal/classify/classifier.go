package classify

import (
	"log/slog"
	"sort"

	"github.com/colaops/labelcheck/internal/catalog"
)

// Classifier is the rule-based label field classifier. It is stateless
// beyond the immutable catalog reference and safe for concurrent use.
type Classifier struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// New creates a classifier over the given field catalog.
func New(cat *catalog.Catalog, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{catalog: cat, logger: logger}
}

// Classify runs rule-based classification over OCR text.
//
// With declared values (the specialist flow) it runs in verification mode:
// each declared value is located in the text via the strategy cascade and
// scored by match quality. Without declared values (the applicant flow) it
// runs in extraction mode, discovering field values from scratch.
//
// Classify never fails: every requested field appears in the result, with a
// nil value and zero confidence when no evidence was found.
func (c *Classifier) Classify(fullText string, bt catalog.BeverageType, declared map[string]string) ClassificationResult {
	detected := bt
	if detected == catalog.BeverageUnknown && fullText != "" {
		detected = c.detectBeverageType(fullText)
	}

	var fields []ExtractedField
	if len(declared) > 0 {
		fields = c.verifyDeclared(fullText, declared)
	} else {
		fields = c.extractAll(fullText, bt)
	}

	return ClassificationResult{
		Fields:               fields,
		DetectedBeverageType: detected,
	}
}

// verifyDeclared locates each declared value in the label text. Field names
// absent from the catalog are skipped so results never reference unknown
// fields.
func (c *Classifier) verifyDeclared(fullText string, declared map[string]string) []ExtractedField {
	names := make([]string, 0, len(declared))
	for name := range declared {
		if !c.catalog.Has(name) {
			c.logger.Warn("skipping declared value for unknown field", "field", name)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]ExtractedField, 0, len(names))
	for _, name := range names {
		attempt, ok := matchDeclared(fullText, declared[name])
		if !ok {
			fields = append(fields, notFound(name))
			continue
		}
		fields = append(fields, found(name, attempt.Value, attempt.Reasoning, attempt.Confidence))
	}
	return fields
}

// extractAll discovers values for every catalog field applicable to the
// beverage type (all fields when the type is unknown).
func (c *Classifier) extractAll(fullText string, bt catalog.BeverageType) []ExtractedField {
	byName := make(map[string]ExtractedField)

	vintage := extractVintageYear(fullText)
	byName[catalog.FieldHealthWarning] = extractHealthWarning(fullText)
	byName[catalog.FieldAlcoholContent] = extractAlcoholContent(fullText)
	byName[catalog.FieldNetContents] = extractNetContents(fullText)
	byName[catalog.FieldQualifyingPhrase] = c.extractQualifyingPhrase(fullText)
	byName[catalog.FieldSulfiteDeclaration] = extractSulfiteDeclaration(fullText)
	byName[catalog.FieldVintageYear] = vintage
	byName[catalog.FieldGrapeVarietal] = c.extractVocabField(catalog.FieldGrapeVarietal, fullText, 85)
	byName[catalog.FieldAppellationOfOrigin] = c.extractAppellation(fullText, vintage)
	byName[catalog.FieldAgeStatement] = extractAgeStatement(fullText)
	byName[catalog.FieldCountryOfOrigin] = extractCountryOfOrigin(fullText)
	byName[catalog.FieldClassType] = c.extractVocabField(catalog.FieldClassType, fullText, 85)

	// Brand and fanciful name run last: their candidates are top-of-label
	// lines not already claimed by the extractors above.
	var claimed []string
	for _, f := range byName {
		if f.Found() {
			claimed = append(claimed, *f.Value)
		}
	}
	brand, fanciful := extractBrandAndFanciful(fullText, claimed)
	byName[catalog.FieldBrandName] = brand
	byName[catalog.FieldFancifulName] = fanciful

	// Emit in registry order, restricted to the applicable field set.
	defs := c.catalog.FieldsFor(bt)
	fields := make([]ExtractedField, 0, len(defs))
	for _, def := range defs {
		if f, ok := byName[def.Name]; ok {
			fields = append(fields, f)
		} else {
			fields = append(fields, notFound(def.Name))
		}
	}
	return fields
}
