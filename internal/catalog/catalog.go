// Package catalog defines the static registry of regulated label fields:
// which fields exist, which beverage categories each applies to, and the
// known-value vocabularies for fixed-vocabulary fields. The catalog is
// constructed once at startup and never mutated.
package catalog

import (
	"fmt"
	"sort"
)

// BeverageType identifies the regulated beverage category of a label.
type BeverageType string

const (
	BeverageWine    BeverageType = "wine"
	BeverageMalt    BeverageType = "malt_beverage"
	BeverageSpirits BeverageType = "distilled_spirits"

	// BeverageUnknown means the category has not been determined; field
	// lookups fall back to the union across all categories.
	BeverageUnknown BeverageType = ""
)

// BeverageTypes lists the known categories in a stable order.
var BeverageTypes = []BeverageType{BeverageWine, BeverageMalt, BeverageSpirits}

// ParseBeverageType maps a wire string to a BeverageType.
// Unrecognized values map to BeverageUnknown rather than erroring so a
// missing or garbled category degrades to the all-fields union.
func ParseBeverageType(s string) BeverageType {
	switch BeverageType(s) {
	case BeverageWine, BeverageMalt, BeverageSpirits:
		return BeverageType(s)
	}
	return BeverageUnknown
}

// FieldDefinition describes one regulated label field.
type FieldDefinition struct {
	// Name is the canonical snake_case field identifier, e.g. "brand_name".
	Name string

	// Description is shown to reviewers and included in LLM prompts.
	Description string

	// AppliesTo holds the beverage categories the field is mandatory or
	// relevant for.
	AppliesTo map[BeverageType]bool

	// KnownValues is the fixed vocabulary for fields whose printed text
	// must come from a known phrase list (qualifying phrases, varietals,
	// class/type descriptions). Nil for free-form fields.
	KnownValues []string
}

// Applies reports whether the field is relevant for the given category.
// Every field applies when the category is unknown.
func (f *FieldDefinition) Applies(bt BeverageType) bool {
	if bt == BeverageUnknown {
		return true
	}
	return f.AppliesTo[bt]
}

// Catalog is the immutable field registry.
type Catalog struct {
	fields []FieldDefinition
	byName map[string]*FieldDefinition
}

// New builds the catalog from the built-in field set and the embedded
// vocabulary file. It panics only on a corrupt embedded vocabulary, which is
// a build defect, not a runtime condition.
func New() *Catalog {
	vocab, err := loadVocab()
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded vocabulary is invalid: %v", err))
	}
	return newWithVocab(vocab)
}

func newWithVocab(v *vocab) *Catalog {
	c := &Catalog{
		fields: buildFields(v),
		byName: make(map[string]*FieldDefinition),
	}
	for i := range c.fields {
		c.byName[c.fields[i].Name] = &c.fields[i]
	}
	return c
}

// Lookup returns the definition for a field name, or nil if unknown.
func (c *Catalog) Lookup(name string) *FieldDefinition {
	return c.byName[name]
}

// Has reports whether the field name exists in the registry.
func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// FieldsFor returns the definitions applicable to the given beverage type,
// in registry order. Unknown type returns every field.
func (c *Catalog) FieldsFor(bt BeverageType) []*FieldDefinition {
	var out []*FieldDefinition
	for i := range c.fields {
		if c.fields[i].Applies(bt) {
			out = append(out, &c.fields[i])
		}
	}
	return out
}

// FieldNamesFor returns the applicable field names for a beverage type.
func (c *Catalog) FieldNamesFor(bt BeverageType) []string {
	defs := c.FieldsFor(bt)
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// All returns every field definition in registry order.
func (c *Catalog) All() []*FieldDefinition {
	out := make([]*FieldDefinition, len(c.fields))
	for i := range c.fields {
		out[i] = &c.fields[i]
	}
	return out
}

// KnownValuesLongestFirst returns the field's vocabulary sorted so longer
// phrases come first. Extraction prefers the longest matching phrase when a
// shorter phrase is a substring of a longer one (e.g. "Produced and Bottled
// by" over "Bottled by").
func (c *Catalog) KnownValuesLongestFirst(name string) []string {
	def := c.byName[name]
	if def == nil || len(def.KnownValues) == 0 {
		return nil
	}
	out := make([]string, len(def.KnownValues))
	copy(out, def.KnownValues)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out
}
