package catalog

// Canonical field names. Referenced throughout the classifier, comparator,
// and prompt construction; keep in sync with buildFields.
const (
	FieldBrandName           = "brand_name"
	FieldFancifulName        = "fanciful_name"
	FieldClassType           = "class_type"
	FieldAlcoholContent      = "alcohol_content"
	FieldNetContents         = "net_contents"
	FieldHealthWarning       = "health_warning"
	FieldQualifyingPhrase    = "qualifying_phrase"
	FieldCountryOfOrigin     = "country_of_origin"
	FieldSulfiteDeclaration  = "sulfite_declaration"
	FieldVintageYear         = "vintage_year"
	FieldGrapeVarietal       = "grape_varietal"
	FieldAppellationOfOrigin = "appellation_of_origin"
	FieldAgeStatement        = "age_statement"
)

func all() map[BeverageType]bool {
	return map[BeverageType]bool{
		BeverageWine:    true,
		BeverageMalt:    true,
		BeverageSpirits: true,
	}
}

func wineOnly() map[BeverageType]bool {
	return map[BeverageType]bool{BeverageWine: true}
}

func spiritsOnly() map[BeverageType]bool {
	return map[BeverageType]bool{BeverageSpirits: true}
}

func buildFields(v *vocab) []FieldDefinition {
	return []FieldDefinition{
		{
			Name:        FieldBrandName,
			Description: "The brand name under which the product is sold, usually the most prominent text on the label.",
			AppliesTo:   all(),
		},
		{
			Name:        FieldFancifulName,
			Description: "A distinctive or fanciful product name displayed in addition to the brand name.",
			AppliesTo:   all(),
		},
		{
			Name:        FieldClassType,
			Description: "The class or type designation of the product (e.g. 'Kentucky Straight Bourbon Whiskey', 'Red Wine', 'India Pale Ale').",
			AppliesTo:   all(),
			KnownValues: v.ClassTypes,
		},
		{
			Name:        FieldAlcoholContent,
			Description: "The alcohol content statement, e.g. '45% Alc./Vol.' or '90 Proof'.",
			AppliesTo:   all(),
		},
		{
			Name:        FieldNetContents,
			Description: "The net contents statement, e.g. '750 mL' or '12 FL OZ'.",
			AppliesTo:   all(),
		},
		{
			Name:        FieldHealthWarning,
			Description: "The statutory GOVERNMENT WARNING statement, verbatim.",
			AppliesTo:   all(),
		},
		{
			Name:        FieldQualifyingPhrase,
			Description: "The legal attribution phrase, e.g. 'Produced and Bottled by'.",
			AppliesTo:   all(),
			KnownValues: v.QualifyingPhrases,
		},
		{
			Name:        FieldCountryOfOrigin,
			Description: "Country of origin for imported products, e.g. 'Product of France'.",
			AppliesTo:   all(),
		},
		{
			Name:        FieldSulfiteDeclaration,
			Description: "The 'Contains Sulfites' declaration, if present.",
			AppliesTo:   wineOnly(),
		},
		{
			Name:        FieldVintageYear,
			Description: "The vintage year printed on the label, e.g. '2019'.",
			AppliesTo:   wineOnly(),
		},
		{
			Name:        FieldGrapeVarietal,
			Description: "The grape varietal designation, e.g. 'Cabernet Sauvignon'.",
			AppliesTo:   wineOnly(),
			KnownValues: v.GrapeVarietals,
		},
		{
			Name:        FieldAppellationOfOrigin,
			Description: "The appellation of origin, e.g. 'Napa Valley' or 'Willamette Valley'.",
			AppliesTo:   wineOnly(),
			KnownValues: v.Appellations,
		},
		{
			Name:        FieldAgeStatement,
			Description: "The age statement for aged spirits, e.g. 'Aged 12 Years'.",
			AppliesTo:   spiritsOnly(),
		},
	}
}
