package fieldprompt

// ExtractionSchema is the JSON schema for label field extraction output.
// The schema is strict: the model must return every requested field with an
// integer confidence in [0,100].
var ExtractionSchema = map[string]any{
	"type": "json_schema",
	"json_schema": map[string]any{
		"name":   "label_field_extraction",
		"strict": true,
		"schema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"fields": map[string]any{
					"type":        "array",
					"description": "One entry per requested label field",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"field_name": map[string]any{
								"type":        "string",
								"description": "Canonical field identifier, exactly as listed in the prompt",
							},
							"value": map[string]any{
								"type":        []string{"string", "null"},
								"description": "Verbatim value as printed on the label, null if not present",
							},
							"confidence": map[string]any{
								"type":        "integer",
								"minimum":     0,
								"maximum":     100,
								"description": "0 means not found; a non-null value requires confidence > 0",
							},
							"reasoning": map[string]any{
								"type":        []string{"string", "null"},
								"description": "Short justification for the value, null if not found",
							},
						},
						"required":             []string{"field_name", "value", "confidence", "reasoning"},
						"additionalProperties": false,
					},
				},
				"detected_beverage_type": map[string]any{
					"type":        []string{"string", "null"},
					"enum":        []any{"wine", "malt_beverage", "distilled_spirits", nil},
					"description": "Beverage category inferred from the label text, null if unclear",
				},
				"image_roles": map[string]any{
					"type":        []string{"array", "null"},
					"description": "Role of each submitted image, in order",
					"items": map[string]any{
						"type": "string",
						"enum": []string{"brand_label", "back_label", "neck_label", "other", "unknown"},
					},
				},
			},
			"required":             []string{"fields", "detected_beverage_type"},
			"additionalProperties": false,
		},
	},
}

// rawField mirrors one schema field entry on the wire.
type rawField struct {
	FieldName  string  `json:"field_name"`
	Value      *string `json:"value"`
	Confidence int     `json:"confidence"`
	Reasoning  *string `json:"reasoning"`
}

// rawResult mirrors the full schema response on the wire.
type rawResult struct {
	Fields               []rawField `json:"fields"`
	DetectedBeverageType *string    `json:"detected_beverage_type"`
	ImageRoles           []string   `json:"image_roles"`
}
