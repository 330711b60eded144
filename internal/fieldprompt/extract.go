package fieldprompt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/colaops/labelcheck/internal/catalog"
	"github.com/colaops/labelcheck/internal/classify"
	"github.com/colaops/labelcheck/internal/providers"
)

// CallUsage reports provider metadata for one extraction call: token
// consumption (zero when the provider omits usage) and the model that
// actually served the request.
type CallUsage struct {
	Input  int    `json:"input"`
	Output int    `json:"output"`
	Total  int    `json:"total"`
	Model  string `json:"model"`
}

// Extract runs one LLM classification call over the combined label text and
// returns the validated result. Malformed responses are errors, never
// partial results.
func Extract(ctx context.Context, client providers.LLMClient, cat *catalog.Catalog, fullText string, bt catalog.BeverageType) (*classify.ClassificationResult, CallUsage, error) {
	req := BuildRequest(cat, fullText, bt)

	res, err := client.Chat(ctx, req)
	if err != nil {
		return nil, CallUsage{}, fmt.Errorf("llm extraction call failed: %w", err)
	}

	usage := CallUsage{
		Input:  res.PromptTokens,
		Output: res.CompletionTokens,
		Total:  res.TotalTokens,
		Model:  res.ModelUsed,
	}
	if usage.Total == 0 {
		usage.Total = usage.Input + usage.Output
	}

	payload := res.ParsedJSON
	if len(payload) == 0 {
		if strings.TrimSpace(res.Content) == "" {
			return nil, usage, fmt.Errorf("llm returned empty response content")
		}
		payload = json.RawMessage(res.Content)
	}

	result, err := ParseResult(cat, bt, payload)
	if err != nil {
		return nil, usage, err
	}
	return result, usage, nil
}

// ParseResult validates and converts a raw model response. It enforces the
// schema plus the invariants a schema cannot express: field names must exist
// in the catalog for the requested beverage type, confidence must be in
// [0,100], and a non-null value requires a positive confidence. Violations
// are rejected, never clamped.
func ParseResult(cat *catalog.Catalog, bt catalog.BeverageType, payload json.RawMessage) (*classify.ClassificationResult, error) {
	if err := validateAgainstSchema(payload); err != nil {
		return nil, err
	}

	var raw rawResult
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode extraction response: %w", err)
	}

	requested := make(map[string]bool)
	for _, name := range cat.FieldNamesFor(bt) {
		requested[name] = true
	}

	seen := make(map[string]bool, len(raw.Fields))
	fields := make([]classify.ExtractedField, 0, len(raw.Fields))
	for _, rf := range raw.Fields {
		if !requested[rf.FieldName] {
			return nil, fmt.Errorf("extraction response references unknown field %q", rf.FieldName)
		}
		if seen[rf.FieldName] {
			return nil, fmt.Errorf("extraction response repeats field %q", rf.FieldName)
		}
		seen[rf.FieldName] = true

		if rf.Confidence < 0 || rf.Confidence > classify.ConfidenceMax {
			return nil, fmt.Errorf("field %q confidence %d outside [0,100]", rf.FieldName, rf.Confidence)
		}
		if rf.Value != nil && rf.Confidence == 0 {
			return nil, fmt.Errorf("field %q has a value but zero confidence", rf.FieldName)
		}
		if rf.Value == nil && rf.Confidence != 0 {
			return nil, fmt.Errorf("field %q has no value but confidence %d", rf.FieldName, rf.Confidence)
		}

		fields = append(fields, classify.ExtractedField{
			FieldName:  rf.FieldName,
			Value:      rf.Value,
			Confidence: rf.Confidence,
			Reasoning:  rf.Reasoning,
		})
	}

	// The result must be complete: any requested field the model omitted is
	// reported as not found.
	for _, name := range cat.FieldNamesFor(bt) {
		if !seen[name] {
			fields = append(fields, classify.ExtractedField{FieldName: name})
		}
	}

	out := &classify.ClassificationResult{Fields: fields}
	if raw.DetectedBeverageType != nil {
		out.DetectedBeverageType = catalog.ParseBeverageType(*raw.DetectedBeverageType)
	}
	for _, role := range raw.ImageRoles {
		out.ImageRoles = append(out.ImageRoles, parseImageRole(role))
	}
	return out, nil
}

func parseImageRole(s string) classify.ImageRole {
	switch classify.ImageRole(s) {
	case classify.ImageRoleBrandLabel, classify.ImageRoleBackLabel,
		classify.ImageRoleNeckLabel, classify.ImageRoleOther:
		return classify.ImageRole(s)
	}
	return classify.ImageRoleUnknown
}

// validateAgainstSchema checks the payload against the canonical extraction
// schema.
func validateAgainstSchema(payload json.RawMessage) error {
	inner, err := json.Marshal(ExtractionSchema["json_schema"].(map[string]any)["schema"])
	if err != nil {
		return fmt.Errorf("failed to serialize extraction schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(inner)); err != nil {
		return fmt.Errorf("failed to load extraction schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile extraction schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("extraction response is not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("extraction response does not match schema: %w", err)
	}
	return nil
}
