// Package fieldprompt implements the LLM label field classifier: it builds
// the extraction prompt for the applicable field catalog, requests a
// schema-constrained JSON response at zero temperature, and validates the
// response strictly. Unparsable JSON, confidence out of range, or unknown
// field names fail the call rather than degrading to a partially trusted
// result.
package fieldprompt

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"text/template"

	"github.com/colaops/labelcheck/internal/catalog"
	"github.com/colaops/labelcheck/internal/providers"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// SystemPrompt returns the system prompt for label field extraction.
func SystemPrompt() string {
	return systemPrompt
}

// promptField is one catalog entry rendered into the user prompt.
type promptField struct {
	Name        string
	Description string
}

// UserPromptData carries the template inputs.
type UserPromptData struct {
	BeverageType string
	Fields       []promptField
	LabelText    string
}

// UserPrompt renders the user prompt for the applicable fields and text.
func UserPrompt(data UserPromptData) string {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, data); err != nil {
		// Fallback to raw template on error
		return userPromptTmpl
	}
	return buf.String()
}

// BuildRequest constructs the chat request for one extraction call. Only
// fields applicable to the beverage type are offered; every field is
// offered when the type is unknown.
func BuildRequest(cat *catalog.Catalog, fullText string, bt catalog.BeverageType) *providers.ChatRequest {
	defs := cat.FieldsFor(bt)
	fields := make([]promptField, len(defs))
	for i, d := range defs {
		fields[i] = promptField{Name: d.Name, Description: d.Description}
	}

	btLabel := string(bt)
	if bt == catalog.BeverageUnknown {
		btLabel = "unknown"
	}

	userPrompt := UserPrompt(UserPromptData{
		BeverageType: btLabel,
		Fields:       fields,
		LabelText:    fullText,
	})

	return &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: SystemPrompt()},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: buildResponseFormat(),
		Temperature:    0,
		MaxTokens:      4096,
	}
}

func buildResponseFormat() *providers.ResponseFormat {
	jsonSchema, _ := json.Marshal(ExtractionSchema["json_schema"])
	return &providers.ResponseFormat{
		Type:       "json_schema",
		JSONSchema: jsonSchema,
	}
}
