package providers

import (
	"testing"
)

func TestParseStructuredJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "plain object",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "code fenced",
			input: "```json\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "fence without language",
			input: "```\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "surrounding prose",
			input: "Here is the result:\n{\"a\":1}\nDone.",
			want:  `{"a":1}`,
		},
		{
			name:  "array",
			input: `[1,2,3]`,
			want:  `[1,2,3]`,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "not json",
			input:   "no json here",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStructuredJSON(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseStructuredJSON(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseStructuredJSON(%q) error = %v", tt.input, err)
			}
			if string(got) != tt.want {
				t.Errorf("parseStructuredJSON(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	if got := stripCodeFences("no fences"); got != "" {
		t.Errorf("stripCodeFences = %q, want empty", got)
	}
	if got := stripCodeFences("```json\n{}\n```"); got != "{}" {
		t.Errorf("stripCodeFences = %q, want {}", got)
	}
}

func TestExtractJSONCandidate(t *testing.T) {
	if got := extractJSONCandidate("prefix {\"a\":1} suffix"); got != `{"a":1}` {
		t.Errorf("extractJSONCandidate = %q", got)
	}
	if got := extractJSONCandidate("nothing"); got != "" {
		t.Errorf("extractJSONCandidate = %q, want empty", got)
	}
}
