package compare

import "testing"

func strPtr(s string) *string { return &s }

func TestField(t *testing.T) {
	t.Run("nil extracted never matches", func(t *testing.T) {
		for _, declared := range []string{"BULLEIT", "750 mL", "a"} {
			o := Field("brand_name", declared, nil)
			if o.Status != StatusMissingExtracted {
				t.Errorf("declared %q: status = %q, want missing_extracted", declared, o.Status)
			}
		}
	})

	t.Run("missing declared", func(t *testing.T) {
		o := Field("brand_name", "  ", strPtr("BULLEIT"))
		if o.Status != StatusMissingDeclared {
			t.Errorf("status = %q, want missing_declared", o.Status)
		}
	})

	t.Run("net contents match across unit spellings", func(t *testing.T) {
		cases := [][2]string{
			{"750 mL", "750mL"},
			{"750 mL", "0.75 L"},
			{"750 ML", "750 mL"},
		}
		for _, c := range cases {
			o := Field("net_contents", c[0], strPtr(c[1]))
			if o.Status != StatusMatch {
				t.Errorf("net_contents %q vs %q: status = %q, want match", c[0], c[1], o.Status)
			}
		}
	})

	t.Run("net contents magnitude mismatch", func(t *testing.T) {
		o := Field("net_contents", "750 mL", strPtr("1 L"))
		if o.Status != StatusMismatch {
			t.Errorf("status = %q, want mismatch", o.Status)
		}
	})

	t.Run("alcohol content proof equals abv", func(t *testing.T) {
		o := Field("alcohol_content", "45% Alc./Vol.", strPtr("90 Proof"))
		if o.Status != StatusMatch {
			t.Errorf("status = %q, want match", o.Status)
		}
	})

	t.Run("text fields normalize ampersand and punctuation", func(t *testing.T) {
		o := Field("qualifying_phrase", "Produced and Bottled by", strPtr("Produced & Bottled by"))
		if o.Status != StatusMatch {
			t.Errorf("status = %q, want match", o.Status)
		}
	})

	t.Run("declared value inside longer extracted statement", func(t *testing.T) {
		o := Field("brand_name", "BULLEIT", strPtr("BULLEIT BOURBON"))
		if o.Status != StatusMatch {
			t.Errorf("status = %q, want match", o.Status)
		}
	})

	t.Run("genuine mismatch", func(t *testing.T) {
		o := Field("brand_name", "BULLEIT", strPtr("MAKER'S MARK"))
		if o.Status != StatusMismatch {
			t.Errorf("status = %q, want mismatch", o.Status)
		}
	})
}

func TestBuildReport(t *testing.T) {
	declared := map[string]string{
		"brand_name":      "BULLEIT",
		"alcohol_content": "45% Alc./Vol.",
		"net_contents":    "750 mL",
	}
	extracted := map[string]*string{
		"brand_name":      strPtr("BULLEIT BOURBON"),
		"alcohol_content": strPtr("40% Alc./Vol."),
		// net_contents absent
	}

	r := BuildReport(declared, extracted)
	if r.Matches != 1 || r.Mismatches != 1 || r.Missing != 1 {
		t.Errorf("tallies = %d/%d/%d, want 1/1/1", r.Matches, r.Mismatches, r.Missing)
	}
	if len(r.Outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(r.Outcomes))
	}
	// Deterministic order by field name.
	if r.Outcomes[0].FieldName != "alcohol_content" {
		t.Errorf("outcomes not sorted: first = %q", r.Outcomes[0].FieldName)
	}
}
