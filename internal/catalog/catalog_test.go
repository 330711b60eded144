package catalog

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	c := New()

	t.Run("all core fields registered", func(t *testing.T) {
		for _, name := range []string{
			FieldBrandName, FieldFancifulName, FieldClassType,
			FieldAlcoholContent, FieldNetContents, FieldHealthWarning,
			FieldQualifyingPhrase, FieldCountryOfOrigin,
			FieldSulfiteDeclaration, FieldVintageYear, FieldGrapeVarietal,
			FieldAppellationOfOrigin, FieldAgeStatement,
		} {
			if !c.Has(name) {
				t.Errorf("missing field %q", name)
			}
		}
	})

	t.Run("wine fields include varietal, spirits do not", func(t *testing.T) {
		wine := c.FieldNamesFor(BeverageWine)
		spirits := c.FieldNamesFor(BeverageSpirits)

		if !contains(wine, FieldGrapeVarietal) {
			t.Error("wine should include grape_varietal")
		}
		if contains(spirits, FieldGrapeVarietal) {
			t.Error("spirits should not include grape_varietal")
		}
		if !contains(spirits, FieldAgeStatement) {
			t.Error("spirits should include age_statement")
		}
		if contains(wine, FieldAgeStatement) {
			t.Error("wine should not include age_statement")
		}
	})

	t.Run("unknown type returns union of all fields", func(t *testing.T) {
		names := c.FieldNamesFor(BeverageUnknown)
		if len(names) != len(c.All()) {
			t.Errorf("unknown type returned %d fields, want %d", len(names), len(c.All()))
		}
	})
}

func TestKnownValuesLongestFirst(t *testing.T) {
	c := New()
	phrases := c.KnownValuesLongestFirst(FieldQualifyingPhrase)
	if len(phrases) == 0 {
		t.Fatal("no qualifying phrases in vocabulary")
	}

	for i := 1; i < len(phrases); i++ {
		if len(phrases[i]) > len(phrases[i-1]) {
			t.Fatalf("phrases not sorted longest-first: %q before %q", phrases[i-1], phrases[i])
		}
	}

	// "Produced and Bottled by" must sort ahead of its substring "Bottled by".
	longIdx, shortIdx := -1, -1
	for i, p := range phrases {
		switch p {
		case "Produced and Bottled by":
			longIdx = i
		case "Bottled by":
			shortIdx = i
		}
	}
	if longIdx == -1 || shortIdx == -1 {
		t.Fatal("expected both 'Produced and Bottled by' and 'Bottled by' in vocabulary")
	}
	if longIdx > shortIdx {
		t.Error("'Produced and Bottled by' should sort before 'Bottled by'")
	}
}

func TestParseBeverageType(t *testing.T) {
	cases := map[string]BeverageType{
		"wine":              BeverageWine,
		"malt_beverage":     BeverageMalt,
		"distilled_spirits": BeverageSpirits,
		"":                  BeverageUnknown,
		"cider":             BeverageUnknown,
	}
	for in, want := range cases {
		if got := ParseBeverageType(in); got != want {
			t.Errorf("ParseBeverageType(%q) = %q, want %q", in, got, want)
		}
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
