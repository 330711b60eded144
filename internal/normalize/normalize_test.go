package normalize

import (
	"math"
	"testing"
)

func TestStripPunctuation(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Vol.", "Vol"},
		{"Alc./Vol.", "Alc/Vol"},
		{"(90 Proof)", "90 Proof"},
		{"Napa, CA; USA:", "Napa CA USA"},
		{"45% Alc.", "45% Alc"},   // percent preserved
		{"P & B", "P & B"},        // ampersand preserved
		{"", ""},
	}
	for _, c := range cases {
		if got := StripPunctuation(c.in); got != c.want {
			t.Errorf("StripPunctuation(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCollapseSpaces(t *testing.T) {
	if got := CollapseSpaces("750 mL"); got != "750mL" {
		t.Errorf("got %q", got)
	}
	if got := CollapseSpaces(" a\tb\nc "); got != "abc" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeAmpersand(t *testing.T) {
	t.Run("ampersand becomes and", func(t *testing.T) {
		if got := NormalizeAmpersand("Produced & Bottled by"); got != "Produced and Bottled by" {
			t.Errorf("got %q", got)
		}
	})
	t.Run("tight ampersand", func(t *testing.T) {
		if got := NormalizeAmpersand("P&B"); got != "P and B" {
			t.Errorf("got %q", got)
		}
	})
	t.Run("bidirectional via both-sides application", func(t *testing.T) {
		a := NormalizeAmpersand("Produced & Bottled by")
		b := NormalizeAmpersand("Produced and Bottled by")
		if a != b {
			t.Errorf("%q != %q", a, b)
		}
	})
}

func TestIdempotence(t *testing.T) {
	inputs := []string{
		"Produced & Bottled by Example Winery",
		"GOVERNMENT WARNING: (1) According to the Surgeon General...",
		"750 mL",
		"45% Alc./Vol. (90 Proof)",
		"",
	}
	fns := map[string]func(string) string{
		"StripPunctuation":   StripPunctuation,
		"CollapseSpaces":     CollapseSpaces,
		"NormalizeAmpersand": NormalizeAmpersand,
		"Fold":               Fold,
		"Comparable":         Comparable,
	}
	for name, fn := range fns {
		for _, in := range inputs {
			once := fn(in)
			if twice := fn(once); twice != once {
				t.Errorf("%s not idempotent on %q: %q -> %q", name, in, once, twice)
			}
		}
	}
}

func TestParseMilliliters(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"750 mL", 750, true},
		{"750mL", 750, true},
		{"750 ML", 750, true},
		{"1.5 L", 1500, true},
		{"12 FL OZ", 12 * 29.5735, true},
		{"12 FL. OZ.", 12 * 29.5735, true},
		{"1,000 mL", 1000, true},
		{"1,5 L", 1500, true},
		{"no contents here", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseMilliliters(c.in)
		if ok != c.ok {
			t.Errorf("ParseMilliliters(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && math.Abs(got-c.want) > 0.01 {
			t.Errorf("ParseMilliliters(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseABV(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"45% Alc./Vol.", 45, true},
		{"45 % alc/vol", 45, true},
		{"90 Proof", 45, true},
		{"13.5% Alc. by Vol.", 13.5, true},
		{"alcohol free", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseABV(c.in)
		if ok != c.ok {
			t.Errorf("ParseABV(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && math.Abs(got-c.want) > 0.001 {
			t.Errorf("ParseABV(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestToComparableUnits(t *testing.T) {
	t.Run("net contents unify across units and spacing", func(t *testing.T) {
		a := ToComparableUnits("net_contents", "750 mL")
		b := ToComparableUnits("net_contents", "750mL")
		c := ToComparableUnits("net_contents", "0.75 L")
		if a != b || b != c {
			t.Errorf("expected equal canonical forms, got %q %q %q", a, b, c)
		}
	})
	t.Run("proof halves to abv", func(t *testing.T) {
		a := ToComparableUnits("alcohol_content", "45% Alc./Vol.")
		b := ToComparableUnits("alcohol_content", "90 Proof")
		if a != b {
			t.Errorf("expected %q == %q", a, b)
		}
	})
	t.Run("text fields fall through to Comparable", func(t *testing.T) {
		a := ToComparableUnits("brand_name", "Example & Sons")
		b := ToComparableUnits("brand_name", "example and sons")
		if a != b {
			t.Errorf("expected %q == %q", a, b)
		}
	})
}
