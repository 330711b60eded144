package classify

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMatchExact(t *testing.T) {
	t.Run("whole line scores above embedded substring", func(t *testing.T) {
		whole, ok := matchExact("BULLEIT BOURBON\n750 mL", "BULLEIT BOURBON")
		if !ok {
			t.Fatal("expected whole-line match")
		}
		sub, ok := matchExact("BULLEIT BOURBON\n750 mL", "BULLEIT")
		if !ok {
			t.Fatal("expected substring match")
		}
		if whole.Confidence <= sub.Confidence {
			t.Errorf("whole-line confidence %d should exceed substring %d", whole.Confidence, sub.Confidence)
		}
		if sub.Confidence < 90 {
			t.Errorf("exact substring confidence %d, want >= 90", sub.Confidence)
		}
	})

	t.Run("case insensitive, original casing recovered", func(t *testing.T) {
		a, ok := matchExact("OLD TOM GIN", "old tom gin")
		if !ok {
			t.Fatal("expected match")
		}
		if a.Value != "OLD TOM GIN" {
			t.Errorf("value = %q, want original label casing", a.Value)
		}
	})

	t.Run("multibyte runes that grow when lowered", func(t *testing.T) {
		// Ⱥ (U+023A) is 2 bytes but its lowercase ⱥ (U+2C65) is 3, so byte
		// offsets in the lowered text diverge from the original.
		a, ok := matchExact("ȺȺȺȺ wine", "wine")
		if !ok {
			t.Fatal("expected match")
		}
		if a.Value != "wine" {
			t.Errorf("value = %q, want %q", a.Value, "wine")
		}
	})

	t.Run("multibyte runes that shrink when lowered", func(t *testing.T) {
		// K (U+212A KELVIN SIGN) is 3 bytes but lowercases to 1-byte k.
		a, ok := matchExact("KKK wine label", "wine")
		if !ok {
			t.Fatal("expected match")
		}
		if a.Value != "wine" {
			t.Errorf("value = %q, want %q", a.Value, "wine")
		}
		if !utf8.ValidString(a.Value) {
			t.Errorf("value %q is not valid UTF-8", a.Value)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if _, ok := matchExact("something else", "BULLEIT"); ok {
			t.Error("unexpected match")
		}
	})
}

func TestMatchPunctStripped(t *testing.T) {
	a, ok := matchPunctStripped("45% Alc/Vol", "45% Alc./Vol.")
	if !ok {
		t.Fatal("expected match after stripping punctuation")
	}
	if a.Confidence < 85 || a.Confidence > 88 {
		t.Errorf("confidence %d outside [85,88]", a.Confidence)
	}
}

func TestMatchPunctSpaceCollapsed(t *testing.T) {
	a, ok := matchPunctSpaceCollapsed("NET CONTENTS 750mL", "750 mL")
	if !ok {
		t.Fatal("expected match after collapsing spaces")
	}
	if a.Confidence != 85 {
		t.Errorf("confidence = %d, want 85", a.Confidence)
	}
}

func TestMatchFuzzyWindow(t *testing.T) {
	t.Run("tolerates OCR character noise", func(t *testing.T) {
		// 'I' dropped and 'O' garbled to '0'.
		a, ok := matchFuzzyWindow("BULLET B0URBON FRONTIER WHISKEY", "BULLEIT BOURBON")
		if !ok {
			t.Fatal("expected fuzzy match")
		}
		if a.Confidence < 70 {
			t.Errorf("confidence %d below floor 70", a.Confidence)
		}
		if a.Confidence > 90 {
			t.Errorf("confidence %d above fuzzy ceiling 90", a.Confidence)
		}
	})

	t.Run("rejects dissimilar text", func(t *testing.T) {
		if _, ok := matchFuzzyWindow("completely unrelated words here", "BULLEIT BOURBON"); ok {
			t.Error("unexpected fuzzy match")
		}
	})
}

func TestMatchTokenOverlap(t *testing.T) {
	t.Run("matches across fragmented lines", func(t *testing.T) {
		text := "Kentucky\nStraight\nsomething\nBourbon garbage Whiskey Frontier"
		a, ok := matchTokenOverlap(text, "Kentucky Straight Bourbon Whiskey Frontier")
		if !ok {
			t.Fatal("expected token overlap match")
		}
		if a.Confidence < 75 {
			t.Errorf("confidence %d below floor 75", a.Confidence)
		}
	})

	t.Run("does not activate below 3 significant tokens", func(t *testing.T) {
		if _, ok := matchTokenOverlap("OLD TOM anything at all", "OLD TOM"); ok {
			t.Error("token overlap must not activate with fewer than 3 significant tokens")
		}
		// Two significant tokens plus short ones still inactive.
		if _, ok := matchTokenOverlap("Napa Valley of CA", "Napa Valley of CA"); ok {
			t.Error("tokens shorter than 3 chars must not count as significant")
		}
	})
}

func TestCascadeOrdering(t *testing.T) {
	// An exact declared value present verbatim must always win the exact
	// tier, never a lower fuzzy one.
	text := "BULLEIT BOURBON\n45% Alc./Vol."
	a, ok := matchDeclared(text, "BULLEIT")
	if !ok {
		t.Fatal("expected match")
	}
	if a.Confidence < 90 {
		t.Errorf("verbatim value scored %d, want >= 90", a.Confidence)
	}

	fuzzy, ok := matchFuzzyWindow(text, "BULLEIT")
	if ok && fuzzy.Confidence > a.Confidence {
		t.Errorf("fuzzy confidence %d must not exceed exact %d", fuzzy.Confidence, a.Confidence)
	}
}

func TestAmpersandPrePass(t *testing.T) {
	t.Run("text ampersand matches declared and", func(t *testing.T) {
		a, ok := matchDeclared("Produced & Bottled by Example Winery", "Produced and Bottled by")
		if !ok {
			t.Fatal("expected match")
		}
		if a.Confidence < 90 {
			t.Errorf("confidence %d, want >= 90 (inherits exact tier)", a.Confidence)
		}
	})
	t.Run("text and matches declared ampersand", func(t *testing.T) {
		a, ok := matchDeclared("Produced and Bottled by Example Winery", "Produced & Bottled by")
		if !ok {
			t.Fatal("expected match")
		}
		if a.Confidence < 90 {
			t.Errorf("confidence %d, want >= 90", a.Confidence)
		}
	})
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"bourbon", "b0urbon", 1},
		{"same", "same", 0},
	}
	for _, c := range cases {
		if got := levenshtein(c.a, c.b); got != c.want {
			t.Errorf("levenshtein(%q,%q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestSignificantTokens(t *testing.T) {
	toks := significantTokens("Produced & Bottled by D. & Co.")
	for _, tok := range toks {
		if len(tok) < 3 {
			t.Errorf("token %q shorter than 3 chars", tok)
		}
		if strings.ContainsAny(tok, ".,&") {
			t.Errorf("token %q not punctuation-stripped", tok)
		}
	}
}
