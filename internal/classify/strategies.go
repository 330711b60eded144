package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/colaops/labelcheck/internal/normalize"
)

// Attempt is a successful match produced by one strategy.
type Attempt struct {
	// Value is the text the strategy attributes to the field: the original
	// label substring when it can be recovered, otherwise the declared value
	// whose presence was verified.
	Value      string
	Confidence int
	Reasoning  string
}

// Strategy is one pure matching strategy over (text, declared value).
// Strategies are evaluated in cascade order; the first success wins, so
// each strategy's confidence range must sit at or below the previous one's.
type Strategy struct {
	Name  string
	Match func(text, declared string) (Attempt, bool)
}

// Cascade is the ordered verification-mode strategy list: cheap, precise
// matches first, expensive fuzzy strategies last with floor-capped
// confidence so consumers can distinguish "certain" from "probable".
//
// Ampersand normalization is a pre-pass applied to both sides before the
// cascade runs (see matchDeclared), so an ampersand rewrite inherits the
// confidence of whichever tier matches the rewritten text.
var Cascade = []Strategy{
	{Name: "exact", Match: matchExact},
	{Name: "punctuation_stripped", Match: matchPunctStripped},
	{Name: "punctuation_space_collapsed", Match: matchPunctSpaceCollapsed},
	{Name: "fuzzy_window", Match: matchFuzzyWindow},
	{Name: "token_overlap", Match: matchTokenOverlap},
}

// Cascade confidence tiers.
const (
	confExactWhole       = 95
	confExactSubstring   = 90
	confStrippedWhole    = 88
	confStrippedSub      = 86
	confCollapsed        = 85
	confFuzzyFloor       = 70
	confFuzzyCeil        = 90
	confOverlapFloor     = 75
	confOverlapCeil      = 89
	fuzzySimilarityMin   = 0.75
	overlapFractionMin   = 0.6
	minSignificantTokens = 3
	significantTokenLen  = 3
)

// matchDeclared runs the cascade for one declared value, with the ampersand
// pre-pass applied to both sides.
func matchDeclared(text, declared string) (Attempt, bool) {
	t := normalize.NormalizeAmpersand(text)
	d := normalize.NormalizeAmpersand(declared)
	for _, s := range Cascade {
		if a, ok := s.Match(t, d); ok {
			return a, true
		}
	}
	return Attempt{}, false
}

// matchExact finds the declared value verbatim (case-insensitive). A match
// that occupies a whole line of the label text scores higher than an
// embedded substring.
func matchExact(text, declared string) (Attempt, bool) {
	d := strings.TrimSpace(declared)
	if d == "" {
		return Attempt{}, false
	}
	// Lowercasing can change a rune's byte length, so offsets into the
	// lowered text are mapped back to the original through foldWithOffsets.
	lowText, offsets := foldWithOffsets(text)
	lowDecl := strings.ToLower(d)
	idx := strings.Index(lowText, lowDecl)
	if idx < 0 {
		return Attempt{}, false
	}

	// Recover the original-cased label substring.
	start := offsets[idx]
	end := offsets[idx+len(lowDecl)]
	value := text[start:end]
	conf := confExactSubstring
	if isWholeLine(text, start, end-start) {
		conf = confExactWhole
	}
	return Attempt{
		Value:      value,
		Confidence: conf,
		Reasoning:  "exact match in label text",
	}, true
}

// foldWithOffsets lowercases text rune-wise and records, for every byte of
// the lowered string (plus one past the end), the byte offset in the
// original text where that rune starts.
func foldWithOffsets(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text)+1)
	for i, r := range text {
		lr := unicode.ToLower(r)
		for n := utf8.RuneLen(lr); n > 0; n-- {
			offsets = append(offsets, i)
		}
		b.WriteRune(lr)
	}
	offsets = append(offsets, len(text))
	return b.String(), offsets
}

// isWholeLine reports whether text[idx:idx+n] spans an entire line once
// surrounding whitespace is ignored.
func isWholeLine(text string, idx, n int) bool {
	start := strings.LastIndexByte(text[:idx], '\n') + 1
	end := strings.IndexByte(text[idx+n:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += idx + n
	}
	return strings.TrimSpace(text[start:idx]) == "" && strings.TrimSpace(text[idx+n:end]) == ""
}

func matchPunctStripped(text, declared string) (Attempt, bool) {
	d := normalize.Fold(normalize.StripPunctuation(declared))
	if d == "" {
		return Attempt{}, false
	}
	t := normalize.Fold(normalize.StripPunctuation(text))
	if !strings.Contains(t, d) {
		return Attempt{}, false
	}
	conf := confStrippedSub
	if t == d {
		conf = confStrippedWhole
	}
	return Attempt{
		Value:      strings.TrimSpace(declared),
		Confidence: conf,
		Reasoning:  "match after punctuation stripping",
	}, true
}

func matchPunctSpaceCollapsed(text, declared string) (Attempt, bool) {
	d := normalize.CollapseSpaces(normalize.StripPunctuation(strings.ToLower(declared)))
	if d == "" {
		return Attempt{}, false
	}
	t := normalize.CollapseSpaces(normalize.StripPunctuation(strings.ToLower(text)))
	if !strings.Contains(t, d) {
		return Attempt{}, false
	}
	return Attempt{
		Value:      strings.TrimSpace(declared),
		Confidence: confCollapsed,
		Reasoning:  "match after punctuation stripping and space collapsing",
	}, true
}

// matchFuzzyWindow slides a window of the declared value's length (with
// tolerance) across the folded text and scores each window by normalized
// Levenshtein similarity. The best window wins if it clears the similarity
// threshold; confidence scales from the floor toward the ceiling.
func matchFuzzyWindow(text, declared string) (Attempt, bool) {
	d := normalize.Fold(declared)
	t := normalize.Fold(text)
	if len(d) < 4 || len(t) == 0 {
		return Attempt{}, false
	}

	tolerance := len(d) / 4
	if tolerance < 1 {
		tolerance = 1
	}

	bestSim := 0.0
	bestWindow := ""
	for _, width := range []int{len(d) - tolerance, len(d), len(d) + tolerance} {
		if width < 1 || width > len(t) {
			continue
		}
		for start := 0; start+width <= len(t); start++ {
			window := t[start : start+width]
			sim := similarity(window, d)
			if sim > bestSim {
				bestSim = sim
				bestWindow = window
			}
		}
		if bestSim == 1 {
			break
		}
	}

	if bestSim < fuzzySimilarityMin {
		return Attempt{}, false
	}

	span := float64(confFuzzyCeil - confFuzzyFloor)
	conf := confFuzzyFloor + int(span*(bestSim-fuzzySimilarityMin)/(1-fuzzySimilarityMin)+0.5)
	if conf > confFuzzyCeil {
		conf = confFuzzyCeil
	}
	return Attempt{
		Value:      strings.TrimSpace(bestWindow),
		Confidence: conf,
		Reasoning:  "fuzzy sliding-window match",
	}, true
}

// matchTokenOverlap scores by the fraction of the declared value's
// significant tokens found anywhere in the text, order-independent. It only
// activates when the declared value has at least minSignificantTokens
// significant tokens, so short values cannot match on scattered noise.
func matchTokenOverlap(text, declared string) (Attempt, bool) {
	declTokens := significantTokens(declared)
	if len(declTokens) < minSignificantTokens {
		return Attempt{}, false
	}

	textTokens := make(map[string]bool)
	for _, tok := range significantTokens(text) {
		textTokens[tok] = true
	}

	hit := 0
	for _, tok := range declTokens {
		if textTokens[tok] {
			hit++
		}
	}
	frac := float64(hit) / float64(len(declTokens))
	if frac < overlapFractionMin {
		return Attempt{}, false
	}

	span := float64(confOverlapCeil - confOverlapFloor)
	conf := confOverlapFloor + int(span*(frac-overlapFractionMin)/(1-overlapFractionMin)+0.5)
	if conf > confOverlapCeil {
		conf = confOverlapCeil
	}
	return Attempt{
		Value:      strings.TrimSpace(declared),
		Confidence: conf,
		Reasoning:  "token overlap match across fragmented text",
	}, true
}

// significantTokens returns the punctuation-stripped, folded tokens of
// length >= significantTokenLen.
func significantTokens(s string) []string {
	fields := strings.Fields(normalize.Fold(normalize.StripPunctuation(s)))
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= significantTokenLen {
			out = append(out, f)
		}
	}
	return out
}

// similarity is normalized Levenshtein similarity in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes edit distance with a two-row table.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
