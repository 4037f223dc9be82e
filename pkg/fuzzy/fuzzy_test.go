package fuzzy

import "testing"

// Preference order: exact match > highest frequency > best fuzzy score.
func TestSuggestCorrection(t *testing.T) {
	keys := map[string]int{
		"apple":      100,
		"banana":     90,
		"orange":     80,
		"there":      1000,
		"their":      950,
		"the":        2000,
		"university": 300,
		"algorithm":  200,
	}
	m := NewMatcher(keys)

	cases := []struct {
		input       string
		want        string
		corrected   bool
		description string
	}{
		{"apple", "apple", false, "exact match"},
		{"Apple", "apple", false, "case insensitive match"},
		{"appl", "apple", true, "missing character at end"},
		{"appel", "apple", true, "character transposition"},
		{"ther", "the", true, "choose highest frequency"},
		{"ca", "ca", false, "too short to correct"},
		{"univeristy", "university", true, "transposition in longer word"},
		{"xyzabc", "xyzabc", false, "no match in vocabulary"},
		{"algrithm", "algorithm", true, "missing vowel"},
	}

	for _, c := range cases {
		got, corrected := m.SuggestCorrection(c.input)
		if got != c.want || corrected != c.corrected {
			t.Errorf("%s: SuggestCorrection(%q) = (%q, %v), want (%q, %v)",
				c.description, c.input, got, corrected, c.want, c.corrected)
		}
	}
}

func TestSuggestCorrectionEmptyVocabulary(t *testing.T) {
	m := NewMatcher(nil)
	got, corrected := m.SuggestCorrection("anything")
	if corrected || got != "anything" {
		t.Fatalf("expected no correction against an empty vocabulary, got (%q, %v)", got, corrected)
	}
}
