package search

import "testing"

func TestIsPositiveInteger(t *testing.T) {
	tc := map[string]bool{
		"1":    true,
		"594":  true,
		"007":  true,
		"0":    false,
		"000":  false,
		"":     false,
		"-3":   false,
		"+3":   false,
		"12a":  false,
		"1 2":  false,
		"9999": true,
	}
	for input, want := range tc {
		if got := IsPositiveInteger(input); got != want {
			t.Errorf("IsPositiveInteger(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestMatchNumbers(t *testing.T) {
	t.Run("prefix matches in order", func(t *testing.T) {
		got := MatchNumbers("13", DefaultMaxHymnNumber)
		if len(got) != 72 {
			t.Fatalf("expected 72 matches, got %d", len(got))
		}
		if got[0] != "13" || got[1] != "130" || got[11] != "1300" || got[len(got)-1] != "1360" {
			t.Errorf("unexpected matches %v", got)
		}
	})

	t.Run("bounded by maximum", func(t *testing.T) {
		got := MatchNumbers("1", 10)
		if len(got) != 2 || got[0] != "1" || got[1] != "10" {
			t.Errorf("expected [1 10], got %v", got)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		for _, input := range []string{"9999", "0", "abc", "05"} {
			if got := MatchNumbers(input, DefaultMaxHymnNumber); len(got) != 0 {
				t.Errorf("MatchNumbers(%q) = %v, want none", input, got)
			}
		}
	})

	t.Run("trims input", func(t *testing.T) {
		if got := MatchNumbers(" 594 ", DefaultMaxHymnNumber); len(got) != 1 || got[0] != "594" {
			t.Errorf("expected [594], got %v", got)
		}
	})
}
