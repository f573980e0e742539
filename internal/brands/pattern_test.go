package brands

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivePattern(t *testing.T) {
	tests := []struct {
		brand      string
		matches    []string
		nonMatches []string
	}{
		{
			brand:      "Dr. Oetker",
			matches:    []string{"dr. oetker", "dr oetker", "DR.OETKER", "dr-oetker"},
			nonMatches: []string{"doctor oetker", "dr. oet"},
		},
		{
			brand:   "Nestlé",
			matches: []string{"nestlé", "nestle", "NESTLÉ", "Nestlè"},
		},
		{
			brand:   "La Belle-Iloise",
			matches: []string{"la belle iloise", "la belle-îloise", "labelleiloise"},
		},
		{
			brand:      "Marks & Spencer",
			matches:    []string{"marks & spencer", "marks&spencer"},
			nonMatches: []string{"marks and spencer"},
		},
		{
			brand:   "M-Budget",
			matches: []string{"m-budget", "m budget", "mbudget"},
		},
		{
			brand:   "Monoprix P'tit Prix",
			matches: []string{"monoprix p'tit prix", "monoprix p’tit prix", "monoprix ptit prix"},
		},
		{
			brand:      "1+1 (Promo)",
			matches:    []string{"1+1 (promo)"},
			nonMatches: []string{"11 promo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.brand, func(t *testing.T) {
			re, err := regexp.Compile(`(?i)^(?:` + DerivePattern(tt.brand) + `)$`)
			require.NoError(t, err)
			for _, s := range tt.matches {
				assert.Truef(t, re.MatchString(s), "%q should match %q", tt.brand, s)
			}
			for _, s := range tt.nonMatches {
				assert.Falsef(t, re.MatchString(s), "%q should not match %q", tt.brand, s)
			}
		})
	}
}

func TestDerivePattern_TrimsSeparators(t *testing.T) {
	assert.Equal(t, DerivePattern("Co"), DerivePattern("Co."))
	assert.Equal(t, DerivePattern("Co"), DerivePattern(" -Co- "))
}

func TestNormalize(t *testing.T) {
	t.Run("derives a pattern when none is given", func(t *testing.T) {
		pattern, err := Normalize("Carrefour", "")
		require.NoError(t, err)
		assert.Equal(t, DerivePattern("Carrefour"), pattern)
	})

	t.Run("keeps an explicit pattern", func(t *testing.T) {
		pattern, err := Normalize("Bonne Maman", "bonne[- ]?maman")
		require.NoError(t, err)
		assert.Equal(t, "bonne[- ]?maman", pattern)
	})

	t.Run("rejects a pattern that does not compile", func(t *testing.T) {
		_, err := Normalize("Broken", "bro(ken")
		var patternErr *InvalidPatternError
		require.ErrorAs(t, err, &patternErr)
		assert.Equal(t, "Broken", patternErr.Brand)
		assert.Equal(t, "bro(ken", patternErr.Pattern)
	})

	t.Run("rejects lookarounds", func(t *testing.T) {
		_, err := Normalize("Lookahead", "foo(?!bar)")
		var patternErr *InvalidPatternError
		assert.ErrorAs(t, err, &patternErr)
	})

	t.Run("rejects a brand made only of separators", func(t *testing.T) {
		_, err := Normalize("...", "")
		var patternErr *InvalidPatternError
		assert.ErrorAs(t, err, &patternErr)
	})
}

func TestTag(t *testing.T) {
	tests := map[string]string{
		"Bio C Bon":           "bio-c-bon",
		"Alpina Savoie":       "alpina-savoie",
		"Marks & Spencer":     "marks-spencer",
		"Monoprix P'tit Prix": "monoprix-p-tit-prix",
		"Dr. Oetker":          "dr-oetker",
		"Nestlé":              "nestlé",
		"  Coca-Cola ":        "coca-cola",
	}
	for brand, want := range tests {
		assert.Equalf(t, want, Tag(brand), "Tag(%q)", brand)
	}
}
