// Package fold maps text onto a case- and accent-insensitive form while
// remembering where every folded byte came from in the original input.
package fold

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Rune lower-cases r and strips any combining marks it decomposes into, so
// that 'É' and 'é' both fold to 'e'. Typographic apostrophes fold to '\''.
// Runes that do not decompose into a single base letter are only lower-cased.
func Rune(r rune) rune {
	if r < utf8.RuneSelf {
		return unicode.ToLower(r)
	}
	switch r {
	case '’', '‘', 'ʼ':
		return '\''
	}

	r = unicode.ToLower(r)
	stripped, _, err := transform.String(stripMarks(), string(r))
	if err != nil || utf8.RuneCountInString(stripped) != 1 {
		return r
	}
	base, _ := utf8.DecodeRuneInString(stripped)
	return base
}

// transformers carry state, so each caller gets its own chain
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
}

// String folds s rune by rune and collapses every run of whitespace into a
// single ' '. Loose combining marks are dropped; their bytes stay inside the
// span of the rune they follow. offsets[i] is the byte offset in s of the
// rune that produced byte i of the result, and offsets[len(result)] ==
// len(s), so a span [start, end) of the result maps back to
// s[offsets[start]:offsets[end]].
func String(s string) (string, []int) {
	var sb strings.Builder
	sb.Grow(len(s))
	offsets := make([]int, 0, len(s)+1)

	inSpace := false
	for i, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsSpace(r) {
			if inSpace {
				continue
			}
			inSpace = true
			r = ' '
		} else {
			inSpace = false
			r = Rune(r)
		}

		n, _ := sb.WriteRune(r)
		for j := 0; j < n; j++ {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(s))

	return sb.String(), offsets
}

// Key returns the folded form of s with surrounding whitespace removed. It is
// the form under which surface forms are registered and compared.
func Key(s string) string {
	folded, _ := String(strings.TrimSpace(s))
	return folded
}

// IsWordRune reports whether r can be part of a word. A match must not be
// directly preceded or followed by one.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
