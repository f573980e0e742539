package brands

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/brand-insights-api/internal/fold"
)

const (
	caseInsensitive = "(?i)"

	// separatorClass stands in for any run of spaces, hyphens, periods or
	// apostrophes in a brand name, including none at all.
	separatorClass = `[\s\-.'’]*`
)

// letterClasses maps an ASCII letter to a character class of the letter and
// all its accented lower-case forms, e.g. 'e' -> "[eèéêë...]".
var letterClasses = buildLetterClasses()

func buildLetterClasses() map[rune]string {
	variants := make(map[rune][]rune)
	for r := rune(0xC0); r <= 0x24F; r++ {
		if !unicode.IsLower(r) {
			continue
		}
		base := fold.Rune(r)
		if base == r || base < 'a' || base > 'z' {
			continue
		}
		variants[base] = append(variants[base], r)
	}

	classes := make(map[rune]string, len(variants))
	for base, rs := range variants {
		classes[base] = "[" + string(base) + string(rs) + "]"
	}
	return classes
}

func isSeparator(r rune) bool {
	switch r {
	case '-', '.', '\'', '’':
		return true
	}
	return unicode.IsSpace(r)
}

// DerivePattern builds the matching expression for a brand that has no
// explicit override. Regex metacharacters are escaped, accented and plain
// letters are interchangeable, and separators are optional and
// interchangeable, so "Dr. Oetker" also matches "dr oetker" and "Nestlé"
// also matches "nestle". Leading and trailing separators are dropped.
func DerivePattern(brand string) string {
	var sb strings.Builder
	inSeparator := false
	for _, r := range strings.TrimFunc(strings.ToLower(brand), isSeparator) {
		if isSeparator(r) {
			if !inSeparator {
				sb.WriteString(separatorClass)
				inSeparator = true
			}
			continue
		}
		inSeparator = false

		if class, ok := letterClasses[fold.Rune(r)]; ok {
			sb.WriteString(class)
			continue
		}
		sb.WriteString(regexp.QuoteMeta(string(r)))
	}
	return sb.String()
}

// Normalize returns the pattern to use for brand: explicit when given,
// derived otherwise. The pattern is compiled once here so that a bad one
// is reported while the reference data is loaded, never while matching.
func Normalize(brand, explicit string) (string, error) {
	pattern := explicit
	if pattern == "" {
		pattern = DerivePattern(brand)
	}
	if pattern == "" {
		return "", &InvalidPatternError{Brand: brand, Err: errors.New("pattern is empty")}
	}
	if _, err := compile(pattern); err != nil {
		return "", &InvalidPatternError{Brand: brand, Pattern: pattern, Err: err}
	}
	return pattern, nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(caseInsensitive + pattern)
}

// Tag turns a brand display name into its slug form: lower-case, with every
// run of characters other than letters and digits replaced by '-'.
func Tag(brand string) string {
	var sb strings.Builder
	dash := true
	for _, r := range strings.ToLower(brand) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(sb.String(), "-")
}
