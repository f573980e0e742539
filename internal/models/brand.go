package models

import (
	"fmt"
	"strings"
)

// Separator splits a brand from its explicit pattern in the flat data files.
const Separator = "||"

// BrandEntry is one line of the OCR brand list. Pattern is only set when the
// line carries an explicit override; otherwise it is derived from Brand.
type BrandEntry struct {
	Brand   string
	Pattern string
	Line    string
}

func (entry *BrandEntry) HasExplicitPattern() bool {
	return entry.Pattern != ""
}

// LogoAnnotationEntry maps logo descriptions matching Pattern to Brand.
// Both fields are mandatory.
type LogoAnnotationEntry struct {
	Brand   string
	Pattern string
	Line    string
}

func BrandEntryFromLine(line string) (*BrandEntry, error) {
	brand, pattern, explicit, err := splitLine(line)
	if err != nil {
		return nil, err
	}
	if explicit && pattern == "" {
		return nil, fmt.Errorf("empty pattern after separator in %q", line)
	}
	return &BrandEntry{Brand: brand, Pattern: pattern, Line: line}, nil
}

func LogoAnnotationEntryFromLine(line string) (*LogoAnnotationEntry, error) {
	brand, pattern, explicit, err := splitLine(line)
	if err != nil {
		return nil, err
	}
	if !explicit || pattern == "" {
		return nil, fmt.Errorf("missing mandatory %q pattern in %q", Separator, line)
	}
	return &LogoAnnotationEntry{Brand: brand, Pattern: pattern, Line: line}, nil
}

func splitLine(line string) (brand, pattern string, explicit bool, err error) {
	parts := strings.Split(line, Separator)
	switch len(parts) {
	case 1:
		brand = parts[0]
	case 2:
		brand, pattern, explicit = parts[0], parts[1], true
	default:
		return "", "", false, fmt.Errorf("too many %q separators in %q", Separator, line)
	}

	if strings.TrimSpace(brand) == "" {
		return "", "", false, fmt.Errorf("empty brand in %q", line)
	}
	return brand, pattern, explicit, nil
}
