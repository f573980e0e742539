package keywords

import (
	"unicode/utf8"

	"github.com/rm-hull/brand-insights-api/internal/fold"
	"github.com/rm-hull/brand-insights-api/internal/models"
)

type span struct {
	entry      int
	start, end int
}

// Extract returns the brand mentioned first in text, or nil when there is
// none. Matching ignores case and accents and only accepts surface forms
// that are not part of a longer word. Among matches starting at the same
// position the longest wins. Text in the result is the matched span of the
// original input.
func Extract(idx *Index, text string) *models.Insight {
	if idx == nil || text == "" {
		return nil
	}

	folded, offsets := fold.String(text)
	best, found := idx.firstLongest(folded)
	if !found {
		return nil
	}

	entry := idx.entries[best.entry]
	return &models.Insight{
		Brand:    entry.Name,
		BrandTag: entry.Tag,
		Text:     text[offsets[best.start]:offsets[best.end]],
	}
}

func (idx *Index) Extract(text string) *models.Insight {
	return Extract(idx, text)
}

func (idx *Index) firstLongest(folded string) (span, bool) {
	var best span
	found := false

	iter := idx.automaton.IterOverlappingByte([]byte(folded))
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		candidate := span{entry: m.Pattern(), start: m.Start(), end: m.End()}
		if !isDelimited(folded, candidate.start, candidate.end) {
			continue
		}
		if !found || candidate.start < best.start || (candidate.start == best.start && candidate.end > best.end) {
			best = candidate
			found = true
		}
	}
	return best, found
}

func isDelimited(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); fold.IsWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); fold.IsWordRune(r) {
			return false
		}
	}
	return true
}
