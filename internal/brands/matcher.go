package brands

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/brand-insights-api/internal/fold"
	"github.com/rm-hull/brand-insights-api/internal/models"
)

const wordEnd = `(?:[^\p{L}\p{N}_]|$)`

type matcherBrand struct {
	name   string
	tag    string
	group  int
	notify bool
}

// Matcher is a single compiled alternation of every brand pattern. It is
// immutable once built and safe for concurrent use.
type Matcher struct {
	anchored *regexp.Regexp
	scanner  *regexp.Regexp
	brands   []matcherBrand
}

// NewMatcher compiles the alternation for data. Longer brand names are tried
// first so that "Monoprix P'tit Prix" wins over "Monoprix" at the same place.
func NewMatcher(data *Data) (*Matcher, error) {
	if len(data.brands) == 0 {
		return nil, errors.New("no brands to match")
	}

	sorted := make([]compiledBrand, len(data.brands))
	copy(sorted, data.brands)
	sort.SliceStable(sorted, func(i, j int) bool {
		li := utf8.RuneCountInString(sorted[i].entry.Brand)
		lj := utf8.RuneCountInString(sorted[j].entry.Brand)
		if li != lj {
			return li > lj
		}
		return sorted[i].entry.Brand < sorted[j].entry.Brand
	})

	var alternation strings.Builder
	brands := make([]matcherBrand, 0, len(sorted))
	group := 1
	for i, cb := range sorted {
		if i > 0 {
			alternation.WriteByte('|')
		}
		alternation.WriteString("(" + cb.pattern + ")")
		brands = append(brands, matcherBrand{
			name:   cb.entry.Brand,
			tag:    Tag(cb.entry.Brand),
			group:  group,
			notify: data.IsNotify(cb.entry.Brand),
		})
		// explicit patterns may carry their own capture groups
		group += 1 + cb.re.NumSubexp()
	}

	anchored, err := regexp.Compile(caseInsensitive + `^(?:` + alternation.String() + `)` + wordEnd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile brand alternation")
	}
	// the trailing boundary lets RE2 fall back to a shorter brand when a
	// longer one at the same position runs into the next word
	scanner, err := regexp.Compile(caseInsensitive + `(?:` + alternation.String() + `)` + wordEnd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile brand alternation")
	}

	return &Matcher{anchored: anchored, scanner: scanner, brands: brands}, nil
}

func (m *Matcher) Len() int {
	return len(m.brands)
}

// Matches reports whether candidate starts with a known brand name that ends
// on a word boundary: "carrefour gaby" matches, "carre" does not.
func (m *Matcher) Matches(candidate string) bool {
	return m.anchored.MatchString(candidate)
}

// FindAll scans text for brand names delimited by word boundaries and
// returns one prediction per distinct brand, in order of first appearance.
func (m *Matcher) FindAll(text string) []models.Prediction {
	var predictions []models.Prediction
	seen := make(map[string]struct{})

	pos := 0
	for pos < len(text) {
		loc := m.scanner.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		brand := m.brandFor(loc)
		if brand != nil {
			// the match includes the delimiter, the brand ends with its group
			end = pos + loc[2*brand.group+1]
		}
		if brand == nil || end == start || !boundaryBefore(text, start) {
			_, size := utf8.DecodeRuneInString(text[start:])
			pos = start + max(size, 1)
			continue
		}
		pos = end

		if _, ok := seen[brand.name]; ok {
			continue
		}
		seen[brand.name] = struct{}{}

		predictions = append(predictions, models.Prediction{
			Insight: models.Insight{
				Brand:    brand.name,
				BrandTag: brand.tag,
				Text:     text[start:end],
			},
			Predictor: models.PredictorRegex,
			Notify:    brand.notify,
		})
	}
	return predictions
}

func (m *Matcher) brandFor(loc []int) *matcherBrand {
	for i := range m.brands {
		if g := m.brands[i].group; 2*g < len(loc) && loc[2*g] >= 0 {
			return &m.brands[i]
		}
	}
	return nil
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !fold.IsWordRune(r)
}
