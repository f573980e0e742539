package brands

import "github.com/rm-hull/brand-insights-api/internal/models"

// LogoMatcher maps logo annotations from the OCR provider to brands.
type LogoMatcher struct {
	rules []compiledLogo
}

func NewLogoMatcher(data *Data) *LogoMatcher {
	return &LogoMatcher{rules: data.logos}
}

func (m *LogoMatcher) Len() int {
	return len(m.rules)
}

// Match returns a prediction for every annotation whose description fully
// matches a rule. The first matching rule wins for a given annotation.
func (m *LogoMatcher) Match(annotations []models.LogoAnnotation) []models.Prediction {
	var predictions []models.Prediction
	for _, annotation := range annotations {
		for _, rule := range m.rules {
			if !rule.re.MatchString(annotation.Description) {
				continue
			}
			score := annotation.Score
			predictions = append(predictions, models.Prediction{
				Insight: models.Insight{
					Brand:    rule.entry.Brand,
					BrandTag: Tag(rule.entry.Brand),
					Text:     annotation.Description,
				},
				Predictor:  models.PredictorLogo,
				Confidence: &score,
			})
			break
		}
	}
	return predictions
}
