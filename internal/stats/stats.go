package stats

import (
	"math"

	"github.com/rm-hull/brand-insights-api/internal/models"
)

// Derive summarises the predictions stored for a product. The most likely
// brand is the one predicted by the most distinct predictors, ties broken by
// the number of predictions and then by brand name.
func Derive(predictions []models.Prediction) *models.PredictionStatistics {
	stats := &models.PredictionStatistics{
		BrandDistribution:     make(map[string]int),
		PredictorDistribution: make(map[string]int),
		AverageConfidence:     make(map[string]float64),
	}

	confidenceSum := make(map[string]float64)
	confidenceCount := make(map[string]int)
	predictorsPerBrand := make(map[string]map[string]struct{})

	for _, prediction := range predictions {
		stats.BrandDistribution[prediction.Brand]++
		stats.PredictorDistribution[prediction.Predictor]++
		if prediction.Notify {
			stats.NotifyCount++
		}

		if prediction.Confidence != nil {
			confidenceSum[prediction.Predictor] += *prediction.Confidence
			confidenceCount[prediction.Predictor]++
		}

		if predictorsPerBrand[prediction.Brand] == nil {
			predictorsPerBrand[prediction.Brand] = make(map[string]struct{})
		}
		predictorsPerBrand[prediction.Brand][prediction.Predictor] = struct{}{}
	}

	for predictor, sum := range confidenceSum {
		avg := sum / float64(confidenceCount[predictor])
		stats.AverageConfidence[predictor] = math.Round(avg*1000) / 1000
	}

	var best string
	bestPredictors, bestCount := 0, 0
	for brand, predictors := range predictorsPerBrand {
		n, count := len(predictors), stats.BrandDistribution[brand]
		if n > bestPredictors ||
			(n == bestPredictors && count > bestCount) ||
			(n == bestPredictors && count == bestCount && brand < best) {
			best, bestPredictors, bestCount = brand, n, count
		}
	}
	if best != "" {
		stats.MostLikelyBrand = &best
	}

	return stats
}
