package models

type ExtractRequest struct {
	Text string `json:"text"`
}

type ExtractResponse struct {
	Insight *Insight `json:"insight"`
}

type MatchResponse struct {
	Candidate string `json:"candidate"`
	Match     bool   `json:"match"`
}

type PredictRequest struct {
	Text        string `json:"text,omitempty"`
	OcrURL      string `json:"ocr_url,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
	SourceImage string `json:"source_image,omitempty"`
}

type PredictResponse struct {
	Predictions []Prediction `json:"predictions"`
	Stored      int          `json:"stored"`
}

type PredictionStatistics struct {
	BrandDistribution     map[string]int     `json:"brand_distribution"`
	PredictorDistribution map[string]int     `json:"predictor_distribution"`
	AverageConfidence     map[string]float64 `json:"average_confidence,omitempty"`
	NotifyCount           int                `json:"notify_count"`
	MostLikelyBrand       *string            `json:"most_likely_brand,omitempty"`
}

type SearchResponse struct {
	Barcode     string                `json:"barcode"`
	Predictions []Prediction          `json:"predictions"`
	Statistics  *PredictionStatistics `json:"statistics"`
}
