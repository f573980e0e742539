package models

import "time"

// Insight is the result of a successful brand detection: the display name
// and canonical tag of the brand, and the exact span of input text that
// matched.
type Insight struct {
	Brand    string `json:"brand"`
	BrandTag string `json:"brand_tag"`
	Text     string `json:"text"`
}

const (
	PredictorTaxonomy = "taxonomy"
	PredictorRegex    = "regex"
	PredictorLogo     = "google-cloud-vision"
)

// Prediction is an Insight produced by one of the predictors, with the
// metadata the downstream pipeline needs to act on it.
type Prediction struct {
	Insight
	Predictor   string     `json:"predictor"`
	Notify      bool       `json:"notify"`
	Confidence  *float64   `json:"confidence,omitempty"`
	Barcode     string     `json:"barcode,omitempty"`
	SourceImage string     `json:"source_image,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// LogoAnnotation is a logo detected in a product image by the OCR provider.
type LogoAnnotation struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

func (p *Prediction) ToTuple(barcode, sourceImage string, createdAt time.Time) []any {
	return []any{
		barcode,
		sourceImage,
		p.Predictor,
		p.Brand,
		p.BrandTag,
		p.Text,
		p.Notify,
		p.Confidence,
		createdAt,
	}
}
