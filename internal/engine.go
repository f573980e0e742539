package internal

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rm-hull/brand-insights-api/internal/brands"
	"github.com/rm-hull/brand-insights-api/internal/keywords"
	"github.com/rm-hull/brand-insights-api/internal/models"
	"github.com/rm-hull/brand-insights-api/internal/ocr"
	"github.com/rm-hull/brand-insights-api/internal/taxonomy"
)

var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brand_insights_predictions_total",
		Help: "Number of brand predictions produced, by predictor.",
	}, []string{"predictor"})

	extractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brand_insights_extractions_total",
		Help: "Number of taxonomy extractions, by outcome.",
	}, []string{"outcome"})

	reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brand_insights_reloads_total",
		Help: "Number of reference data reloads, by outcome.",
	}, []string{"outcome"})
)

// EngineConfig says where the reference data lives. Empty paths select the
// data embedded in the binary.
type EngineConfig struct {
	TaxonomyPath string
	BrandsDir    string
	MinLength    int
}

func (cfg EngineConfig) brandsFS() fs.FS {
	if cfg.BrandsDir == "" {
		return brands.Embedded()
	}
	return os.DirFS(cfg.BrandsDir)
}

func (cfg EngineConfig) taxonomy() (*taxonomy.Taxonomy, error) {
	if cfg.TaxonomyPath == "" {
		return taxonomy.Embedded()
	}
	return taxonomy.FromFile(cfg.TaxonomyPath)
}

// Engine bundles everything built from one snapshot of the reference data.
// It is never modified after NewEngine returns.
type Engine struct {
	Brands   *brands.Data
	Taxonomy *taxonomy.Taxonomy
	Index    *keywords.Index
	Matcher  *brands.Matcher
	Logos    *brands.LogoMatcher
	LoadedAt time.Time
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	data, err := brands.Load(cfg.brandsFS())
	if err != nil {
		return nil, fmt.Errorf("failed to load brand data: %w", err)
	}

	matcher, err := brands.NewMatcher(data)
	if err != nil {
		return nil, fmt.Errorf("failed to build brand matcher: %w", err)
	}

	tx, err := cfg.taxonomy()
	if err != nil {
		return nil, err
	}

	minLength := cfg.MinLength
	if minLength <= 0 {
		minLength = keywords.DefaultMinLength
	}
	index, err := keywords.Build(tx, minLength)
	if err != nil {
		return nil, fmt.Errorf("failed to build keyword index: %w", err)
	}

	log.Printf("loaded %d brands (%d notify, %d logo rules) and %d taxonomy nodes",
		matcher.Len(), len(data.Notify), len(data.LogoAnnotations), tx.Len())

	return &Engine{
		Brands:   data,
		Taxonomy: tx,
		Index:    index,
		Matcher:  matcher,
		Logos:    brands.NewLogoMatcher(data),
		LoadedAt: time.Now().UTC(),
	}, nil
}

// Extract returns the first brand found in text by the keyword index.
func (e *Engine) Extract(text string) *models.Insight {
	insight := e.Index.Extract(text)
	if insight == nil {
		extractionsTotal.WithLabelValues("no_match").Inc()
	} else {
		extractionsTotal.WithLabelValues("match").Inc()
	}
	return insight
}

// Predict runs the taxonomy, regex and logo predictors over doc.
func (e *Engine) Predict(doc *ocr.Document) []models.Prediction {
	var predictions []models.Prediction

	if insight := e.Extract(doc.Text); insight != nil {
		predictions = append(predictions, models.Prediction{
			Insight:   *insight,
			Predictor: models.PredictorTaxonomy,
		})
	}
	predictions = append(predictions, e.Matcher.FindAll(doc.Text)...)
	predictions = append(predictions, e.Logos.Match(doc.Logos)...)

	for _, prediction := range predictions {
		predictionsTotal.WithLabelValues(prediction.Predictor).Inc()
	}
	return predictions
}

// EngineHolder publishes the current Engine. Readers never block; Reload
// swaps in a new Engine only once it has been built in full.
type EngineHolder struct {
	cfg     EngineConfig
	current atomic.Pointer[Engine]
}

func NewEngineHolder(cfg EngineConfig) (*EngineHolder, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	holder := &EngineHolder{cfg: cfg}
	holder.current.Store(engine)
	return holder, nil
}

func (h *EngineHolder) Get() *Engine {
	return h.current.Load()
}

// Reload rebuilds the engine from the configured sources. On failure the
// current engine stays in place and the error is returned.
func (h *EngineHolder) Reload() error {
	engine, err := NewEngine(h.cfg)
	if err != nil {
		reloadsTotal.WithLabelValues("failure").Inc()
		return err
	}
	h.current.Store(engine)
	reloadsTotal.WithLabelValues("success").Inc()
	return nil
}
