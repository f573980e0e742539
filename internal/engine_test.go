package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rm-hull/brand-insights-api/internal/brands"
	"github.com/rm-hull/brand-insights-api/internal/keywords"
	"github.com/rm-hull/brand-insights-api/internal/models"
	"github.com/rm-hull/brand-insights-api/internal/ocr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBrandFiles(t *testing.T, dir, brandList, notify, logos string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, brands.BrandsFile), []byte(brandList), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, brands.NotifyFile), []byte(notify), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, brands.LogoAnnotationFile), []byte(logos), 0o644))
}

func TestNewEngine_Embedded(t *testing.T) {
	engine, err := NewEngine(EngineConfig{})
	require.NoError(t, err)
	assert.Equal(t, keywords.DefaultMinLength, engine.Index.MinLength())
	assert.True(t, engine.Matcher.Matches("carrefour"))
	assert.False(t, engine.LoadedAt.IsZero())
}

func TestEngine_Predict(t *testing.T) {
	engine, err := NewEngine(EngineConfig{})
	require.NoError(t, err)

	predictions := engine.Predict(&ocr.Document{
		Text:  "Bio c bon vous propose, distribué par Carrefour",
		Logos: []models.LogoAnnotation{{Description: "Nestle", Score: 0.66}},
	})

	byPredictor := make(map[string][]models.Prediction)
	for _, prediction := range predictions {
		byPredictor[prediction.Predictor] = append(byPredictor[prediction.Predictor], prediction)
	}

	require.Len(t, byPredictor[models.PredictorTaxonomy], 1)
	assert.Equal(t, models.Insight{Brand: "Bio C Bon", BrandTag: "bio-c-bon", Text: "Bio c bon"},
		byPredictor[models.PredictorTaxonomy][0].Insight)

	regex := byPredictor[models.PredictorRegex]
	require.Len(t, regex, 2)
	assert.Equal(t, "Bio C Bon", regex[0].Brand)
	assert.Equal(t, "Carrefour", regex[1].Brand)
	assert.True(t, regex[1].Notify)

	require.Len(t, byPredictor[models.PredictorLogo], 1)
	assert.Equal(t, "Nestlé", byPredictor[models.PredictorLogo][0].Brand)
}

func TestEngine_PredictEmptyDocument(t *testing.T) {
	engine, err := NewEngine(EngineConfig{})
	require.NoError(t, err)
	assert.Empty(t, engine.Predict(&ocr.Document{}))
	assert.Nil(t, engine.Extract(""))
}

func TestNewEngine_Errors(t *testing.T) {
	t.Run("invalid brand data", func(t *testing.T) {
		dir := t.TempDir()
		writeBrandFiles(t, dir, "Foo\nFoo\n", "", "")
		_, err := NewEngine(EngineConfig{BrandsDir: dir})
		var integrityErr *brands.DataIntegrityError
		assert.ErrorAs(t, err, &integrityErr)
	})

	t.Run("missing taxonomy", func(t *testing.T) {
		_, err := NewEngine(EngineConfig{TaxonomyPath: filepath.Join(t.TempDir(), "missing.json")})
		assert.Error(t, err)
	})

	t.Run("nothing survives the length filter", func(t *testing.T) {
		_, err := NewEngine(EngineConfig{MinLength: 1000})
		assert.ErrorIs(t, err, keywords.ErrEmptyTaxonomy)
	})
}

func TestEngineHolder_Reload(t *testing.T) {
	dir := t.TempDir()
	writeBrandFiles(t, dir, "Danone\n", "", "Danone||danone\n")

	holder, err := NewEngineHolder(EngineConfig{BrandsDir: dir})
	require.NoError(t, err)
	first := holder.Get()
	assert.True(t, first.Matcher.Matches("danone"))
	assert.False(t, first.Matcher.Matches("yoplait"))

	writeBrandFiles(t, dir, "Danone\nDanone\n", "", "")
	assert.Error(t, holder.Reload())
	assert.Same(t, first, holder.Get())

	writeBrandFiles(t, dir, "Danone\nYoplait\n", "Yoplait\n", "")
	require.NoError(t, holder.Reload())
	assert.NotSame(t, first, holder.Get())
	assert.True(t, holder.Get().Matcher.Matches("yoplait"))
}

func TestStartCron(t *testing.T) {
	holder, err := NewEngineHolder(EngineConfig{})
	require.NoError(t, err)

	_, err = StartCron(holder, "not a schedule")
	assert.Error(t, err)

	c, err := StartCron(holder, "")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	c.Stop()
}
