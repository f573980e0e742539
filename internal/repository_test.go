package internal

import (
	"os"
	"testing"
	"time"

	"github.com/rm-hull/brand-insights-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) PredictionsRepository {
	tmpFile, err := os.CreateTemp("", "brand_insights_test-*.db")
	require.NoError(t, err)
	dbPath := tmpFile.Name()
	_ = tmpFile.Close()

	t.Cleanup(func() {
		_ = os.Remove(dbPath)
	})

	db, err := Connect(dbPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	err = Migrate(dbPath)
	require.NoError(t, err)

	repo := NewPredictionsRepository(db)
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func TestPredictionsRepositoryIntegration(t *testing.T) {
	repo := setupTestDB(t)

	sqlRepo := repo.(*sqliteRepository)
	now := time.Now().UTC().Truncate(time.Second)
	sqlRepo.now = func() time.Time { return now }

	score := 0.87
	batch := []models.Prediction{
		{
			Insight:   models.Insight{Brand: "Bio C Bon", BrandTag: "bio-c-bon", Text: "Bio c bon"},
			Predictor: models.PredictorTaxonomy,
		},
		{
			Insight:   models.Insight{Brand: "Carrefour", BrandTag: "carrefour", Text: "CARREFOUR"},
			Predictor: models.PredictorRegex,
			Notify:    true,
		},
		{
			Insight:    models.Insight{Brand: "Carrefour", BrandTag: "carrefour", Text: "Carrefour"},
			Predictor:  models.PredictorLogo,
			Confidence: &score,
		},
	}

	n, err := repo.InsertPredictions("3017620422003", "/301/762/042/2003/1.jpg", batch)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	t.Run("Search by barcode", func(t *testing.T) {
		results, err := repo.Search("3017620422003")
		require.NoError(t, err)
		require.Len(t, results, 3)

		byPredictor := make(map[string]models.Prediction)
		for _, result := range results {
			assert.Equal(t, "3017620422003", result.Barcode)
			assert.Equal(t, "/301/762/042/2003/1.jpg", result.SourceImage)
			require.NotNil(t, result.CreatedAt)
			assert.True(t, result.CreatedAt.Equal(now))
			byPredictor[result.Predictor] = result
		}

		assert.Equal(t, "Bio c bon", byPredictor[models.PredictorTaxonomy].Text)
		assert.Nil(t, byPredictor[models.PredictorTaxonomy].Confidence)
		assert.True(t, byPredictor[models.PredictorRegex].Notify)
		require.NotNil(t, byPredictor[models.PredictorLogo].Confidence)
		assert.InDelta(t, 0.87, *byPredictor[models.PredictorLogo].Confidence, 1e-9)
	})

	t.Run("Unknown barcode", func(t *testing.T) {
		results, err := repo.Search("0000000000000")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Re-inserting updates instead of duplicating", func(t *testing.T) {
		updated := []models.Prediction{{
			Insight:   models.Insight{Brand: "Carrefour", BrandTag: "carrefour", Text: "Carrefour Bio"},
			Predictor: models.PredictorRegex,
			Notify:    true,
		}}
		_, err := repo.InsertPredictions("3017620422003", "/301/762/042/2003/1.jpg", updated)
		require.NoError(t, err)

		results, err := repo.Search("3017620422003")
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("Duplicate predictions in a batch count once", func(t *testing.T) {
		low, high := 0.41, 0.93
		duplicates := []models.Prediction{
			{
				Insight:    models.Insight{Brand: "Danone", BrandTag: "danone", Text: "danone"},
				Predictor:  models.PredictorLogo,
				Confidence: &low,
			},
			{
				Insight:    models.Insight{Brand: "Danone", BrandTag: "danone", Text: "Danone"},
				Predictor:  models.PredictorLogo,
				Confidence: &high,
			},
		}
		n, err := repo.InsertPredictions("3033490004743", "/303/349/000/4743/2.jpg", duplicates)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		results, err := repo.Search("3033490004743")
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NotNil(t, results[0].Confidence)
		assert.InDelta(t, 0.93, *results[0].Confidence, 1e-9)
		assert.Equal(t, "Danone", results[0].Text)
	})

	t.Run("Empty batch", func(t *testing.T) {
		n, err := repo.InsertPredictions("3017620422003", "", nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Health check", func(t *testing.T) {
		check := repo.Check()
		assert.Equal(t, "sqlite", check.Name())
		assert.True(t, check.Pass())
	})
}
