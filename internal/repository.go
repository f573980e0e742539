package internal

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"time"

	"github.com/rm-hull/brand-insights-api/internal/models"
	"github.com/tavsec/gin-healthcheck/checks"
)

//go:embed sql/insert_prediction.sql
var insertPredictionSQL string

//go:embed sql/search_predictions.sql
var searchPredictionsSQL string

type PredictionsRepository interface {
	InsertPredictions(barcode, sourceImage string, batch []models.Prediction) (int, error)
	Search(barcode string) ([]models.Prediction, error)
	Check() checks.Check
	Close() error
}

type sqliteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPredictionsRepository(db *sql.DB) PredictionsRepository {
	return &sqliteRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// InsertPredictions upserts batch and returns the number of rows written.
// Predictions sharing a predictor and brand tag collapse into one row, keeping
// the most confident.
func (repo *sqliteRepository) InsertPredictions(barcode, sourceImage string, batch []models.Prediction) (int, error) {
	batch = uniquePredictions(batch)
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := repo.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("error rolling back transaction: %v", rbErr)
			}
		}
	}()

	stmt, err := tx.Prepare(insertPredictionSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Printf("failed to close statement: %v", err)
		}
	}()

	createdAt := repo.now()
	for _, prediction := range batch {
		_, err = stmt.Exec(prediction.ToTuple(barcode, sourceImage, createdAt)...)
		if err != nil {
			return 0, fmt.Errorf("failed to execute individual insert: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(batch), nil
}

func uniquePredictions(batch []models.Prediction) []models.Prediction {
	type key struct{ predictor, brandTag string }

	unique := make([]models.Prediction, 0, len(batch))
	index := make(map[key]int, len(batch))
	for _, prediction := range batch {
		k := key{prediction.Predictor, prediction.BrandTag}
		i, seen := index[k]
		if !seen {
			index[k] = len(unique)
			unique = append(unique, prediction)
			continue
		}
		if confidence(prediction) > confidence(unique[i]) {
			unique[i] = prediction
		}
	}
	return unique
}

func confidence(prediction models.Prediction) float64 {
	if prediction.Confidence == nil {
		return 0
	}
	return *prediction.Confidence
}

func (repo *sqliteRepository) Search(barcode string) ([]models.Prediction, error) {
	rows, err := repo.db.Query(searchPredictionsSQL, barcode)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	results := make([]models.Prediction, 0)
	for rows.Next() {
		var result models.Prediction
		var confidence sql.NullFloat64
		var createdAt time.Time
		if err := rows.Scan(
			&result.Barcode, &result.SourceImage, &result.Predictor,
			&result.Brand, &result.BrandTag, &result.Text,
			&result.Notify, &confidence, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if confidence.Valid {
			result.Confidence = &confidence.Float64
		}
		result.CreatedAt = &createdAt
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return results, nil
}

func (repo *sqliteRepository) Check() checks.Check {
	return &sqliteCheck{db: repo.db}
}

func (repo *sqliteRepository) Close() error {
	return repo.db.Close()
}

type sqliteCheck struct {
	db *sql.DB
}

func (c *sqliteCheck) Pass() bool {
	return c.db.Ping() == nil
}

func (c *sqliteCheck) Name() string {
	return "sqlite"
}
