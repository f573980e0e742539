package routes

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/brand-insights-api/internal"
	"github.com/rm-hull/brand-insights-api/internal/models"
	"github.com/rm-hull/brand-insights-api/internal/ocr"
	"github.com/rm-hull/brand-insights-api/internal/stats"
)

// DocumentFetcher resolves an OCR url into a document.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*ocr.Document, error)
}

func Predict(engines *internal.EngineHolder, repo internal.PredictionsRepository, fetcher DocumentFetcher) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req models.PredictRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		var doc *ocr.Document
		switch {
		case req.OcrURL != "":
			fetched, err := fetcher.Fetch(c.Request.Context(), req.OcrURL)
			if err != nil {
				log.Printf("error while fetching OCR result %s: %v", req.OcrURL, err)
				var statusErr *ocr.HTTPStatusError
				if errors.As(err, &statusErr) {
					c.JSON(http.StatusBadGateway, gin.H{"error": statusErr.Error()})
					return
				}
				c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch OCR result"})
				return
			}
			doc = fetched
		case req.Text != "":
			if len(req.Text) > MAX_TEXT_LENGTH {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "text is too long"})
				return
			}
			doc = &ocr.Document{Text: req.Text}
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "one of text or ocr_url is required"})
			return
		}

		predictions := engines.Get().Predict(doc)
		if predictions == nil {
			predictions = []models.Prediction{}
		}

		stored := 0
		if req.Barcode != "" && len(predictions) > 0 {
			n, err := repo.InsertPredictions(req.Barcode, req.SourceImage, predictions)
			if err != nil {
				log.Printf("error while storing predictions for %s: %v", req.Barcode, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
				return
			}
			stored = n
		}

		c.JSON(http.StatusOK, models.PredictResponse{
			Predictions: predictions,
			Stored:      stored,
		})
	}
}

func Predictions(repo internal.PredictionsRepository) func(c *gin.Context) {
	return func(c *gin.Context) {
		barcode := c.Param("barcode")

		results, err := repo.Search(barcode)
		if err != nil {
			log.Printf("error while fetching predictions: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		c.JSON(http.StatusOK, models.SearchResponse{
			Barcode:     barcode,
			Predictions: results,
			Statistics:  stats.Derive(results),
		})
	}
}
