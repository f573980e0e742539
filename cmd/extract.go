package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/rm-hull/brand-insights-api/internal"
	"github.com/rm-hull/brand-insights-api/internal/models"
	"github.com/rm-hull/brand-insights-api/internal/ocr"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ExtractOptions struct {
	Text        string
	OcrURL      string
	Barcode     string
	SourceImage string
	Save        bool
}

// Extract runs every predictor over one text (or OCR result) and writes the
// predictions to out as JSON.
func Extract(dbPath string, cfg internal.EngineConfig, opts ExtractOptions, in io.Reader, out io.Writer) error {
	if !opts.Save {
		dbPath = ""
	} else if opts.Barcode == "" {
		return fmt.Errorf("--save requires --barcode")
	}

	engines, repo, err := bootstrap(dbPath, cfg)
	if err != nil {
		return err
	}
	if repo != nil {
		defer func() {
			if err := repo.Close(); err != nil {
				log.Printf("failed to close repository: %v", err)
			}
		}()
	}

	doc, err := readDocument(opts, in)
	if err != nil {
		return err
	}

	predictions := engines.Get().Predict(doc)
	if predictions == nil {
		predictions = []models.Prediction{}
	}

	stored := 0
	if repo != nil {
		stored, err = repo.InsertPredictions(opts.Barcode, opts.SourceImage, predictions)
		if err != nil {
			return fmt.Errorf("failed to store predictions: %w", err)
		}
		log.Printf("stored %d predictions for %s", stored, opts.Barcode)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(models.PredictResponse{Predictions: predictions, Stored: stored})
}

func readDocument(opts ExtractOptions, in io.Reader) (*ocr.Document, error) {
	switch {
	case opts.OcrURL != "":
		return newOCRClient().Fetch(context.Background(), opts.OcrURL)
	case opts.Text != "":
		return &ocr.Document{Text: opts.Text}, nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read text: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("no text given")
	}
	return &ocr.Document{Text: string(data)}, nil
}
