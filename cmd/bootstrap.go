package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rm-hull/godx"

	"github.com/rm-hull/brand-insights-api/internal"
	"github.com/rm-hull/brand-insights-api/internal/ocr"
)

// bootstrap initialises shared resources used by both the API server and
// extract commands. It returns the engine holder, a repository (nil when
// dbPath is empty), and an error if something failed during startup.
func bootstrap(dbPath string, cfg internal.EngineConfig) (*internal.EngineHolder, internal.PredictionsRepository, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	engines, err := internal.NewEngineHolder(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load brand reference data: %w", err)
	}

	if dbPath == "" {
		return engines, nil, nil
	}

	db, err := internal.Connect(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := internal.Migrate(dbPath); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to migrate SQL: %w", err)
	}

	return engines, internal.NewPredictionsRepository(db), nil
}

func newOCRClient() *ocr.Client {
	rps := 5.0
	if value := os.Getenv("OCR_FETCH_RPS"); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || parsed <= 0 {
			log.Printf("ignoring invalid OCR_FETCH_RPS=%q", value)
		} else {
			rps = parsed
		}
	}
	return ocr.NewClient(rps, 5, 10*time.Minute)
}
