package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/rm-hull/brand-insights-api/cmd"
	"github.com/rm-hull/brand-insights-api/internal"
	"github.com/rm-hull/brand-insights-api/internal/keywords"
)

func main() {
	var dbPath string
	var cfg internal.EngineConfig

	rootCmd := &cobra.Command{
		Use:   "brand-insights",
		Short: "Detects brand mentions in product label text",
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "data/brand_insights.db", "Path to the predictions database")
	rootCmd.PersistentFlags().StringVar(&cfg.TaxonomyPath, "taxonomy", "", "Path to a brand taxonomy JSON file (default: embedded)")
	rootCmd.PersistentFlags().StringVar(&cfg.BrandsDir, "brands-dir", "", "Directory holding the OCR brand lists (default: embedded)")
	rootCmd.PersistentFlags().IntVar(&cfg.MinLength, "min-length", keywords.DefaultMinLength, "Minimum length of taxonomy surface forms")

	var port int
	var debug bool
	apiServerCmd := &cobra.Command{
		Use:   "api-server",
		Short: "Start HTTP API server",
		Run: func(_ *cobra.Command, _ []string) {
			if err := cmd.ApiServer(dbPath, port, debug, cfg); err != nil {
				log.Fatalf("API Server failed: %v", err)
			}
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	var opts cmd.ExtractOptions
	extractCmd := &cobra.Command{
		Use:   "extract [text]",
		Short: "Print the brand predictions for a text, stdin or an OCR result",
		Args:  cobra.MaximumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if len(args) == 1 {
				opts.Text = args[0]
			}
			if err := cmd.Extract(dbPath, cfg, opts, os.Stdin, os.Stdout); err != nil {
				log.Fatalf("Extract failed: %v", err)
			}
		},
	}
	extractCmd.Flags().StringVar(&opts.OcrURL, "ocr-url", "", "URL of a Google Cloud Vision JSON or hOCR result")
	extractCmd.Flags().StringVar(&opts.Barcode, "barcode", "", "Barcode of the product the text belongs to")
	extractCmd.Flags().StringVar(&opts.SourceImage, "source-image", "", "Path of the image the text was read from")
	extractCmd.Flags().BoolVar(&opts.Save, "save", false, "Store the predictions in the database")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the brand lists and taxonomy, reporting every problem",
		Run: func(_ *cobra.Command, _ []string) {
			if err := cmd.Validate(cfg, os.Stdout); err != nil {
				log.Fatalf("Validation failed: %v", err)
			}
		},
	}

	rootCmd.AddCommand(apiServerCmd, extractCmd, validateCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
