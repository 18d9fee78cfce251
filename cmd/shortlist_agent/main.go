// Package main provides the entry point for the CV shortlister CLI and HTTP API server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/cv-shortlister/internal/config"
	"github.com/jonathan/cv-shortlister/internal/criteria"
	"github.com/jonathan/cv-shortlister/internal/db"
	"github.com/jonathan/cv-shortlister/internal/extraction"
	"github.com/jonathan/cv-shortlister/internal/ingestion"
	"github.com/jonathan/cv-shortlister/internal/lexicon"
	"github.com/jonathan/cv-shortlister/internal/logging"
	"github.com/jonathan/cv-shortlister/internal/shortlist"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "shortlist_agent",
	Short: "CV Shortlister CLI and HTTP API Server",
	Long: "CV Shortlister extracts skills, experience and education from candidate CVs, " +
		"scores them against each job's weighted criteria and flags the best candidates.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by every command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openDB connects to the configured database.
func openDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	return db.Connect(ctx, cfg.DatabaseURL)
}

// newFeatureExtractor builds the CV feature extractor from configuration.
func newFeatureExtractor(cfg *config.Config) (*extraction.Extractor, error) {
	lex, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		return nil, err
	}
	return extraction.New(lex, extraction.WithReferenceYear(cfg.ReferenceYear)), nil
}

// newService wires the shortlisting service onto the database and upload store.
func newService(cfg *config.Config, database *db.DB, logger *zap.Logger) (*shortlist.Service, error) {
	features, err := newFeatureExtractor(cfg)
	if err != nil {
		return nil, err
	}

	profiler := shortlist.NewProfiler(
		ingestion.NewOSFileStore(cfg.UploadDir),
		ingestion.NewTextExtractor(cfg.ExtractionTimeout, logger),
		features,
		database,
		logger,
	)
	resolver := criteria.NewResolver(database, logger)

	return shortlist.NewService(database, database, resolver, profiler, shortlist.Options{Workers: cfg.Workers}, logger), nil
}
