package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/cv-shortlister/internal/ingestion"
	"github.com/jonathan/cv-shortlister/internal/observability"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract a feature profile from a local CV file",
	Long:  "Extract skills, years of experience, education and certifications from a CV. Nothing is stored and no database is needed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var extractJSON bool

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the profile as JSON")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(_ *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	features, err := newFeatureExtractor(cfg)
	if err != nil {
		return err
	}

	path := args[0]
	store := ingestion.NewOSFileStore(filepath.Dir(path))
	text, err := ingestion.NewTextExtractor(cfg.ExtractionTimeout, logger).
		ExtractFile(context.Background(), store, filepath.Base(path))
	if err != nil {
		return err
	}

	profile := features.Extract(text)
	profile.RawText = ""

	if extractJSON {
		out, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintProfile(profile)
	return nil
}
