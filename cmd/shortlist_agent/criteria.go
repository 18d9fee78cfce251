package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/observability"
	"github.com/jonathan/cv-shortlister/internal/schemas"
	"github.com/jonathan/cv-shortlister/internal/types"
	"github.com/spf13/cobra"
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Show or edit a job's scoring criteria",
}

var criteriaShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Print a job's criteria, creating defaults from the job if needed",
	Args:  cobra.ExactArgs(1),
	RunE:  runCriteriaShow,
}

var criteriaSetCmd = &cobra.Command{
	Use:   "set <job-id>",
	Short: "Replace a job's criteria with a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE:  runCriteriaSet,
}

var (
	criteriaFile string
	criteriaJSON bool
)

func init() {
	criteriaShowCmd.Flags().BoolVar(&criteriaJSON, "json", false, "Print the criteria as JSON")
	criteriaSetCmd.Flags().StringVarP(&criteriaFile, "file", "f", "", "Path to the criteria JSON file (required)")
	_ = criteriaSetCmd.MarkFlagRequired("file")

	criteriaCmd.AddCommand(criteriaShowCmd, criteriaSetCmd)
	rootCmd.AddCommand(criteriaCmd)
}

func runCriteriaShow(_ *cobra.Command, args []string) error {
	jobID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid job ID %q: %w", args[0], err)
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	svc, err := newService(cfg, database, logger)
	if err != nil {
		return err
	}

	crit, err := svc.Criteria(ctx, jobID)
	if err != nil {
		return err
	}

	if criteriaJSON {
		out, err := json.MarshalIndent(crit, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintCriteria(crit)
	return nil
}

func runCriteriaSet(_ *cobra.Command, args []string) error {
	jobID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid job ID %q: %w", args[0], err)
	}

	data, err := schemas.ValidateCriteriaFile(criteriaFile)
	if err != nil {
		return err
	}

	var crit types.JobCriteria
	if err := json.Unmarshal(data, &crit); err != nil {
		return fmt.Errorf("failed to parse criteria file: %w", err)
	}
	crit.JobID = jobID

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	svc, err := newService(cfg, database, logger)
	if err != nil {
		return err
	}

	if err := svc.UpdateCriteria(ctx, &crit); err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintCriteria(&crit)
	return nil
}
