package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/export"
	"github.com/jonathan/cv-shortlister/internal/observability"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	promptProceed = "Yes, reset flags and shortlist"
	promptAbort   = "No, abort"
)

var errAborted = errors.New("aborted by user")

var shortlistCmd = &cobra.Command{
	Use:   "shortlist <job-id>",
	Short: "Score a job's applications and flag the top candidates",
	Long: "Re-extracts every CV of the job, scores it against the job's criteria, clears " +
		"previous shortlist flags and flags the top N applications.",
	Args: cobra.ExactArgs(1),
	RunE: runShortlist,
}

var (
	shortlistTopN int
	shortlistYes  bool
	shortlistXLSX string
)

func init() {
	shortlistCmd.Flags().IntVarP(&shortlistTopN, "top-n", "n", 0, "Number of applications to shortlist; 0 or less selects none (default from config)")
	shortlistCmd.Flags().BoolVarP(&shortlistYes, "yes", "y", false, "Do not ask for confirmation")
	shortlistCmd.Flags().StringVarP(&shortlistXLSX, "xlsx", "x", "", "Also write the ranked list to this Excel file")
	rootCmd.AddCommand(shortlistCmd)
}

func runShortlist(cmd *cobra.Command, args []string) error {
	jobID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid job ID %q: %w", args[0], err)
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	topN := resolveTopN(cmd, cfg.DefaultTopN)

	ctx := context.Background()
	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	job, err := database.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if !shortlistYes {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Shortlist top %d for %q? Existing flags will be cleared", topN, job.Title),
			Items: []string{promptProceed, promptAbort},
		}
		_, choice, err := prompt.Run()
		if err != nil {
			return err
		}
		if choice != promptProceed {
			return errAborted
		}
	}

	svc, err := newService(cfg, database, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	results, err := svc.Shortlist(ctx, jobID, topN)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintShortlist(job, results)

	if shortlistXLSX != "" {
		path, err := export.ExportToExcel(shortlistXLSX, job, results)
		if err != nil {
			return err
		}
		logger.Info("shortlist exported", zap.String("path", path))
	}
	return nil
}

// resolveTopN returns --top-n when given, otherwise the configured default.
func resolveTopN(cmd *cobra.Command, configured int) int {
	if cmd.Flags().Changed("top-n") {
		return shortlistTopN
	}
	return configured
}
