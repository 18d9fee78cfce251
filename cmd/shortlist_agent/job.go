package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jonathan/cv-shortlister/internal/db"
	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Create and list jobs",
}

var jobCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job posting",
	RunE:  runJobCreate,
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent jobs",
	RunE:  runJobList,
}

var (
	jobTitle       string
	jobDescription string
	jobSkills      []string
	jobYears       int
	jobListLimit   int
)

func init() {
	jobCreateCmd.Flags().StringVarP(&jobTitle, "title", "t", "", "Job title (required)")
	jobCreateCmd.Flags().StringVarP(&jobDescription, "description", "d", "", "Job description")
	jobCreateCmd.Flags().StringSliceVarP(&jobSkills, "skills", "s", nil, "Comma separated required skills")
	jobCreateCmd.Flags().IntVar(&jobYears, "years", -1, "Minimum years of experience")
	_ = jobCreateCmd.MarkFlagRequired("title")

	jobListCmd.Flags().IntVar(&jobListLimit, "limit", 20, "Maximum number of jobs to list")

	jobCmd.AddCommand(jobCreateCmd, jobListCmd)
	rootCmd.AddCommand(jobCmd)
}

func runJobCreate(_ *cobra.Command, _ []string) error {
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

	input := &db.JobCreateInput{
		Title:       jobTitle,
		Description: jobDescription,
		Skills:      jobSkills,
	}
	if jobYears >= 0 {
		input.YearsExperience = &jobYears
	}

	job, err := database.CreateJob(ctx, input)
	if err != nil {
		return err
	}
	fmt.Println(job.ID)
	return nil
}

func runJobList(_ *cobra.Command, _ []string) error {
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

	jobs, err := database.ListJobs(ctx, jobListLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSKILLS\tCREATED")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", j.ID, j.Title, len(j.Skills), j.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}
