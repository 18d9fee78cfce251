// Package criteria resolves the scoring rubric for a job, synthesizing and saving a
// default the first time a job is shortlisted.
package criteria

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/extraction"
	"github.com/jonathan/cv-shortlister/internal/types"
	"go.uber.org/zap"
)

// Repository persists job criteria
type Repository interface {
	// GetCriteriaByJob returns nil, nil when the job has no criteria yet.
	GetCriteriaByJob(ctx context.Context, jobID uuid.UUID) (*types.JobCriteria, error)
	SaveCriteria(ctx context.Context, c *types.JobCriteria) error
}

// Resolver obtains or synthesizes criteria for jobs
type Resolver struct {
	repo   Repository
	logger *zap.Logger
}

// NewResolver creates a Resolver over repo.
func NewResolver(repo Repository, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{repo: repo, logger: logger}
}

// Resolve returns the stored criteria for job unchanged, or synthesizes, saves and
// returns defaults derived from the job itself.
func (r *Resolver) Resolve(ctx context.Context, job *types.Job) (*types.JobCriteria, error) {
	existing, err := r.repo.GetCriteriaByJob(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load criteria for job %s: %w", job.ID, err)
	}
	if existing != nil {
		return existing, nil
	}

	c := Synthesize(job)
	if err := r.repo.SaveCriteria(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save default criteria for job %s: %w", job.ID, err)
	}

	r.logger.Info("created default criteria",
		zap.String("job_id", job.ID.String()),
		zap.Int("required_skills", len(c.RequiredSkills)),
		zap.Int("minimum_years", c.MinimumYearsExperience),
		zap.Any("education_levels", c.RequiredEducationLevels))
	return c, nil
}

// Update validates and stores explicitly edited criteria.
func (r *Resolver) Update(ctx context.Context, c *types.JobCriteria) error {
	if err := c.Validate(); err != nil {
		return &ValidationError{Cause: err}
	}
	c.UpdatedAt = time.Now().UTC()
	if err := r.repo.SaveCriteria(ctx, c); err != nil {
		return fmt.Errorf("failed to save criteria for job %s: %w", c.JobID, err)
	}
	return nil
}

// Synthesize derives default criteria from a job's skills, experience requirement
// and the education levels mentioned in its description and title.
func Synthesize(job *types.Job) *types.JobCriteria {
	c := &types.JobCriteria{
		JobID:                   job.ID,
		RequiredSkills:          []string{},
		PreferredSkills:         []string{},
		RequiredEducationLevels: extraction.DetectEducationLevels(job.Description + " " + job.Title),
		Keywords:                []string{},
		Weights:                 types.DefaultWeights(),
		UpdatedAt:               time.Now().UTC(),
	}

	for _, s := range job.Skills {
		if s = strings.TrimSpace(s); s != "" {
			c.RequiredSkills = append(c.RequiredSkills, s)
		}
	}
	if job.YearsExperience != nil && *job.YearsExperience > 0 {
		c.MinimumYearsExperience = *job.YearsExperience
	}

	return c
}

// ValidationError reports criteria rejected by Update
type ValidationError struct {
	Cause error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid criteria: %v", e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
