package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/types"
)

var jobColumns = []string{"id", "title", "description", "skills", "years_experience", "created_at"}

// JobCreateInput holds the fields of a new job
type JobCreateInput struct {
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description"`
	Skills          []string `json:"skills"`
	YearsExperience *int     `json:"years_experience,omitempty" validate:"omitempty,gte=0"`
}

// Validate checks required fields
func (in *JobCreateInput) Validate() error {
	validate := validator.New()
	return validate.Struct(in)
}

func insertJobQuery(id uuid.UUID, input *JobCreateInput, createdAt time.Time) sq.InsertBuilder {
	skills := make([]string, 0, len(input.Skills))
	for _, s := range input.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return psql.Insert("jobs").
		Columns(jobColumns...).
		Values(id, strings.TrimSpace(input.Title), input.Description, skills, input.YearsExperience, createdAt)
}

func getJobQuery(id uuid.UUID) sq.SelectBuilder {
	return psql.Select(jobColumns...).From("jobs").Where(sq.Eq{"id": id})
}

func listJobsQuery(limit int) sq.SelectBuilder {
	return psql.Select(jobColumns...).From("jobs").OrderBy("created_at DESC", "id").Limit(uint64(limit))
}

// CreateJob stores a new job
func (db *DB) CreateJob(ctx context.Context, input *JobCreateInput) (*types.Job, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}

	id := uuid.New()
	now := time.Now().UTC()

	if _, err := db.exec(ctx, insertJobQuery(id, input, now)); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return db.GetJob(ctx, id)
}

// GetJob retrieves a job by ID. Returns nil, nil if not found.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	row, err := db.queryRow(ctx, getJobQuery(id))
	if err != nil {
		return nil, err
	}

	var job types.Job
	err = row.Scan(&job.ID, &job.Title, &job.Description, &job.Skills, &job.YearsExperience, &job.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// ListJobs returns the most recent jobs first
func (db *DB) ListJobs(ctx context.Context, limit int) ([]types.Job, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.query(ctx, listJobsQuery(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		var job types.Job
		if err := rows.Scan(&job.ID, &job.Title, &job.Description, &job.Skills, &job.YearsExperience, &job.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
