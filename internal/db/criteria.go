package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/types"
)

var criteriaColumns = []string{
	"job_id", "required_skills", "preferred_skills", "minimum_years_experience",
	"required_education_levels", "keywords", "location",
	"skills_weight", "experience_weight", "education_weight", "keywords_weight", "updated_at",
}

func getCriteriaQuery(jobID uuid.UUID) sq.SelectBuilder {
	return psql.Select(criteriaColumns...).From("job_criteria").Where(sq.Eq{"job_id": jobID})
}

// upsertCriteriaQuery replaces every column of an existing row for the job
func upsertCriteriaQuery(c *types.JobCriteria) sq.InsertBuilder {
	levels := make([]string, len(c.RequiredEducationLevels))
	for i, l := range c.RequiredEducationLevels {
		levels[i] = string(l)
	}

	return psql.Insert("job_criteria").
		Columns(criteriaColumns...).
		Values(c.JobID, nonNil(c.RequiredSkills), nonNil(c.PreferredSkills), c.MinimumYearsExperience,
			levels, nonNil(c.Keywords), c.Location,
			c.Weights.Skills, c.Weights.Experience, c.Weights.Education, c.Weights.Keywords, c.UpdatedAt).
		Suffix(`ON CONFLICT (job_id) DO UPDATE SET
			required_skills = EXCLUDED.required_skills,
			preferred_skills = EXCLUDED.preferred_skills,
			minimum_years_experience = EXCLUDED.minimum_years_experience,
			required_education_levels = EXCLUDED.required_education_levels,
			keywords = EXCLUDED.keywords,
			location = EXCLUDED.location,
			skills_weight = EXCLUDED.skills_weight,
			experience_weight = EXCLUDED.experience_weight,
			education_weight = EXCLUDED.education_weight,
			keywords_weight = EXCLUDED.keywords_weight,
			updated_at = EXCLUDED.updated_at`)
}

// GetCriteriaByJob retrieves the criteria of a job. Returns nil, nil if none are stored.
func (db *DB) GetCriteriaByJob(ctx context.Context, jobID uuid.UUID) (*types.JobCriteria, error) {
	row, err := db.queryRow(ctx, getCriteriaQuery(jobID))
	if err != nil {
		return nil, err
	}

	var c types.JobCriteria
	var levels []string
	err = row.Scan(&c.JobID, &c.RequiredSkills, &c.PreferredSkills, &c.MinimumYearsExperience,
		&levels, &c.Keywords, &c.Location,
		&c.Weights.Skills, &c.Weights.Experience, &c.Weights.Education, &c.Weights.Keywords, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get criteria: %w", err)
	}

	c.RequiredEducationLevels = make([]types.EducationLevel, len(levels))
	for i, l := range levels {
		c.RequiredEducationLevels[i] = types.EducationLevel(l)
	}
	return &c, nil
}

// SaveCriteria inserts or replaces the criteria of a job
func (db *DB) SaveCriteria(ctx context.Context, c *types.JobCriteria) error {
	if _, err := db.exec(ctx, upsertCriteriaQuery(c)); err != nil {
		return fmt.Errorf("failed to save criteria: %w", err)
	}
	return nil
}
