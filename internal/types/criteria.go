package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Weights are per-factor multipliers applied to the sub-scores.
// They are not required to sum to 1.
type Weights struct {
	Skills     float64 `json:"skills" validate:"gte=0"`
	Experience float64 `json:"experience" validate:"gte=0"`
	Education  float64 `json:"education" validate:"gte=0"`
	Keywords   float64 `json:"keywords" validate:"gte=0"`
}

// DefaultWeights returns the standard factor weighting.
func DefaultWeights() Weights {
	return Weights{
		Skills:     0.40,
		Experience: 0.25,
		Education:  0.20,
		Keywords:   0.15,
	}
}

// JobCriteria is the weighted scoring rubric for one job.
type JobCriteria struct {
	JobID                   uuid.UUID        `json:"job_id" validate:"required"`
	RequiredSkills          []string         `json:"required_skills"`
	PreferredSkills         []string         `json:"preferred_skills"`
	MinimumYearsExperience  int              `json:"minimum_years_experience" validate:"gte=0"`
	RequiredEducationLevels []EducationLevel `json:"required_education_levels" validate:"dive,oneof=UNKNOWN CERTIFICATE DIPLOMA BACHELORS MASTERS PHD"`
	Keywords                []string         `json:"keywords"`
	Location                string           `json:"location,omitempty"`
	Weights                 Weights          `json:"weights"`
	UpdatedAt               time.Time        `json:"updated_at"`
}

// Validate checks criteria edited by hand. Weights may be any non-negative values.
func (c *JobCriteria) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
