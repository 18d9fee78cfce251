package types

import (
	"time"

	"github.com/google/uuid"
)

// Job is a posting that applications are submitted against
type Job struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Skills          []string  `json:"skills"`
	YearsExperience *int      `json:"years_experience,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Application is one candidate's submission to a job
type Application struct {
	ID             uuid.UUID `json:"id"`
	JobID          uuid.UUID `json:"job_id"`
	CandidateName  string    `json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email"`
	SkillsSummary  string    `json:"skills_summary"`
	CVFilename     string    `json:"cv_filename,omitempty"`
	LetterFilename string    `json:"letter_filename,omitempty"`
	Shortlisted    bool      `json:"shortlisted"`
	CreatedAt      time.Time `json:"created_at"`
}

// ShortlistResult is one ranked entry of a shortlisting run
type ShortlistResult struct {
	ApplicationID  uuid.UUID `json:"application_id"`
	CandidateName  string    `json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email"`
	Rank           int       `json:"rank"`
	Score          float64   `json:"score"`
	Shortlisted    bool      `json:"shortlisted"`
	Rationale      string    `json:"rationale"`
}
