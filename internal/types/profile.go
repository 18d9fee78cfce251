package types

import (
	"time"

	"github.com/google/uuid"
)

// ParsingStatus records the outcome of extracting features from a CV.
type ParsingStatus string

const (
	StatusSuccess ParsingStatus = "SUCCESS"
	StatusFailed  ParsingStatus = "FAILED"
	StatusPartial ParsingStatus = "PARTIAL"
)

// Profile holds the structured features extracted from one application's CV.
// A failed profile carries no features, only Error.
type Profile struct {
	ApplicationID     uuid.UUID      `json:"application_id"`
	Skills            []string       `json:"skills"`
	YearsOfExperience *int           `json:"years_of_experience,omitempty"`
	EducationLevel    EducationLevel `json:"education_level"`
	Certifications    []string       `json:"certifications"`
	RawText           string         `json:"raw_text,omitempty"`
	Status            ParsingStatus  `json:"status"`
	Error             string         `json:"error,omitempty"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// FailedProfile builds a profile with no features and the given error message.
func FailedProfile(applicationID uuid.UUID, message string) *Profile {
	return &Profile{
		ApplicationID:  applicationID,
		Skills:         []string{},
		EducationLevel: EducationUnknown,
		Certifications: []string{},
		Status:         StatusFailed,
		Error:          message,
		UpdatedAt:      time.Now().UTC(),
	}
}

// HasSkills reports whether the profile carries any extracted skill.
func (p *Profile) HasSkills() bool {
	return p != nil && len(p.Skills) > 0
}
