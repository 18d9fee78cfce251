package db

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/types"
)

var profileColumns = []string{
	"application_id", "skills", "years_of_experience", "education_level",
	"certifications", "raw_text", "status", "error", "updated_at",
}

func getProfileQuery(applicationID uuid.UUID) sq.SelectBuilder {
	return psql.Select(profileColumns...).From("parsed_profiles").Where(sq.Eq{"application_id": applicationID})
}

// upsertProfileQuery keeps one profile per application, the latest write wins
func upsertProfileQuery(p *types.Profile) sq.InsertBuilder {
	return psql.Insert("parsed_profiles").
		Columns(profileColumns...).
		Values(p.ApplicationID, nonNil(p.Skills), p.YearsOfExperience, string(p.EducationLevel),
			nonNil(p.Certifications), p.RawText, string(p.Status), p.Error, p.UpdatedAt).
		Suffix(`ON CONFLICT (application_id) DO UPDATE SET
			skills = EXCLUDED.skills,
			years_of_experience = EXCLUDED.years_of_experience,
			education_level = EXCLUDED.education_level,
			certifications = EXCLUDED.certifications,
			raw_text = EXCLUDED.raw_text,
			status = EXCLUDED.status,
			error = EXCLUDED.error,
			updated_at = EXCLUDED.updated_at`)
}

// GetProfileByApplication retrieves the cached profile of an application.
// Returns nil, nil if the application was never profiled.
func (db *DB) GetProfileByApplication(ctx context.Context, applicationID uuid.UUID) (*types.Profile, error) {
	row, err := db.queryRow(ctx, getProfileQuery(applicationID))
	if err != nil {
		return nil, err
	}

	var p types.Profile
	var education, status string
	err = row.Scan(&p.ApplicationID, &p.Skills, &p.YearsOfExperience, &education,
		&p.Certifications, &p.RawText, &status, &p.Error, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.EducationLevel = types.EducationLevel(education)
	p.Status = types.ParsingStatus(status)
	return &p, nil
}

// SaveProfile inserts or replaces the cached profile of an application
func (db *DB) SaveProfile(ctx context.Context, p *types.Profile) error {
	if p.EducationLevel == "" {
		p.EducationLevel = types.EducationUnknown
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	if _, err := db.exec(ctx, upsertProfileQuery(p)); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
