package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/types"
)

var applicationColumns = []string{
	"id", "job_id", "candidate_name", "candidate_email", "skills_summary",
	"cv_filename", "letter_filename", "shortlisted", "created_at",
}

func insertApplicationQuery(app *types.Application) sq.InsertBuilder {
	return psql.Insert("applications").
		Columns(applicationColumns...).
		Values(app.ID, app.JobID, app.CandidateName, app.CandidateEmail, app.SkillsSummary,
			app.CVFilename, app.LetterFilename, app.Shortlisted, app.CreatedAt)
}

func getApplicationQuery(id uuid.UUID) sq.SelectBuilder {
	return psql.Select(applicationColumns...).From("applications").Where(sq.Eq{"id": id})
}

// listApplicationsQuery orders by submission time, then ID for equal timestamps
func listApplicationsQuery(jobID uuid.UUID) sq.SelectBuilder {
	return psql.Select(applicationColumns...).
		From("applications").
		Where(sq.Eq{"job_id": jobID}).
		OrderBy("created_at", "id")
}

func setShortlistedQuery(id uuid.UUID, shortlisted bool) sq.UpdateBuilder {
	return psql.Update("applications").Set("shortlisted", shortlisted).Where(sq.Eq{"id": id})
}

func scanApplication(row interface{ Scan(...any) error }) (*types.Application, error) {
	var app types.Application
	err := row.Scan(&app.ID, &app.JobID, &app.CandidateName, &app.CandidateEmail, &app.SkillsSummary,
		&app.CVFilename, &app.LetterFilename, &app.Shortlisted, &app.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// CreateApplication stores a new application. ID and CreatedAt must be set.
func (db *DB) CreateApplication(ctx context.Context, app *types.Application) error {
	if _, err := db.exec(ctx, insertApplicationQuery(app)); err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetApplication retrieves an application by ID. Returns nil, nil if not found.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	row, err := db.queryRow(ctx, getApplicationQuery(id))
	if err != nil {
		return nil, err
	}

	app, err := scanApplication(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ListApplicationsByJob returns a job's applications in submission order
func (db *DB) ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]types.Application, error) {
	rows, err := db.query(ctx, listApplicationsQuery(jobID))
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []types.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// SetShortlisted updates the shortlisted flag of an application
func (db *DB) SetShortlisted(ctx context.Context, id uuid.UUID, shortlisted bool) error {
	n, err := db.exec(ctx, setShortlistedQuery(id, shortlisted))
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("application not found: %s", id)
	}
	return nil
}
