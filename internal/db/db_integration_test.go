//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/types"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func cleanupJob(t *testing.T, db *DB, jobID uuid.UUID) {
	t.Helper()
	_, _ = db.pool.Exec(context.Background(), "DELETE FROM jobs WHERE id = $1", jobID)
}

// =============================================================================
// Shortlisting Storage Integration Tests
// =============================================================================

func TestIntegration_JobAndApplications(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	years := 3
	job, err := db.CreateJob(ctx, &JobCreateInput{
		Title:           "Integration Engineer",
		Skills:          []string{"java", "sql"},
		YearsExperience: &years,
	})
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	defer cleanupJob(t, db, job.ID)

	got, err := db.GetJob(ctx, job.ID)
	if err != nil || got == nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if len(got.Skills) != 2 || *got.YearsExperience != 3 {
		t.Errorf("GetJob = %+v, want skills and years preserved", got)
	}

	missing, err := db.GetJob(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Errorf("GetJob(unknown) = %v, %v, want nil, nil", missing, err)
	}

	// identical timestamps fall back to id order
	created := time.Now().UTC().Truncate(time.Microsecond)
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		app := &types.Application{ID: id, JobID: job.ID, CandidateName: "c", CreatedAt: created}
		if err := db.CreateApplication(ctx, app); err != nil {
			t.Fatalf("CreateApplication failed: %v", err)
		}
	}

	apps, err := db.ListApplicationsByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("ListApplicationsByJob failed: %v", err)
	}
	if len(apps) != 3 {
		t.Fatalf("got %d applications, want 3", len(apps))
	}
	for i := 1; i < len(apps); i++ {
		if apps[i-1].ID.String() > apps[i].ID.String() {
			t.Errorf("applications not in id order at %d", i)
		}
	}

	if err := db.SetShortlisted(ctx, ids[0], true); err != nil {
		t.Fatalf("SetShortlisted failed: %v", err)
	}
	app, err := db.GetApplication(ctx, ids[0])
	if err != nil || app == nil || !app.Shortlisted {
		t.Errorf("GetApplication after SetShortlisted = %+v, %v", app, err)
	}

	if err := db.SetShortlisted(ctx, uuid.New(), true); err == nil {
		t.Error("SetShortlisted(unknown) should fail")
	}
}

func TestIntegration_CriteriaAndProfiles(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	job, err := db.CreateJob(ctx, &JobCreateInput{Title: "Criteria Test"})
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	defer cleanupJob(t, db, job.ID)

	none, err := db.GetCriteriaByJob(ctx, job.ID)
	if err != nil || none != nil {
		t.Fatalf("GetCriteriaByJob before save = %v, %v", none, err)
	}

	c := &types.JobCriteria{
		JobID:                   job.ID,
		RequiredSkills:          []string{"go"},
		RequiredEducationLevels: []types.EducationLevel{types.EducationMasters},
		Weights:                 types.DefaultWeights(),
		UpdatedAt:               time.Now().UTC(),
	}
	if err := db.SaveCriteria(ctx, c); err != nil {
		t.Fatalf("SaveCriteria failed: %v", err)
	}
	c.MinimumYearsExperience = 5
	if err := db.SaveCriteria(ctx, c); err != nil {
		t.Fatalf("SaveCriteria (update) failed: %v", err)
	}

	got, err := db.GetCriteriaByJob(ctx, job.ID)
	if err != nil || got == nil {
		t.Fatalf("GetCriteriaByJob failed: %v", err)
	}
	if got.MinimumYearsExperience != 5 || got.RequiredEducationLevels[0] != types.EducationMasters {
		t.Errorf("GetCriteriaByJob = %+v", got)
	}

	app := &types.Application{ID: uuid.New(), JobID: job.ID, CreatedAt: time.Now().UTC()}
	if err := db.CreateApplication(ctx, app); err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	if err := db.SaveProfile(ctx, types.FailedProfile(app.ID, "No CV file uploaded")); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	years := 4
	if err := db.SaveProfile(ctx, &types.Profile{
		ApplicationID:     app.ID,
		Skills:            []string{"java"},
		YearsOfExperience: &years,
		EducationLevel:    types.EducationBachelors,
		Status:            types.StatusSuccess,
	}); err != nil {
		t.Fatalf("SaveProfile (overwrite) failed: %v", err)
	}

	p, err := db.GetProfileByApplication(ctx, app.ID)
	if err != nil || p == nil {
		t.Fatalf("GetProfileByApplication failed: %v", err)
	}
	if p.Status != types.StatusSuccess || p.Error != "" || *p.YearsOfExperience != 4 {
		t.Errorf("GetProfileByApplication = %+v, want overwritten profile", p)
	}
}
