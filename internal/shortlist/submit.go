package shortlist

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/types"
	"go.uber.org/zap"
)

// Document is an uploaded file
type Document struct {
	Filename string
	Content  io.Reader
}

// Submission is a candidate's application to a job
type Submission struct {
	JobID          uuid.UUID `validate:"required"`
	CandidateName  string    `validate:"required"`
	CandidateEmail string    `validate:"required,email"`
	SkillsSummary  string
	CV             *Document
	CoverLetter    *Document
}

// Submit stores the submission's documents, records the application and profiles
// its CV. Profiling is best effort and uses the cached profile when one exists;
// its failure is logged and never fails the submission.
func (s *Service) Submit(ctx context.Context, sub Submission) (*types.Application, *types.Profile, error) {
	validate := validator.New()
	if err := validate.Struct(sub); err != nil {
		return nil, nil, fmt.Errorf("invalid submission: %w", err)
	}

	if _, err := s.getJob(ctx, sub.JobID); err != nil {
		return nil, nil, err
	}

	app := &types.Application{
		ID:             uuid.New(),
		JobID:          sub.JobID,
		CandidateName:  sub.CandidateName,
		CandidateEmail: sub.CandidateEmail,
		SkillsSummary:  sub.SkillsSummary,
		CreatedAt:      time.Now().UTC(),
	}

	var err error
	if app.CVFilename, err = s.saveDocument(ctx, sub.CV); err != nil {
		return nil, nil, fmt.Errorf("failed to store CV: %w", err)
	}
	if app.LetterFilename, err = s.saveDocument(ctx, sub.CoverLetter); err != nil {
		return nil, nil, fmt.Errorf("failed to store cover letter: %w", err)
	}

	if err := s.apps.CreateApplication(ctx, app); err != nil {
		return nil, nil, fmt.Errorf("failed to create application: %w", err)
	}

	profile, err := s.profiler.Refresh(ctx, app, false)
	if err != nil {
		s.logger.Warn("cv profiling failed on submission",
			zap.String("application_id", app.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("application submitted",
		zap.String("application_id", app.ID.String()),
		zap.String("job_id", app.JobID.String()))
	return app, profile, nil
}

func (s *Service) saveDocument(ctx context.Context, doc *Document) (string, error) {
	if doc == nil || doc.Content == nil {
		return "", nil
	}
	return s.profiler.store.Save(ctx, doc.Filename, doc.Content)
}
