package shortlist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/extraction"
	"github.com/jonathan/cv-shortlister/internal/ingestion"
	"github.com/jonathan/cv-shortlister/internal/types"
	"go.uber.org/zap"
)

// noCVMessage is recorded on profiles of applications submitted without a CV
const noCVMessage = "No CV file uploaded"

// Profiler produces and caches the extracted profile of an application's CV.
type Profiler struct {
	store    ingestion.Store
	text     *ingestion.TextExtractor
	features *extraction.Extractor
	profiles ProfileRepository
	logger   *zap.Logger
}

// NewProfiler wires the document store, both extractors and the profile cache.
func NewProfiler(
	store ingestion.Store,
	text *ingestion.TextExtractor,
	features *extraction.Extractor,
	profiles ProfileRepository,
	logger *zap.Logger,
) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profiler{
		store:    store,
		text:     text,
		features: features,
		profiles: profiles,
		logger:   logger,
	}
}

// Refresh returns the application's profile. The cached profile is reused unless
// force is set or none exists. A document that cannot be read or parsed is cached
// as a FAILED profile and its error returned alongside it.
func (p *Profiler) Refresh(ctx context.Context, app *types.Application, force bool) (*types.Profile, error) {
	if !force {
		cached, err := p.profiles.GetProfileByApplication(ctx, app.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cached profile: %w", err)
		}
		if cached != nil {
			return cached, nil
		}
	}

	if app.CVFilename == "" {
		profile := types.FailedProfile(app.ID, noCVMessage)
		if err := p.profiles.SaveProfile(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to save profile: %w", err)
		}
		return profile, nil
	}

	text, extractErr := p.text.ExtractFile(ctx, p.store, app.CVFilename)
	if extractErr != nil {
		p.logger.Warn("cv extraction failed",
			zap.String("application_id", app.ID.String()),
			zap.String("filename", app.CVFilename),
			zap.Error(extractErr))

		profile := types.FailedProfile(app.ID, extractErr.Error())
		if err := p.profiles.SaveProfile(ctx, profile); err != nil {
			p.logger.Error("failed to save failed profile",
				zap.String("application_id", app.ID.String()),
				zap.Error(err))
		}
		return profile, extractErr
	}

	profile := p.features.Extract(text)
	profile.ApplicationID = app.ID
	if err := p.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	p.logger.Debug("cv profiled",
		zap.String("application_id", app.ID.String()),
		zap.String("status", string(profile.Status)),
		zap.Int("skills", len(profile.Skills)),
		zap.String("education", string(profile.EducationLevel)))
	return profile, nil
}

// ExtractFeatures profiles a stored document without saving anything.
func (p *Profiler) ExtractFeatures(ctx context.Context, filename string) (*types.Profile, error) {
	text, err := p.text.ExtractFile(ctx, p.store, filename)
	if err != nil {
		return nil, err
	}
	return p.features.Extract(text), nil
}

// ExtractText profiles raw document bytes without storing them.
func (p *Profiler) ExtractText(ctx context.Context, filename string, data []byte) (*types.Profile, error) {
	text, err := p.text.Extract(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	return p.features.Extract(text), nil
}

// Cached returns the stored profile of an application.
func (p *Profiler) Cached(ctx context.Context, applicationID uuid.UUID) (*types.Profile, error) {
	profile, err := p.profiles.GetProfileByApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, applicationID)
	}
	return profile, nil
}

// hasDocument reports whether a named document is present in the store
func (p *Profiler) hasDocument(ctx context.Context, filename string) bool {
	return filename != "" && p.store.HasFile(ctx, filename)
}
