package shortlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/criteria"
	"github.com/jonathan/cv-shortlister/internal/ranking"
	"github.com/jonathan/cv-shortlister/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultTopN is the number of applications selected when the caller gives none.
const DefaultTopN = 3

// unknownCandidate is shown when an application carries no candidate name
const unknownCandidate = "Unknown"

// Options tunes a Service
type Options struct {
	// Workers bounds how many applications are scored at once. Values below 1 mean 1.
	Workers int
}

// Service runs shortlisting for jobs
type Service struct {
	jobs     JobRepository
	apps     ApplicationRepository
	resolver *criteria.Resolver
	profiler *Profiler
	workers  int
	logger   *zap.Logger
}

// NewService creates a Service.
func NewService(
	jobs JobRepository,
	apps ApplicationRepository,
	resolver *criteria.Resolver,
	profiler *Profiler,
	opts Options,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		jobs:     jobs,
		apps:     apps,
		resolver: resolver,
		profiler: profiler,
		workers:  max(opts.Workers, 1),
		logger:   logger,
	}
}

// Shortlist scores every application of a job, flags the top N and returns the
// full ranked list. Previously shortlisted applications are cleared first, so the
// flags always reflect this run alone. Failures of a single application become a
// zero-score entry; only a missing job or a persistence error fails the run.
func (s *Service) Shortlist(ctx context.Context, jobID uuid.UUID, topN int) ([]types.ShortlistResult, error) {
	start := time.Now()

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	apps, err := s.apps.ListApplicationsByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	s.logger.Info("shortlisting applications",
		zap.String("job_id", jobID.String()),
		zap.Int("applications", len(apps)),
		zap.Int("top_n", topN))

	crit, err := s.resolver.Resolve(ctx, job)
	if err != nil {
		return nil, err
	}

	if err := s.resetPrior(ctx, apps); err != nil {
		return nil, err
	}

	results := s.scoreAll(ctx, job, crit, apps)
	results = ranking.RankResults(results, topN)

	for _, r := range results {
		if !r.Shortlisted {
			continue
		}
		if err := s.apps.SetShortlisted(ctx, r.ApplicationID, true); err != nil {
			return nil, fmt.Errorf("failed to shortlist application %s: %w", r.ApplicationID, err)
		}
	}

	top := 0.0
	if len(results) > 0 {
		top = results[0].Score
	}
	s.logger.Info("shortlisting complete",
		zap.String("job_id", jobID.String()),
		zap.Float64("top_score", top),
		zap.Duration("took", time.Since(start)))

	return results, nil
}

// ShortlistedIDs runs Shortlist and returns only the selected application IDs.
func (s *Service) ShortlistedIDs(ctx context.Context, jobID uuid.UUID, topN int) ([]uuid.UUID, error) {
	results, err := s.Shortlist(ctx, jobID, topN)
	if err != nil {
		return nil, err
	}
	ids := []uuid.UUID{}
	for _, r := range results {
		if r.Shortlisted {
			ids = append(ids, r.ApplicationID)
		}
	}
	return ids, nil
}

// Applications lists a job's applications in submission order without scoring
// them. With shortlistedOnly set, only currently flagged applications are returned.
func (s *Service) Applications(ctx context.Context, jobID uuid.UUID, shortlistedOnly bool) ([]types.Application, error) {
	if _, err := s.getJob(ctx, jobID); err != nil {
		return nil, err
	}

	apps, err := s.apps.ListApplicationsByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	out := make([]types.Application, 0, len(apps))
	for _, a := range apps {
		if shortlistedOnly && !a.Shortlisted {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// ToggleShortlist flips an application's shortlisted flag by hand.
func (s *Service) ToggleShortlist(ctx context.Context, applicationID uuid.UUID) (*types.Application, error) {
	app, err := s.apps.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: %s", ErrApplicationNotFound, applicationID)
	}

	app.Shortlisted = !app.Shortlisted
	if err := s.apps.SetShortlisted(ctx, app.ID, app.Shortlisted); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return app, nil
}

// Criteria resolves the criteria of a job, creating defaults if needed.
func (s *Service) Criteria(ctx context.Context, jobID uuid.UUID) (*types.JobCriteria, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(ctx, job)
}

// UpdateCriteria stores edited criteria for an existing job.
func (s *Service) UpdateCriteria(ctx context.Context, c *types.JobCriteria) error {
	if _, err := s.getJob(ctx, c.JobID); err != nil {
		return err
	}
	return s.resolver.Update(ctx, c)
}

// Profile returns the cached profile of an application.
func (s *Service) Profile(ctx context.Context, applicationID uuid.UUID) (*types.Profile, error) {
	return s.profiler.Cached(ctx, applicationID)
}

// Profiler exposes the document profiler used by this service.
func (s *Service) Profiler() *Profiler {
	return s.profiler
}

func (s *Service) getJob(ctx context.Context, jobID uuid.UUID) (*types.Job, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	return job, nil
}

// resetPrior clears every shortlisted flag of the job
func (s *Service) resetPrior(ctx context.Context, apps []types.Application) error {
	for i := range apps {
		if !apps[i].Shortlisted {
			continue
		}
		if err := s.apps.SetShortlisted(ctx, apps[i].ID, false); err != nil {
			return fmt.Errorf("failed to reset application %s: %w", apps[i].ID, err)
		}
		apps[i].Shortlisted = false
	}
	return nil
}

// scoreAll scores applications on up to s.workers goroutines. Each result is
// stored at its application's index, so the output order never depends on
// scheduling.
func (s *Service) scoreAll(ctx context.Context, job *types.Job, crit *types.JobCriteria, apps []types.Application) []types.ShortlistResult {
	results := make([]types.ShortlistResult, len(apps))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range apps {
		g.Go(func() error {
			results[i] = s.scoreApplication(gCtx, job, crit, &apps[i])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// scoreApplication refreshes and scores one application, converting any failure
// into a zero-score result.
func (s *Service) scoreApplication(ctx context.Context, job *types.Job, crit *types.JobCriteria, app *types.Application) (res types.ShortlistResult) {
	res = types.ShortlistResult{
		ApplicationID:  app.ID,
		CandidateName:  app.CandidateName,
		CandidateEmail: app.CandidateEmail,
	}
	if res.CandidateName == "" {
		res.CandidateName = unknownCandidate
	}

	fail := func(err error) {
		s.logger.Error("error scoring application",
			zap.String("application_id", app.ID.String()),
			zap.Error(err))
		res.Score = 0
		res.Rationale = "Error scoring application: " + err.Error()
	}

	defer func() {
		if r := recover(); r != nil {
			fail(fmt.Errorf("%v", r))
		}
	}()

	profile, err := s.profiler.Refresh(ctx, app, true)
	if err != nil {
		fail(err)
		return res
	}

	fb := ranking.FallbackInput{
		SkillsSummary:  app.SkillsSummary,
		JobSkills:      job.Skills,
		HasCV:          s.profiler.hasDocument(ctx, app.CVFilename),
		HasCoverLetter: s.profiler.hasDocument(ctx, app.LetterFilename),
	}

	scored := ranking.Score(profile, crit, fb)
	res.Score = scored.Score
	res.Rationale = scored.Rationale
	return res
}
