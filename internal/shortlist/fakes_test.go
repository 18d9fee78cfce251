package shortlist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/criteria"
	"github.com/jonathan/cv-shortlister/internal/extraction"
	"github.com/jonathan/cv-shortlister/internal/ingestion"
	"github.com/jonathan/cv-shortlister/internal/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory implementation of every repository the service uses
type memRepo struct {
	mu       sync.Mutex
	jobs     map[uuid.UUID]*types.Job
	apps     []*types.Application
	criteria map[uuid.UUID]*types.JobCriteria
	profiles map[uuid.UUID]*types.Profile

	setCalls     []setCall
	setErr       error
	criteriaErr  error
	panicOnSave  uuid.UUID
	profileSaves int
}

type setCall struct {
	id          uuid.UUID
	shortlisted bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		jobs:     make(map[uuid.UUID]*types.Job),
		criteria: make(map[uuid.UUID]*types.JobCriteria),
		profiles: make(map[uuid.UUID]*types.Profile),
	}
}

func (m *memRepo) GetJob(_ context.Context, id uuid.UUID) (*types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[id], nil
}

func (m *memRepo) ListApplicationsByJob(_ context.Context, jobID uuid.UUID) ([]types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Application
	for _, a := range m.apps {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memRepo) GetApplication(_ context.Context, id uuid.UUID) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) CreateApplication(_ context.Context, app *types.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *app
	m.apps = append(m.apps, &cp)
	return nil
}

func (m *memRepo) SetShortlisted(_ context.Context, id uuid.UUID, shortlisted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.setCalls = append(m.setCalls, setCall{id, shortlisted})
	for _, a := range m.apps {
		if a.ID == id {
			a.Shortlisted = shortlisted
		}
	}
	return nil
}

func (m *memRepo) GetCriteriaByJob(_ context.Context, jobID uuid.UUID) (*types.JobCriteria, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.criteriaErr != nil {
		return nil, m.criteriaErr
	}
	return m.criteria[jobID], nil
}

func (m *memRepo) SaveCriteria(_ context.Context, c *types.JobCriteria) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.criteria[c.JobID] = c
	return nil
}

func (m *memRepo) GetProfileByApplication(_ context.Context, id uuid.UUID) (*types.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[id], nil
}

func (m *memRepo) SaveProfile(_ context.Context, p *types.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panicOnSave != uuid.Nil && p.ApplicationID == m.panicOnSave {
		panic("profile store exploded")
	}
	m.profileSaves++
	m.profiles[p.ApplicationID] = p
	return nil
}

func (m *memRepo) shortlisted() map[uuid.UUID]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]bool)
	for _, a := range m.apps {
		out[a.ID] = a.Shortlisted
	}
	return out
}

var errBoom = errors.New("boom")

// fixture bundles a service with its backing fakes
type fixture struct {
	repo  *memRepo
	fs    afero.Fs
	store *ingestion.FileStore
	svc   *Service
	job   *types.Job
}

func newFixture(t *testing.T, workers int) *fixture {
	t.Helper()

	repo := newMemRepo()
	fs := afero.NewMemMapFs()
	store := ingestion.NewFileStore(fs, "/uploads")

	years := 3
	job := &types.Job{
		ID:              uuid.New(),
		Title:           "Backend Developer",
		Description:     "Bachelors degree required.",
		Skills:          []string{"java", "sql"},
		YearsExperience: &years,
	}
	repo.jobs[job.ID] = job

	profiler := NewProfiler(store, ingestion.NewTextExtractor(time.Second, nil), extraction.New(nil), repo, nil)
	svc := NewService(repo, repo, criteria.NewResolver(repo, nil), profiler, Options{Workers: workers}, nil)

	return &fixture{repo: repo, fs: fs, store: store, svc: svc, job: job}
}

// addApp registers an application whose CV (if cvText is non-empty) is a stored text file
func (f *fixture) addApp(t *testing.T, name, cvText string, withLetter bool) *types.Application {
	t.Helper()

	app := &types.Application{
		ID:             uuid.New(),
		JobID:          f.job.ID,
		CandidateName:  name,
		CandidateEmail: name + "@example.com",
		CreatedAt:      time.Now(),
	}
	if cvText != "" {
		app.CVFilename = app.ID.String() + ".txt"
		require.NoError(t, afero.WriteFile(f.fs, "/uploads/"+app.CVFilename, []byte(cvText), 0644))
	}
	if withLetter {
		app.LetterFilename = app.ID.String() + "-letter.txt"
		require.NoError(t, afero.WriteFile(f.fs, "/uploads/"+app.LetterFilename, []byte("Dear hiring manager"), 0644))
	}

	f.repo.apps = append(f.repo.apps, app)
	return app
}
