package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/criteria"
	"github.com/jonathan/cv-shortlister/internal/db"
	"github.com/jonathan/cv-shortlister/internal/export"
	"github.com/jonathan/cv-shortlister/internal/extraction"
	"github.com/jonathan/cv-shortlister/internal/ingestion"
	"github.com/jonathan/cv-shortlister/internal/server/ratelimit"
	"github.com/jonathan/cv-shortlister/internal/shortlist"
	"github.com/jonathan/cv-shortlister/internal/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// memStore is an in-memory implementation of every repository the server needs
type memStore struct {
	mu       sync.Mutex
	jobs     []*types.Job
	apps     []*types.Application
	criteria map[uuid.UUID]*types.JobCriteria
	profiles map[uuid.UUID]*types.Profile
}

func newMemStore() *memStore {
	return &memStore{
		criteria: make(map[uuid.UUID]*types.JobCriteria),
		profiles: make(map[uuid.UUID]*types.Profile),
	}
}

func (m *memStore) CreateJob(_ context.Context, input *db.JobCreateInput) (*types.Job, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	job := &types.Job{
		ID:              uuid.New(),
		Title:           input.Title,
		Description:     input.Description,
		Skills:          input.Skills,
		YearsExperience: input.YearsExperience,
		CreatedAt:       time.Now().UTC(),
	}
	m.jobs = append(m.jobs, job)
	return job, nil
}

func (m *memStore) GetJob(_ context.Context, id uuid.UUID) (*types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == id {
			cp := *j
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListJobs(_ context.Context, limit int) ([]types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Job
	for i := len(m.jobs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *m.jobs[i])
	}
	return out, nil
}

func (m *memStore) ListApplicationsByJob(_ context.Context, jobID uuid.UUID) ([]types.Application, error) {
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

func (m *memStore) GetApplication(_ context.Context, id uuid.UUID) (*types.Application, error) {
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

func (m *memStore) CreateApplication(_ context.Context, app *types.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *app
	m.apps = append(m.apps, &cp)
	return nil
}

func (m *memStore) SetShortlisted(_ context.Context, id uuid.UUID, shortlisted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.ID == id {
			a.Shortlisted = shortlisted
			return nil
		}
	}
	return shortlist.ErrApplicationNotFound
}

func (m *memStore) GetCriteriaByJob(_ context.Context, jobID uuid.UUID) (*types.JobCriteria, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.criteria[jobID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) SaveCriteria(_ context.Context, c *types.JobCriteria) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.criteria[c.JobID] = &cp
	return nil
}

func (m *memStore) GetProfileByApplication(_ context.Context, applicationID uuid.UUID) (*types.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[applicationID], nil
}

func (m *memStore) SaveProfile(_ context.Context, p *types.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.profiles[p.ApplicationID] = &cp
	return nil
}

type testServer struct {
	*Server
	store *memStore
}

func newTestServer(t *testing.T, rl *ratelimit.Config) *testServer {
	t.Helper()

	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}

	store := newMemStore()
	files := ingestion.NewFileStore(afero.NewMemMapFs(), "/uploads")
	profiler := shortlist.NewProfiler(
		files,
		ingestion.NewTextExtractor(time.Second, nil),
		extraction.New(nil, extraction.WithReferenceYear(2026)),
		store,
		nil,
	)
	svc := shortlist.NewService(store, store, criteria.NewResolver(store, nil), profiler, shortlist.Options{Workers: 2}, nil)

	s := New(Config{Addr: ":0", DefaultTopN: 3, RateLimit: rl}, svc, store, nil)
	t.Cleanup(s.Close)
	return &testServer{Server: s, store: store}
}

func (ts *testServer) do(t *testing.T, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) createJob(t *testing.T) *types.Job {
	t.Helper()
	years := 3
	body, err := json.Marshal(db.JobCreateInput{
		Title:           "Backend Engineer",
		Description:     "Bachelors degree required.",
		Skills:          []string{"java", "sql"},
		YearsExperience: &years,
	})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodPost, "/jobs", body, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var job types.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	return &job
}

// multipartBody builds a form with the given fields and files (field -> filename, content)
func multipartBody(t *testing.T, fields map[string]string, files map[string][2]string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, f := range files {
		fw, err := mw.CreateFormFile(field, f[0])
		require.NoError(t, err)
		_, err = fw.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func (ts *testServer) submit(t *testing.T, jobID uuid.UUID, name, cv string) SubmitResponse {
	t.Helper()
	files := map[string][2]string{}
	if cv != "" {
		files["cv"] = [2]string{"cv.txt", cv}
	}
	body, ct := multipartBody(t, map[string]string{
		"candidate_name":  name,
		"candidate_email": name + "@example.com",
	}, files)

	rec := ts.do(t, http.MethodPost, "/jobs/"+jobID.String()+"/applications", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodOptions, "/jobs", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestJobs_CreateGetList(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)
	assert.Equal(t, "Backend Engineer", job.Title)

	rec := ts.do(t, http.MethodGet, "/jobs/"+job.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/jobs?limit=10", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListJobsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, 10, list.Limit)
}

func TestJobs_Errors(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed body", http.MethodPost, "/jobs", `{"title":`, http.StatusBadRequest},
		{"missing title", http.MethodPost, "/jobs", `{"skills":["go"]}`, http.StatusBadRequest},
		{"invalid id", http.MethodGet, "/jobs/not-a-uuid", "", http.StatusBadRequest},
		{"unknown job", http.MethodGet, "/jobs/" + uuid.NewString(), "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.path, []byte(tt.body), "application/json")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestSubmitApplication(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)

	resp := ts.submit(t, job.ID, "alice", "Java and SQL developer with 6 years of experience.")
	require.NotNil(t, resp.Application)
	assert.Equal(t, job.ID, resp.Application.JobID)
	assert.NotEmpty(t, resp.Application.CVFilename)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, types.StatusSuccess, resp.Profile.Status)
	assert.Contains(t, resp.Profile.Skills, "java")

	// the profile is cached and served by the profile endpoint
	rec := ts.do(t, http.MethodGet, "/applications/"+resp.Application.ID.String()+"/profile", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var profile types.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, resp.Application.ID, profile.ApplicationID)
}

func TestSubmitApplication_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)

	t.Run("invalid email", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"candidate_name": "bob", "candidate_email": "nope"}, nil)
		rec := ts.do(t, http.MethodPost, "/jobs/"+job.ID.String()+"/applications", body, ct)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown job", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"candidate_name": "bob", "candidate_email": "bob@example.com"}, nil)
		rec := ts.do(t, http.MethodPost, "/jobs/"+uuid.NewString()+"/applications", body, ct)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/jobs/"+job.ID.String()+"/applications", []byte(`{}`), "application/json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestShortlist(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)

	weak := ts.submit(t, job.ID, "weak", "Python developer.")
	strong := ts.submit(t, job.ID, "strong", "Java and SQL daily. 6 years of experience. Bachelor of Science.")

	rec := ts.do(t, http.MethodPost, "/jobs/"+job.ID.String()+"/shortlist?top_n=1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ShortlistResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TopN)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, strong.Application.ID, resp.Results[0].ApplicationID)
	assert.Equal(t, 1, resp.Results[0].Rank)
	assert.True(t, resp.Results[0].Shortlisted)
	assert.False(t, resp.Results[1].Shortlisted)
	assert.Equal(t, []uuid.UUID{strong.Application.ID}, resp.ShortlistedIDs)

	flagged, err := ts.store.GetApplication(context.Background(), strong.Application.ID)
	require.NoError(t, err)
	assert.True(t, flagged.Shortlisted)
	other, err := ts.store.GetApplication(context.Background(), weak.Application.ID)
	require.NoError(t, err)
	assert.False(t, other.Shortlisted)
}

func TestShortlist_DefaultTopN(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)
	for _, name := range []string{"a", "b", "c", "d"} {
		ts.submit(t, job.ID, name, "Java developer with 3 years of experience.")
	}

	rec := ts.do(t, http.MethodPost, "/jobs/"+job.ID.String()+"/shortlist", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ShortlistResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TopN)
	assert.Len(t, resp.ShortlistedIDs, 3)
}

func TestShortlist_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"invalid id", "/jobs/xyz/shortlist", http.StatusBadRequest},
		{"invalid top_n", "/jobs/" + job.ID.String() + "/shortlist?top_n=three", http.StatusBadRequest},
		{"invalid format", "/jobs/" + job.ID.String() + "/shortlist?format=pdf", http.StatusBadRequest},
		{"unknown job", "/jobs/" + uuid.NewString() + "/shortlist", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, tt.path, nil, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestShortlist_InvalidQueryMessages(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)

	tests := []struct {
		query string
		want  string
	}{
		{"top_n=three", "validation error: top_n - must be an integer"},
		{"format=pdf", "validation error: format - use json or xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/jobs/"+job.ID.String()+"/shortlist?"+tt.query, nil, "")
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestListApplications(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)

	first := ts.submit(t, job.ID, "first", "Python developer.")
	second := ts.submit(t, job.ID, "second", "Java and SQL daily. 6 years of experience. Bachelor of Science.")
	require.NoError(t, ts.store.SetShortlisted(context.Background(), second.Application.ID, true))

	list := func(t *testing.T, path string) ListApplicationsResponse {
		t.Helper()
		rec := ts.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp ListApplicationsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, job.ID, resp.JobID)
		assert.Equal(t, len(resp.Applications), resp.Count)
		return resp
	}

	all := list(t, "/jobs/"+job.ID.String()+"/applications")
	require.Len(t, all.Applications, 2)
	assert.Equal(t, first.Application.ID, all.Applications[0].ID)
	assert.Equal(t, second.Application.ID, all.Applications[1].ID)

	flagged := list(t, "/jobs/"+job.ID.String()+"/applications?shortlisted=true")
	require.Len(t, flagged.Applications, 1)
	assert.Equal(t, second.Application.ID, flagged.Applications[0].ID)

	current := list(t, "/jobs/"+job.ID.String()+"/shortlist")
	require.Len(t, current.Applications, 1)
	assert.Equal(t, second.Application.ID, current.Applications[0].ID)

	// reading never rescored or reset anything
	stillFlagged, err := ts.store.GetApplication(context.Background(), second.Application.ID)
	require.NoError(t, err)
	assert.True(t, stillFlagged.Shortlisted)
}

func TestListApplications_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"invalid id", "/jobs/xyz/applications", http.StatusBadRequest},
		{"invalid filter", "/jobs/" + job.ID.String() + "/applications?shortlisted=maybe", http.StatusBadRequest},
		{"unknown job", "/jobs/" + uuid.NewString() + "/applications", http.StatusNotFound},
		{"unknown job shortlist", "/jobs/" + uuid.NewString() + "/shortlist", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, tt.path, nil, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	rec := ts.do(t, http.MethodGet, "/jobs/"+job.ID.String()+"/applications", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"applications":[]`)
}

func TestShortlist_NoApplications(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)

	rec := ts.do(t, http.MethodPost, "/jobs/"+job.ID.String()+"/shortlist", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ShortlistResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.ShortlistedIDs)
}

func TestShortlist_Workbook(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)
	ts.submit(t, job.ID, "alice", "Java and SQL developer.")

	rec := ts.do(t, http.MethodPost, "/jobs/"+job.ID.String()+"/shortlist?format=xlsx", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), job.ID.String())

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	name, err := f.GetCellValue(export.CandidatesSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestCriteria_GetAndUpdate(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)
	path := "/jobs/" + job.ID.String() + "/criteria"

	rec := ts.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var defaults types.JobCriteria
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &defaults))
	assert.Equal(t, []string{"java", "sql"}, defaults.RequiredSkills)
	assert.Equal(t, 3, defaults.MinimumYearsExperience)
	assert.Equal(t, types.DefaultWeights(), defaults.Weights)

	update := `{
		"required_skills": ["go"],
		"preferred_skills": ["kubernetes"],
		"minimum_years_experience": 5,
		"required_education_levels": ["MASTERS"],
		"keywords": ["distributed"],
		"weights": {"skills": 1, "experience": 1, "education": 0, "keywords": 0}
	}`
	rec = ts.do(t, http.MethodPut, path, []byte(update), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stored types.JobCriteria
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, job.ID, stored.JobID)
	assert.Equal(t, []string{"go"}, stored.RequiredSkills)
	assert.Equal(t, []types.EducationLevel{types.EducationMasters}, stored.RequiredEducationLevels)
	assert.Equal(t, 5, stored.MinimumYearsExperience)
}

func TestCriteria_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"negative weight", http.MethodPut, "/jobs/" + job.ID.String() + "/criteria",
			`{"weights": {"skills": -1, "experience": 0, "education": 0, "keywords": 0}}`, http.StatusBadRequest},
		{"unknown field", http.MethodPut, "/jobs/" + job.ID.String() + "/criteria",
			`{"bonus": 1, "weights": {"skills": 1, "experience": 0, "education": 0, "keywords": 0}}`, http.StatusBadRequest},
		{"unknown job", http.MethodPut, "/jobs/" + uuid.NewString() + "/criteria",
			`{"weights": {"skills": 1, "experience": 0, "education": 0, "keywords": 0}}`, http.StatusNotFound},
		{"get unknown job", http.MethodGet, "/jobs/" + uuid.NewString() + "/criteria", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.path, []byte(tt.body), "application/json")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestToggleShortlist(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t)
	resp := ts.submit(t, job.ID, "alice", "")
	path := "/applications/" + resp.Application.ID.String() + "/toggle-shortlist"

	rec := ts.do(t, http.MethodPatch, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var app types.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	assert.True(t, app.Shortlisted)

	rec = ts.do(t, http.MethodPatch, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	assert.False(t, app.Shortlisted)

	rec = ts.do(t, http.MethodPatch, "/applications/"+uuid.NewString()+"/toggle-shortlist", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProfile_NotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/applications/"+uuid.NewString()+"/profile", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/applications/bad/profile", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtract(t *testing.T) {
	ts := newTestServer(t, nil)

	body, ct := multipartBody(t, nil, map[string][2]string{
		"file": {"resume.html", "<html><body><p>Python and Docker.</p><p>Master of Science, 2019 - 2024</p></body></html>"},
	})
	rec := ts.do(t, http.MethodPost, "/extract", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profile types.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Contains(t, profile.Skills, "python")
	assert.Contains(t, profile.Skills, "docker")
	assert.Equal(t, types.EducationMasters, profile.EducationLevel)
	assert.Equal(t, types.StatusSuccess, profile.Status)
}

func TestExtract_Errors(t *testing.T) {
	ts := newTestServer(t, nil)

	body, ct := multipartBody(t, nil, map[string][2]string{"file": {"resume.exe", "MZ"}})
	rec := ts.do(t, http.MethodPost, "/extract", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body, ct = multipartBody(t, map[string]string{"note": "no file"}, nil)
	rec = ts.do(t, http.MethodPost, "/extract", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit_Shortlist(t *testing.T) {
	ts := newTestServer(t, &ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(1, time.Hour),
	})
	path := "/jobs/" + uuid.NewString() + "/shortlist"

	rec := ts.do(t, http.MethodPost, path, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = ts.do(t, http.MethodPost, path, nil, "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rate_limit_exceeded", body["error"])

	// other endpoints keep their own buckets
	rec = ts.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExtractClientID(t *testing.T) {
	ts := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.7:53211"
	assert.Equal(t, "10.0.0.7", ts.extractClientID(req))

	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", ts.extractClientID(req))
}
