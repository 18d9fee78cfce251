package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/db"
	"github.com/jonathan/cv-shortlister/internal/export"
	"github.com/jonathan/cv-shortlister/internal/schemas"
	"github.com/jonathan/cv-shortlister/internal/shortlist"
	"github.com/jonathan/cv-shortlister/internal/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListJobsResponse represents the response for listing jobs
type ListJobsResponse struct {
	Jobs  []types.Job `json:"jobs"`
	Count int         `json:"count"`
	Limit int         `json:"limit"`
}

// ShortlistResponse represents the response for a shortlisting run
type ShortlistResponse struct {
	JobID          uuid.UUID               `json:"job_id"`
	TopN           int                     `json:"top_n"`
	ShortlistedIDs []uuid.UUID             `json:"shortlisted_ids"`
	Results        []types.ShortlistResult `json:"results"`
}

// ListApplicationsResponse represents the response for listing a job's applications
type ListApplicationsResponse struct {
	JobID        uuid.UUID           `json:"job_id"`
	Applications []types.Application `json:"applications"`
	Count        int                 `json:"count"`
}

// SubmitResponse represents the response for a submitted application
type SubmitResponse struct {
	Application *types.Application `json:"application"`
	Profile     *types.Profile     `json:"profile,omitempty"`
}

// parseQueryInt reads a non-negative integer query parameter, falling back to
// defaultValue when absent or malformed and capping it at maxValue when positive.
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// pathID parses the {id} path value, writing a 400 response when it is not a UUID.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+name+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// handleListJobs lists the most recent jobs
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50, 100)

	jobs, err := s.jobs.ListJobs(r.Context(), limit)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []types.Job{}
	}

	s.jsonResponse(w, http.StatusOK, ListJobsResponse{
		Jobs:  jobs,
		Count: len(jobs),
		Limit: limit,
	})
}

// handleCreateJob creates a job from a JSON body
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var input db.JobCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	job, err := s.jobs.CreateJob(r.Context(), &input)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, job)
}

// handleGetJob returns a single job
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathID(w, r, "job")
	if !ok {
		return
	}

	job, err := s.jobs.GetJob(r.Context(), jobID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleShortlist scores a job's applications and flags the top N.
// With format=xlsx the ranked list is returned as a workbook.
func (s *Server) handleShortlist(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathID(w, r, "job")
	if !ok {
		return
	}

	topN := s.defaultTopN
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.serviceError(w, r, &ErrValidation{Field: "top_n", Message: "must be an integer"})
			return
		}
		topN = n
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != "" && format != "json" && format != "xlsx" {
		s.serviceError(w, r, &ErrValidation{Field: "format", Message: "use json or xlsx"})
		return
	}

	results, err := s.service.Shortlist(r.Context(), jobID, topN)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	if format == "xlsx" {
		job, err := s.jobs.GetJob(r.Context(), jobID)
		if err != nil || job == nil {
			job = &types.Job{ID: jobID}
		}
		var buf bytes.Buffer
		if err := export.WriteShortlist(&buf, job, results); err != nil {
			s.serviceError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="shortlist-%s.xlsx"`, jobID))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}

	ids := []uuid.UUID{}
	for _, res := range results {
		if res.Shortlisted {
			ids = append(ids, res.ApplicationID)
		}
	}

	s.jsonResponse(w, http.StatusOK, ShortlistResponse{
		JobID:          jobID,
		TopN:           topN,
		ShortlistedIDs: ids,
		Results:        results,
	})
}

// handleListApplications lists a job's applications without scoring them.
// shortlisted=true narrows the list to the currently flagged applications.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathID(w, r, "job")
	if !ok {
		return
	}

	shortlistedOnly := false
	if raw := r.URL.Query().Get("shortlisted"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.serviceError(w, r, &ErrValidation{Field: "shortlisted", Message: "must be true or false"})
			return
		}
		shortlistedOnly = v
	}

	s.writeApplications(w, r, jobID, shortlistedOnly)
}

// handleGetShortlist returns the currently shortlisted applications of a job
func (s *Server) handleGetShortlist(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathID(w, r, "job")
	if !ok {
		return
	}
	s.writeApplications(w, r, jobID, true)
}

func (s *Server) writeApplications(w http.ResponseWriter, r *http.Request, jobID uuid.UUID, shortlistedOnly bool) {
	apps, err := s.service.Applications(r.Context(), jobID, shortlistedOnly)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ListApplicationsResponse{
		JobID:        jobID,
		Applications: apps,
		Count:        len(apps),
	})
}

// handleGetCriteria returns a job's criteria, creating defaults on first access
func (s *Server) handleGetCriteria(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathID(w, r, "job")
	if !ok {
		return
	}

	crit, err := s.service.Criteria(r.Context(), jobID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, crit)
}

// handleUpdateCriteria replaces a job's criteria with a schema-checked document
func (s *Server) handleUpdateCriteria(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathID(w, r, "job")
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if err := schemas.ValidateCriteria(body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, strings.TrimSpace(err.Error()))
		return
	}

	var crit types.JobCriteria
	if err := json.Unmarshal(body, &crit); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	crit.JobID = jobID

	if err := s.service.UpdateCriteria(r.Context(), &crit); err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, &crit)
}

// handleSubmitApplication stores a multipart application and profiles its CV
func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathID(w, r, "job")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	sub := shortlist.Submission{
		JobID:          jobID,
		CandidateName:  strings.TrimSpace(r.FormValue("candidate_name")),
		CandidateEmail: strings.TrimSpace(r.FormValue("candidate_email")),
		SkillsSummary:  r.FormValue("skills_summary"),
	}

	cv, cvFile, err := formDocument(r, "cv")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if cvFile != nil {
		defer cvFile.Close()
	}
	sub.CV = cv

	letter, letterFile, err := formDocument(r, "cover_letter")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if letterFile != nil {
		defer letterFile.Close()
	}
	sub.CoverLetter = letter

	app, profile, err := s.service.Submit(r.Context(), sub)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, SubmitResponse{
		Application: app,
		Profile:     profile,
	})
}

// formDocument returns the uploaded file of a form field, or nil when the field is absent.
func formDocument(r *http.Request, field string) (*shortlist.Document, multipart.File, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("invalid %s upload: %w", field, err)
	}
	return &shortlist.Document{Filename: header.Filename, Content: file}, file, nil
}

// handleToggleShortlist flips an application's shortlisted flag
func (s *Server) handleToggleShortlist(w http.ResponseWriter, r *http.Request) {
	appID, ok := s.pathID(w, r, "application")
	if !ok {
		return
	}

	app, err := s.service.ToggleShortlist(r.Context(), appID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

// handleGetProfile returns the cached profile of an application
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	appID, ok := s.pathID(w, r, "application")
	if !ok {
		return
	}

	profile, err := s.service.Profile(r.Context(), appID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

// handleExtract profiles an uploaded document without persisting anything
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	profile, err := s.service.Profiler().ExtractText(r.Context(), header.Filename, data)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}
