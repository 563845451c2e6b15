package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/profile-optimizer/internal/db"
	"github.com/jonathan/profile-optimizer/internal/export"
	"github.com/jonathan/profile-optimizer/internal/logger"
	"github.com/jonathan/profile-optimizer/internal/queue"
	"github.com/jonathan/profile-optimizer/internal/schemas"
	"github.com/jonathan/profile-optimizer/internal/server/middleware"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 2 << 20

// analysisRequest is the body of POST /analyses.
type analysisRequest struct {
	ProfileID *uuid.UUID          `json:"profile_id,omitempty"`
	Profile   *types.ProfileInput `json:"profile,omitempty"`
	JobID     *uuid.UUID          `json:"job_id,omitempty"`
	Job       *types.JobContext   `json:"job,omitempty"`
	Persist   bool                `json:"persist,omitempty"`
}

// analysisResponse is the body returned by POST /analyses.
type analysisResponse struct {
	ReportID    *uuid.UUID            `json:"report_id,omitempty"`
	Fingerprint string                `json:"fingerprint"`
	Cached      bool                  `json:"cached"`
	Report      *types.AnalysisReport `json:"report"`
}

// asyncAnalysisRequest is the body of POST /analyses/async.
type asyncAnalysisRequest struct {
	ProfileID uuid.UUID  `json:"profile_id"`
	JobID     *uuid.UUID `json:"job_id,omitempty"`
}

// matchRequest is the body of POST /jobs/analysis.
type matchRequest struct {
	JobText    string `json:"job_text"`
	ResumeText string `json:"resume_text"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.repo.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze scores a profile, optionally against a job, and optionally stores the report.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req analysisRequest
	if err := decodeValidated(w, r, schemas.AnalysisRequest, &req); err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	profile, err := s.resolveProfile(ctx, principal, &req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	job, err := s.resolveJob(ctx, principal, &req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, fingerprint, cached, err := s.analyze(ctx, profile, job)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := analysisResponse{Fingerprint: fingerprint, Cached: cached, Report: report}
	status := http.StatusOK
	if req.Persist {
		rec, err := s.repo.SaveReport(ctx, &db.ReportCreateInput{
			UserID:      principal.UserID,
			ProfileID:   req.ProfileID,
			JobID:       req.JobID,
			Title:       types.ReportTitle(profile, job),
			Fingerprint: fingerprint,
			Report:      report,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.ReportID = &rec.ID
		status = http.StatusCreated
		s.logger.Info("report saved",
			zap.String(logger.FieldReportID, rec.ID.String()),
			zap.String(logger.FieldUserID, principal.UserID.String()),
			zap.Int("overall_score", report.OverallScore))
	}
	s.jsonResponse(w, status, resp)
}

// resolveProfile returns the inline profile or loads the referenced one.
func (s *Server) resolveProfile(ctx context.Context, p middleware.Principal, req *analysisRequest) (*types.ProfileInput, error) {
	if req.ProfileID == nil {
		if req.Profile == nil {
			return nil, &ErrValidation{Field: "profile", Message: "profile or profile_id is required"}
		}
		if err := req.Profile.Validate(); err != nil {
			return nil, invalid("profile", err)
		}
		return req.Profile, nil
	}

	rec, err := s.repo.GetProfile(ctx, *req.ProfileID)
	if err != nil {
		return nil, err
	}
	if !s.admins.CanAccess(p, rec.UserID) {
		return nil, fmt.Errorf("profile %s: %w", req.ProfileID, ErrForbidden)
	}
	return &rec.Profile, nil
}

// resolveJob returns the inline job, the referenced one, or nil.
func (s *Server) resolveJob(ctx context.Context, p middleware.Principal, req *analysisRequest) (*types.JobContext, error) {
	if req.JobID == nil {
		if req.Job == nil {
			return nil, nil
		}
		if err := req.Job.Validate(); err != nil {
			return nil, invalid("job", err)
		}
		return req.Job, nil
	}

	rec, err := s.repo.GetJob(ctx, *req.JobID)
	if err != nil {
		return nil, err
	}
	if !s.admins.CanAccess(p, rec.UserID) {
		return nil, fmt.Errorf("job %s: %w", req.JobID, ErrForbidden)
	}
	return &rec.Job, nil
}

// analyze runs the engine, serving and filling the report cache when one is configured.
func (s *Server) analyze(ctx context.Context, profile *types.ProfileInput, job *types.JobContext) (*types.AnalysisReport, string, bool, error) {
	fingerprint, err := s.analyzer.Fingerprint(profile, job)
	if err != nil {
		return nil, "", false, err
	}

	if s.cache != nil {
		report, ok, err := s.cache.Get(ctx, fingerprint)
		if err != nil {
			s.logger.Warn("report cache read failed", zap.Error(err))
		} else if ok {
			return report, fingerprint, true, nil
		}
	}

	report, err := s.analyzer.AnalyzeProfile(ctx, profile, job)
	if err != nil {
		return nil, "", false, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, fingerprint, report); err != nil {
			s.logger.Warn("report cache write failed", zap.Error(err))
		}
	}
	return report, fingerprint, false, nil
}

// handleAnalyzeAsync queues an analysis of a stored profile for the worker.
func (s *Server) handleAnalyzeAsync(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if s.queue == nil {
		s.writeError(w, ErrQueueNotConfigured)
		return
	}

	var req asyncAnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.ProfileID == uuid.Nil {
		s.writeError(w, &ErrValidation{Field: "profile_id", Message: "is required"})
		return
	}

	// The worker analyzes on behalf of the owner, so only the owner may queue.
	ctx := r.Context()
	profile, err := s.repo.GetProfile(ctx, req.ProfileID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if profile.UserID != principal.UserID {
		s.writeError(w, ErrForbidden)
		return
	}
	if req.JobID != nil {
		job, err := s.repo.GetJob(ctx, *req.JobID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if job.UserID != principal.UserID {
			s.writeError(w, ErrForbidden)
			return
		}
	}

	msg := queue.AnalysisRequest{
		RequestID: uuid.New(),
		UserID:    principal.UserID,
		ProfileID: req.ProfileID,
		JobID:     req.JobID,
	}
	if err := s.queue.Enqueue(ctx, msg); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("analysis queued",
		zap.String(logger.FieldRequestID, msg.RequestID.String()),
		zap.String(logger.FieldProfileID, msg.ProfileID.String()))
	s.jsonResponse(w, http.StatusAccepted, map[string]string{"request_id": msg.RequestID.String()})
}

// handleMatchJob scores the keyword overlap of a resume with a job posting.
func (s *Server) handleMatchJob(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.analyzer.MatchJobToResume(req.JobText, req.ResumeText)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleListReports lists stored reports. Admins see every user's reports.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filters, err := parseReportFilters(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	list, err := s.repo.ListReports(r.Context(), s.admins.ListScope(principal), filters)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, list)
}

// parseReportFilters reads the listing filters from the query string.
func parseReportFilters(r *http.Request) (types.ReportFilters, error) {
	q := r.URL.Query()
	filters := types.ReportFilters{
		Search:      q.Get("search"),
		ScoreFilter: types.ScoreFilter(q.Get("score")),
		SortBy:      types.SortBy(q.Get("sort")),
	}

	var err error
	if filters.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return filters, err
	}
	if filters.Offset, err = intParam(q.Get("offset"), "offset"); err != nil {
		return filters, err
	}

	normalized, err := filters.Normalize()
	if err != nil {
		return filters, &ErrValidation{Field: "query", Message: err.Error()}
	}
	return normalized, nil
}

func intParam(value, name string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ErrValidation{Field: name, Message: "must be an integer"}
	}
	return n, nil
}

// handleGetReport returns one stored report.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.accessibleReport(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleDeleteReport deletes one stored report.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.accessibleReport(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.repo.DeleteReport(r.Context(), rec.ID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportReport uploads a stored report to object storage.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.writeError(w, export.ErrNotConfigured)
		return
	}
	rec, err := s.accessibleReport(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	key, err := s.exporter.ExportReport(r.Context(), rec.ID, &rec.Report)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"report_id": rec.ID.String(), "key": key})
}

// accessibleReport loads the report named by the {id} path value if the caller may see it.
func (s *Server) accessibleReport(r *http.Request) (*db.ReportRecord, error) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		return nil, ErrForbidden
	}
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.GetReport(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if !s.admins.CanAccess(principal, rec.UserID) {
		return nil, fmt.Errorf("report %s: %w", id, ErrForbidden)
	}
	return rec, nil
}

// handleCreateJob stores a job posting for later analyses.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var job types.JobContext
	if err := decodeValidated(w, r, schemas.JobContext, &job); err != nil {
		s.writeError(w, err)
		return
	}
	if err := job.Validate(); err != nil {
		s.writeError(w, invalid("job", err))
		return
	}
	job.ID = uuid.Nil

	id, err := s.repo.SaveJob(r.Context(), userID, &job)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// handleSaveProfile creates a profile, or replaces one the caller owns when the body carries its id.
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var profile types.ProfileInput
	if err := decodeValidated(w, r, schemas.ProfileInput, &profile); err != nil {
		s.writeError(w, err)
		return
	}
	if err := profile.Validate(); err != nil {
		s.writeError(w, invalid("profile", err))
		return
	}

	id, err := s.repo.SaveProfile(r.Context(), userID, &profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	status := http.StatusCreated
	if profile.ID != uuid.Nil {
		status = http.StatusOK
	}
	s.jsonResponse(w, status, map[string]string{"id": id.String()})
}

// handleDeleteProfile deletes a profile the caller may access.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec, err := s.repo.GetProfile(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !s.admins.CanAccess(principal, rec.UserID) {
		s.writeError(w, ErrForbidden)
		return
	}
	if err := s.repo.DeleteProfile(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if len(body) == 0 {
		return nil, &ErrValidation{Field: "body", Message: "is empty"}
	}
	return body, nil
}

// decodeJSON reads a bounded body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// decodeValidated checks the body against a schema before decoding it into v.
func decodeValidated(w http.ResponseWriter, r *http.Request, schema string, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if !json.Valid(body) {
		return &ErrValidation{Field: "body", Message: "is not valid JSON"}
	}
	if err := schemas.Validate(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// invalid marks a struct validation failure as a client error, keeping field-level detail when present.
func invalid(field string, err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return err
	}
	return &ErrValidation{Field: field, Message: err.Error()}
}

// writeError maps err to a status and writes it. Internal errors are logged and not echoed.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		s.errorResponse(w, status, "internal server error")
		return
	}

	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		s.jsonResponse(w, status, map[string]any{"error": "invalid request body", "details": schemaErr.Errors})
		return
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]schemas.FieldError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, schemas.FieldError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed %q constraint", fe.Tag()),
			})
		}
		s.jsonResponse(w, status, map[string]any{"error": "invalid request body", "details": details})
		return
	}
	s.errorResponse(w, status, err.Error())
}
