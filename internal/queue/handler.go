package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/profile-optimizer/internal/db"
	"github.com/jonathan/profile-optimizer/internal/logger"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// Repository loads analysis inputs and stores reports.
type Repository interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*db.ProfileRecord, error)
	GetJob(ctx context.Context, id uuid.UUID) (*db.JobRecord, error)
	SaveReport(ctx context.Context, input *db.ReportCreateInput) (*db.ReportRecord, error)
}

// Analyzer produces reports. *optimizer.Engine satisfies it.
type Analyzer interface {
	AnalyzeProfile(ctx context.Context, profile *types.ProfileInput, job *types.JobContext) (*types.AnalysisReport, error)
	Fingerprint(profile *types.ProfileInput, job *types.JobContext) (string, error)
}

// Publisher delivers status updates.
type Publisher interface {
	Publish(ctx context.Context, update StatusUpdate) error
}

// Handler processes one analysis request end to end.
type Handler struct {
	repo      Repository
	analyzer  Analyzer
	publisher Publisher
	logger    *zap.Logger

	maxAttempts int
	backoff     time.Duration
	sleep       func(time.Duration)
	now         func() time.Time
}

// NewHandler creates a handler that retries transient repository errors up to maxAttempts times.
func NewHandler(repo Repository, analyzer Analyzer, publisher Publisher, maxAttempts int, log *zap.Logger) *Handler {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Handler{
		repo:        repo,
		analyzer:    analyzer,
		publisher:   publisher,
		logger:      logger.OrNop(log),
		maxAttempts: maxAttempts,
		backoff:     500 * time.Millisecond,
		sleep:       time.Sleep,
		now:         time.Now,
	}
}

// Handle processes a raw delivery body. It returns a MalformedMessageError for bodies that can
// never succeed; any other error means the analysis failed and a failed status was published.
func (h *Handler) Handle(ctx context.Context, body []byte) error {
	req, err := DecodeRequest(body)
	if err != nil {
		if req != nil && req.RequestID != uuid.Nil {
			h.publish(ctx, req.RequestID, nil, StatusFailed, "invalid analysis request")
		}
		return err
	}

	log := h.logger.With(
		zap.String(logger.FieldRequestID, req.RequestID.String()),
		zap.String(logger.FieldProfileID, req.ProfileID.String()),
	)
	h.publish(ctx, req.RequestID, nil, StatusProcessing, "analysis started")

	reportID, err := h.process(ctx, req)
	if err != nil {
		log.Warn("analysis failed", zap.Error(err))
		h.publish(ctx, req.RequestID, nil, StatusFailed, "analysis failed")
		return err
	}

	log.Info("analysis completed", zap.String(logger.FieldReportID, reportID.String()))
	h.publish(ctx, req.RequestID, &reportID, StatusCompleted, "analysis completed")
	return nil
}

func (h *Handler) process(ctx context.Context, req *AnalysisRequest) (uuid.UUID, error) {
	profileRec, err := retry(ctx, h, func() (*db.ProfileRecord, error) {
		return h.repo.GetProfile(ctx, req.ProfileID)
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profileRec.UserID != req.UserID {
		return uuid.Nil, fmt.Errorf("profile %s: %w", req.ProfileID, db.ErrNotFound)
	}

	var job *types.JobContext
	if req.JobID != nil {
		jobRec, err := retry(ctx, h, func() (*db.JobRecord, error) {
			return h.repo.GetJob(ctx, *req.JobID)
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to load job: %w", err)
		}
		if jobRec.UserID != req.UserID {
			return uuid.Nil, fmt.Errorf("job posting %s: %w", *req.JobID, db.ErrNotFound)
		}
		job = &jobRec.Job
	}

	profile := &profileRec.Profile
	report, err := h.analyzer.AnalyzeProfile(ctx, profile, job)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to analyze profile: %w", err)
	}
	fingerprint, err := h.analyzer.Fingerprint(profile, job)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to fingerprint analysis: %w", err)
	}

	profileID := req.ProfileID
	saved, err := retry(ctx, h, func() (*db.ReportRecord, error) {
		return h.repo.SaveReport(ctx, &db.ReportCreateInput{
			UserID:      req.UserID,
			ProfileID:   &profileID,
			JobID:       req.JobID,
			Title:       types.ReportTitle(profile, job),
			Fingerprint: fingerprint,
			Report:      report,
		})
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save report: %w", err)
	}
	return saved.ID, nil
}

func (h *Handler) publish(ctx context.Context, requestID uuid.UUID, reportID *uuid.UUID, status Status, message string) {
	update := StatusUpdate{
		RequestID: requestID,
		ReportID:  reportID,
		Status:    status,
		Message:   message,
		Timestamp: h.now().UTC(),
	}
	if err := h.publisher.Publish(ctx, update); err != nil {
		h.logger.Warn("failed to publish status update",
			zap.String(logger.FieldRequestID, requestID.String()),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
}

// retry calls fn until it succeeds, returns a permanent error, or attempts run out.
// Not-found is permanent; the wait grows linearly between attempts.
func retry[T any](ctx context.Context, h *Handler, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for i := 0; i < h.maxAttempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if errors.Is(err, db.ErrNotFound) {
			return zero, err
		}
		lastErr = err
		if i == h.maxAttempts-1 {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		h.sleep(time.Duration(i+1) * h.backoff)
	}
	return zero, fmt.Errorf("after %d attempts: %w", h.maxAttempts, lastErr)
}
