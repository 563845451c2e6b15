// Package queue runs profile analyses requested over RabbitMQ and publishes their progress.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrMalformedMessage marks a delivery that can never be processed.
var ErrMalformedMessage = errors.New("malformed message")

// Status is the lifecycle state of a queued analysis.
type Status string

// Analysis statuses
const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// AnalysisRequest asks the worker to analyze a stored profile, optionally against a stored job.
type AnalysisRequest struct {
	RequestID uuid.UUID  `json:"request_id"`
	UserID    uuid.UUID  `json:"user_id"`
	ProfileID uuid.UUID  `json:"profile_id"`
	JobID     *uuid.UUID `json:"job_id,omitempty"`
}

// StatusUpdate reports the progress of an analysis request.
type StatusUpdate struct {
	RequestID uuid.UUID  `json:"request_id"`
	ReportID  *uuid.UUID `json:"report_id,omitempty"`
	Status    Status     `json:"status"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
}

// RoutingKey is the topic routing key the update is published under.
func (u StatusUpdate) RoutingKey() string {
	return fmt.Sprintf("analysis.%s", u.RequestID)
}

// MalformedMessageError describes why a delivery was rejected.
type MalformedMessageError struct {
	Reason string
	Cause  error
}

func (e *MalformedMessageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed message: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("malformed message: %s", e.Reason)
}

func (e *MalformedMessageError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrMalformedMessage) true for any MalformedMessageError.
func (e *MalformedMessageError) Is(target error) bool {
	return target == ErrMalformedMessage
}

// DecodeRequest parses and checks a delivery body.
func DecodeRequest(body []byte) (*AnalysisRequest, error) {
	var req AnalysisRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &MalformedMessageError{Reason: "invalid JSON", Cause: err}
	}
	switch {
	case req.RequestID == uuid.Nil:
		return &req, &MalformedMessageError{Reason: "request_id is required"}
	case req.UserID == uuid.Nil:
		return &req, &MalformedMessageError{Reason: "user_id is required"}
	case req.ProfileID == uuid.Nil:
		return &req, &MalformedMessageError{Reason: "profile_id is required"}
	case req.JobID != nil && *req.JobID == uuid.Nil:
		return &req, &MalformedMessageError{Reason: "job_id must not be the nil UUID"}
	}
	return &req, nil
}
