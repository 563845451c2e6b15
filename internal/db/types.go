package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// ProfileRecord is a stored profile with its owner.
type ProfileRecord struct {
	UserID    uuid.UUID          `json:"user_id"`
	Profile   types.ProfileInput `json:"profile"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// JobRecord is a stored job posting with its owner.
type JobRecord struct {
	UserID    uuid.UUID        `json:"user_id"`
	Job       types.JobContext `json:"job"`
	CreatedAt time.Time        `json:"created_at"`
}

// ReportCreateInput is everything needed to persist an analysis report.
type ReportCreateInput struct {
	UserID      uuid.UUID
	ProfileID   *uuid.UUID
	JobID       *uuid.UUID
	Title       string
	Fingerprint string
	Report      *types.AnalysisReport
}

// ReportRecord is a stored analysis report.
type ReportRecord struct {
	ID          uuid.UUID            `json:"id"`
	UserID      uuid.UUID            `json:"user_id"`
	ProfileID   *uuid.UUID           `json:"profile_id,omitempty"`
	JobID       *uuid.UUID           `json:"job_id,omitempty"`
	Title       string               `json:"title"`
	Fingerprint string               `json:"fingerprint"`
	Report      types.AnalysisReport `json:"report"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ReportSummary is a lightweight view of a report for listing.
type ReportSummary struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	ProfileID        *uuid.UUID `json:"profile_id,omitempty"`
	JobID            *uuid.UUID `json:"job_id,omitempty"`
	Title            string     `json:"title"`
	OverallScore     int        `json:"overall_score"`
	ReadabilityScore int        `json:"readability_score"`
	GeneratedAt      time.Time  `json:"generated_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ReportList is one page of report summaries plus the total number of matching rows.
type ReportList struct {
	Reports []ReportSummary `json:"reports"`
	Total   int             `json:"total"`
}
